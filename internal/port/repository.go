package port

import (
	"context"

	"github.com/equityflow/order-engine/internal/domain"
)

// Point lookups return (nil, nil) when the entity is absent; absence
// is a normal outcome the caller decides how to surface.

type InstrumentRepository interface {
	Save(ctx context.Context, inst *domain.Instrument) error
	Find(ctx context.Context, symbol, exchange string) (*domain.Instrument, error)
	FindAll(ctx context.Context) ([]*domain.Instrument, error)
	Exists(ctx context.Context, symbol, exchange string) (bool, error)
}

type OrderRepository interface {
	Save(ctx context.Context, o *domain.Order) error
	FindByID(ctx context.Context, orderID string) (*domain.Order, error)
	FindByUserID(ctx context.Context, userID string) ([]*domain.Order, error)
}

type TradeRepository interface {
	Save(ctx context.Context, t *domain.Trade) error
	FindByUserID(ctx context.Context, userID string) ([]*domain.Trade, error)
	FindByOrderID(ctx context.Context, orderID string) ([]*domain.Trade, error)
}

type PortfolioRepository interface {
	Save(ctx context.Context, h *domain.Holding) error
	Find(ctx context.Context, userID, symbol, exchange string) (*domain.Holding, error)
	FindByUserID(ctx context.Context, userID string) ([]*domain.Holding, error)
	Delete(ctx context.Context, userID, symbol, exchange string) error
}
