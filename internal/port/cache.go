package port

import (
	"context"

	"github.com/equityflow/order-engine/internal/domain"
)

// PortfolioCache holds a user's most recently valued holdings. A miss
// is (nil, nil); the engine treats the cache as best-effort.
type PortfolioCache interface {
	SetPortfolio(ctx context.Context, userID string, holdings []domain.Holding) error
	GetPortfolio(ctx context.Context, userID string) ([]domain.Holding, error)
	Invalidate(ctx context.Context, userID string) error
}
