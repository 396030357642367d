package core

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/equityflow/order-engine/internal/domain"
	"github.com/equityflow/order-engine/internal/port"
)

// TradeLog is the append-only record of executions. Entries are
// written exactly once, at execution time, by the engine.
type TradeLog struct {
	repo   port.TradeRepository
	logger *slog.Logger
}

func NewTradeLog(repo port.TradeRepository, logger *slog.Logger) *TradeLog {
	return &TradeLog{repo: repo, logger: logger}
}

// Record writes one execution. Total value is computed in decimal so
// quantity*price round-trips exactly.
func (t *TradeLog) Record(ctx context.Context, orderID, symbol, exchange string, side domain.Side, quantity int64, price float64, userID string) (*domain.Trade, error) {
	total := decimal.NewFromInt(quantity).Mul(decimal.NewFromFloat(price))

	trade := &domain.Trade{
		ID:             newTradeID(),
		OrderID:        orderID,
		Symbol:         symbol,
		Exchange:       exchange,
		Side:           side,
		Quantity:       quantity,
		ExecutionPrice: price,
		TotalValue:     total.InexactFloat64(),
		ExecutedAt:     time.Now(),
		UserID:         userID,
	}
	if err := t.repo.Save(ctx, trade); err != nil {
		return nil, fmt.Errorf("trade log: save trade: %w", err)
	}

	t.logger.InfoContext(ctx, "trade log: execution recorded",
		slog.String("trade_id", trade.ID),
		slog.String("order_id", orderID),
		slog.String("symbol", symbol),
		slog.Int64("quantity", quantity),
		slog.Float64("price", price),
	)
	return trade, nil
}

func (t *TradeLog) ForUser(ctx context.Context, userID string) ([]*domain.Trade, error) {
	return t.repo.FindByUserID(ctx, userID)
}

func (t *TradeLog) ForOrder(ctx context.Context, orderID string) ([]*domain.Trade, error) {
	return t.repo.FindByOrderID(ctx, orderID)
}
