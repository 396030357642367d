package core

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/equityflow/order-engine/internal/domain"
	"github.com/equityflow/order-engine/internal/port"
)

// Ledger owns every mutation of per-user holdings and the weighted
// average-price accumulation algorithm. Only the engine's execution
// step calls AddHolding/RemoveHolding; the engine lock linearizes
// those calls.
type Ledger struct {
	repo    port.PortfolioRepository
	catalog *Catalog
	logger  *slog.Logger
}

func NewLedger(repo port.PortfolioRepository, catalog *Catalog, logger *slog.Logger) *Ledger {
	return &Ledger{repo: repo, catalog: catalog, logger: logger}
}

// AddHolding accumulates a BUY execution into the position. An
// existing holding gets the acquisition-cost-basis update:
//
//	newAvg = (oldQty*oldAvg + qty*price) / (oldQty + qty)
//
// computed in decimal so the weighting is exact.
func (l *Ledger) AddHolding(ctx context.Context, userID, symbol, exchange string, quantity int64, price float64) (*domain.Holding, error) {
	if quantity <= 0 || price <= 0 {
		return nil, fmt.Errorf("ledger: quantity and price must be positive: %w", domain.ErrInvalidArgument)
	}
	symbol, exchange = normalize(symbol), normalize(exchange)

	existing, err := l.repo.Find(ctx, userID, symbol, exchange)
	if err != nil {
		return nil, fmt.Errorf("ledger: find holding: %w", err)
	}

	var h *domain.Holding
	if existing != nil {
		newQuantity := existing.Quantity + quantity
		oldCost := decimal.NewFromInt(existing.Quantity).Mul(decimal.NewFromFloat(existing.AveragePrice))
		addCost := decimal.NewFromInt(quantity).Mul(decimal.NewFromFloat(price))
		newAverage := oldCost.Add(addCost).Div(decimal.NewFromInt(newQuantity))

		h = existing
		h.Quantity = newQuantity
		h.AveragePrice = newAverage.InexactFloat64()
	} else {
		h = &domain.Holding{
			UserID:       userID,
			Symbol:       symbol,
			Exchange:     exchange,
			Quantity:     quantity,
			AveragePrice: price,
		}
	}

	if err := l.refresh(ctx, h); err != nil {
		return nil, err
	}
	if err := l.repo.Save(ctx, h); err != nil {
		return nil, fmt.Errorf("ledger: save holding: %w", err)
	}

	l.logger.InfoContext(ctx, "ledger: holding accumulated",
		slog.String("user_id", userID),
		slog.String("symbol", symbol),
		slog.String("exchange", exchange),
		slog.Int64("quantity", h.Quantity),
		slog.Float64("average_price", h.AveragePrice),
	)
	return h, nil
}

// RemoveHolding reduces the position after a SELL execution. Selling
// keeps the average cost basis; reducing to zero (or below, which the
// engine's validation makes unreachable) deletes the record and
// returns (nil, nil).
func (l *Ledger) RemoveHolding(ctx context.Context, userID, symbol, exchange string, quantity int64) (*domain.Holding, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("ledger: quantity must be positive: %w", domain.ErrInvalidArgument)
	}
	symbol, exchange = normalize(symbol), normalize(exchange)

	existing, err := l.repo.Find(ctx, userID, symbol, exchange)
	if err != nil {
		return nil, fmt.Errorf("ledger: find holding: %w", err)
	}
	if existing == nil {
		return nil, fmt.Errorf("ledger: holding %s/%s for user %s: %w", symbol, exchange, userID, domain.ErrNotFound)
	}

	newQuantity := existing.Quantity - quantity
	if newQuantity <= 0 {
		if err := l.repo.Delete(ctx, userID, symbol, exchange); err != nil {
			return nil, fmt.Errorf("ledger: delete holding: %w", err)
		}
		l.logger.InfoContext(ctx, "ledger: holding closed",
			slog.String("user_id", userID),
			slog.String("symbol", symbol),
			slog.String("exchange", exchange),
		)
		return nil, nil
	}

	existing.Quantity = newQuantity
	if err := l.refresh(ctx, existing); err != nil {
		return nil, err
	}
	if err := l.repo.Save(ctx, existing); err != nil {
		return nil, fmt.Errorf("ledger: save holding: %w", err)
	}

	l.logger.InfoContext(ctx, "ledger: holding reduced",
		slog.String("user_id", userID),
		slog.String("symbol", symbol),
		slog.String("exchange", exchange),
		slog.Int64("quantity", newQuantity),
	)
	return existing, nil
}

// Query returns all of a user's holdings with derived fields valued
// against the catalog's prices at call time.
func (l *Ledger) Query(ctx context.Context, userID string) ([]*domain.Holding, error) {
	holdings, err := l.repo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("ledger: list holdings: %w", err)
	}
	for _, h := range holdings {
		if err := l.refresh(ctx, h); err != nil {
			return nil, err
		}
	}
	return holdings, nil
}

// GetHolding returns one refreshed holding, or (nil, nil) when the
// user has no position in the instrument.
func (l *Ledger) GetHolding(ctx context.Context, userID, symbol, exchange string) (*domain.Holding, error) {
	h, err := l.repo.Find(ctx, userID, normalize(symbol), normalize(exchange))
	if err != nil || h == nil {
		return nil, err
	}
	if err := l.refresh(ctx, h); err != nil {
		return nil, err
	}
	return h, nil
}

// HasEnoughHoldings reports whether the user holds at least quantity
// shares; an absent holding counts as zero.
func (l *Ledger) HasEnoughHoldings(ctx context.Context, userID, symbol, exchange string, quantity int64) (bool, error) {
	held, err := l.HoldingQuantity(ctx, userID, symbol, exchange)
	if err != nil {
		return false, err
	}
	return held >= quantity, nil
}

func (l *Ledger) HoldingQuantity(ctx context.Context, userID, symbol, exchange string) (int64, error) {
	h, err := l.repo.Find(ctx, userID, normalize(symbol), normalize(exchange))
	if err != nil {
		return 0, fmt.Errorf("ledger: find holding: %w", err)
	}
	if h == nil {
		return 0, nil
	}
	return h.Quantity, nil
}

// SaveHolding stores a holding as-is (seeding hook). Derived fields
// are still recomputed on every read.
func (l *Ledger) SaveHolding(ctx context.Context, h *domain.Holding) error {
	if h.Quantity <= 0 || h.AveragePrice <= 0 {
		return fmt.Errorf("ledger: quantity and average price must be positive: %w", domain.ErrInvalidArgument)
	}
	cp := *h
	cp.Symbol = normalize(h.Symbol)
	cp.Exchange = normalize(h.Exchange)
	return l.repo.Save(ctx, &cp)
}

// Value re-derives the valuation fields for holdings that came from
// outside the repository (e.g. a cached snapshot), so stale derived
// values never reach a caller.
func (l *Ledger) Value(ctx context.Context, holdings []*domain.Holding) error {
	for _, h := range holdings {
		if err := l.refresh(ctx, h); err != nil {
			return err
		}
	}
	return nil
}

func (l *Ledger) refresh(ctx context.Context, h *domain.Holding) error {
	price, ok, err := l.catalog.CurrentPrice(ctx, h.Symbol, h.Exchange)
	if err != nil {
		return fmt.Errorf("ledger: current price for %s/%s: %w", h.Symbol, h.Exchange, err)
	}
	if !ok {
		// Delisted while held; valuation stays at cost.
		price = h.AveragePrice
	}
	applyValuation(h, price)
	return nil
}
