// Package seed loads the reference instrument catalog and a starter
// portfolio for the default user.
package seed

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/equityflow/order-engine/internal/core"
	"github.com/equityflow/order-engine/internal/domain"
	"github.com/equityflow/order-engine/internal/port"
)

var instruments = []domain.Instrument{
	{Symbol: "RELIANCE", Exchange: "NSE", Type: domain.Equity, LastTradedPrice: 2456.75},
	{Symbol: "TCS", Exchange: "NSE", Type: domain.Equity, LastTradedPrice: 3890.50},
	{Symbol: "INFY", Exchange: "NSE", Type: domain.Equity, LastTradedPrice: 1567.25},
	{Symbol: "HDFC", Exchange: "NSE", Type: domain.Equity, LastTradedPrice: 1678.90},
	{Symbol: "ICICIBANK", Exchange: "NSE", Type: domain.Equity, LastTradedPrice: 945.30},
	{Symbol: "WIPRO", Exchange: "NSE", Type: domain.Equity, LastTradedPrice: 412.80},
	{Symbol: "HCLTECH", Exchange: "NSE", Type: domain.Equity, LastTradedPrice: 1234.50},
	{Symbol: "SBIN", Exchange: "NSE", Type: domain.Equity, LastTradedPrice: 567.25},
	{Symbol: "BAJFINANCE", Exchange: "NSE", Type: domain.Equity, LastTradedPrice: 6789.00},
	{Symbol: "TATAMOTORS", Exchange: "NSE", Type: domain.Equity, LastTradedPrice: 678.45},
	{Symbol: "RELIANCE", Exchange: "BSE", Type: domain.Equity, LastTradedPrice: 2455.50},
	{Symbol: "TCS", Exchange: "BSE", Type: domain.Equity, LastTradedPrice: 3888.25},
	{Symbol: "NIFTYBEES", Exchange: "NSE", Type: domain.ETF, LastTradedPrice: 245.60},
	{Symbol: "BANKBEES", Exchange: "NSE", Type: domain.ETF, LastTradedPrice: 432.15},
	{Symbol: "GOLDBEES", Exchange: "NSE", Type: domain.ETF, LastTradedPrice: 52.80},
}

var holdings = []domain.Holding{
	{Symbol: "RELIANCE", Exchange: "NSE", Quantity: 50, AveragePrice: 2400.00},
	{Symbol: "TCS", Exchange: "NSE", Quantity: 25, AveragePrice: 3750.00},
	{Symbol: "INFY", Exchange: "NSE", Quantity: 100, AveragePrice: 1500.00},
	{Symbol: "NIFTYBEES", Exchange: "NSE", Quantity: 200, AveragePrice: 240.00},
}

// Load seeds the catalog and the default user's starting positions.
// Any cached portfolio snapshot for the user is dropped: a snapshot
// from a previous process can outlive a reseeded store.
func Load(ctx context.Context, catalog *core.Catalog, ledger *core.Ledger, cache port.PortfolioCache, userID string, logger *slog.Logger) error {
	for _, inst := range instruments {
		if err := catalog.Save(ctx, &inst); err != nil {
			return fmt.Errorf("seed: instrument %s/%s: %w", inst.Symbol, inst.Exchange, err)
		}
	}
	for _, h := range holdings {
		h.UserID = userID
		if err := ledger.SaveHolding(ctx, &h); err != nil {
			return fmt.Errorf("seed: holding %s/%s: %w", h.Symbol, h.Exchange, err)
		}
	}
	if cache != nil {
		if err := cache.Invalidate(ctx, userID); err != nil {
			logger.WarnContext(ctx, "seed: portfolio cache invalidate failed",
				slog.String("user_id", userID),
				slog.String("error", err.Error()),
			)
		}
	}
	logger.InfoContext(ctx, "seed: sample data loaded",
		slog.Int("instruments", len(instruments)),
		slog.Int("holdings", len(holdings)),
		slog.String("user_id", userID),
	)
	return nil
}
