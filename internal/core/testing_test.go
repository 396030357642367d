package core

import (
	"context"
	"io"
	"log/slog"
	"math"
	"testing"

	"github.com/equityflow/order-engine/internal/adapter/in_memory"
	"github.com/equityflow/order-engine/internal/domain"
)

// testKit wires an engine over fresh in-memory stores, with the
// reference catalog entries the scenarios rely on.
type testKit struct {
	catalog *Catalog
	ledger  *Ledger
	trades  *TradeLog
	engine  *Engine
}

func newTestKit(t *testing.T) *testKit {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	catalog := NewCatalog(in_memory.NewInstrumentRepo())
	ledger := NewLedger(in_memory.NewPortfolioRepo(), catalog, logger)
	trades := NewTradeLog(in_memory.NewTradeRepo(), logger)
	engine := NewEngine(catalog, ledger, trades, in_memory.NewOrderRepo(), nil, logger)

	ctx := context.Background()
	seed := []domain.Instrument{
		{Symbol: "RELIANCE", Exchange: "NSE", Type: domain.Equity, LastTradedPrice: 2456.75},
		{Symbol: "TCS", Exchange: "NSE", Type: domain.Equity, LastTradedPrice: 3890.50},
		{Symbol: "NIFTYBEES", Exchange: "NSE", Type: domain.ETF, LastTradedPrice: 245.60},
	}
	for _, inst := range seed {
		if err := catalog.Save(ctx, &inst); err != nil {
			t.Fatalf("seed instrument %s: %v", inst.Symbol, err)
		}
	}
	return &testKit{catalog: catalog, ledger: ledger, trades: trades, engine: engine}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}
