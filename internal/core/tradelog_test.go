package core

import (
	"context"
	"strings"
	"testing"

	"github.com/equityflow/order-engine/internal/domain"
)

func TestTradeLog_Record(t *testing.T) {
	kit := newTestKit(t)
	ctx := context.Background()

	trade, err := kit.trades.Record(ctx, "ORD-AAAA1111", "RELIANCE", "NSE", domain.Buy, 10, 2456.75, "USER001")
	if err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	if !strings.HasPrefix(trade.ID, "TRD-") || len(trade.ID) != len("TRD-")+8 {
		t.Errorf("ID = %q, want TRD- plus 8 chars", trade.ID)
	}
	if trade.ID != strings.ToUpper(trade.ID) {
		t.Errorf("ID = %q, want uppercase", trade.ID)
	}
	if !almostEqual(trade.TotalValue, 24567.50) {
		t.Errorf("TotalValue = %v, want 24567.50", trade.TotalValue)
	}
	if trade.ExecutedAt.IsZero() {
		t.Error("ExecutedAt is zero")
	}
}

func TestTradeLog_TotalValueExact(t *testing.T) {
	kit := newTestKit(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		quantity int64
		price    float64
		want     float64
	}{
		{"ten at market", 10, 2456.75, 24567.50},
		{"odd lot", 3, 33.33, 99.99},
		{"large quantity", 1000, 245.60, 245600.00},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trade, err := kit.trades.Record(ctx, "ORD-TOTAL000", "NIFTYBEES", "NSE", domain.Sell, tt.quantity, tt.price, "USER001")
			if err != nil {
				t.Fatalf("Record() error = %v", err)
			}
			if !almostEqual(trade.TotalValue, tt.want) {
				t.Errorf("TotalValue = %v, want %v", trade.TotalValue, tt.want)
			}
		})
	}
}

func TestTradeLog_Queries(t *testing.T) {
	kit := newTestKit(t)
	ctx := context.Background()

	if _, err := kit.trades.Record(ctx, "ORD-ONE00001", "RELIANCE", "NSE", domain.Buy, 1, 2456.75, "alice"); err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if _, err := kit.trades.Record(ctx, "ORD-TWO00002", "TCS", "NSE", domain.Buy, 2, 3890.50, "alice"); err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if _, err := kit.trades.Record(ctx, "ORD-THREE003", "TCS", "NSE", domain.Sell, 1, 3890.50, "bob"); err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	forAlice, err := kit.trades.ForUser(ctx, "alice")
	if err != nil {
		t.Fatalf("ForUser() error = %v", err)
	}
	if len(forAlice) != 2 {
		t.Errorf("alice has %d trades, want 2", len(forAlice))
	}

	forOrder, err := kit.trades.ForOrder(ctx, "ORD-THREE003")
	if err != nil {
		t.Fatalf("ForOrder() error = %v", err)
	}
	if len(forOrder) != 1 || forOrder[0].UserID != "bob" {
		t.Errorf("ForOrder() = %+v, want one trade for bob", forOrder)
	}

	none, err := kit.trades.ForOrder(ctx, "ORD-MISSING0")
	if err != nil {
		t.Fatalf("ForOrder() error = %v", err)
	}
	if len(none) != 0 {
		t.Errorf("missing order has %d trades, want 0", len(none))
	}
}
