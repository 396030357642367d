package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/equityflow/order-engine/internal/adapter/in_memory"
	"github.com/equityflow/order-engine/internal/core"
	"github.com/equityflow/order-engine/internal/domain"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	instruments := in_memory.NewInstrumentRepo()
	catalog := core.NewCatalog(instruments)
	ledger := core.NewLedger(in_memory.NewPortfolioRepo(), catalog, logger)
	trades := core.NewTradeLog(in_memory.NewTradeRepo(), logger)
	eng := core.NewEngine(catalog, ledger, trades, in_memory.NewOrderRepo(), nil, logger)

	ctx := context.Background()
	seed := []*domain.Instrument{
		{Symbol: "RELIANCE", Exchange: "NSE", Type: domain.Equity, LastTradedPrice: 2456.75},
		{Symbol: "TCS", Exchange: "NSE", Type: domain.Equity, LastTradedPrice: 3890.50},
	}
	for _, inst := range seed {
		if err := catalog.Save(ctx, inst); err != nil {
			t.Fatalf("seed instrument: %v", err)
		}
	}
	if err := ledger.SaveHolding(ctx, &domain.Holding{
		UserID: "USER001", Symbol: "RELIANCE", Exchange: "NSE", Quantity: 50, AveragePrice: 2400.00,
	}); err != nil {
		t.Fatalf("seed holding: %v", err)
	}

	// Rate limiting off so back-to-back requests in one test pass.
	return NewHTTPServer(eng, catalog, logger, "USER001", 0).Router()
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var envelope map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("response is not JSON: %v\nbody: %s", err, w.Body.String())
	}
	return w, envelope
}

func TestHTTP_PlaceMarketOrder(t *testing.T) {
	router := newTestRouter(t)

	w, envelope := doJSON(t, router, http.MethodPost, "/api/v1/orders",
		`{"symbol":"RELIANCE","exchange":"NSE","order_type":"BUY","order_style":"MARKET","quantity":10}`)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201\nbody: %s", w.Code, w.Body.String())
	}
	if envelope["success"] != true {
		t.Errorf("success = %v, want true", envelope["success"])
	}
	data, ok := envelope["data"].(map[string]any)
	if !ok {
		t.Fatalf("data missing: %v", envelope)
	}
	if data["status"] != "EXECUTED" {
		t.Errorf("status = %v, want EXECUTED", data["status"])
	}
	if data["price"] != 2456.75 {
		t.Errorf("price = %v, want 2456.75", data["price"])
	}
	id, _ := data["order_id"].(string)
	if !strings.HasPrefix(id, "ORD-") {
		t.Errorf("order_id = %q, want ORD- prefix", id)
	}
}

func TestHTTP_PlaceLimitOrder(t *testing.T) {
	router := newTestRouter(t)

	w, envelope := doJSON(t, router, http.MethodPost, "/api/v1/orders",
		`{"symbol":"RELIANCE","exchange":"NSE","order_type":"BUY","order_style":"LIMIT","quantity":10,"price":2400.00}`)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201\nbody: %s", w.Code, w.Body.String())
	}
	data := envelope["data"].(map[string]any)
	if data["status"] != "PLACED" {
		t.Errorf("status = %v, want PLACED", data["status"])
	}
	if data["price"] != 2400.00 {
		t.Errorf("price = %v, want the request price 2400", data["price"])
	}
}

func TestHTTP_PlaceOrder_Errors(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{
			"malformed JSON",
			`{"symbol":`,
			http.StatusBadRequest,
		},
		{
			"missing required fields",
			`{"symbol":"RELIANCE"}`,
			http.StatusBadRequest,
		},
		{
			"unknown instrument",
			`{"symbol":"NOPE","exchange":"NSE","order_type":"BUY","order_style":"MARKET","quantity":1}`,
			http.StatusNotFound,
		},
		{
			"limit without price",
			`{"symbol":"RELIANCE","exchange":"NSE","order_type":"BUY","order_style":"LIMIT","quantity":1}`,
			http.StatusBadRequest,
		},
		{
			"sell beyond holdings",
			`{"symbol":"RELIANCE","exchange":"NSE","order_type":"SELL","order_style":"MARKET","quantity":60}`,
			http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, envelope := doJSON(t, router, http.MethodPost, "/api/v1/orders", tt.body)
			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d\nbody: %s", w.Code, tt.wantStatus, w.Body.String())
			}
			if envelope["success"] != false {
				t.Errorf("success = %v, want false", envelope["success"])
			}
		})
	}
}

func TestHTTP_InsufficientHoldingsMessage(t *testing.T) {
	router := newTestRouter(t)

	w, envelope := doJSON(t, router, http.MethodPost, "/api/v1/orders",
		`{"symbol":"RELIANCE","exchange":"NSE","order_type":"SELL","order_style":"MARKET","quantity":60}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	msg, _ := envelope["message"].(string)
	if !strings.Contains(msg, "insufficient holdings") ||
		!strings.Contains(msg, "have 50 shares") ||
		!strings.Contains(msg, "trying to sell 60") {
		t.Errorf("message = %q, want held and requested quantities in it", msg)
	}
}

func TestHTTP_CancelOrder(t *testing.T) {
	router := newTestRouter(t)

	_, placed := doJSON(t, router, http.MethodPost, "/api/v1/orders",
		`{"symbol":"RELIANCE","exchange":"NSE","order_type":"BUY","order_style":"LIMIT","quantity":5,"price":2000}`)
	orderID := placed["data"].(map[string]any)["order_id"].(string)

	w, envelope := doJSON(t, router, http.MethodDelete, "/api/v1/orders/"+orderID, "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200\nbody: %s", w.Code, w.Body.String())
	}
	if envelope["data"].(map[string]any)["status"] != "CANCELLED" {
		t.Errorf("status = %v, want CANCELLED", envelope["data"].(map[string]any)["status"])
	}

	// Second cancel hits the state machine.
	w, envelope = doJSON(t, router, http.MethodDelete, "/api/v1/orders/"+orderID, "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("re-cancel status = %d, want 400", w.Code)
	}
	if msg, _ := envelope["message"].(string); !strings.Contains(msg, "already cancelled") {
		t.Errorf("re-cancel message = %q, want already-cancelled wording", msg)
	}
}

func TestHTTP_CancelExecutedOrder(t *testing.T) {
	router := newTestRouter(t)

	_, placed := doJSON(t, router, http.MethodPost, "/api/v1/orders",
		`{"symbol":"RELIANCE","exchange":"NSE","order_type":"BUY","order_style":"MARKET","quantity":1}`)
	orderID := placed["data"].(map[string]any)["order_id"].(string)

	w, envelope := doJSON(t, router, http.MethodDelete, "/api/v1/orders/"+orderID, "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if msg, _ := envelope["message"].(string); !strings.Contains(msg, "cannot cancel an executed order") {
		t.Errorf("message = %q, want executed wording", msg)
	}
}

func TestHTTP_GetOrderNotFound(t *testing.T) {
	router := newTestRouter(t)

	w, envelope := doJSON(t, router, http.MethodGet, "/api/v1/orders/ORD-MISSING0", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
	if envelope["success"] != false {
		t.Errorf("success = %v, want false", envelope["success"])
	}
}

func TestHTTP_Instruments(t *testing.T) {
	router := newTestRouter(t)

	w, envelope := doJSON(t, router, http.MethodGet, "/api/v1/instruments", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if list, ok := envelope["data"].([]any); !ok || len(list) != 2 {
		t.Errorf("data = %v, want 2 instruments", envelope["data"])
	}

	// Lookup is case-insensitive and defaults the exchange to NSE.
	w, envelope = doJSON(t, router, http.MethodGet, "/api/v1/instruments/reliance", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200\nbody: %s", w.Code, w.Body.String())
	}
	data := envelope["data"].(map[string]any)
	if data["symbol"] != "RELIANCE" || data["last_traded_price"] != 2456.75 {
		t.Errorf("data = %v, want RELIANCE at 2456.75", data)
	}

	w, _ = doJSON(t, router, http.MethodGet, "/api/v1/instruments/NOPE", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown instrument status = %d, want 404", w.Code)
	}
}

func TestHTTP_Portfolio(t *testing.T) {
	router := newTestRouter(t)

	w, envelope := doJSON(t, router, http.MethodGet, "/api/v1/portfolio", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	list, ok := envelope["data"].([]any)
	if !ok || len(list) != 1 {
		t.Fatalf("data = %v, want 1 holding", envelope["data"])
	}
	h := list[0].(map[string]any)
	if h["symbol"] != "RELIANCE" || h["quantity"] != float64(50) {
		t.Errorf("holding = %v, want RELIANCE qty 50", h)
	}
	// Valuation is derived against the live price.
	if h["current_price"] != 2456.75 {
		t.Errorf("current_price = %v, want 2456.75", h["current_price"])
	}
	if h["profit_loss"] != 2837.5 {
		t.Errorf("profit_loss = %v, want 2837.5", h["profit_loss"])
	}

	w, envelope = doJSON(t, router, http.MethodGet, "/api/v1/portfolio/RELIANCE", "")
	if w.Code != http.StatusOK {
		t.Fatalf("single holding status = %d, want 200", w.Code)
	}
	if envelope["data"].(map[string]any)["average_price"] != 2400.00 {
		t.Errorf("average_price = %v, want 2400", envelope["data"].(map[string]any)["average_price"])
	}

	w, _ = doJSON(t, router, http.MethodGet, "/api/v1/portfolio/TCS", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("unheld symbol status = %d, want 404", w.Code)
	}
}

func TestHTTP_UserScoping(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders",
		bytes.NewBufferString(`{"symbol":"TCS","exchange":"NSE","order_type":"BUY","order_style":"MARKET","quantity":2}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "USER002")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201\nbody: %s", w.Code, w.Body.String())
	}

	// Default user sees no orders; USER002 sees one.
	_, envelope := doJSON(t, router, http.MethodGet, "/api/v1/orders", "")
	if list, ok := envelope["data"].([]any); ok && len(list) != 0 {
		t.Errorf("default user has %d orders, want 0", len(list))
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil)
	req.Header.Set("X-User-ID", "USER002")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	var scoped map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &scoped); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}
	list, ok := scoped["data"].([]any)
	if !ok || len(list) != 1 {
		t.Errorf("USER002 has %v orders, want 1", scoped["data"])
	}
}

func TestHTTP_TradesForOrder(t *testing.T) {
	router := newTestRouter(t)

	_, placed := doJSON(t, router, http.MethodPost, "/api/v1/orders",
		`{"symbol":"RELIANCE","exchange":"NSE","order_type":"BUY","order_style":"MARKET","quantity":10}`)
	orderID := placed["data"].(map[string]any)["order_id"].(string)

	w, envelope := doJSON(t, router, http.MethodGet, "/api/v1/trades/order/"+orderID, "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	list, ok := envelope["data"].([]any)
	if !ok || len(list) != 1 {
		t.Fatalf("data = %v, want 1 trade", envelope["data"])
	}
	tr := list[0].(map[string]any)
	if tr["total_value"] != 24567.50 {
		t.Errorf("total_value = %v, want 24567.50", tr["total_value"])
	}
	if tr["order_id"] != orderID {
		t.Errorf("order_id = %v, want %s", tr["order_id"], orderID)
	}
}
