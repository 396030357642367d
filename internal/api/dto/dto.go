package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/equityflow/order-engine/internal/domain"
)

// Response envelope shared by every endpoint.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func Success(message string, data any) Response {
	return Response{Success: true, Message: message, Data: data}
}

func Error(message string) Response {
	return Response{Success: false, Message: message}
}

type PlaceOrderRequest struct {
	Symbol   string          `json:"symbol" binding:"required"`
	Exchange string          `json:"exchange" binding:"required"`
	Side     string          `json:"order_type" binding:"required"`  // BUY or SELL
	Style    string          `json:"order_style" binding:"required"` // MARKET or LIMIT
	Quantity int64           `json:"quantity" binding:"required"`
	Price    decimal.Decimal `json:"price,omitempty"` // required for LIMIT
}

type OrderResponse struct {
	OrderID   string    `json:"order_id"`
	Symbol    string    `json:"symbol"`
	Exchange  string    `json:"exchange"`
	Side      string    `json:"order_type"`
	Style     string    `json:"order_style"`
	Quantity  int64     `json:"quantity"`
	Price     float64   `json:"price"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func FromOrder(o *domain.Order) OrderResponse {
	return OrderResponse{
		OrderID:   o.ID,
		Symbol:    o.Symbol,
		Exchange:  o.Exchange,
		Side:      string(o.Side),
		Style:     string(o.Style),
		Quantity:  o.Quantity,
		Price:     o.Price,
		Status:    string(o.Status),
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}
}

func FromOrders(orders []*domain.Order) []OrderResponse {
	res := make([]OrderResponse, len(orders))
	for i, o := range orders {
		res[i] = FromOrder(o)
	}
	return res
}

type TradeResponse struct {
	TradeID        string    `json:"trade_id"`
	OrderID        string    `json:"order_id"`
	Symbol         string    `json:"symbol"`
	Exchange       string    `json:"exchange"`
	Side           string    `json:"trade_type"`
	Quantity       int64     `json:"quantity"`
	ExecutionPrice float64   `json:"execution_price"`
	TotalValue     float64   `json:"total_value"`
	ExecutedAt     time.Time `json:"executed_at"`
}

func FromTrade(t *domain.Trade) TradeResponse {
	return TradeResponse{
		TradeID:        t.ID,
		OrderID:        t.OrderID,
		Symbol:         t.Symbol,
		Exchange:       t.Exchange,
		Side:           string(t.Side),
		Quantity:       t.Quantity,
		ExecutionPrice: t.ExecutionPrice,
		TotalValue:     t.TotalValue,
		ExecutedAt:     t.ExecutedAt,
	}
}

func FromTrades(trades []*domain.Trade) []TradeResponse {
	res := make([]TradeResponse, len(trades))
	for i, t := range trades {
		res[i] = FromTrade(t)
	}
	return res
}

type HoldingResponse struct {
	Symbol               string  `json:"symbol"`
	Exchange             string  `json:"exchange"`
	Quantity             int64   `json:"quantity"`
	AveragePrice         float64 `json:"average_price"`
	CurrentPrice         float64 `json:"current_price"`
	CurrentValue         float64 `json:"current_value"`
	ProfitLoss           float64 `json:"profit_loss"`
	ProfitLossPercentage float64 `json:"profit_loss_percentage"`
}

func FromHolding(h *domain.Holding) HoldingResponse {
	return HoldingResponse{
		Symbol:               h.Symbol,
		Exchange:             h.Exchange,
		Quantity:             h.Quantity,
		AveragePrice:         h.AveragePrice,
		CurrentPrice:         h.CurrentPrice,
		CurrentValue:         h.CurrentValue,
		ProfitLoss:           h.ProfitLoss,
		ProfitLossPercentage: h.ProfitLossPercentage,
	}
}

func FromHoldings(holdings []*domain.Holding) []HoldingResponse {
	res := make([]HoldingResponse, len(holdings))
	for i, h := range holdings {
		res[i] = FromHolding(h)
	}
	return res
}

type InstrumentResponse struct {
	Symbol          string  `json:"symbol"`
	Exchange        string  `json:"exchange"`
	InstrumentType  string  `json:"instrument_type"`
	LastTradedPrice float64 `json:"last_traded_price"`
}

func FromInstrument(inst *domain.Instrument) InstrumentResponse {
	return InstrumentResponse{
		Symbol:          inst.Symbol,
		Exchange:        inst.Exchange,
		InstrumentType:  string(inst.Type),
		LastTradedPrice: inst.LastTradedPrice,
	}
}

func FromInstruments(instruments []*domain.Instrument) []InstrumentResponse {
	res := make([]InstrumentResponse, len(instruments))
	for i, inst := range instruments {
		res[i] = FromInstrument(inst)
	}
	return res
}
