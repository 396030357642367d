package core

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/equityflow/order-engine/internal/domain"
	"github.com/equityflow/order-engine/internal/port"
)

// OrderRequest is an incoming order before validation.
type OrderRequest struct {
	Symbol   string
	Exchange string
	Side     domain.Side
	Style    domain.OrderStyle
	Quantity int64
	Price    float64 // required for LIMIT
}

// Engine validates order requests, drives the order state machine and
// orchestrates execution against the ledger and the trade log.
//
// A single mutex serializes PlaceOrder/CancelOrder, so holdings
// validation and the execution read-modify-write never interleave.
// Catalog reads stay outside any engine-level lock.
type Engine struct {
	catalog *Catalog
	ledger  *Ledger
	trades  *TradeLog
	orders  port.OrderRepository
	cache   port.PortfolioCache // optional
	logger  *slog.Logger

	mu sync.Mutex
}

func NewEngine(catalog *Catalog, ledger *Ledger, trades *TradeLog, orders port.OrderRepository, cache port.PortfolioCache, logger *slog.Logger) *Engine {
	return &Engine{
		catalog: catalog,
		ledger:  ledger,
		trades:  trades,
		orders:  orders,
		cache:   cache,
		logger:  logger,
	}
}

// PlaceOrder validates the request, creates the order as NEW, advances
// it to PLACED, and for MARKET orders executes synchronously. LIMIT
// orders stay PLACED; nothing matches them later.
//
// Execution has no cross-entity rollback: if the trade write or the
// holding update fails after the order is PLACED, the error is
// surfaced and the order is left PLACED, never falsely EXECUTED.
func (e *Engine) PlaceOrder(ctx context.Context, userID string, req OrderRequest) (*domain.Order, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.validate(ctx, userID, &req); err != nil {
		return nil, err
	}

	marketPrice, listed, err := e.catalog.CurrentPrice(ctx, req.Symbol, req.Exchange)
	if err != nil {
		return nil, fmt.Errorf("engine: current price: %w", err)
	}
	if !listed {
		return nil, fmt.Errorf("engine: instrument %s on %s: %w", req.Symbol, req.Exchange, domain.ErrNotFound)
	}

	executionPrice := req.Price
	if req.Style == domain.Market {
		executionPrice = marketPrice
	}

	now := time.Now()
	order := &domain.Order{
		ID:        newOrderID(),
		Symbol:    normalize(req.Symbol),
		Exchange:  normalize(req.Exchange),
		Side:      req.Side,
		Style:     req.Style,
		Quantity:  req.Quantity,
		Price:     executionPrice,
		Status:    domain.StatusNew,
		CreatedAt: now,
		UpdatedAt: now,
		UserID:    userID,
	}
	if err := e.orders.Save(ctx, order); err != nil {
		return nil, fmt.Errorf("engine: save order: %w", err)
	}
	e.logger.InfoContext(ctx, "engine: order created",
		slog.String("order_id", order.ID),
		slog.String("user_id", userID),
		slog.String("side", string(order.Side)),
		slog.String("style", string(order.Style)),
		slog.String("symbol", order.Symbol),
		slog.Int64("quantity", order.Quantity),
	)

	order.Status = domain.StatusPlaced
	order.UpdatedAt = time.Now()
	if err := e.orders.Save(ctx, order); err != nil {
		return nil, fmt.Errorf("engine: place order: %w", err)
	}

	if order.Style == domain.Market {
		if err := e.execute(ctx, order, executionPrice); err != nil {
			return nil, err
		}
	}
	return order, nil
}

func (e *Engine) validate(ctx context.Context, userID string, req *OrderRequest) error {
	switch req.Side {
	case domain.Buy, domain.Sell:
	default:
		return fmt.Errorf("engine: side must be BUY or SELL: %w", domain.ErrInvalidArgument)
	}
	switch req.Style {
	case domain.Market, domain.Limit:
	default:
		return fmt.Errorf("engine: style must be MARKET or LIMIT: %w", domain.ErrInvalidArgument)
	}

	exists, err := e.catalog.Exists(ctx, req.Symbol, req.Exchange)
	if err != nil {
		return fmt.Errorf("engine: catalog lookup: %w", err)
	}
	if !exists {
		return fmt.Errorf("engine: instrument %s on %s: %w", req.Symbol, req.Exchange, domain.ErrNotFound)
	}

	if req.Quantity <= 0 {
		return fmt.Errorf("engine: quantity must be greater than 0: %w", domain.ErrInvalidArgument)
	}
	if req.Style == domain.Limit && req.Price <= 0 {
		return fmt.Errorf("engine: price is required for LIMIT orders and must be greater than 0: %w", domain.ErrInvalidArgument)
	}

	if req.Side == domain.Sell {
		enough, err := e.ledger.HasEnoughHoldings(ctx, userID, req.Symbol, req.Exchange, req.Quantity)
		if err != nil {
			return fmt.Errorf("engine: holdings check: %w", err)
		}
		if !enough {
			held, err := e.ledger.HoldingQuantity(ctx, userID, req.Symbol, req.Exchange)
			if err != nil {
				return fmt.Errorf("engine: holdings check: %w", err)
			}
			return &domain.InsufficientHoldingsError{
				Symbol:    normalize(req.Symbol),
				Held:      held,
				Requested: req.Quantity,
			}
		}
	}
	return nil
}

// execute converts a PLACED order into a trade and a holding update,
// then marks it EXECUTED. Caller holds the engine lock.
func (e *Engine) execute(ctx context.Context, order *domain.Order, price float64) error {
	if _, err := e.trades.Record(ctx, order.ID, order.Symbol, order.Exchange, order.Side, order.Quantity, price, order.UserID); err != nil {
		return fmt.Errorf("engine: execute %s: %w: %v", order.ID, domain.ErrInternal, err)
	}

	var err error
	if order.Side == domain.Buy {
		_, err = e.ledger.AddHolding(ctx, order.UserID, order.Symbol, order.Exchange, order.Quantity, price)
	} else {
		_, err = e.ledger.RemoveHolding(ctx, order.UserID, order.Symbol, order.Exchange, order.Quantity)
	}
	if err != nil {
		return fmt.Errorf("engine: execute %s: %w: %v", order.ID, domain.ErrInternal, err)
	}

	order.Status = domain.StatusExecuted
	order.UpdatedAt = time.Now()
	if err := e.orders.Save(ctx, order); err != nil {
		return fmt.Errorf("engine: execute %s: %w: %v", order.ID, domain.ErrInternal, err)
	}

	e.refreshCache(ctx, order.UserID)

	e.logger.InfoContext(ctx, "engine: order executed",
		slog.String("order_id", order.ID),
		slog.Float64("price", price),
	)
	return nil
}

// GetOrder returns the order unchanged, or ErrNotFound.
func (e *Engine) GetOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	o, err := e.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("engine: find order: %w", err)
	}
	if o == nil {
		return nil, fmt.Errorf("engine: order %s: %w", orderID, domain.ErrNotFound)
	}
	return o, nil
}

func (e *Engine) ListOrders(ctx context.Context, userID string) ([]*domain.Order, error) {
	return e.orders.FindByUserID(ctx, userID)
}

// CancelOrder transitions a NEW or PLACED order to CANCELLED. Terminal
// orders are rejected with InvalidStateError; no holdings or trade
// compensation runs, since cancellable orders have not executed.
func (e *Engine) CancelOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	order, err := e.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Terminal() {
		return nil, &domain.InvalidStateError{OrderID: order.ID, Status: order.Status}
	}

	order.Status = domain.StatusCancelled
	order.UpdatedAt = time.Now()
	if err := e.orders.Save(ctx, order); err != nil {
		return nil, fmt.Errorf("engine: cancel order: %w", err)
	}

	e.logger.InfoContext(ctx, "engine: order cancelled", slog.String("order_id", order.ID))
	return order, nil
}

// ListHoldings returns the user's portfolio, freshly valued. The cache
// is consulted first for the base positions and repopulated on a miss;
// derived valuation is always recomputed against current prices, so a
// cache hit can never serve a stale value.
func (e *Engine) ListHoldings(ctx context.Context, userID string) ([]*domain.Holding, error) {
	if e.cache != nil {
		if cached, err := e.cache.GetPortfolio(ctx, userID); err == nil && cached != nil {
			res := make([]*domain.Holding, len(cached))
			for i := range cached {
				res[i] = &cached[i]
			}
			if err := e.ledger.Value(ctx, res); err == nil {
				return res, nil
			}
		}
	}
	holdings, err := e.ledger.Query(ctx, userID)
	if err != nil {
		return nil, err
	}
	e.setCache(ctx, userID, holdings)
	return holdings, nil
}

func (e *Engine) GetHolding(ctx context.Context, userID, symbol, exchange string) (*domain.Holding, error) {
	return e.ledger.GetHolding(ctx, userID, symbol, exchange)
}

func (e *Engine) ListTrades(ctx context.Context, userID string) ([]*domain.Trade, error) {
	return e.trades.ForUser(ctx, userID)
}

func (e *Engine) ListTradesForOrder(ctx context.Context, orderID string) ([]*domain.Trade, error) {
	return e.trades.ForOrder(ctx, orderID)
}

// refreshCache republishes the user's valued portfolio after an
// execution; failures only log, the cache is best-effort.
func (e *Engine) refreshCache(ctx context.Context, userID string) {
	if e.cache == nil {
		return
	}
	holdings, err := e.ledger.Query(ctx, userID)
	if err != nil {
		e.logger.WarnContext(ctx, "engine: portfolio refresh for cache failed",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
		_ = e.cache.Invalidate(ctx, userID)
		return
	}
	e.setCache(ctx, userID, holdings)
}

func (e *Engine) setCache(ctx context.Context, userID string, holdings []*domain.Holding) {
	if e.cache == nil {
		return
	}
	snapshot := make([]domain.Holding, len(holdings))
	for i, h := range holdings {
		snapshot[i] = *h
	}
	if err := e.cache.SetPortfolio(ctx, userID, snapshot); err != nil {
		e.logger.WarnContext(ctx, "engine: portfolio cache set failed",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
	}
}
