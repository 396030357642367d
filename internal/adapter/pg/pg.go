package pg

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/equityflow/order-engine/internal/domain"
	"github.com/equityflow/order-engine/internal/port"
)

// Stores backed by PostgreSQL via pgx. The engine still serializes
// order/holding mutations; these stores only persist.

type InstrumentStore struct {
	pool *pgxpool.Pool
}

type OrderStore struct {
	pool *pgxpool.Pool
}

type TradeStore struct {
	pool *pgxpool.Pool
}

type PortfolioStore struct {
	pool *pgxpool.Pool
}

var (
	_ port.InstrumentRepository = (*InstrumentStore)(nil)
	_ port.OrderRepository      = (*OrderStore)(nil)
	_ port.TradeRepository      = (*TradeStore)(nil)
	_ port.PortfolioRepository  = (*PortfolioStore)(nil)
)

// NewPool creates the shared connection pool. Call Close when done.
func NewPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("pg: create pool: %w", err)
	}
	return pool, nil
}

func NewInstrumentStore(pool *pgxpool.Pool) *InstrumentStore { return &InstrumentStore{pool: pool} }
func NewOrderStore(pool *pgxpool.Pool) *OrderStore           { return &OrderStore{pool: pool} }
func NewTradeStore(pool *pgxpool.Pool) *TradeStore           { return &TradeStore{pool: pool} }
func NewPortfolioStore(pool *pgxpool.Pool) *PortfolioStore   { return &PortfolioStore{pool: pool} }

// instruments

func (s *InstrumentStore) Save(ctx context.Context, inst *domain.Instrument) error {
	_, err := s.pool.Exec(ctx, `
INSERT INTO instruments(symbol, exchange, instrument_type, last_traded_price)
VALUES($1,$2,$3,$4)
ON CONFLICT (symbol, exchange) DO UPDATE SET
  instrument_type = EXCLUDED.instrument_type,
  last_traded_price = EXCLUDED.last_traded_price
`, inst.Symbol, inst.Exchange, string(inst.Type), inst.LastTradedPrice)
	return err
}

func (s *InstrumentStore) Find(ctx context.Context, symbol, exchange string) (*domain.Instrument, error) {
	row := s.pool.QueryRow(ctx, `
SELECT symbol, exchange, instrument_type, last_traded_price
FROM instruments WHERE symbol = $1 AND exchange = $2
`, symbol, exchange)

	var inst domain.Instrument
	var typ string
	if err := row.Scan(&inst.Symbol, &inst.Exchange, &typ, &inst.LastTradedPrice); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	inst.Type = domain.InstrumentType(typ)
	return &inst, nil
}

func (s *InstrumentStore) FindAll(ctx context.Context) ([]*domain.Instrument, error) {
	rows, err := s.pool.Query(ctx, `
SELECT symbol, exchange, instrument_type, last_traded_price FROM instruments
`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*domain.Instrument
	for rows.Next() {
		var inst domain.Instrument
		var typ string
		if err := rows.Scan(&inst.Symbol, &inst.Exchange, &typ, &inst.LastTradedPrice); err != nil {
			return nil, err
		}
		inst.Type = domain.InstrumentType(typ)
		res = append(res, &inst)
	}
	return res, rows.Err()
}

func (s *InstrumentStore) Exists(ctx context.Context, symbol, exchange string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx, `
SELECT EXISTS(SELECT 1 FROM instruments WHERE symbol = $1 AND exchange = $2)
`, symbol, exchange).Scan(&exists)
	return exists, err
}

// orders

const orderCols = `order_id, symbol, exchange, side, style, quantity, price, status, created_at, updated_at, user_id`

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var o domain.Order
	var side, style, status string
	err := row.Scan(&o.ID, &o.Symbol, &o.Exchange, &side, &style,
		&o.Quantity, &o.Price, &status, &o.CreatedAt, &o.UpdatedAt, &o.UserID)
	if err != nil {
		return nil, err
	}
	o.Side = domain.Side(side)
	o.Style = domain.OrderStyle(style)
	o.Status = domain.OrderStatus(status)
	return &o, nil
}

func (s *OrderStore) Save(ctx context.Context, o *domain.Order) error {
	_, err := s.pool.Exec(ctx, `
INSERT INTO orders(order_id, symbol, exchange, side, style, quantity, price, status, created_at, updated_at, user_id)
VALUES($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
ON CONFLICT (order_id) DO UPDATE SET
  status = EXCLUDED.status,
  updated_at = EXCLUDED.updated_at
`, o.ID, o.Symbol, o.Exchange, string(o.Side), string(o.Style),
		o.Quantity, o.Price, string(o.Status), o.CreatedAt, o.UpdatedAt, o.UserID)
	return err
}

func (s *OrderStore) FindByID(ctx context.Context, orderID string) (*domain.Order, error) {
	o, err := scanOrder(s.pool.QueryRow(ctx,
		`SELECT `+orderCols+` FROM orders WHERE order_id = $1`, orderID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return o, err
}

func (s *OrderStore) FindByUserID(ctx context.Context, userID string) ([]*domain.Order, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+orderCols+` FROM orders WHERE user_id = $1 ORDER BY created_at`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, o)
	}
	return res, rows.Err()
}

// trades

const tradeCols = `trade_id, order_id, symbol, exchange, side, quantity, execution_price, total_value, executed_at, user_id`

func scanTrade(row pgx.Row) (*domain.Trade, error) {
	var t domain.Trade
	var side string
	err := row.Scan(&t.ID, &t.OrderID, &t.Symbol, &t.Exchange, &side,
		&t.Quantity, &t.ExecutionPrice, &t.TotalValue, &t.ExecutedAt, &t.UserID)
	if err != nil {
		return nil, err
	}
	t.Side = domain.Side(side)
	return &t, nil
}

// Save is insert-only: the trade log is append-only.
func (s *TradeStore) Save(ctx context.Context, t *domain.Trade) error {
	_, err := s.pool.Exec(ctx, `
INSERT INTO trades(trade_id, order_id, symbol, exchange, side, quantity, execution_price, total_value, executed_at, user_id)
VALUES($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
`, t.ID, t.OrderID, t.Symbol, t.Exchange, string(t.Side),
		t.Quantity, t.ExecutionPrice, t.TotalValue, t.ExecutedAt, t.UserID)
	return err
}

func (s *TradeStore) FindByUserID(ctx context.Context, userID string) ([]*domain.Trade, error) {
	return s.findTrades(ctx, `SELECT `+tradeCols+` FROM trades WHERE user_id = $1`, userID)
}

func (s *TradeStore) FindByOrderID(ctx context.Context, orderID string) ([]*domain.Trade, error) {
	return s.findTrades(ctx, `SELECT `+tradeCols+` FROM trades WHERE order_id = $1`, orderID)
}

func (s *TradeStore) findTrades(ctx context.Context, query, arg string) ([]*domain.Trade, error) {
	rows, err := s.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*domain.Trade
	for rows.Next() {
		t, err := scanTrade(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, t)
	}
	return res, rows.Err()
}

// holdings

func (s *PortfolioStore) Save(ctx context.Context, h *domain.Holding) error {
	_, err := s.pool.Exec(ctx, `
INSERT INTO holdings(user_id, symbol, exchange, quantity, average_price)
VALUES($1,$2,$3,$4,$5)
ON CONFLICT (user_id, symbol, exchange) DO UPDATE SET
  quantity = EXCLUDED.quantity,
  average_price = EXCLUDED.average_price
`, h.UserID, h.Symbol, h.Exchange, h.Quantity, h.AveragePrice)
	return err
}

func (s *PortfolioStore) Find(ctx context.Context, userID, symbol, exchange string) (*domain.Holding, error) {
	var h domain.Holding
	err := s.pool.QueryRow(ctx, `
SELECT user_id, symbol, exchange, quantity, average_price
FROM holdings WHERE user_id = $1 AND symbol = $2 AND exchange = $3
`, userID, symbol, exchange).Scan(&h.UserID, &h.Symbol, &h.Exchange, &h.Quantity, &h.AveragePrice)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &h, nil
}

func (s *PortfolioStore) FindByUserID(ctx context.Context, userID string) ([]*domain.Holding, error) {
	rows, err := s.pool.Query(ctx, `
SELECT user_id, symbol, exchange, quantity, average_price
FROM holdings WHERE user_id = $1
`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*domain.Holding
	for rows.Next() {
		var h domain.Holding
		if err := rows.Scan(&h.UserID, &h.Symbol, &h.Exchange, &h.Quantity, &h.AveragePrice); err != nil {
			return nil, err
		}
		res = append(res, &h)
	}
	return res, rows.Err()
}

func (s *PortfolioStore) Delete(ctx context.Context, userID, symbol, exchange string) error {
	_, err := s.pool.Exec(ctx, `
DELETE FROM holdings WHERE user_id = $1 AND symbol = $2 AND exchange = $3
`, userID, symbol, exchange)
	return err
}
