package in_memory

import (
	"context"
	"sync"

	"github.com/equityflow/order-engine/internal/domain"
	"github.com/equityflow/order-engine/internal/port"
)

// Map-backed stores, the default backend. Entities are copied on the
// way in and out so callers never alias stored state.

type InstrumentRepo struct {
	mu    sync.Mutex
	store map[string]*domain.Instrument // SYMBOL_EXCHANGE
}

var _ port.InstrumentRepository = (*InstrumentRepo)(nil)

func NewInstrumentRepo() *InstrumentRepo {
	return &InstrumentRepo{store: make(map[string]*domain.Instrument)}
}

func instrumentKey(symbol, exchange string) string {
	return symbol + "_" + exchange
}

func (r *InstrumentRepo) Save(ctx context.Context, inst *domain.Instrument) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *inst
	r.store[instrumentKey(inst.Symbol, inst.Exchange)] = &cp
	return nil
}

func (r *InstrumentRepo) Find(ctx context.Context, symbol, exchange string) (*domain.Instrument, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	inst, ok := r.store[instrumentKey(symbol, exchange)]
	if !ok {
		return nil, nil
	}
	cp := *inst
	return &cp, nil
}

func (r *InstrumentRepo) FindAll(ctx context.Context) ([]*domain.Instrument, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	res := make([]*domain.Instrument, 0, len(r.store))
	for _, inst := range r.store {
		cp := *inst
		res = append(res, &cp)
	}
	return res, nil
}

func (r *InstrumentRepo) Exists(ctx context.Context, symbol, exchange string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.store[instrumentKey(symbol, exchange)]
	return ok, nil
}

type OrderRepo struct {
	mu    sync.Mutex
	store map[string]*domain.Order // order id
}

var _ port.OrderRepository = (*OrderRepo)(nil)

func NewOrderRepo() *OrderRepo {
	return &OrderRepo{store: make(map[string]*domain.Order)}
}

func (r *OrderRepo) Save(ctx context.Context, o *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *o
	r.store[o.ID] = &cp
	return nil
}

func (r *OrderRepo) FindByID(ctx context.Context, orderID string) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.store[orderID]
	if !ok {
		return nil, nil
	}
	cp := *o
	return &cp, nil
}

func (r *OrderRepo) FindByUserID(ctx context.Context, userID string) ([]*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var res []*domain.Order
	for _, o := range r.store {
		if o.UserID == userID {
			cp := *o
			res = append(res, &cp)
		}
	}
	return res, nil
}

type TradeRepo struct {
	mu    sync.Mutex
	store map[string]*domain.Trade // trade id
}

var _ port.TradeRepository = (*TradeRepo)(nil)

func NewTradeRepo() *TradeRepo {
	return &TradeRepo{store: make(map[string]*domain.Trade)}
}

func (r *TradeRepo) Save(ctx context.Context, t *domain.Trade) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *t
	r.store[t.ID] = &cp
	return nil
}

func (r *TradeRepo) FindByUserID(ctx context.Context, userID string) ([]*domain.Trade, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var res []*domain.Trade
	for _, t := range r.store {
		if t.UserID == userID {
			cp := *t
			res = append(res, &cp)
		}
	}
	return res, nil
}

func (r *TradeRepo) FindByOrderID(ctx context.Context, orderID string) ([]*domain.Trade, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var res []*domain.Trade
	for _, t := range r.store {
		if t.OrderID == orderID {
			cp := *t
			res = append(res, &cp)
		}
	}
	return res, nil
}

type PortfolioRepo struct {
	mu    sync.Mutex
	store map[string]*domain.Holding // userID_SYMBOL_EXCHANGE
}

var _ port.PortfolioRepository = (*PortfolioRepo)(nil)

func NewPortfolioRepo() *PortfolioRepo {
	return &PortfolioRepo{store: make(map[string]*domain.Holding)}
}

func holdingKey(userID, symbol, exchange string) string {
	return userID + "_" + symbol + "_" + exchange
}

func (r *PortfolioRepo) Save(ctx context.Context, h *domain.Holding) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *h
	r.store[holdingKey(h.UserID, h.Symbol, h.Exchange)] = &cp
	return nil
}

func (r *PortfolioRepo) Find(ctx context.Context, userID, symbol, exchange string) (*domain.Holding, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	h, ok := r.store[holdingKey(userID, symbol, exchange)]
	if !ok {
		return nil, nil
	}
	cp := *h
	return &cp, nil
}

func (r *PortfolioRepo) FindByUserID(ctx context.Context, userID string) ([]*domain.Holding, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var res []*domain.Holding
	for _, h := range r.store {
		if h.UserID == userID {
			cp := *h
			res = append(res, &cp)
		}
	}
	return res, nil
}

func (r *PortfolioRepo) Delete(ctx context.Context, userID, symbol, exchange string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.store, holdingKey(userID, symbol, exchange))
	return nil
}
