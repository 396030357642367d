package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/equityflow/order-engine/internal/domain"
	"github.com/equityflow/order-engine/internal/port"
)

// Catalog is the read-mostly lookup of tradable instruments. Symbol
// and exchange matching is case-insensitive; keys are normalized to
// uppercase before they reach the repository.
type Catalog struct {
	repo port.InstrumentRepository
}

func NewCatalog(repo port.InstrumentRepository) *Catalog {
	return &Catalog{repo: repo}
}

// Lookup returns the instrument for (symbol, exchange), or (nil, nil)
// when it is not listed.
func (c *Catalog) Lookup(ctx context.Context, symbol, exchange string) (*domain.Instrument, error) {
	return c.repo.Find(ctx, normalize(symbol), normalize(exchange))
}

func (c *Catalog) Exists(ctx context.Context, symbol, exchange string) (bool, error) {
	return c.repo.Exists(ctx, normalize(symbol), normalize(exchange))
}

// CurrentPrice returns the instrument's reference price. The boolean
// is false when the instrument is not listed.
func (c *Catalog) CurrentPrice(ctx context.Context, symbol, exchange string) (float64, bool, error) {
	inst, err := c.repo.Find(ctx, normalize(symbol), normalize(exchange))
	if err != nil {
		return 0, false, err
	}
	if inst == nil {
		return 0, false, nil
	}
	return inst.LastTradedPrice, true, nil
}

func (c *Catalog) List(ctx context.Context) ([]*domain.Instrument, error) {
	return c.repo.FindAll(ctx)
}

// Save upserts an instrument with normalized identifiers. Price
// updates arrive through here as well; they are externally supplied.
func (c *Catalog) Save(ctx context.Context, inst *domain.Instrument) error {
	if inst.Symbol == "" || inst.Exchange == "" {
		return fmt.Errorf("instrument needs symbol and exchange: %w", domain.ErrInvalidArgument)
	}
	cp := *inst
	cp.Symbol = normalize(inst.Symbol)
	cp.Exchange = normalize(inst.Exchange)
	return c.repo.Save(ctx, &cp)
}

func normalize(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
