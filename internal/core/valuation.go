package core

import "github.com/equityflow/order-engine/internal/domain"

// Valuation is the derived view of a holding against the current
// reference price. It is computed at read time and never persisted.
type Valuation struct {
	CurrentValue         float64
	ProfitLoss           float64
	ProfitLossPercentage float64
}

func deriveValuation(quantity int64, averagePrice, currentPrice float64) Valuation {
	currentValue := float64(quantity) * currentPrice
	invested := float64(quantity) * averagePrice
	pl := currentValue - invested

	var plPct float64
	if invested != 0 {
		plPct = pl / invested * 100
	}
	return Valuation{
		CurrentValue:         currentValue,
		ProfitLoss:           pl,
		ProfitLossPercentage: plPct,
	}
}

// applyValuation stamps the derived fields onto a holding copy.
func applyValuation(h *domain.Holding, currentPrice float64) {
	v := deriveValuation(h.Quantity, h.AveragePrice, currentPrice)
	h.CurrentPrice = currentPrice
	h.CurrentValue = v.CurrentValue
	h.ProfitLoss = v.ProfitLoss
	h.ProfitLossPercentage = v.ProfitLossPercentage
}
