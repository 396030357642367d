package domain

// Holding is a user's accumulated position in one instrument. Quantity
// is strictly positive while the record exists; reducing it to zero
// deletes the record instead of persisting an empty position.
//
// CurrentPrice, CurrentValue, ProfitLoss and ProfitLossPercentage are
// derived from the catalog's current price at read time and are never
// stored.
type Holding struct {
	UserID       string
	Symbol       string
	Exchange     string
	Quantity     int64
	AveragePrice float64 // weighted average acquisition price

	CurrentPrice         float64
	CurrentValue         float64
	ProfitLoss           float64
	ProfitLossPercentage float64
}
