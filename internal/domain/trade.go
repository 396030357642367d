package domain

import "time"

// Trade is one executed order. Trades are append-only: once written
// they are never mutated or deleted.
type Trade struct {
	ID             string
	OrderID        string
	Symbol         string
	Exchange       string
	Side           Side
	Quantity       int64
	ExecutionPrice float64
	TotalValue     float64 // quantity * execution price
	ExecutedAt     time.Time
	UserID         string
}
