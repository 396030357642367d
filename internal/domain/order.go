package domain

import "time"

type Side string
type OrderStyle string
type OrderStatus string

const (
	Buy  Side = "BUY"
	Sell Side = "SELL"

	Market OrderStyle = "MARKET"
	Limit  OrderStyle = "LIMIT"

	StatusNew       OrderStatus = "NEW"
	StatusPlaced    OrderStatus = "PLACED"
	StatusExecuted  OrderStatus = "EXECUTED"
	StatusCancelled OrderStatus = "CANCELLED"
)

// Order is a single order in its lifecycle
// NEW -> PLACED -> {EXECUTED | CANCELLED}.
type Order struct {
	ID        string
	Symbol    string
	Exchange  string
	Side      Side
	Style     OrderStyle
	Quantity  int64
	Price     float64 // caller-supplied for LIMIT, execution price for MARKET
	Status    OrderStatus
	CreatedAt time.Time
	UpdatedAt time.Time
	UserID    string
}

// Terminal reports whether the order can no longer change state.
func (o *Order) Terminal() bool {
	return o.Status == StatusExecuted || o.Status == StatusCancelled
}
