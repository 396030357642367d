package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrInternal        = errors.New("internal error")
)

// InsufficientHoldingsError rejects a SELL that exceeds the user's
// position, carrying both quantities for diagnostics.
type InsufficientHoldingsError struct {
	Symbol    string
	Held      int64
	Requested int64
}

func (e *InsufficientHoldingsError) Error() string {
	return fmt.Sprintf("insufficient holdings: have %d shares of %s, but trying to sell %d",
		e.Held, e.Symbol, e.Requested)
}

// InvalidStateError rejects a lifecycle transition that the order's
// current status does not permit.
type InvalidStateError struct {
	OrderID string
	Status  OrderStatus
}

func (e *InvalidStateError) Error() string {
	switch e.Status {
	case StatusExecuted:
		return fmt.Sprintf("order %s: cannot cancel an executed order", e.OrderID)
	case StatusCancelled:
		return fmt.Sprintf("order %s: order is already cancelled", e.OrderID)
	default:
		return fmt.Sprintf("order %s: invalid state %s", e.OrderID, e.Status)
	}
}
