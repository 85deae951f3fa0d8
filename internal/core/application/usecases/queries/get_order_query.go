package queries

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/hold"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrGetOrderQueryIsNotConstructed = errors.New(
		"GetOrderQuery must be created via NewGetOrderQuery constructor",
	)
)

// GetOrderQuery loads an order with both leases and its live stock holds.
//
// Example:
//
//	query, err := NewGetOrderQuery(orderID)
//	if err != nil {
//	    return err
//	}
//	view, err := handler.Handle(ctx, query)
type GetOrderQuery struct {
	orderID kernel.UUID
	guard   guard.ConstructorGuard
}

func NewGetOrderQuery(orderID kernel.UUID) (GetOrderQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetOrderQuery{}, errs.NewValueIsRequiredErrorWithCause("orderId", err)
	}
	return GetOrderQuery{orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

func (q GetOrderQuery) OrderID() kernel.UUID {
	return q.orderID
}

// GetOrderQueryResponse is the order as workers see it. Holds contains only
// reservations that still count against availability.
type GetOrderQueryResponse struct {
	Order *order.Order
	Holds []HoldView
}

// HoldView is a live stock hold.
type HoldView struct {
	ID        kernel.UUID
	Confirmed bool
	ExpiresAt time.Time
	Lines     []hold.Line
}
