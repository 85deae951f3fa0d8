package queries

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrGetLeaseStatusQueryIsNotConstructed = errors.New(
		"GetLeaseStatusQuery must be created via NewGetLeaseStatusQuery constructor",
	)
)

// GetLeaseStatusQuery reads one lease of an order without claiming it.
// Workers use it to render the "who is on this order" banner.
type GetLeaseStatusQuery struct {
	orderID kernel.UUID
	kind    order.LeaseKind
	guard   guard.ConstructorGuard
}

// NewGetLeaseStatusQuery validates the order id and lease kind.
func NewGetLeaseStatusQuery(orderID kernel.UUID, kind order.LeaseKind) (GetLeaseStatusQuery, error) {
	if err := errors.Join(orderID.Validate(), kind.Validate()); err != nil {
		return GetLeaseStatusQuery{}, errs.NewValueIsInvalidErrorWithCause("leaseStatusQuery", err)
	}
	return GetLeaseStatusQuery{orderID: orderID, kind: kind, guard: guard.NewConstructorGuard()}, nil
}

func (q GetLeaseStatusQuery) Validate() error {
	return q.guard.Validate(ErrGetLeaseStatusQueryIsNotConstructed)
}

func (q GetLeaseStatusQuery) OrderID() kernel.UUID {
	return q.orderID
}

func (q GetLeaseStatusQuery) Kind() order.LeaseKind {
	return q.kind
}

// GetLeaseStatusQueryResponse is a lease snapshot together with the order
// status it gates.
type GetLeaseStatusQueryResponse struct {
	OrderID     kernel.UUID
	OrderStatus order.Status
	Lease       order.Lease
}
