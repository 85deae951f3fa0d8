package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
)

// leaseTarget is the (order, kind, worker) triple every lease command addresses.
type leaseTarget struct {
	orderID kernel.UUID
	kind    order.LeaseKind
	worker  kernel.WorkerID
}

func newLeaseTarget(orderID kernel.UUID, kind order.LeaseKind, worker kernel.WorkerID) (leaseTarget, error) {
	if err := errors.Join(
		orderID.Validate(),
		kind.Validate(),
		worker.Validate(),
	); err != nil {
		return leaseTarget{}, err
	}
	return leaseTarget{orderID: orderID, kind: kind, worker: worker}, nil
}

// OrderID returns the order whose lease is addressed.
func (t leaseTarget) OrderID() kernel.UUID {
	return t.orderID
}

// Kind returns the addressed lease kind.
func (t leaseTarget) Kind() order.LeaseKind {
	return t.kind
}

// Worker returns the acting worker.
func (t leaseTarget) Worker() kernel.WorkerID {
	return t.worker
}
