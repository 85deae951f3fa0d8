package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/guard"
)

var ErrMarkLeaseReadyCommandIsNotConstructed = errors.New(
	"MarkLeaseReadyCommand must be created via NewMarkLeaseReadyCommand constructor",
)

// MarkLeaseReadyCommand records that the holder finished the work.
type MarkLeaseReadyCommand struct {
	leaseTarget

	guard guard.ConstructorGuard
}

func NewMarkLeaseReadyCommand(
	orderID kernel.UUID,
	kind order.LeaseKind,
	worker kernel.WorkerID,
) (MarkLeaseReadyCommand, error) {
	target, err := newLeaseTarget(orderID, kind, worker)
	if err != nil {
		return MarkLeaseReadyCommand{}, err
	}
	return MarkLeaseReadyCommand{leaseTarget: target, guard: guard.NewConstructorGuard()}, nil
}

func (c MarkLeaseReadyCommand) Validate() error {
	return c.guard.Validate(ErrMarkLeaseReadyCommandIsNotConstructed)
}
