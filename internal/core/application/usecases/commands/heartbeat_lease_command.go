package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/guard"
)

var ErrHeartbeatLeaseCommandIsNotConstructed = errors.New(
	"HeartbeatLeaseCommand must be created via NewHeartbeatLeaseCommand constructor",
)

// HeartbeatLeaseCommand keeps a held lease from being considered stale.
type HeartbeatLeaseCommand struct {
	leaseTarget

	guard guard.ConstructorGuard
}

func NewHeartbeatLeaseCommand(
	orderID kernel.UUID,
	kind order.LeaseKind,
	worker kernel.WorkerID,
) (HeartbeatLeaseCommand, error) {
	target, err := newLeaseTarget(orderID, kind, worker)
	if err != nil {
		return HeartbeatLeaseCommand{}, err
	}
	return HeartbeatLeaseCommand{leaseTarget: target, guard: guard.NewConstructorGuard()}, nil
}

func (c HeartbeatLeaseCommand) Validate() error {
	return c.guard.Validate(ErrHeartbeatLeaseCommandIsNotConstructed)
}
