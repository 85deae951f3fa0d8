package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/guard"
)

var ErrClaimLeaseCommandIsNotConstructed = errors.New(
	"ClaimLeaseCommand must be created via NewClaimLeaseCommand constructor",
)

// ClaimLeaseCommand asks for exclusive work on one lease of an order.
//
// Example:
//
//	worker, _ := kernel.NewWorkerID("Santiago")
//	cmd, err := NewClaimLeaseCommand(orderID, order.PackingLease, worker)
//	if err != nil {
//	    return err
//	}
//	lease, err := handler.Handle(ctx, cmd)
//	var conflict *errs.LeaseConflictError
//	if errors.As(err, &conflict) {
//	    fmt.Printf("%s is already packing this order\n", conflict.Holder)
//	}
type ClaimLeaseCommand struct {
	leaseTarget

	guard guard.ConstructorGuard
}

// NewClaimLeaseCommand validates the order id, lease kind and worker.
func NewClaimLeaseCommand(orderID kernel.UUID, kind order.LeaseKind, worker kernel.WorkerID) (ClaimLeaseCommand, error) {
	target, err := newLeaseTarget(orderID, kind, worker)
	if err != nil {
		return ClaimLeaseCommand{}, err
	}
	return ClaimLeaseCommand{leaseTarget: target, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the command was created through the constructor.
func (c ClaimLeaseCommand) Validate() error {
	return c.guard.Validate(ErrClaimLeaseCommandIsNotConstructed)
}
