package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/guard"
)

var ErrTransitionStatusCommandIsNotConstructed = errors.New(
	"TransitionStatusCommand must be created via NewTransitionStatusCommand constructor",
)

// TransitionStatusCommand moves an order to the next workflow stage.
//
// Example:
//
//	mauro, _ := kernel.NewWorkerID("Mauro")
//	cmd, _ := NewTransitionStatusCommand(orderID, order.PendingDelivery, mauro)
//	o, err := handler.Handle(ctx, cmd)
//	if errors.Is(err, errs.ErrNotLeaseHolder) {
//	    // Mauro must claim the delivery lease first
//	}
type TransitionStatusCommand struct {
	orderID kernel.UUID
	to      order.Status
	worker  kernel.WorkerID

	guard guard.ConstructorGuard
}

// NewTransitionStatusCommand validates the order id and target status.
// worker may be the zero WorkerID for administrative, ungated edges.
func NewTransitionStatusCommand(
	orderID kernel.UUID,
	to order.Status,
	worker kernel.WorkerID,
) (TransitionStatusCommand, error) {
	if err := errors.Join(orderID.Validate(), to.Validate()); err != nil {
		return TransitionStatusCommand{}, err
	}
	return TransitionStatusCommand{
		orderID: orderID,
		to:      to,
		worker:  worker,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c TransitionStatusCommand) Validate() error {
	return c.guard.Validate(ErrTransitionStatusCommandIsNotConstructed)
}

func (c TransitionStatusCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c TransitionStatusCommand) To() order.Status {
	return c.to
}

func (c TransitionStatusCommand) Worker() kernel.WorkerID {
	return c.worker
}
