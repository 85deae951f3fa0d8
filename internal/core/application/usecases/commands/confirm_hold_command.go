package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrConfirmHoldCommandIsNotConstructed = errors.New(
	"ConfirmHoldCommand must be created via NewConfirmHoldCommand constructor",
)

// ConfirmHoldCommand makes the live stock holds of an order permanent.
type ConfirmHoldCommand struct {
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

func NewConfirmHoldCommand(orderID kernel.UUID) (ConfirmHoldCommand, error) {
	if err := orderID.Validate(); err != nil {
		return ConfirmHoldCommand{}, err
	}
	return ConfirmHoldCommand{orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

func (c ConfirmHoldCommand) Validate() error {
	return c.guard.Validate(ErrConfirmHoldCommandIsNotConstructed)
}

func (c ConfirmHoldCommand) OrderID() kernel.UUID {
	return c.orderID
}
