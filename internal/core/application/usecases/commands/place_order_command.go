package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/hold"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrPlaceOrderCommandIsNotConstructed = errors.New(
	"PlaceOrderCommand must be created via NewPlaceOrderCommand constructor",
)

// PlaceOrderCommand registers a customer order and reserves its stock.
//
// Example:
//
//	tomatoes, _ := hold.NewLine("Tomato", "kg", decimal.NewFromInt(5))
//	cmd, err := NewPlaceOrderCommand(kernel.NewUUID(), []hold.Line{tomatoes})
//	if err != nil {
//	    return err
//	}
//	placed, err := handler.Handle(ctx, cmd)
type PlaceOrderCommand struct {
	orderID kernel.UUID
	lines   []hold.Line

	guard guard.ConstructorGuard
}

func NewPlaceOrderCommand(orderID kernel.UUID, lines []hold.Line) (PlaceOrderCommand, error) {
	cmd := PlaceOrderCommand{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setLines(lines),
	); err != nil {
		return PlaceOrderCommand{}, err
	}

	return cmd, nil
}

func (c PlaceOrderCommand) Validate() error {
	return c.guard.Validate(ErrPlaceOrderCommandIsNotConstructed)
}

func (c PlaceOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c PlaceOrderCommand) Lines() []hold.Line {
	return append([]hold.Line(nil), c.lines...)
}

func (c *PlaceOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}

func (c *PlaceOrderCommand) setLines(lines []hold.Line) error {
	if len(lines) == 0 {
		return errs.NewValueIsRequiredError("lines")
	}
	c.lines = append([]hold.Line(nil), lines...)
	return nil
}
