package commands

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/hold"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/clock"
)

// PlacedOrder is the result of placing an order.
type PlacedOrder struct {
	Order *order.Order
	Hold  *hold.StockHold
}

// PlaceOrderCommandHandler creates the order and its stock hold in one
// transaction. Holds are never refused for lack of stock; availability
// reports the shortfall instead.
type PlaceOrderCommandHandler struct {
	uowFactory UoWFactory
	clock      clock.Clock
	holdTTL    time.Duration
}

// NewPlaceOrderCommandHandler creates a handler whose holds expire holdTTL
// after placement unless confirmed.
func NewPlaceOrderCommandHandler(uowFactory UoWFactory, clk clock.Clock, holdTTL time.Duration) PlaceOrderCommandHandler {
	if holdTTL <= 0 {
		holdTTL = hold.DefaultTTL
	}
	return PlaceOrderCommandHandler{
		uowFactory: uowFactory,
		clock:      clk,
		holdTTL:    holdTTL,
	}
}

func (h PlaceOrderCommandHandler) Handle(ctx context.Context, cmd PlaceOrderCommand) (PlacedOrder, error) {
	if err := cmd.Validate(); err != nil {
		return PlacedOrder{}, err
	}

	now := h.clock.Now()

	o, err := order.NewOrder(cmd.OrderID(), now)
	if err != nil {
		return PlacedOrder{}, err
	}

	stockHold, err := hold.NewStockHold(kernel.NewUUID(), cmd.OrderID(), cmd.Lines(), now, h.holdTTL)
	if err != nil {
		return PlacedOrder{}, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return PlacedOrder{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.OrderRepository().Add(ctx, o); err != nil {
		return PlacedOrder{}, err
	}

	if err = uow.HoldRepository().Add(ctx, stockHold); err != nil {
		return PlacedOrder{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return PlacedOrder{}, err
	}

	return PlacedOrder{Order: o, Hold: stockHold}, nil
}
