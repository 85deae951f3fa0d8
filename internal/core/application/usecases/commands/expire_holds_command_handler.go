package commands

import (
	"context"

	"fulfillment/internal/pkg/clock"
)

// ExpireHoldsCommandHandler deletes unconfirmed holds past their expiry.
type ExpireHoldsCommandHandler struct {
	uowFactory HoldUoWFactory
	clock      clock.Clock
}

func NewExpireHoldsCommandHandler(uowFactory HoldUoWFactory, clk clock.Clock) ExpireHoldsCommandHandler {
	return ExpireHoldsCommandHandler{uowFactory: uowFactory, clock: clk}
}

// Handle returns how many holds were deleted.
func (h ExpireHoldsCommandHandler) Handle(ctx context.Context, cmd ExpireHoldsCommand) (int64, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	deleted, err := uow.HoldRepository().DeleteExpired(ctx, h.clock.Now())
	if err != nil {
		return 0, err
	}

	if err = uow.Commit(ctx); err != nil {
		return 0, err
	}

	return deleted, nil
}
