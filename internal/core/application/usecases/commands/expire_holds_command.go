package commands

import (
	"errors"

	"fulfillment/internal/pkg/guard"
)

var ErrExpireHoldsCommandIsNotConstructed = errors.New(
	"ExpireHoldsCommand must be created via NewExpireHoldsCommand constructor",
)

// ExpireHoldsCommand sweeps lapsed unconfirmed holds. Reads already ignore
// them, so the sweep only reclaims storage.
type ExpireHoldsCommand struct {
	guard guard.ConstructorGuard
}

func NewExpireHoldsCommand() ExpireHoldsCommand {
	return ExpireHoldsCommand{guard: guard.NewConstructorGuard()}
}

func (c ExpireHoldsCommand) Validate() error {
	return c.guard.Validate(ErrExpireHoldsCommandIsNotConstructed)
}
