package commands

import (
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrReapStaleLeasesCommandIsNotConstructed = errors.New(
	"ReapStaleLeasesCommand must be created via NewReapStaleLeasesCommand constructor",
)

// ReapStaleLeasesCommand releases leases whose holder stopped sending
// heartbeats, e.g. because the browser tab was killed before its unload
// release went out.
type ReapStaleLeasesCommand struct {
	staleAfter time.Duration

	guard guard.ConstructorGuard
}

func NewReapStaleLeasesCommand(staleAfter time.Duration) (ReapStaleLeasesCommand, error) {
	if staleAfter <= 0 {
		return ReapStaleLeasesCommand{}, errs.NewValueIsInvalidErrorWithCause(
			"staleAfter", fmt.Errorf("%s is not positive", staleAfter))
	}
	return ReapStaleLeasesCommand{staleAfter: staleAfter, guard: guard.NewConstructorGuard()}, nil
}

func (c ReapStaleLeasesCommand) Validate() error {
	return c.guard.Validate(ErrReapStaleLeasesCommandIsNotConstructed)
}

func (c ReapStaleLeasesCommand) StaleAfter() time.Duration {
	return c.staleAfter
}
