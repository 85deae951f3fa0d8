package hold

import (
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// DefaultTTL is how long an unconfirmed hold reserves stock.
const DefaultTTL = 24 * time.Hour

// ErrStockHoldIsNotConstructed is returned when a StockHold was not built by
// NewStockHold or RestoreStockHold.
var ErrStockHoldIsNotConstructed = errors.New("StockHold must be created via NewStockHold constructor")

// StockHold reserves quantities of catalog stock for one order.
//
// Invariants:
//   - Has at least one line
//   - expiresAt is after createdAt
//   - Once confirmed, expiry no longer applies
//
// Liveness and confirmation are evaluated by the store (see
// ports.HoldRepository), never on a loaded hold.
type StockHold struct {
	id            kernel.UUID
	orderID       kernel.UUID
	lines         []Line
	confirmed     bool
	expiresAt     time.Time
	createdAt     time.Time
	isConstructed bool
}

// NewStockHold creates an unconfirmed hold expiring ttl after now.
func NewStockHold(id, orderID kernel.UUID, lines []Line, now time.Time, ttl time.Duration) (*StockHold, error) {
	if ttl <= 0 {
		return nil, errs.NewValueIsInvalidErrorWithCause("ttl", fmt.Errorf("%s is not positive", ttl))
	}
	return RestoreStockHold(id, orderID, lines, false, now.Add(ttl), now)
}

// RestoreStockHold rebuilds a hold from storage.
func RestoreStockHold(
	id, orderID kernel.UUID,
	lines []Line,
	confirmed bool,
	expiresAt, createdAt time.Time,
) (*StockHold, error) {
	h := &StockHold{confirmed: confirmed, isConstructed: true}

	if err := errors.Join(
		h.setIDs(id, orderID),
		h.setLines(lines),
		h.setTimes(expiresAt, createdAt),
	); err != nil {
		return nil, err
	}
	return h, nil
}

func (h *StockHold) Validate() error {
	if h == nil || !h.isConstructed {
		return ErrStockHoldIsNotConstructed
	}
	return nil
}

func (h *StockHold) ID() kernel.UUID {
	return h.id
}

func (h *StockHold) OrderID() kernel.UUID {
	return h.orderID
}

// Lines returns a copy of the reserved lines.
func (h *StockHold) Lines() []Line {
	return append([]Line(nil), h.lines...)
}

func (h *StockHold) IsConfirmed() bool {
	return h.confirmed
}

func (h *StockHold) ExpiresAt() time.Time {
	return h.expiresAt
}

func (h *StockHold) CreatedAt() time.Time {
	return h.createdAt
}

func (h *StockHold) setIDs(id, orderID kernel.UUID) error {
	if err := errors.Join(id.Validate(), orderID.Validate()); err != nil {
		return err
	}
	h.id = id
	h.orderID = orderID
	return nil
}

func (h *StockHold) setLines(lines []Line) error {
	if len(lines) == 0 {
		return errs.NewValueIsRequiredError("lines")
	}
	for i, l := range lines {
		if l.key == (StockKey{}) || !l.quantity.IsPositive() {
			return errs.NewValueIsInvalidErrorWithCause("lines", fmt.Errorf("line %d is not constructed", i))
		}
	}
	h.lines = append([]Line(nil), lines...)
	return nil
}

func (h *StockHold) setTimes(expiresAt, createdAt time.Time) error {
	if createdAt.IsZero() {
		return errs.NewValueIsRequiredError("createdAt")
	}
	if !expiresAt.After(createdAt) {
		return errs.NewValueIsInvalidErrorWithCause("expiresAt", fmt.Errorf("%s is not after createdAt", expiresAt))
	}
	h.expiresAt = expiresAt
	h.createdAt = createdAt
	return nil
}
