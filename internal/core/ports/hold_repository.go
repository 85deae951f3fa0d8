package ports

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/hold"
	"fulfillment/internal/core/domain/model/kernel"
)

// HoldRepository defines the write-side persistence contract for stock holds.
// Reads of holds and availability go through the query handlers, which
// filter lapsed holds by time, so results never depend on when DeleteExpired
// last ran.
type HoldRepository interface {
	// Add persists a new hold with its lines.
	Add(ctx context.Context, h *hold.StockHold) error

	// ConfirmLive confirms every live unconfirmed hold of the order and
	// returns how many were confirmed.
	ConfirmLive(ctx context.Context, orderID kernel.UUID, now time.Time) (int64, error)

	// DeleteExpired removes unconfirmed holds that lapsed at or before now.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
