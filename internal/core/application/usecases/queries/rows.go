package queries

import (
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// orderRow mirrors the orders table for raw reads.
type orderRow struct {
	ID        uuid.UUID
	Status    int
	Packing   leaseRow `gorm:"embedded;embeddedPrefix:packing_"`
	Delivery  leaseRow `gorm:"embedded;embeddedPrefix:delivery_"`
	PlacedAt  time.Time
	UpdatedAt time.Time
}

type leaseRow struct {
	Status      string
	ClaimedBy   string
	ClaimedAt   *time.Time
	HeartbeatAt *time.Time
	ReleasedAt  *time.Time
	Reason      string
}

const selectOrderRow = `
	SELECT
		id,
		status,
		packing_status, packing_claimed_by, packing_claimed_at,
		packing_heartbeat_at, packing_released_at, packing_reason,
		delivery_status, delivery_claimed_by, delivery_claimed_at,
		delivery_heartbeat_at, delivery_released_at, delivery_reason,
		placed_at,
		updated_at
	FROM orders
	WHERE id = ?
`

func (r leaseRow) toLease(kind order.LeaseKind) (order.Lease, error) {
	var claimedAt, heartbeatAt time.Time
	if r.ClaimedAt != nil {
		claimedAt = *r.ClaimedAt
	}
	if r.HeartbeatAt != nil {
		heartbeatAt = *r.HeartbeatAt
	}
	return order.RestoreLease(kind, order.LeaseStatus(r.Status), r.ClaimedBy,
		claimedAt, heartbeatAt, r.ReleasedAt, r.Reason)
}

func (r orderRow) toOrder() (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(r.ID[:])
	if err != nil {
		return nil, err
	}
	packing, err := r.Packing.toLease(order.PackingLease)
	if err != nil {
		return nil, err
	}
	delivery, err := r.Delivery.toLease(order.DeliveryLease)
	if err != nil {
		return nil, err
	}
	return order.RestoreOrder(id, order.Status(r.Status), packing, delivery, r.PlacedAt, r.UpdatedAt)
}
