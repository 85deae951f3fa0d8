// Package orderrepo provides data transfer objects and mapping functions for order persistence.
// Both leases live on the order row as prefixed columns (packing_*, delivery_*), so
// every lease mutation is a single-row conditional UPDATE.
package orderrepo

import (
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO represents the database structure for persisting order aggregates.
type OrderDTO struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Status    int       `gorm:"index"`
	Packing   LeaseDTO  `gorm:"embedded;embeddedPrefix:packing_"`
	Delivery  LeaseDTO  `gorm:"embedded;embeddedPrefix:delivery_"`
	PlacedAt  time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime:false"`
}

// TableName specifies the database table name for order entities.
func (OrderDTO) TableName() string {
	return "orders"
}

// LeaseDTO represents one embedded lease. An empty ClaimedBy means nobody holds it.
type LeaseDTO struct {
	Status      string     `gorm:"type:varchar(16);not null;default:idle"`
	ClaimedBy   string     `gorm:"type:varchar(128);not null;default:''"`
	ClaimedAt   *time.Time
	HeartbeatAt *time.Time
	ReleasedAt  *time.Time
	Reason      string `gorm:"type:varchar(64);not null;default:''"`
}

func fromDomain(aggregate *order.Order) OrderDTO {
	return OrderDTO{
		ID:        aggregate.ID().Bytes(),
		Status:    int(aggregate.Status()),
		Packing:   leaseFromDomain(aggregate.PackingLease()),
		Delivery:  leaseFromDomain(aggregate.DeliveryLease()),
		PlacedAt:  aggregate.PlacedAt(),
		UpdatedAt: aggregate.UpdatedAt(),
	}
}

func leaseFromDomain(lease order.Lease) LeaseDTO {
	return LeaseDTO{
		Status:      lease.Status().String(),
		ClaimedBy:   lease.ClaimedBy().String(),
		ClaimedAt:   optionalTime(lease.ClaimedAt()),
		HeartbeatAt: optionalTime(lease.HeartbeatAt()),
		ReleasedAt:  lease.ReleasedAt(),
		Reason:      lease.Reason(),
	}
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	packing, err := leaseToDomain(order.PackingLease, dto.Packing)
	if err != nil {
		return nil, err
	}

	delivery, err := leaseToDomain(order.DeliveryLease, dto.Delivery)
	if err != nil {
		return nil, err
	}

	return order.RestoreOrder(id, order.Status(dto.Status), packing, delivery, dto.PlacedAt, dto.UpdatedAt)
}

func leaseToDomain(kind order.LeaseKind, dto LeaseDTO) (order.Lease, error) {
	return order.RestoreLease(
		kind,
		order.LeaseStatus(dto.Status),
		dto.ClaimedBy,
		derefTime(dto.ClaimedAt),
		derefTime(dto.HeartbeatAt),
		dto.ReleasedAt,
		dto.Reason,
	)
}

func optionalTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func derefTime(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
