package orderrepo

import (
	"fulfillment/internal/core/domain/model/order"
)

// leaseColumns names the columns of one embedded lease.
type leaseColumns struct {
	status      string
	claimedBy   string
	claimedAt   string
	heartbeatAt string
	releasedAt  string
	reason      string
}

// columnsFor maps a validated lease kind to its column names. The prefixes
// match the embeddedPrefix tags on OrderDTO.
func columnsFor(kind order.LeaseKind) (leaseColumns, error) {
	if err := kind.Validate(); err != nil {
		return leaseColumns{}, err
	}
	p := kind.String() + "_"
	return leaseColumns{
		status:      p + "status",
		claimedBy:   p + "claimed_by",
		claimedAt:   p + "claimed_at",
		heartbeatAt: p + "heartbeat_at",
		releasedAt:  p + "released_at",
		reason:      p + "reason",
	}, nil
}

func leaseOf(dto OrderDTO, kind order.LeaseKind) LeaseDTO {
	if kind == order.DeliveryLease {
		return dto.Delivery
	}
	return dto.Packing
}
