package order

import (
	"fmt"
	"strings"

	"fulfillment/internal/pkg/errs"
)

// LeaseKind names the sub-resource of an order a worker can claim.
type LeaseKind int

const (
	// NoLease marks ungated transitions. It is never a valid claim target.
	NoLease LeaseKind = iota

	// PackingLease is claimed by the worker packing the order's crates.
	PackingLease

	// DeliveryLease is claimed by the driver taking the order out.
	DeliveryLease
)

var leaseKindNames = map[LeaseKind]string{
	PackingLease:  "packing",
	DeliveryLease: "delivery",
}

// LeaseKinds lists every claimable kind.
func LeaseKinds() []LeaseKind {
	return []LeaseKind{PackingLease, DeliveryLease}
}

// ParseLeaseKind converts the API representation ("packing", "delivery").
func ParseLeaseKind(s string) (LeaseKind, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	for kind, name := range leaseKindNames {
		if name == normalized {
			return kind, nil
		}
	}
	return NoLease, errs.NewValueIsInvalidErrorWithCause("kind", fmt.Errorf("%q is not a lease kind", s))
}

// Validate accepts only PackingLease and DeliveryLease.
func (k LeaseKind) Validate() error {
	if _, ok := leaseKindNames[k]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("kind", fmt.Errorf("%d is not a lease kind", k))
	}
	return nil
}

func (k LeaseKind) String() string {
	if name, ok := leaseKindNames[k]; ok {
		return name
	}
	return "none"
}
