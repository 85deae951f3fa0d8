package order

import (
	"errors"
	"fmt"
	"strings"

	"fulfillment/internal/pkg/errs"
)

// ErrTransitionNotAllowed is the cause carried by the validation error
// returned for an edge missing from the transition table.
var ErrTransitionNotAllowed = errors.New("status transition is not allowed")

// Status represents the lifecycle state of an order.
//
// State transitions:
//
//	Placed ──> EvidenceUploaded ──> PaymentVerified ──> Packing ──> LabelGenerated
//	                                                                  │      ^
//	                                                                  v      │
//	                                          Delivered <──── PendingDelivery
//
// LabelGenerated may also go straight to Delivered. Delivered is final.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Placed is the initial status of an order submitted by a customer.
	Placed

	// EvidenceUploaded means the customer attached a payment receipt.
	EvidenceUploaded

	// PaymentVerified means an administrator accepted the payment.
	// Entering it confirms the order's stock hold.
	PaymentVerified

	// Packing means a warehouse worker holding the packing lease started packing.
	Packing

	// LabelGenerated means crates are packed and labeled.
	LabelGenerated

	// PendingDelivery means a driver holding the delivery lease loaded the order.
	PendingDelivery

	// Delivered is the final state.
	Delivered
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:          "UNKNOWN",
		Placed:           "PLACED",
		EvidenceUploaded: "EVIDENCE_UPLOADED",
		PaymentVerified:  "PAYMENT_VERIFIED",
		Packing:          "PACKING",
		LabelGenerated:   "LABEL_GENERATED",
		PendingDelivery:  "PENDING_DELIVERY",
		Delivered:        "DELIVERED",
	}
}

// Validate checks that s is one of the known statuses. Unknown (0) is invalid.
func (s Status) Validate() error {
	if s <= Unknown || s > Delivered {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the wire name of the status, e.g. "PAYMENT_VERIFIED".
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "UNKNOWN"
}

// ParseStatus converts a wire name back into a Status.
func ParseStatus(s string) (Status, error) {
	normalized := strings.ToUpper(strings.TrimSpace(s))
	for status, name := range getStatusStrings() {
		if status != Unknown && name == normalized {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid status", s))
}

// IsFinal reports whether no transition leaves s.
func (s Status) IsFinal() bool {
	return len(transitionTable[s]) == 0
}

// Rule describes a single edge of the transition table.
type Rule struct {
	// Gate is the lease the caller must hold, NoLease for ungated edges.
	Gate LeaseKind

	// AcceptsReady lets the holder proceed when the gate lease is already ready.
	AcceptsReady bool

	// CompletesLease moves the gate lease to ready as part of the transition.
	CompletesLease bool

	// ConfirmsHold confirms the order's stock hold as part of the transition.
	ConfirmsHold bool
}

var transitionTable = map[Status]map[Status]Rule{
	Placed: {
		EvidenceUploaded: {},
	},
	EvidenceUploaded: {
		PaymentVerified: {ConfirmsHold: true},
	},
	PaymentVerified: {
		Packing: {Gate: PackingLease},
	},
	Packing: {
		LabelGenerated: {Gate: PackingLease, AcceptsReady: true, CompletesLease: true},
	},
	LabelGenerated: {
		PendingDelivery: {Gate: DeliveryLease},
		Delivered:       {Gate: DeliveryLease, AcceptsReady: true, CompletesLease: true},
	},
	PendingDelivery: {
		LabelGenerated: {Gate: DeliveryLease},
		Delivered:      {Gate: DeliveryLease, AcceptsReady: true, CompletesLease: true},
	},
}

// RuleTo looks up the edge s -> next.
//
// Returns a validation error wrapping ErrTransitionNotAllowed when the
// table has no such edge.
func (s Status) RuleTo(next Status) (Rule, error) {
	if err := next.Validate(); err != nil {
		return Rule{}, err
	}
	rule, ok := transitionTable[s][next]
	if !ok {
		return Rule{}, errs.NewValueIsInvalidErrorWithCause(
			"status",
			fmt.Errorf("%w: %s -> %s", ErrTransitionNotAllowed, s, next),
		)
	}
	return rule, nil
}

// Next lists the statuses reachable from s in one step.
func (s Status) Next() []Status {
	next := make([]Status, 0, len(transitionTable[s]))
	for status := Placed; status <= Delivered; status++ {
		if _, ok := transitionTable[s][status]; ok {
			next = append(next, status)
		}
	}
	return next
}
