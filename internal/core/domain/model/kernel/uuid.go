package kernel

import (
	"fulfillment/internal/pkg/errs"

	"github.com/google/uuid"
)

// ErrUUIDIsNotConstructed indicates a zero-value UUID.
var ErrUUIDIsNotConstructed = errs.NewValueIsRequiredError("UUID must be created via NewUUID, UUIDFromString, or UUIDFromBytes")

// UUID identifies orders and stock holds. It wraps github.com/google/uuid so
// the domain never handles the nil UUID by accident.
//
// Example:
//
//	orderID := kernel.NewUUID()
//
//	id, err := kernel.UUIDFromString(c.Param("orderId"))
//	if err != nil {
//	    return err // *errs.ValueIsInvalidError
//	}
type UUID struct {
	id uuid.UUID
}

// NewUUID generates a random (version 4) UUID.
func NewUUID() UUID {
	return UUID{id: uuid.New()}
}

// UUIDFromString parses the textual forms accepted by uuid.Parse.
// A malformed or nil UUID is reported as a validation error.
func UUIDFromString(s string) (UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return UUID{}, errs.NewValueIsInvalidErrorWithCause("uuid", err)
	}
	return fromGoogle(id)
}

// UUIDFromBytes restores a UUID from its 16 raw bytes, as stored by the
// repositories.
func UUIDFromBytes(b []byte) (UUID, error) {
	id, err := uuid.FromBytes(b)
	if err != nil {
		return UUID{}, errs.NewValueIsInvalidErrorWithCause("uuid", err)
	}
	return fromGoogle(id)
}

func fromGoogle(id uuid.UUID) (UUID, error) {
	newID := UUID{id: id}
	if err := newID.Validate(); err != nil {
		return UUID{}, err
	}
	return newID, nil
}

// String returns the canonical hyphenated form.
func (u UUID) String() string {
	return u.id.String()
}

// Bytes returns the underlying uuid.UUID for persistence adapters.
func (u UUID) Bytes() uuid.UUID {
	return u.id
}

// IsEqual reports whether both UUIDs hold the same value.
func (u UUID) IsEqual(other UUID) bool {
	return u.id == other.id
}

// Validate returns ErrUUIDIsNotConstructed for the nil UUID.
func (u UUID) Validate() error {
	if u.id == uuid.Nil {
		return ErrUUIDIsNotConstructed
	}
	return nil
}
