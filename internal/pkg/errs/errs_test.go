package errs_test

import (
	"errors"
	"fmt"
	"testing"

	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectNotFoundError(t *testing.T) {
	t.Run("NewObjectNotFoundError", func(t *testing.T) {
		err := errs.NewObjectNotFoundError("orderId", "123")

		assert.Equal(t, "orderId", err.ParamName)
		assert.Equal(t, "123", err.ID)
		require.NoError(t, err.Cause)
		assert.Equal(t, "object not found: 123", err.Error())
		assert.Equal(t, errs.ErrObjectNotFound, err.Unwrap())
	})

	t.Run("NewObjectNotFoundErrorWithCause", func(t *testing.T) {
		cause := errors.New("database connection failed")
		err := errs.NewObjectNotFoundErrorWithCause("orderId", "123", cause)

		assert.Equal(t, cause, err.Cause)
		assert.Equal(t,
			"object not found: param is: orderId, ID is: 123 (cause: database connection failed)",
			err.Error())
		assert.Equal(t, errs.ErrObjectNotFound, err.Unwrap())
	})
}

func TestValueIsInvalidError(t *testing.T) {
	t.Run("NewValueIsInvalidError", func(t *testing.T) {
		err := errs.NewValueIsInvalidError("workerId")

		assert.Equal(t, "workerId", err.ParamName)
		require.NoError(t, err.Cause)
		assert.Equal(t, "value is invalid: workerId", err.Error())
		assert.Equal(t, errs.ErrValueIsInvalid, err.Unwrap())
	})

	t.Run("NewValueIsInvalidErrorWithCause", func(t *testing.T) {
		cause := errors.New("sentinel identity")
		err := errs.NewValueIsInvalidErrorWithCause("workerId", cause)

		assert.Equal(t, cause, err.Cause)
		assert.Equal(t, "value is invalid: workerId (cause: sentinel identity)", err.Error())
	})

	t.Run("matches both the sentinel and the cause", func(t *testing.T) {
		cause := errors.New("edge not in table")
		err := fmt.Errorf("transition: %w", errs.NewValueIsInvalidErrorWithCause("status", cause))

		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.ErrorIs(t, err, cause)
		assert.NotErrorIs(t, err, errors.New("edge not in table"))
		assert.NotErrorIs(t, errs.NewValueIsInvalidError("status"), cause)
	})
}

func TestValueIsRequiredError(t *testing.T) {
	t.Run("NewValueIsRequiredError", func(t *testing.T) {
		err := errs.NewValueIsRequiredError("orderId")

		assert.Equal(t, "orderId", err.ParamName)
		assert.Equal(t, "value is required: orderId", err.Error())
		assert.Equal(t, errs.ErrValueIsRequired, err.Unwrap())
	})

	t.Run("NewValueIsRequiredErrorWithCause", func(t *testing.T) {
		cause := errors.New("blank after trimming")
		err := errs.NewValueIsRequiredErrorWithCause("workerId", cause)

		assert.Equal(t, "value is required: workerId (cause: blank after trimming)", err.Error())
	})
}

func TestLeaseConflictError(t *testing.T) {
	err := errs.NewLeaseConflictError("o-1", "packing", "Santiago", "in_progress")

	assert.Equal(t, "Santiago", err.Holder)
	assert.Equal(t,
		"lease is held by another worker: packing lease of order o-1 is in_progress by Santiago",
		err.Error())
	require.ErrorIs(t, err, errs.ErrLeaseConflict)
	assert.NotErrorIs(t, err, errs.ErrNotLeaseHolder)

	t.Run("holder with newlines is folded", func(t *testing.T) {
		err := errs.NewLeaseConflictError("o-1", "delivery", "Mau\nro", "ready")
		assert.NotContains(t, err.Error(), "\n")
		assert.Contains(t, err.Error(), "Mau ro")
	})
}

func TestNotLeaseHolderError(t *testing.T) {
	t.Run("held by someone else", func(t *testing.T) {
		err := errs.NewNotLeaseHolderError("o-1", "packing", "Mauro", "Santiago")

		assert.Equal(t,
			"caller does not hold the lease: Mauro is not holding the packing lease of order o-1 (held by Santiago)",
			err.Error())
		require.ErrorIs(t, err, errs.ErrNotLeaseHolder)
		assert.NotErrorIs(t, err, errs.ErrLeaseConflict)
	})

	t.Run("free lease", func(t *testing.T) {
		err := errs.NewNotLeaseHolderError("o-1", "delivery", "Mauro", "")

		assert.Contains(t, err.Error(), "(lease is free)")
	})
}

func TestConcurrentModificationError(t *testing.T) {
	err := errs.NewConcurrentModificationError("order", "o-1")

	assert.Equal(t, "object was modified concurrently: order o-1", err.Error())
	require.ErrorIs(t, err, errs.ErrConcurrentModification)
}

func TestErrorsCanBeMatchedWithAs(t *testing.T) {
	var wrapped error = errors.Join(errors.New("context"), errs.NewLeaseConflictError("o-1", "packing", "A", "in_progress"))

	var conflict *errs.LeaseConflictError
	require.ErrorAs(t, wrapped, &conflict)
	assert.Equal(t, "A", conflict.Holder)
}
