package order_test

import (
	"errors"
	"testing"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func restoreOrder(t *testing.T, status order.Status, packing, delivery order.Lease) *order.Order {
	t.Helper()
	o, err := order.RestoreOrder(kernel.NewUUID(), status, packing, delivery, leaseNow.Add(-time.Hour), leaseNow.Add(-time.Hour))
	require.NoError(t, err)
	return o
}

func TestNewOrder(t *testing.T) {
	t.Run("should create a placed order with idle leases", func(t *testing.T) {
		id := kernel.NewUUID()

		o, err := order.NewOrder(id, leaseNow)

		require.NoError(t, err)
		require.NoError(t, o.Validate())
		assert.True(t, o.ID().IsEqual(id))
		assert.Equal(t, order.Placed, o.Status())
		assert.Equal(t, order.LeaseIdle, o.PackingLease().Status())
		assert.Equal(t, order.LeaseIdle, o.DeliveryLease().Status())
		assert.Equal(t, leaseNow, o.PlacedAt())
	})

	t.Run("should fail with invalid UUID", func(t *testing.T) {
		var invalidID kernel.UUID

		o, err := order.NewOrder(invalidID, leaseNow)

		require.Error(t, err)
		assert.Nil(t, o)
		assert.True(t, errors.Is(err, errs.ErrValueIsRequired))
	})

	t.Run("should fail without placement time", func(t *testing.T) {
		_, err := order.NewOrder(kernel.NewUUID(), time.Time{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "placedAt")
	})
}

func TestRestoreOrder(t *testing.T) {
	t.Run("should reject swapped leases", func(t *testing.T) {
		_, err := order.RestoreOrder(
			kernel.NewUUID(), order.Placed,
			order.NewIdleLease(order.DeliveryLease), order.NewIdleLease(order.PackingLease),
			leaseNow, leaseNow,
		)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "packingLease")
	})

	t.Run("should reject unknown status", func(t *testing.T) {
		_, err := order.RestoreOrder(
			kernel.NewUUID(), order.Unknown,
			order.NewIdleLease(order.PackingLease), order.NewIdleLease(order.DeliveryLease),
			leaseNow, leaseNow,
		)
		require.Error(t, err)
	})

	t.Run("zero value order is not constructed", func(t *testing.T) {
		var o order.Order
		assert.ErrorIs(t, o.Validate(), order.ErrOrderIsNotConstructed)
	})
}

func TestOrder_TransitionTo(t *testing.T) {
	santiago := mustWorker(t, "Santiago")
	mauro := mustWorker(t, "Mauro")
	idlePacking := order.NewIdleLease(order.PackingLease)
	idleDelivery := order.NewIdleLease(order.DeliveryLease)

	t.Run("ungated edge needs no worker", func(t *testing.T) {
		o := restoreOrder(t, order.Placed, idlePacking, idleDelivery)

		tr, err := o.TransitionTo(order.EvidenceUploaded, kernel.WorkerID{}, leaseNow, staleAfter)

		require.NoError(t, err)
		assert.Equal(t, order.EvidenceUploaded, o.Status())
		assert.Equal(t, order.Placed, tr.From())
		assert.False(t, tr.IsGated())
		assert.Equal(t, leaseNow, o.UpdatedAt())
	})

	t.Run("payment verification confirms the hold", func(t *testing.T) {
		o := restoreOrder(t, order.EvidenceUploaded, idlePacking, idleDelivery)

		tr, err := o.TransitionTo(order.PaymentVerified, kernel.WorkerID{}, leaseNow, staleAfter)

		require.NoError(t, err)
		assert.True(t, tr.ConfirmsHold())
	})

	t.Run("illegal edge is a validation error", func(t *testing.T) {
		o := restoreOrder(t, order.Placed, idlePacking, idleDelivery)

		_, err := o.TransitionTo(order.Delivered, mauro, leaseNow, staleAfter)

		require.Error(t, err)
		assert.True(t, errors.Is(err, errs.ErrValueIsInvalid))
		assert.Equal(t, order.Placed, o.Status())
	})

	t.Run("packing requires the packing lease", func(t *testing.T) {
		o := restoreOrder(t, order.PaymentVerified, heldLease(t, order.PackingLease, "Santiago", leaseNow), idleDelivery)

		_, err := o.TransitionTo(order.Packing, mauro, leaseNow, staleAfter)

		require.Error(t, err)
		var nh *errs.NotLeaseHolderError
		require.True(t, errors.As(err, &nh))
		assert.Equal(t, "Santiago", nh.Holder)
		assert.Equal(t, order.PaymentVerified, o.Status())
	})

	t.Run("gated edge without worker is rejected", func(t *testing.T) {
		o := restoreOrder(t, order.PaymentVerified, heldLease(t, order.PackingLease, "Santiago", leaseNow), idleDelivery)

		_, err := o.TransitionTo(order.Packing, kernel.WorkerID{}, leaseNow, staleAfter)

		require.Error(t, err)
		assert.True(t, errors.Is(err, errs.ErrValueIsRequired))
	})

	t.Run("label generation completes the packing lease", func(t *testing.T) {
		o := restoreOrder(t, order.Packing, heldLease(t, order.PackingLease, "Santiago", leaseNow), idleDelivery)

		tr, err := o.TransitionTo(order.LabelGenerated, santiago, leaseNow, staleAfter)

		require.NoError(t, err)
		assert.True(t, tr.CompletesLease())
		assert.Equal(t, order.PackingLease, tr.Gate())
		assert.Equal(t, order.LeaseReady, o.PackingLease().Status())
		assert.Equal(t, "Santiago", o.PackingLease().ClaimedBy().String())
	})

	t.Run("label generation accepts an already ready lease of the same worker", func(t *testing.T) {
		ready, err := order.RestoreLease(order.PackingLease, order.LeaseReady, "Santiago", leaseNow, leaseNow, nil, "")
		require.NoError(t, err)
		o := restoreOrder(t, order.Packing, ready, idleDelivery)

		_, err = o.TransitionTo(order.LabelGenerated, santiago, leaseNow, staleAfter)
		require.NoError(t, err)

		o = restoreOrder(t, order.Packing, ready, idleDelivery)
		_, err = o.TransitionTo(order.LabelGenerated, mauro, leaseNow, staleAfter)
		require.ErrorIs(t, err, errs.ErrNotLeaseHolder)
	})

	t.Run("delivery keeps its lease through pending delivery", func(t *testing.T) {
		o := restoreOrder(t, order.LabelGenerated, idlePacking, heldLease(t, order.DeliveryLease, "Mauro", leaseNow))

		_, err := o.TransitionTo(order.PendingDelivery, mauro, leaseNow, staleAfter)
		require.NoError(t, err)
		assert.Equal(t, order.LeaseInProgress, o.DeliveryLease().Status())

		_, err = o.TransitionTo(order.Delivered, mauro, leaseNow, staleAfter)
		require.NoError(t, err)
		assert.Equal(t, order.Delivered, o.Status())
		assert.Equal(t, order.LeaseReady, o.DeliveryLease().Status())
	})

	t.Run("pending delivery needs an in-progress lease", func(t *testing.T) {
		ready, err := order.RestoreLease(order.DeliveryLease, order.LeaseReady, "Mauro", leaseNow, leaseNow, nil, "")
		require.NoError(t, err)
		o := restoreOrder(t, order.LabelGenerated, idlePacking, ready)

		_, err = o.TransitionTo(order.PendingDelivery, mauro, leaseNow, staleAfter)
		require.ErrorIs(t, err, errs.ErrNotLeaseHolder)
	})

	t.Run("silent holder cannot advance until it reclaims", func(t *testing.T) {
		silent := heldLease(t, order.PackingLease, "Santiago", leaseNow.Add(-staleAfter-time.Minute))
		o := restoreOrder(t, order.PaymentVerified, silent, idleDelivery)

		_, err := o.TransitionTo(order.Packing, santiago, leaseNow, staleAfter)

		require.ErrorIs(t, err, errs.ErrNotLeaseHolder)
		var nh *errs.NotLeaseHolderError
		require.True(t, errors.As(err, &nh))
		assert.Empty(t, nh.Holder)
		assert.Equal(t, order.PaymentVerified, o.Status())

		o = restoreOrder(t, order.PaymentVerified, silent, idleDelivery)
		_, err = o.TransitionTo(order.Packing, santiago, leaseNow, 0)
		require.NoError(t, err)
	})

	t.Run("ready lease is not subject to the heartbeat bound", func(t *testing.T) {
		ready, err := order.RestoreLease(order.PackingLease, order.LeaseReady, "Santiago",
			leaseNow.Add(-2*time.Hour), leaseNow.Add(-2*time.Hour), nil, "")
		require.NoError(t, err)
		o := restoreOrder(t, order.Packing, ready, idleDelivery)

		_, err = o.TransitionTo(order.LabelGenerated, santiago, leaseNow, staleAfter)
		require.NoError(t, err)
	})
}
