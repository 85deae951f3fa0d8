package hold_test

import (
	"errors"
	"testing"
	"time"

	"fulfillment/internal/core/domain/model/hold"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

func mustLine(t *testing.T, product, unit, qty string) hold.Line {
	t.Helper()
	l, err := hold.NewLine(product, unit, decimal.RequireFromString(qty))
	require.NoError(t, err)
	return l
}

func TestNewLine(t *testing.T) {
	t.Run("should normalize the key", func(t *testing.T) {
		l := mustLine(t, " Tomato ", " KG ", "2.5")

		assert.Equal(t, hold.StockKey{Product: "Tomato", Unit: "kg"}, l.Key())
		assert.True(t, decimal.RequireFromString("2.5").Equal(l.Quantity()))
	})

	t.Run("should reject non positive quantities", func(t *testing.T) {
		_, err := hold.NewLine("Tomato", "kg", decimal.Zero)
		require.Error(t, err)
		assert.True(t, errors.Is(err, errs.ErrValueIsInvalid))
	})

	t.Run("should require product and unit", func(t *testing.T) {
		_, err := hold.NewLine("", " ", decimal.NewFromInt(1))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "product")
		assert.Contains(t, err.Error(), "unit")
	})
}

func TestNewStockHold(t *testing.T) {
	lines := []hold.Line{mustLine(t, "Tomato", "kg", "5")}

	t.Run("should expire ttl after creation", func(t *testing.T) {
		h, err := hold.NewStockHold(kernel.NewUUID(), kernel.NewUUID(), lines, now, time.Hour)

		require.NoError(t, err)
		require.NoError(t, h.Validate())
		assert.Equal(t, now.Add(time.Hour), h.ExpiresAt())
		assert.False(t, h.IsConfirmed())
	})

	t.Run("should require lines", func(t *testing.T) {
		_, err := hold.NewStockHold(kernel.NewUUID(), kernel.NewUUID(), nil, now, time.Hour)
		require.Error(t, err)
		assert.True(t, errors.Is(err, errs.ErrValueIsRequired))
	})

	t.Run("should reject non positive ttl", func(t *testing.T) {
		_, err := hold.NewStockHold(kernel.NewUUID(), kernel.NewUUID(), lines, now, 0)
		require.Error(t, err)
	})
}

func TestStockHold_Restore(t *testing.T) {
	lines := []hold.Line{mustLine(t, "Tomato", "kg", "5"), mustLine(t, "Lemon", "crate", "2")}
	h, err := hold.NewStockHold(kernel.NewUUID(), kernel.NewUUID(), lines, now, time.Second)
	require.NoError(t, err)

	assert.Equal(t, now.Add(time.Second), h.ExpiresAt())
	assert.False(t, h.IsConfirmed())

	lines[0] = mustLine(t, "Onion", "kg", "9")
	assert.Equal(t, "Tomato", h.Lines()[0].Product())

	t.Run("keeps the confirmed flag past expiry", func(t *testing.T) {
		restored, err := hold.RestoreStockHold(h.ID(), h.OrderID(), h.Lines(), true, h.ExpiresAt(), h.CreatedAt())
		require.NoError(t, err)

		assert.True(t, restored.IsConfirmed())
		assert.Equal(t, h.ExpiresAt(), restored.ExpiresAt())
	})

	t.Run("rejects an expiry before creation", func(t *testing.T) {
		_, err := hold.RestoreStockHold(h.ID(), h.OrderID(), h.Lines(), false, now.Add(-time.Second), now)
		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestAvailability(t *testing.T) {
	key := hold.StockKey{Product: "Tomato", Unit: "kg"}

	a := hold.NewAvailability(key, decimal.NewFromInt(8), decimal.NewFromInt(10))
	assert.True(t, decimal.Zero.Equal(a.Available()))
	assert.True(t, a.Oversold())

	a = hold.NewAvailability(key, decimal.NewFromInt(8), decimal.NewFromInt(5))
	assert.True(t, decimal.NewFromInt(3).Equal(a.Available()))
	assert.False(t, a.Oversold())
}
