package queries_test

import (
	"testing"

	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGetLeaseStatusQuery(t *testing.T) {
	id := kernel.NewUUID()

	query, err := queries.NewGetLeaseStatusQuery(id, order.DeliveryLease)
	require.NoError(t, err)
	require.NoError(t, query.Validate())
	assert.True(t, query.OrderID().IsEqual(id))
	assert.Equal(t, order.DeliveryLease, query.Kind())

	_, err = queries.NewGetLeaseStatusQuery(id, order.NoLease)
	assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestQueries_NotConstructedViaConstructor(t *testing.T) {
	assert.ErrorIs(t, queries.GetLeaseStatusQuery{}.Validate(), queries.ErrGetLeaseStatusQueryIsNotConstructed)
	assert.ErrorIs(t, queries.GetOrderQuery{}.Validate(), queries.ErrGetOrderQueryIsNotConstructed)
	assert.ErrorIs(t, queries.GetAvailabilityQuery{}.Validate(), queries.ErrGetAvailabilityQueryIsNotConstructed)
}

func TestNewGetOrderQuery_RequiresID(t *testing.T) {
	_, err := queries.NewGetOrderQuery(kernel.UUID{})
	assert.ErrorIs(t, err, errs.ErrValueIsRequired)
}

func TestNewGetAvailabilityQuery_NormalizesUnit(t *testing.T) {
	query, err := queries.NewGetAvailabilityQuery(" Tomato ", "KG")
	require.NoError(t, err)
	assert.Equal(t, "Tomato", query.Key().Product)
	assert.Equal(t, "kg", query.Key().Unit)

	_, err = queries.NewGetAvailabilityQuery("Tomato", " ")
	assert.ErrorIs(t, err, errs.ErrValueIsRequired)
}
