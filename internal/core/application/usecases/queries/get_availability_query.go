package queries

import (
	"errors"

	"fulfillment/internal/core/domain/model/hold"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrGetAvailabilityQueryIsNotConstructed = errors.New(
		"GetAvailabilityQuery must be created via NewGetAvailabilityQuery constructor",
	)
)

// GetAvailabilityQuery asks how much of one stocked item can still be sold.
type GetAvailabilityQuery struct {
	key   hold.StockKey
	guard guard.ConstructorGuard
}

func NewGetAvailabilityQuery(product, unit string) (GetAvailabilityQuery, error) {
	key, err := hold.NewStockKey(product, unit)
	if err != nil {
		return GetAvailabilityQuery{}, err
	}
	return GetAvailabilityQuery{key: key, guard: guard.NewConstructorGuard()}, nil
}

func (q GetAvailabilityQuery) Validate() error {
	return q.guard.Validate(ErrGetAvailabilityQueryIsNotConstructed)
}

func (q GetAvailabilityQuery) Key() hold.StockKey {
	return q.key
}
