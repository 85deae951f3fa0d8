package hold

import (
	"errors"
	"fmt"
	"strings"

	"fulfillment/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// StockKey identifies a stocked item. The same product may be sold in
// several units ("kg", "crate"), each tracked separately.
type StockKey struct {
	Product string
	Unit    string
}

// NewStockKey normalizes product and unit names.
func NewStockKey(product, unit string) (StockKey, error) {
	key := StockKey{
		Product: strings.TrimSpace(product),
		Unit:    strings.ToLower(strings.TrimSpace(unit)),
	}
	if err := errors.Join(
		requireText("product", key.Product),
		requireText("unit", key.Unit),
	); err != nil {
		return StockKey{}, err
	}
	return key, nil
}

func (k StockKey) String() string {
	return k.Product + "/" + k.Unit
}

// Line is one reserved quantity of a stocked item.
type Line struct {
	key      StockKey
	quantity decimal.Decimal
}

// NewLine builds a line with a strictly positive quantity.
func NewLine(product, unit string, quantity decimal.Decimal) (Line, error) {
	key, err := NewStockKey(product, unit)
	if err != nil {
		return Line{}, err
	}
	if !quantity.IsPositive() {
		return Line{}, errs.NewValueIsInvalidErrorWithCause(
			"quantity", fmt.Errorf("%s is not greater than 0", quantity.String()))
	}
	return Line{key: key, quantity: quantity}, nil
}

func (l Line) Key() StockKey {
	return l.key
}

func (l Line) Product() string {
	return l.key.Product
}

func (l Line) Unit() string {
	return l.key.Unit
}

func (l Line) Quantity() decimal.Decimal {
	return l.quantity
}

func requireText(name, value string) error {
	if value == "" {
		return errs.NewValueIsRequiredError(name)
	}
	return nil
}
