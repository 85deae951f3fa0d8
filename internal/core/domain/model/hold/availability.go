package hold

import "github.com/shopspring/decimal"

// Availability is the sellable quantity of one stocked item at a point in time.
type Availability struct {
	Key      StockKey
	Nominal  decimal.Decimal
	Reserved decimal.Decimal
}

// NewAvailability combines the catalog quantity with the sum of live holds.
func NewAvailability(key StockKey, nominal, reserved decimal.Decimal) Availability {
	return Availability{Key: key, Nominal: nominal, Reserved: reserved}
}

// Available is nominal minus reserved, never below zero. Holds are not
// rejected for capacity, so reservations may exceed the catalog quantity.
func (a Availability) Available() decimal.Decimal {
	left := a.Nominal.Sub(a.Reserved)
	if left.IsNegative() {
		return decimal.Zero
	}
	return left
}

// Oversold reports whether live holds exceed the catalog quantity.
func (a Availability) Oversold() bool {
	return a.Reserved.GreaterThan(a.Nominal)
}
