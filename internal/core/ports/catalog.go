package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/hold"

	"github.com/shopspring/decimal"
)

// CatalogReader provides nominal stock per (product, unit). It is owned by
// catalog ingestion; the core only reads it.
type CatalogReader interface {
	// Nominal returns the catalog quantity, or errs.ObjectNotFoundError when
	// the item is not stocked in that unit.
	Nominal(ctx context.Context, key hold.StockKey) (decimal.Decimal, error)
}
