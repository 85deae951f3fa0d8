package queries

import (
	"context"

	"fulfillment/internal/core/domain/model/hold"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/clock"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GetAvailabilityQueryHandler computes availability at read time from the
// catalog quantity and the live holds. There is no stored counter to drift.
type GetAvailabilityQueryHandler struct {
	db      *gorm.DB
	catalog ports.CatalogReader
	clock   clock.Clock
}

func NewGetAvailabilityQueryHandler(
	db *gorm.DB,
	catalog ports.CatalogReader,
	clk clock.Clock,
) GetAvailabilityQueryHandler {
	return GetAvailabilityQueryHandler{db: db, catalog: catalog, clock: clk}
}

// Handle returns errs.ObjectNotFoundError when the catalog does not stock the item.
func (h GetAvailabilityQueryHandler) Handle(ctx context.Context, query GetAvailabilityQuery) (hold.Availability, error) {
	if err := query.Validate(); err != nil {
		return hold.Availability{}, err
	}

	key := query.Key()
	nominal, err := h.catalog.Nominal(ctx, key)
	if err != nil {
		return hold.Availability{}, err
	}

	var reserved decimal.Decimal
	err = h.db.WithContext(ctx).Raw(`
		SELECT COALESCE(SUM(l.quantity), 0)
		FROM stock_hold_lines l
		JOIN stock_holds h ON h.id = l.hold_id
		WHERE l.product = ?
			AND l.unit = ?
			AND (h.confirmed OR h.expires_at > ?)
	`, key.Product, key.Unit, h.clock.Now()).Row().Scan(&reserved)
	if err != nil {
		return hold.Availability{}, err
	}

	return hold.NewAvailability(key, nominal, reserved), nil
}
