package queries

import (
	"context"

	"fulfillment/internal/core/domain/model/hold"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/clock"
	"fulfillment/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GetOrderQueryHandler reads the order row and its live holds. Lapsed holds
// are filtered here, so the view never depends on the expiry sweep having run.
type GetOrderQueryHandler struct {
	db    *gorm.DB
	clock clock.Clock
}

func NewGetOrderQueryHandler(db *gorm.DB, clk clock.Clock) GetOrderQueryHandler {
	return GetOrderQueryHandler{db: db, clock: clk}
}

func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (GetOrderQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderQueryResponse{}, err
	}

	db := h.db.WithContext(ctx)

	var row orderRow
	result := db.Raw(selectOrderRow, query.OrderID().Bytes()).Scan(&row)
	if result.Error != nil {
		return GetOrderQueryResponse{}, result.Error
	}
	if result.RowsAffected == 0 {
		return GetOrderQueryResponse{}, errs.NewObjectNotFoundError("orderId", query.OrderID())
	}

	o, err := row.toOrder()
	if err != nil {
		return GetOrderQueryResponse{}, err
	}

	holds, err := h.liveHolds(db, query.OrderID())
	if err != nil {
		return GetOrderQueryResponse{}, err
	}

	return GetOrderQueryResponse{Order: o, Holds: holds}, nil
}

func (h GetOrderQueryHandler) liveHolds(db *gorm.DB, orderID kernel.UUID) ([]HoldView, error) {
	rows, err := db.Raw(`
		SELECT
			h.id,
			h.confirmed,
			h.expires_at,
			l.product,
			l.unit,
			l.quantity
		FROM stock_holds h
		JOIN stock_hold_lines l ON l.hold_id = h.id
		WHERE h.order_id = ?
			AND (h.confirmed OR h.expires_at > ?)
		ORDER BY h.created_at, h.id, l.id
	`, orderID.Bytes(), h.clock.Now()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	holds := make([]HoldView, 0)
	for rows.Next() {
		var (
			id            uuid.UUID
			view          HoldView
			product, unit string
			quantity      decimal.Decimal
		)
		if err = rows.Scan(&id, &view.Confirmed, &view.ExpiresAt, &product, &unit, &quantity); err != nil {
			return nil, err
		}

		line, lineErr := hold.NewLine(product, unit, quantity)
		if lineErr != nil {
			return nil, lineErr
		}

		n := len(holds)
		if n > 0 && holds[n-1].ID.Bytes() == id {
			holds[n-1].Lines = append(holds[n-1].Lines, line)
			continue
		}

		holdID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		view.ID = holdID
		view.Lines = []hold.Line{line}
		holds = append(holds, view)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}
	return holds, nil
}
