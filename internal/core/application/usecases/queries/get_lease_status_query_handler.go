package queries

import (
	"context"

	"fulfillment/internal/pkg/errs"

	"gorm.io/gorm"
)

// GetLeaseStatusQueryHandler reads lease snapshots straight from the orders table.
type GetLeaseStatusQueryHandler struct {
	db *gorm.DB
}

func NewGetLeaseStatusQueryHandler(db *gorm.DB) GetLeaseStatusQueryHandler {
	return GetLeaseStatusQueryHandler{db: db}
}

// Handle returns errs.ObjectNotFoundError when the order does not exist.
func (h GetLeaseStatusQueryHandler) Handle(
	ctx context.Context,
	query GetLeaseStatusQuery,
) (GetLeaseStatusQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetLeaseStatusQueryResponse{}, err
	}

	var row orderRow
	result := h.db.WithContext(ctx).Raw(selectOrderRow, query.OrderID().Bytes()).Scan(&row)
	if result.Error != nil {
		return GetLeaseStatusQueryResponse{}, result.Error
	}
	if result.RowsAffected == 0 {
		return GetLeaseStatusQueryResponse{}, errs.NewObjectNotFoundError("orderId", query.OrderID())
	}

	o, err := row.toOrder()
	if err != nil {
		return GetLeaseStatusQueryResponse{}, err
	}
	lease, err := o.Lease(query.Kind())
	if err != nil {
		return GetLeaseStatusQueryResponse{}, err
	}

	return GetLeaseStatusQueryResponse{
		OrderID:     o.ID(),
		OrderStatus: o.Status(),
		Lease:       lease,
	}, nil
}
