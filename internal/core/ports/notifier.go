package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
)

// StageNotifier publishes (stage, orderId) signals for the notification
// dispatcher. Callers treat failures as non-fatal.
type StageNotifier interface {
	NotifyStage(ctx context.Context, orderID kernel.UUID, stage order.Status) error
}
