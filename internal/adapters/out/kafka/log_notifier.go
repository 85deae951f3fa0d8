package kafka

import (
	"context"
	"log/slog"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
)

// LogNotifier stands in for Kafka when no broker is configured.
type LogNotifier struct {
	logger *slog.Logger
}

var _ ports.StageNotifier = (*LogNotifier)(nil)

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger.With("component", "stage-notifier")}
}

func (n *LogNotifier) NotifyStage(_ context.Context, orderID kernel.UUID, stage order.Status) error {
	n.logger.Info("stage changed", "orderId", orderID.String(), "stage", stage.String())
	return nil
}

func (n *LogNotifier) Close() error {
	return nil
}
