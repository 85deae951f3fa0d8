package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/clock"

	"github.com/IBM/sarama"
	"github.com/sony/gobreaker"
)

// StageMessage is the payload consumed by the notification dispatcher.
type StageMessage struct {
	OrderID    string    `json:"orderId"`
	Stage      string    `json:"stage"`
	OccurredAt time.Time `json:"occurredAt"`
}

// StageNotifier writes one message per status change. Messages are keyed by
// order id so a consumer sees the stages of one order in order.
type StageNotifier struct {
	producer sarama.SyncProducer
	topic    string
	cb       *gobreaker.CircuitBreaker
	clock    clock.Clock
	logger   *slog.Logger
}

var _ ports.StageNotifier = (*StageNotifier)(nil)

func NewStageNotifier(producer sarama.SyncProducer, topic string, clk clock.Clock, logger *slog.Logger) *StageNotifier {
	logger = logger.With("component", "stage-notifier")

	settings := gobreaker.Settings{
		Name:        "kafka-stage-notifier",
		MaxRequests: 1,
		Interval:    30 * time.Second,
		Timeout:     15 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 5 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				"name", name,
				"from", from.String(),
				"to", to.String())
		},
	}

	return &StageNotifier{
		producer: producer,
		topic:    topic,
		cb:       gobreaker.NewCircuitBreaker(settings),
		clock:    clk,
		logger:   logger,
	}
}

// NotifyStage publishes (stage, orderId). While the breaker is open it fails
// fast with gobreaker.ErrOpenState instead of waiting on the broker.
func (n *StageNotifier) NotifyStage(ctx context.Context, orderID kernel.UUID, stage order.Status) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	payload, err := json.Marshal(StageMessage{
		OrderID:    orderID.String(),
		Stage:      stage.String(),
		OccurredAt: n.clock.Now(),
	})
	if err != nil {
		return err
	}

	msg := &sarama.ProducerMessage{
		Topic: n.topic,
		Key:   sarama.StringEncoder(orderID.String()),
		Value: sarama.ByteEncoder(payload),
	}

	_, err = n.cb.Execute(func() (interface{}, error) {
		partition, offset, sendErr := n.producer.SendMessage(msg)
		if sendErr != nil {
			return nil, sendErr
		}
		n.logger.Debug("stage published",
			"orderId", orderID.String(),
			"stage", stage.String(),
			"partition", partition,
			"offset", offset)
		return nil, nil
	})
	if err != nil {
		return fmt.Errorf("publish stage %s for order %s: %w", stage, orderID, err)
	}
	return nil
}

// Close releases the underlying producer.
func (n *StageNotifier) Close() error {
	return n.producer.Close()
}
