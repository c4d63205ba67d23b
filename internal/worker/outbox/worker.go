package outbox

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/spf13/viper"
	"github.com/streadway/amqp"

	"github.com/aquavenda/pos/internal/dal/rabbitmq"
	"github.com/aquavenda/pos/internal/service/models/outbox"
)

// mirrorQueue is the slice of the order service the worker drains.
type mirrorQueue interface {
	PendingMirrorMessages(ctx context.Context, limit int) ([]outbox.Message, error)
	MarkMirrorPublished(ctx context.Context, id string) error
	UpdateMirrorRetry(ctx context.Context, id string, retryCount int, lastError string, nextRetryAt time.Time) error
}

// Worker publishes queued order mirror messages to RabbitMQ. Publishing
// is fire-and-forget from the save path's perspective: the worker owns
// retries and never feeds back into order state.
type Worker struct {
	queue        mirrorQueue
	rabbitClient *rabbitmq.Client
	pollInterval time.Duration
	batchSize    int
	stopCh       chan struct{}
}

// NewWorker creates a new outbox worker.
func NewWorker(queue mirrorQueue, rabbitClient *rabbitmq.Client) *Worker {
	pollIntervalSeconds := viper.GetInt("rabbitmq.outbox.poll_interval_seconds")
	if pollIntervalSeconds == 0 {
		pollIntervalSeconds = 10
	}

	batchSize := viper.GetInt("rabbitmq.outbox.batch_size")
	if batchSize == 0 {
		batchSize = 100
	}

	return &Worker{
		queue:        queue,
		rabbitClient: rabbitClient,
		pollInterval: time.Duration(pollIntervalSeconds) * time.Second,
		batchSize:    batchSize,
		stopCh:       make(chan struct{}),
	}
}

// Start begins draining the outbox until the context is done.
func (w *Worker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	slog.Info("Outbox worker started", "poll_interval", w.pollInterval, "batch_size", w.batchSize)

	for {
		select {
		case <-ctx.Done():
			slog.Info("Outbox worker shutting down")

			return
		case <-w.stopCh:
			slog.Info("Outbox worker stopped")

			return
		case <-ticker.C:
			w.processMessages(ctx)
		}
	}
}

// Stop stops the worker.
func (w *Worker) Stop() {
	close(w.stopCh)
}

// processMessages publishes due messages, marking successes and
// scheduling exponential-backoff retries for failures.
func (w *Worker) processMessages(ctx context.Context) {
	messages, err := w.queue.PendingMirrorMessages(ctx, w.batchSize)
	if err != nil {
		slog.Error("Failed to get pending mirror messages", "error", err)

		return
	}

	if len(messages) == 0 {
		return
	}

	slog.Info("Publishing mirror messages", "count", len(messages))

	for _, msg := range messages {
		err := w.rabbitClient.Channel().Publish(
			msg.ExchangeName,
			msg.RoutingKey,
			false,
			false,
			amqp.Publishing{
				ContentType: msg.ContentType,
				Body:        msg.Payload,
			},
		)

		if err != nil {
			newRetryCount := msg.RetryCount + 1
			backoffSeconds := math.Pow(2, float64(newRetryCount)) * 30 // 60s, 120s, 240s, ...
			nextRetryAt := time.Now().Add(time.Duration(backoffSeconds) * time.Second)

			slog.Warn("Failed to publish mirror message, will retry",
				"outbox_id", msg.ID,
				"retry_count", newRetryCount,
				"next_retry", nextRetryAt,
				"error", err,
			)

			if err := w.queue.UpdateMirrorRetry(ctx, msg.ID, newRetryCount, err.Error(), nextRetryAt); err != nil {
				slog.Error("Failed to update retry information", "outbox_id", msg.ID, "error", err)
			}
		} else {
			if err := w.queue.MarkMirrorPublished(ctx, msg.ID); err != nil {
				slog.Error("Failed to mark mirror message published", "outbox_id", msg.ID, "error", err)
			} else {
				slog.Info("Mirror message published", "outbox_id", msg.ID)
			}
		}
	}
}
