package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"admin-console/internal/broker"
	"admin-console/internal/models"
	"admin-console/internal/util"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// AuditWorker consumes the console audit topic and turns the events into
// structured log lines and metrics.
type AuditWorker struct {
	consumer *broker.Consumer
	logger   *zap.Logger
}

// NewAuditWorker creates a new audit worker
func NewAuditWorker(consumer *broker.Consumer) *AuditWorker {
	return &AuditWorker{
		consumer: consumer,
		logger:   util.GetLogger(),
	}
}

// Start starts the worker
func (w *AuditWorker) Start(ctx context.Context) error {
	w.logger.Info("Starting audit worker")
	return w.consumer.StartConsuming(ctx, w.handle)
}

// Stop stops the worker
func (w *AuditWorker) Stop() error {
	w.logger.Info("Stopping audit worker")
	return w.consumer.Close()
}

func (w *AuditWorker) handle(_ context.Context, msg kafka.Message) error {
	var base models.BaseEvent
	if err := json.Unmarshal(msg.Value, &base); err != nil {
		return fmt.Errorf("failed to unmarshal base event: %w", err)
	}

	util.AuditEventsTotal.WithLabelValues(base.EventType).Inc()

	switch base.EventType {
	case models.EventTypeOrdersBulkUpdated:
		var event models.OrdersBulkUpdatedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			return fmt.Errorf("failed to unmarshal bulk update event: %w", err)
		}
		w.logger.Info("Audit: bulk status transition",
			zap.String("event_id", event.EventID),
			zap.String("session_id", event.SessionID),
			zap.String("target_status", event.TargetStatus),
			zap.Int64s("updated_ids", event.UpdatedIDs),
			zap.Int64s("failed_ids", event.FailedIDs))

	case models.EventTypeOrderSubmitted:
		var event models.OrderSubmittedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			return fmt.Errorf("failed to unmarshal order submitted event: %w", err)
		}
		w.logger.Info("Audit: order submitted",
			zap.String("event_id", event.EventID),
			zap.Int64("order_id", event.OrderID),
			zap.Float64("total", event.Total),
			zap.Int("items", event.Items))

	default:
		w.logger.Warn("Unhandled audit event type", zap.String("type", base.EventType))
	}

	return nil
}
