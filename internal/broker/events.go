package broker

import (
	"context"
	"fmt"
	"time"

	"admin-console/internal/models"

	"github.com/google/uuid"
)

// AuditPublisher emits the console's audit trail: every confirmed bulk
// transition and every submitted order lands on the audit topic.
type AuditPublisher struct {
	producer *Producer
}

// NewAuditPublisher creates a new audit publisher
func NewAuditPublisher(producer *Producer) *AuditPublisher {
	return &AuditPublisher{producer: producer}
}

// PublishBulkUpdated records a confirmed bulk status transition
func (ap *AuditPublisher) PublishBulkUpdated(ctx context.Context, sessionID, targetStatus string, updatedIDs, failedIDs []int64) error {
	event := &models.OrdersBulkUpdatedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeOrdersBulkUpdated,
			Timestamp: time.Now(),
		},
		SessionID:    sessionID,
		TargetStatus: targetStatus,
		UpdatedIDs:   updatedIDs,
		FailedIDs:    failedIDs,
	}

	key := fmt.Sprintf("session-%s", sessionID)
	return ap.producer.PublishEvent(ctx, key, event)
}

// PublishOrderSubmitted records an order accepted by the order store
func (ap *AuditPublisher) PublishOrderSubmitted(ctx context.Context, order *models.Order) error {
	event := &models.OrderSubmittedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeOrderSubmitted,
			Timestamp: time.Now(),
		},
		OrderID: order.ID,
		Total:   order.Total,
		Items:   len(order.Items),
	}

	key := fmt.Sprintf("order-%d", order.ID)
	return ap.producer.PublishEvent(ctx, key, event)
}
