package models

import "time"

// Event types
const (
	EventTypeOrdersBulkUpdated = "ORDERS_BULK_UPDATED"
	EventTypeOrderSubmitted    = "ORDER_SUBMITTED"
)

// BaseEvent contains common fields for all audit events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// OrdersBulkUpdatedEvent published when a confirmed bulk status transition
// has been applied through the order store
type OrdersBulkUpdatedEvent struct {
	BaseEvent
	SessionID    string  `json:"session_id"`
	TargetStatus string  `json:"target_status"`
	UpdatedIDs   []int64 `json:"updated_ids"`
	FailedIDs    []int64 `json:"failed_ids,omitempty"`
}

// OrderSubmittedEvent published when a composed order is accepted by the
// order store
type OrderSubmittedEvent struct {
	BaseEvent
	OrderID int64   `json:"order_id"`
	Total   float64 `json:"total"`
	Items   int     `json:"items"`
}
