package orders

import (
	"encoding/json"
	"time"
)

const (
	EventListCreated       = "ListCreated"
	EventListDeleted       = "ListDeleted"
	EventOrderCreated      = "OrderCreated"
	EventOrderUpdated      = "OrderUpdated"
	EventOrderDeleted      = "OrderDeleted"
	EventFeedbackSubmitted = "FeedbackSubmitted"
)

type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"` // list id, feedback id for feedback events
	Payload       json.RawMessage `json:"payload"`
}

type ListCreatedPayload struct {
	ListID   string     `json:"list_id"`
	Created  time.Time  `json:"created"`
	Deadline *time.Time `json:"deadline,omitempty"`
}

type ListDeletedPayload struct {
	ListID string `json:"list_id"`
}

type OrderPayload struct {
	ListID      string    `json:"list_id"`
	OrderID     string    `json:"order_id"`
	Creator     string    `json:"creator,omitempty"`
	StoreItemID string    `json:"store_item_id,omitempty"`
	Drink       string    `json:"drink,omitempty"`
	At          time.Time `json:"at"`
}

type FeedbackSubmittedPayload struct {
	FeedbackID string `json:"feedback_id"`
	Type       string `json:"type"`
	Page       string `json:"page"`
	Message    string `json:"message"`
}
