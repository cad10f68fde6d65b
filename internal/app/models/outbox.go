package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Aggregate types; each maps to its own topic.
const (
	AggregateOrder   = "order"
	AggregateContact = "contact"
)

// Event types written to the outbox.
const (
	EventOrderCreated     = "order.created"
	EventOrderRefunded    = "order.refunded"
	EventContactSubmitted = "contact.submitted"
)

// OutboxEvent is written in the same transaction as the state change it
// describes and relayed to the broker afterwards.
type OutboxEvent struct {
	ID            uuid.UUID       `json:"id" db:"id"`
	AggregateType string          `json:"aggregateType" db:"aggregate_type"`
	AggregateID   string          `json:"aggregateId" db:"aggregate_id"`
	EventType     string          `json:"eventType" db:"event_type"`
	Payload       json.RawMessage `json:"payload" db:"payload"`
	CreatedAt     time.Time       `json:"createdAt" db:"created_at"`
	ProcessedAt   *time.Time      `json:"processedAt,omitempty" db:"processed_at"`
}

// NewOutboxEvent marshals payload into a new unsaved event.
func NewOutboxEvent(aggregateType, aggregateID, eventType string, payload interface{}) (*OutboxEvent, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", eventType, err)
	}
	return &OutboxEvent{
		ID:            uuid.New(),
		AggregateType: aggregateType,
		AggregateID:   aggregateID,
		EventType:     eventType,
		Payload:       data,
	}, nil
}

// OrderCreatedPayload is the body of order.created.
type OrderCreatedPayload struct {
	CheckoutAttemptID uuid.UUID   `json:"checkoutAttemptId"`
	UserID            uuid.UUID   `json:"userId"`
	OrderIDs          []uuid.UUID `json:"orderIds"`
	CourseIDs         []uuid.UUID `json:"courseIds"`
	TotalAmount       string      `json:"totalAmount"`
	PaymentID         string      `json:"paymentId"`
	PurchasedAt       time.Time   `json:"purchasedAt"`
}

// OrderRefundedPayload is the body of order.refunded.
type OrderRefundedPayload struct {
	OrderID    uuid.UUID `json:"orderId"`
	UserID     uuid.UUID `json:"userId"`
	AmountPaid string    `json:"amountPaid"`
	PaymentID  string    `json:"paymentId"`
	RefundedAt time.Time `json:"refundedAt"`
}

// MaxAggregateIDLength is the width of outbox_events.aggregate_id.
const MaxAggregateIDLength = 64

// ContactMessage is a submitted contact form. ID is the aggregate id of its
// outbox event; the sender's email can be longer than that column.
type ContactMessage struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Email   string    `json:"email"`
	Subject string    `json:"subject"`
	Message string    `json:"message"`
}
