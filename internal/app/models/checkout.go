package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CheckoutStatus tracks a checkout attempt.
type CheckoutStatus string

const (
	CheckoutStatusPending   CheckoutStatus = "PENDING"
	CheckoutStatusCompleted CheckoutStatus = "COMPLETED"
	CheckoutStatusAbandoned CheckoutStatus = "ABANDONED"
)

func (s CheckoutStatus) IsTerminal() bool {
	switch s {
	case CheckoutStatusCompleted, CheckoutStatusAbandoned:
		return true
	default:
		return false
	}
}

// CheckoutAttempt guards one payment per (user, idempotency key). A failed
// checkout rolls back its attempt, so no failed state is ever stored.
type CheckoutAttempt struct {
	ID             uuid.UUID           `json:"id" db:"id"`
	UserID         uuid.UUID           `json:"userId" db:"user_id"`
	IdempotencyKey string              `json:"idempotencyKey" db:"idempotency_key"`
	Status         CheckoutStatus      `json:"status" db:"status"`
	PaymentID      *string             `json:"paymentId,omitempty" db:"payment_id"`
	TotalAmount    decimal.NullDecimal `json:"totalAmount" db:"total_amount"`
	CreatedAt      time.Time           `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time           `json:"updatedAt" db:"updated_at"`
}
