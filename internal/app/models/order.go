package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentStatus is the lifecycle state of an order.
type PaymentStatus string

const (
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusRefunded  PaymentStatus = "refunded"
)

// Refundable reports whether an order in this state may be refunded.
func (s PaymentStatus) Refundable() bool {
	return s == PaymentStatusCompleted
}

// Order records one purchased course. AmountPaid is the discounted price
// at purchase time and never follows later catalog changes.
type Order struct {
	ID                uuid.UUID       `json:"id" db:"id"`
	UserID            uuid.UUID       `json:"userId" db:"user_id"`
	CourseID          uuid.UUID       `json:"courseId" db:"course_id"`
	AmountPaid        decimal.Decimal `json:"amountPaid" db:"amount_paid"`
	PaymentStatus     PaymentStatus   `json:"paymentStatus" db:"payment_status"`
	PaymentID         string          `json:"paymentId" db:"payment_id"`
	CheckoutAttemptID *uuid.UUID      `json:"checkoutAttemptId,omitempty" db:"checkout_attempt_id"`
	PurchasedAt       time.Time       `json:"purchasedAt" db:"purchased_at"`

	Course  *Course  `json:"course,omitempty"`
	Profile *Profile `json:"profile,omitempty"`
}

// AdminStats are the aggregates shown on the admin dashboard.
type AdminStats struct {
	// TotalRevenue includes refunded orders.
	TotalRevenue decimal.Decimal `json:"totalRevenue"`
	// NetRevenue excludes refunded orders.
	NetRevenue    decimal.Decimal `json:"netRevenue"`
	TotalSales    int64           `json:"totalSales"`
	TotalStudents int64           `json:"totalStudents"`
}
