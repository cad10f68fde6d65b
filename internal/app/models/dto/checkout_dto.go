package dto

import (
	"github.com/google/uuid"
)

// IdempotencyKeyHeader lets clients retry a checkout safely
const IdempotencyKeyHeader = "Idempotency-Key"

// CheckoutRequest is the demo card form. Card data is validated and
// discarded, never stored or logged.
type CheckoutRequest struct {
	CardNumber string `json:"cardNumber" binding:"required,min=12,max=23" example:"4242 4242 4242 4242"`
	Expiry     string `json:"expiry" binding:"required,len=5" example:"12/29"`
	CVV        string `json:"cvv" binding:"required,numeric,min=3,max=4" example:"123"`
}

// CheckoutSummaryResponse is shown on the payment page before paying
type CheckoutSummaryResponse struct {
	Items     []CartItemResponse `json:"items"`
	ItemCount int                `json:"itemCount"`
	Total     string             `json:"total" example:"2999.00"`
	Profile   *ProfileResponse   `json:"profile,omitempty"`
}

// CheckoutResponse is returned after a successful payment
type CheckoutResponse struct {
	CheckoutID uuid.UUID       `json:"checkoutId"`
	PaymentID  string          `json:"paymentId" example:"PAY_1714000000000_9f86d081"`
	Total      string          `json:"total" example:"2999.00"`
	Orders     []OrderResponse `json:"orders"`
	Replayed   bool            `json:"replayed"`
}
