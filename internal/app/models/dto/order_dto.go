package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/yigit/coursestore/internal/app/models"
)

// OrderResponse is a purchased course
type OrderResponse struct {
	ID            uuid.UUID        `json:"id"`
	CourseID      uuid.UUID        `json:"courseId"`
	AmountPaid    string           `json:"amountPaid" example:"2999.00"`
	PaymentStatus string           `json:"paymentStatus" example:"completed"`
	PaymentID     string           `json:"paymentId"`
	PurchasedAt   time.Time        `json:"purchasedAt"`
	Course        *CourseResponse  `json:"course,omitempty"`
	Profile       *ProfileResponse `json:"profile,omitempty"`
}

// NewOrderResponse converts an order and whatever relations were loaded
func NewOrderResponse(o *models.Order) OrderResponse {
	resp := OrderResponse{
		ID:            o.ID,
		CourseID:      o.CourseID,
		AmountPaid:    o.AmountPaid.StringFixed(2),
		PaymentStatus: string(o.PaymentStatus),
		PaymentID:     o.PaymentID,
		PurchasedAt:   o.PurchasedAt,
	}
	if o.Course != nil {
		course := NewCourseResponse(o.Course)
		resp.Course = &course
	}
	if o.Profile != nil {
		profile := NewProfileResponse(o.Profile)
		resp.Profile = &profile
	}
	return resp
}

// NewOrderListResponse converts a slice of orders
func NewOrderListResponse(orders []models.Order) []OrderResponse {
	out := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		out = append(out, NewOrderResponse(&orders[i]))
	}
	return out
}
