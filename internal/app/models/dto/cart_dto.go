package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/yigit/coursestore/internal/app/models"
)

// AddToCartRequest adds a course to the session user's cart
type AddToCartRequest struct {
	CourseID uuid.UUID `json:"courseId" binding:"required"`
}

// CartItemResponse is one cart line with its course
type CartItemResponse struct {
	ID       uuid.UUID       `json:"id"`
	CourseID uuid.UUID       `json:"courseId"`
	AddedAt  time.Time       `json:"addedAt"`
	Course   *CourseResponse `json:"course,omitempty"`
}

// CartResponse is the cart page payload
type CartResponse struct {
	Items     []CartItemResponse `json:"items"`
	ItemCount int                `json:"itemCount" example:"2"`
	Total     string             `json:"total" example:"5998.00"`
}

// CartCountResponse feeds the navbar badge
type CartCountResponse struct {
	Count int64 `json:"count" example:"2"`
}

// NewCartItemResponses converts cart lines
func NewCartItemResponses(items []models.CartItem) []CartItemResponse {
	out := make([]CartItemResponse, 0, len(items))
	for _, item := range items {
		line := CartItemResponse{
			ID:       item.ID,
			CourseID: item.CourseID,
			AddedAt:  item.CreatedAt,
		}
		if item.Course != nil {
			course := NewCourseResponse(item.Course)
			line.Course = &course
		}
		out = append(out, line)
	}
	return out
}

// NewCartResponse builds the cart page payload
func NewCartResponse(items []models.CartItem) CartResponse {
	return CartResponse{
		Items:     NewCartItemResponses(items),
		ItemCount: len(items),
		Total:     models.CartTotal(items).StringFixed(2),
	}
}
