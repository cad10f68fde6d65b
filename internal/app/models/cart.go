package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartItem is one (user, course) line. The pair is unique.
type CartItem struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"userId" db:"user_id"`
	CourseID  uuid.UUID `json:"courseId" db:"course_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`

	Course *Course `json:"course,omitempty"`
}

// CartTotal sums the current discounted price of every line. Lines whose
// course was not loaded contribute nothing.
func CartTotal(items []CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		if item.Course != nil {
			total = total.Add(item.Course.DiscountedPrice)
		}
	}
	return total
}
