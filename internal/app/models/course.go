package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CourseModule is one chapter of the syllabus.
type CourseModule struct {
	Title  string   `json:"title"`
	Topics []string `json:"topics"`
}

// Course is a catalog entry. Features and Modules are stored as JSONB.
type Course struct {
	ID              uuid.UUID       `json:"id" db:"id"`
	Title           string          `json:"title" db:"title"`
	Description     string          `json:"description" db:"description"`
	Mode            string          `json:"mode" db:"mode"`
	OriginalPrice   decimal.Decimal `json:"originalPrice" db:"original_price"`
	DiscountedPrice decimal.Decimal `json:"discountedPrice" db:"discounted_price"`
	Features        []string        `json:"features" db:"features"`
	Modules         []CourseModule  `json:"modules" db:"modules"`
	LimitedSeats    bool            `json:"limitedSeats" db:"limited_seats"`
	SeatsRemaining  *int            `json:"seatsRemaining,omitempty" db:"seats_remaining"`
	BatchStartDate  *time.Time      `json:"batchStartDate,omitempty" db:"batch_start_date"`
	CreatedAt       time.Time       `json:"createdAt" db:"created_at"`
}

// DiscountPercent is the whole-number saving of the discounted price over
// the original one. Zero when there is no original price.
func (c *Course) DiscountPercent() int64 {
	if !c.OriginalPrice.IsPositive() || c.DiscountedPrice.GreaterThanOrEqual(c.OriginalPrice) {
		return 0
	}
	saved := c.OriginalPrice.Sub(c.DiscountedPrice)
	return saved.Div(c.OriginalPrice).Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}
