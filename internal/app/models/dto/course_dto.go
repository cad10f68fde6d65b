package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/yigit/coursestore/internal/app/models"
)

// CourseResponse is a catalog entry as shown on the courses page
type CourseResponse struct {
	ID              uuid.UUID             `json:"id"`
	Title           string                `json:"title" example:"Complete Java Full Stack Development"`
	Description     string                `json:"description"`
	Mode            string                `json:"mode" example:"Online"`
	OriginalPrice   string                `json:"originalPrice" example:"4999.00"`
	DiscountedPrice string                `json:"discountedPrice" example:"2999.00"`
	DiscountPercent int64                 `json:"discountPercent" example:"40"`
	Features        []string              `json:"features"`
	Modules         []models.CourseModule `json:"modules"`
	LimitedSeats    bool                  `json:"limitedSeats"`
	SeatsRemaining  *int                  `json:"seatsRemaining,omitempty"`
	BatchStartDate  *time.Time            `json:"batchStartDate,omitempty"`
}

// NewCourseResponse converts a course model
func NewCourseResponse(c *models.Course) CourseResponse {
	features := c.Features
	if features == nil {
		features = []string{}
	}
	modules := c.Modules
	if modules == nil {
		modules = []models.CourseModule{}
	}
	return CourseResponse{
		ID:              c.ID,
		Title:           c.Title,
		Description:     c.Description,
		Mode:            c.Mode,
		OriginalPrice:   c.OriginalPrice.StringFixed(2),
		DiscountedPrice: c.DiscountedPrice.StringFixed(2),
		DiscountPercent: c.DiscountPercent(),
		Features:        features,
		Modules:         modules,
		LimitedSeats:    c.LimitedSeats,
		SeatsRemaining:  c.SeatsRemaining,
		BatchStartDate:  c.BatchStartDate,
	}
}

// NewCourseListResponse converts a slice of courses
func NewCourseListResponse(courses []models.Course) []CourseResponse {
	out := make([]CourseResponse, 0, len(courses))
	for i := range courses {
		out = append(out, NewCourseResponse(&courses[i]))
	}
	return out
}
