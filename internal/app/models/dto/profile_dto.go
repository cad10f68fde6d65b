package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/yigit/coursestore/internal/app/models"
)

// ProfileResponse is a student profile
type ProfileResponse struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	FullName    string    `json:"fullName"`
	Mobile      string    `json:"mobile"`
	CollegeName string    `json:"collegeName"`
	Year        string    `json:"year"`
	CreatedAt   time.Time `json:"createdAt"`
}

// NewProfileResponse converts a profile model
func NewProfileResponse(p *models.Profile) ProfileResponse {
	return ProfileResponse{
		ID:          p.ID,
		Email:       p.Email,
		FullName:    p.FullName,
		Mobile:      p.Mobile,
		CollegeName: p.CollegeName,
		Year:        p.Year,
		CreatedAt:   p.CreatedAt,
	}
}

// NewProfileListResponse converts a slice of profiles
func NewProfileListResponse(profiles []models.Profile) []ProfileResponse {
	out := make([]ProfileResponse, 0, len(profiles))
	for i := range profiles {
		out = append(out, NewProfileResponse(&profiles[i]))
	}
	return out
}

// UpdateProfileRequest edits the student's own profile. Email is the
// account identity and cannot change here.
type UpdateProfileRequest struct {
	FullName    string `json:"fullName" binding:"required,max=100"`
	Mobile      string `json:"mobile" binding:"omitempty,max=20"`
	CollegeName string `json:"collegeName" binding:"omitempty,max=200"`
	Year        string `json:"year" binding:"omitempty,max=20"`
}

// DashboardResponse is the student dashboard payload
type DashboardResponse struct {
	Profile *ProfileResponse `json:"profile"`
	Orders  []OrderResponse  `json:"orders"`
}

// RolesResponse tells the UI which gated pages to show
type RolesResponse struct {
	IsAdmin bool `json:"isAdmin"`
}
