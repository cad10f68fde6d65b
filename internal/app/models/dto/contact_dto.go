package dto

import (
	"strings"

	"github.com/google/uuid"

	"github.com/yigit/coursestore/internal/app/models"
)

// ContactRequest is the contact form. Fields are trimmed before validation.
type ContactRequest struct {
	Name    string `json:"name" validate:"required,max=100"`
	Email   string `json:"email" validate:"required,email,max=255"`
	Subject string `json:"subject" validate:"required,max=200"`
	Message string `json:"message" validate:"required,min=10,max=1000"`
}

// Normalize trims every field in place
func (r *ContactRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
	r.Subject = strings.TrimSpace(r.Subject)
	r.Message = strings.TrimSpace(r.Message)
}

// ToModel converts the request into a contact message
func (r *ContactRequest) ToModel() models.ContactMessage {
	return models.ContactMessage{
		ID:      uuid.New(),
		Name:    r.Name,
		Email:   r.Email,
		Subject: r.Subject,
		Message: r.Message,
	}
}

// ContactMessages are the user-facing texts of each contact form rule
var ContactMessages = map[string]string{
	"Name.required":    "Name is required",
	"Name.max":         "Name must be at most 100 characters",
	"Email.required":   "Invalid email address",
	"Email.email":      "Invalid email address",
	"Email.max":        "Email must be at most 255 characters",
	"Subject.required": "Subject is required",
	"Subject.max":      "Subject must be at most 200 characters",
	"Message.required": "Message must be at least 10 characters",
	"Message.min":      "Message must be at least 10 characters",
	"Message.max":      "Message must be at most 1000 characters",
}

// ContactResponse acknowledges a submission
type ContactResponse struct {
	Message string `json:"message" example:"Thank you for contacting us. We'll get back to you soon."`
}
