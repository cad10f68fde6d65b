package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/yigit/coursestore/internal/app/models"
	"github.com/yigit/coursestore/internal/app/models/dto"
	"github.com/yigit/coursestore/internal/pkg/validation"
)

// ContactAcknowledgement is the reply to every accepted submission
const ContactAcknowledgement = "Thank you for contacting us. We'll get back to you soon."

// ContactService accepts contact form submissions
type ContactService struct {
	outbox OutboxWriter
	logger zerolog.Logger
}

// NewContactService creates a new ContactService
func NewContactService(outbox OutboxWriter, logger zerolog.Logger) *ContactService {
	return &ContactService{outbox: outbox, logger: logger}
}

// Submit validates the form, stopping at the first violated rule, and
// records it for delivery.
func (s *ContactService) Submit(ctx context.Context, req *dto.ContactRequest) error {
	req.Normalize()
	if err := validation.First(req, dto.ContactMessages); err != nil {
		return err
	}

	msg := req.ToModel()
	event, err := models.NewOutboxEvent(models.AggregateContact, msg.ID.String(), models.EventContactSubmitted, msg)
	if err != nil {
		return err
	}
	if err := s.outbox.Insert(ctx, event); err != nil {
		return fmt.Errorf("record contact message: %w", err)
	}

	s.logger.Info().Str("contactID", msg.ID.String()).Str("subject", msg.Subject).Msg("Contact message received")
	return nil
}
