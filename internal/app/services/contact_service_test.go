package services

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/coursestore/internal/app/models"
	"github.com/yigit/coursestore/internal/app/models/dto"
	"github.com/yigit/coursestore/internal/pkg/apperrors"
)

func TestContactSubmit_FirstViolationWins(t *testing.T) {
	tests := []struct {
		name string
		req  dto.ContactRequest
		want string
	}{
		{"everything missing", dto.ContactRequest{}, "Name is required"},
		{"blank name", dto.ContactRequest{Name: "   ", Email: "bad"}, "Name is required"},
		{"bad email", dto.ContactRequest{Name: "Asha", Email: "not-an-email"}, "Invalid email address"},
		{"no subject", dto.ContactRequest{Name: "Asha", Email: "a@b.co"}, "Subject is required"},
		{"short message", dto.ContactRequest{Name: "Asha", Email: "a@b.co", Subject: "Hi", Message: " too short "}, "Message must be at least 10 characters"},
		{"long name", dto.ContactRequest{Name: strings.Repeat("x", 101)}, "Name must be at most 100 characters"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := newFakeDB()
			svc := NewContactService(fakeOutbox{db}, zerolog.Nop())

			req := tt.req
			err := svc.Submit(context.Background(), &req)
			require.ErrorIs(t, err, apperrors.ErrValidationFailed)
			assert.Equal(t, tt.want, err.Error())
			assert.Empty(t, db.outbox)
		})
	}
}

func TestContactSubmit_RecordsEvent(t *testing.T) {
	db := newFakeDB()
	svc := NewContactService(fakeOutbox{db}, zerolog.Nop())

	err := svc.Submit(context.Background(), &dto.ContactRequest{
		Name:    " Asha ",
		Email:   "asha@example.com",
		Subject: "Batch timings",
		Message: "When does the next batch start?",
	})
	require.NoError(t, err)

	require.Len(t, db.outbox, 1)
	event := db.outbox[0]
	assert.Equal(t, models.AggregateContact, event.AggregateType)
	assert.Equal(t, models.EventContactSubmitted, event.EventType)

	var msg models.ContactMessage
	require.NoError(t, json.Unmarshal(event.Payload, &msg))
	assert.Equal(t, "Asha", msg.Name)
	assert.Equal(t, "asha@example.com", msg.Email)
	assert.Equal(t, msg.ID.String(), event.AggregateID)
}

func TestContactSubmit_LongEmail(t *testing.T) {
	db := newFakeDB()
	svc := NewContactService(fakeOutbox{db}, zerolog.Nop())

	email := strings.Repeat("a", 60) + "@" + strings.Repeat("b", 60) + ".example.com"
	require.Greater(t, len(email), models.MaxAggregateIDLength)

	err := svc.Submit(context.Background(), &dto.ContactRequest{
		Name:    "Asha",
		Email:   email,
		Subject: "Batch timings",
		Message: "When does the next batch start?",
	})
	require.NoError(t, err)

	require.Len(t, db.outbox, 1)
	assert.LessOrEqual(t, len(db.outbox[0].AggregateID), models.MaxAggregateIDLength)

	var msg models.ContactMessage
	require.NoError(t, json.Unmarshal(db.outbox[0].Payload, &msg))
	assert.Equal(t, email, msg.Email)
}
