package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/coursestore/internal/app/models"
	"github.com/yigit/coursestore/internal/app/models/dto"
	"github.com/yigit/coursestore/internal/pkg/apperrors"
	"github.com/yigit/coursestore/internal/pkg/session"
)

func TestDashboard(t *testing.T) {
	db := newFakeDB()
	asha := db.addProfile("asha")
	course := db.addCourse("Java Full Stack", 2999)
	orders := fakeOrders{db}
	for i := 0; i < 2; i++ {
		require.NoError(t, orders.Create(context.Background(), &models.Order{
			UserID: asha.ID, CourseID: course.ID, AmountPaid: decimal.NewFromInt(2999),
			PaymentStatus: models.PaymentStatusCompleted, PaymentID: "PAY_1",
		}))
	}
	svc := NewDashboardService(fakeProfiles{db}, orders, zerolog.Nop())
	sess := session.Session{UserID: asha.ID, Email: asha.Email}

	dash, err := svc.Dashboard(context.Background(), sess)
	require.NoError(t, err)
	assert.Equal(t, "asha", dash.Profile.FullName)
	require.Len(t, dash.Orders, 2)
	assert.True(t, dash.Orders[0].PurchasedAt.After(dash.Orders[1].PurchasedAt))
	require.NotNil(t, dash.Orders[0].Course)
	assert.Equal(t, "Java Full Stack", dash.Orders[0].Course.Title)

	_, err = svc.Dashboard(context.Background(), session.Session{UserID: uuid.New()})
	assert.ErrorIs(t, err, apperrors.ErrProfileNotFound)
}

func TestUpdateProfile_KeepsEmail(t *testing.T) {
	db := newFakeDB()
	asha := db.addProfile("asha")
	svc := NewDashboardService(fakeProfiles{db}, fakeOrders{db}, zerolog.Nop())

	updated, err := svc.UpdateProfile(context.Background(), session.Session{UserID: asha.ID}, &dto.UpdateProfileRequest{
		FullName:    "  Asha Rao ",
		Mobile:      "9876543210",
		CollegeName: "City College",
		Year:        "Final",
	})
	require.NoError(t, err)
	assert.Equal(t, "Asha Rao", updated.FullName)
	assert.Equal(t, asha.Email, updated.Email)
	assert.Equal(t, "Final", db.profiles[asha.ID].Year)
}
