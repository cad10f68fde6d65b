package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/coursestore/internal/app/models"
	"github.com/yigit/coursestore/internal/app/models/dto"
	"github.com/yigit/coursestore/internal/pkg/session"
)

// Dashboard is what a student sees about themselves
type Dashboard struct {
	Profile *models.Profile
	Orders  []models.Order
}

// DashboardService serves the student dashboard
type DashboardService struct {
	profiles ProfileStore
	orders   OrderStore
	logger   zerolog.Logger
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(profiles ProfileStore, orders OrderStore, logger zerolog.Logger) *DashboardService {
	return &DashboardService{
		profiles: profiles,
		orders:   orders,
		logger:   logger,
	}
}

// Dashboard returns the profile and purchases of the session user
func (s *DashboardService) Dashboard(ctx context.Context, sess session.Session) (*Dashboard, error) {
	profile, err := s.profiles.GetByID(ctx, sess.UserID)
	if err != nil {
		return nil, err
	}

	orders, err := s.orders.ListByUser(ctx, sess.UserID)
	if err != nil {
		return nil, err
	}

	return &Dashboard{Profile: profile, Orders: orders}, nil
}

// UpdateProfile edits the session user's profile
func (s *DashboardService) UpdateProfile(ctx context.Context, sess session.Session, req *dto.UpdateProfileRequest) (*models.Profile, error) {
	profile := &models.Profile{
		ID:          sess.UserID,
		FullName:    strings.TrimSpace(req.FullName),
		Mobile:      strings.TrimSpace(req.Mobile),
		CollegeName: strings.TrimSpace(req.CollegeName),
		Year:        strings.TrimSpace(req.Year),
	}
	if err := s.profiles.Update(ctx, profile); err != nil {
		return nil, err
	}

	s.logger.Info().Str("userID", sess.UserID.String()).Msg("Profile updated")
	return profile, nil
}
