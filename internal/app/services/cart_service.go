package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/yigit/coursestore/internal/app/models"
	"github.com/yigit/coursestore/internal/pkg/session"
)

// CartService manages the cart of the session user
type CartService struct {
	carts   CartStore
	courses CourseStore
	logger  zerolog.Logger
}

// NewCartService creates a new CartService
func NewCartService(carts CartStore, courses CourseStore, logger zerolog.Logger) *CartService {
	return &CartService{
		carts:   carts,
		courses: courses,
		logger:  logger,
	}
}

// List returns the cart lines with their course
func (s *CartService) List(ctx context.Context, sess session.Session) ([]models.CartItem, error) {
	return s.carts.ListByUser(ctx, sess.UserID)
}

// Count returns the number of cart lines
func (s *CartService) Count(ctx context.Context, sess session.Session) (int64, error) {
	return s.carts.CountByUser(ctx, sess.UserID)
}

// Add puts a course in the cart. Adding a course twice fails with
// apperrors.ErrAlreadyInCart.
func (s *CartService) Add(ctx context.Context, sess session.Session, courseID uuid.UUID) (*models.CartItem, error) {
	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}

	item := &models.CartItem{UserID: sess.UserID, CourseID: courseID}
	if err := s.carts.Add(ctx, item); err != nil {
		return nil, err
	}
	item.Course = course

	s.logger.Debug().
		Str("userID", sess.UserID.String()).
		Str("courseID", courseID.String()).
		Msg("Course added to cart")
	return item, nil
}

// Remove deletes one line of the cart
func (s *CartService) Remove(ctx context.Context, sess session.Session, itemID uuid.UUID) error {
	return s.carts.Remove(ctx, sess.UserID, itemID)
}
