// Package seed creates the data a fresh installation needs: the admin
// account and, optionally, a demo catalog.
package seed

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/yigit/coursestore/internal/app/models"
	"github.com/yigit/coursestore/internal/pkg/apperrors"
	"github.com/yigit/coursestore/internal/pkg/auth"
)

// Options controls what CreateDefaultData seeds
type Options struct {
	AdminEmail    string
	AdminPassword string
	AdminName     string
	DemoCourses   bool
}

// Stores are the repositories the seeder writes through
type Stores struct {
	Tx interface {
		RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
	}
	Users interface {
		Create(ctx context.Context, user *models.User) error
		GetByEmail(ctx context.Context, email string) (*models.User, error)
	}
	Profiles interface {
		Create(ctx context.Context, p *models.Profile) error
	}
	Roles interface {
		Assign(ctx context.Context, userID uuid.UUID, role models.Role) error
	}
	Courses interface {
		Count(ctx context.Context) (int64, error)
		Create(ctx context.Context, c *models.Course) error
	}
}

// CreateDefaultData seeds the admin account and the demo catalog. Both
// steps are idempotent; failures are joined so one does not hide the other.
func CreateDefaultData(ctx context.Context, s Stores, opts Options, lgr zerolog.Logger) error {
	var finalErr error

	if err := ensureAdmin(ctx, s, opts, lgr); err != nil {
		lgr.Error().Err(err).Msg("Error creating admin user")
		finalErr = errors.Join(finalErr, err)
	}

	if opts.DemoCourses {
		if err := ensureCourses(ctx, s, lgr); err != nil {
			lgr.Error().Err(err).Msg("Error creating demo courses")
			finalErr = errors.Join(finalErr, err)
		}
	}

	return finalErr
}

func ensureAdmin(ctx context.Context, s Stores, opts Options, lgr zerolog.Logger) error {
	email := strings.ToLower(strings.TrimSpace(opts.AdminEmail))
	if email == "" {
		lgr.Info().Msg("No admin email configured, skipping admin seed")
		return nil
	}

	existing, err := s.Users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		// the role is re-asserted so a manually removed grant comes back on restart
		return s.Roles.Assign(ctx, existing.ID, models.RoleAdmin)
	case !errors.Is(err, apperrors.ErrUserNotFound):
		return err
	}

	if opts.AdminPassword == "" {
		return fmt.Errorf("admin password is required to create %s", email)
	}
	hash, err := auth.HashPassword(opts.AdminPassword)
	if err != nil {
		return err
	}

	return s.Tx.RunInTx(ctx, func(ctx context.Context) error {
		user := &models.User{Email: email, PasswordHash: hash}
		if err := s.Users.Create(ctx, user); err != nil {
			return err
		}
		if err := s.Profiles.Create(ctx, &models.Profile{ID: user.ID, Email: user.Email, FullName: opts.AdminName}); err != nil {
			return err
		}
		if err := s.Roles.Assign(ctx, user.ID, models.RoleAdmin); err != nil {
			return err
		}
		lgr.Info().Str("email", email).Msg("Default admin user created")
		return nil
	})
}

func ensureCourses(ctx context.Context, s Stores, lgr zerolog.Logger) error {
	count, err := s.Courses.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		lgr.Debug().Int64("courses", count).Msg("Catalog not empty, skipping demo courses")
		return nil
	}

	courses := DemoCourses(time.Now())
	for i := range courses {
		if err := s.Courses.Create(ctx, &courses[i]); err != nil {
			return fmt.Errorf("create course %q: %w", courses[i].Title, err)
		}
	}
	lgr.Info().Int("courses", len(courses)).Msg("Demo courses created")
	return nil
}

// DemoCourses is the starter catalog. Batch dates are relative to now.
func DemoCourses(now time.Time) []models.Course {
	seats := 20
	batch := now.AddDate(0, 0, 14).Truncate(24 * time.Hour)

	return []models.Course{
		{
			Title:           "Complete Java Full Stack Development",
			Description:     "Build production web applications with Java, Spring Boot, SQL and React.",
			Mode:            "Online",
			OriginalPrice:   decimal.NewFromInt(4999),
			DiscountedPrice: decimal.NewFromInt(2999),
			Features: []string{
				"Live instructor-led sessions",
				"Hands-on projects",
				"Interview preparation",
				"Certificate of completion",
			},
			Modules: []models.CourseModule{
				{Title: "Core Java", Topics: []string{"OOP", "Collections", "Streams", "Exceptions"}},
				{Title: "Databases", Topics: []string{"SQL", "JDBC", "JPA"}},
				{Title: "Spring Boot", Topics: []string{"REST APIs", "Security", "Testing"}},
				{Title: "Frontend", Topics: []string{"HTML & CSS", "JavaScript", "React"}},
			},
			LimitedSeats:   true,
			SeatsRemaining: &seats,
			BatchStartDate: &batch,
		},
		{
			Title:           "Python for Data Analysis",
			Description:     "From Python basics to pandas, visualisation and a capstone analysis.",
			Mode:            "Online",
			OriginalPrice:   decimal.NewFromInt(3999),
			DiscountedPrice: decimal.NewFromInt(2499),
			Features: []string{
				"Recorded lectures",
				"Weekly assignments",
				"Certificate of completion",
			},
			Modules: []models.CourseModule{
				{Title: "Python Basics", Topics: []string{"Syntax", "Functions", "Modules"}},
				{Title: "Data Wrangling", Topics: []string{"NumPy", "pandas"}},
				{Title: "Visualisation", Topics: []string{"matplotlib", "seaborn"}},
			},
		},
	}
}
