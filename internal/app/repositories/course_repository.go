package repositories

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/coursestore/internal/app/models"
	"github.com/yigit/coursestore/internal/pkg/apperrors"
	"github.com/yigit/coursestore/internal/pkg/dberrors"
	"github.com/yigit/coursestore/internal/pkg/logger"
)

// CourseRepository handles the course catalog
type CourseRepository struct {
	baseRepository
}

// NewCourseRepository creates a new CourseRepository
func NewCourseRepository(db *pgxpool.Pool) *CourseRepository {
	return &CourseRepository{baseRepository: newBase(db)}
}

// List returns the whole catalog, oldest first
func (r *CourseRepository) List(ctx context.Context) ([]models.Course, error) {
	sql, args, err := r.sb.Select(courseColumns("c")...).
		From("courses c").
		OrderBy("c.created_at ASC", "c.title ASC").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list courses SQL")
		return nil, fmt.Errorf("failed to build list courses query: %w", err)
	}

	rows, err := r.conn(ctx).Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list courses query")
		return nil, fmt.Errorf("error listing courses: %w", err)
	}
	defer rows.Close()

	courses := []models.Course{}
	for rows.Next() {
		var s courseScan
		if err := rows.Scan(s.dest()...); err != nil {
			return nil, fmt.Errorf("error scanning course row: %w", err)
		}
		course, err := s.finish()
		if err != nil {
			return nil, err
		}
		courses = append(courses, *course)
	}
	return courses, rows.Err()
}

// GetByID returns one course
func (r *CourseRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Course, error) {
	sql, args, err := r.sb.Select(courseColumns("c")...).
		From("courses c").
		Where(squirrel.Eq{"c.id": id}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get course SQL")
		return nil, fmt.Errorf("failed to build get course query: %w", err)
	}

	var s courseScan
	if err := r.conn(ctx).QueryRow(ctx, sql, args...).Scan(s.dest()...); err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrCourseNotFound
		}
		logger.Error().Err(err).Str("courseID", id.String()).Msg("Error scanning course row")
		return nil, fmt.Errorf("error retrieving course: %w", err)
	}
	return s.finish()
}

// Count returns the number of courses
func (r *CourseRepository) Count(ctx context.Context) (int64, error) {
	sql, args, err := r.sb.Select("COUNT(*)").From("courses").ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count courses query: %w", err)
	}

	var n int64
	if err := r.conn(ctx).QueryRow(ctx, sql, args...).Scan(&n); err != nil {
		logger.Error().Err(err).Msg("Error counting courses")
		return 0, fmt.Errorf("error counting courses: %w", err)
	}
	return n, nil
}

// Create inserts a course; used by the seeder
func (r *CourseRepository) Create(ctx context.Context, c *models.Course) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	features, err := json.Marshal(nonNil(c.Features))
	if err != nil {
		return fmt.Errorf("encode features: %w", err)
	}
	modules, err := json.Marshal(nonNil(c.Modules))
	if err != nil {
		return fmt.Errorf("encode modules: %w", err)
	}

	sql, args, err := r.sb.Insert("courses").
		Columns("id", "title", "description", "mode", "original_price", "discounted_price",
			"features", "modules", "limited_seats", "seats_remaining", "batch_start_date").
		Values(c.ID, c.Title, c.Description, c.Mode, c.OriginalPrice, c.DiscountedPrice,
			string(features), string(modules), c.LimitedSeats, c.SeatsRemaining, c.BatchStartDate).
		Suffix("RETURNING created_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create course SQL")
		return fmt.Errorf("failed to build create course query: %w", err)
	}

	if err := r.conn(ctx).QueryRow(ctx, sql, args...).Scan(&c.CreatedAt); err != nil {
		logger.Error().Err(err).Str("title", c.Title).Msg("Error executing create course query")
		return fmt.Errorf("error creating course: %w", err)
	}
	return nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
