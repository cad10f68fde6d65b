package repositories

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/coursestore/internal/app/models"
	database "github.com/yigit/coursestore/internal/db"
)

// baseRepository holds what every repository needs. Queries run on the
// transaction carried by ctx when there is one, otherwise on the pool.
type baseRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

func newBase(db *pgxpool.Pool) baseRepository {
	return baseRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r baseRepository) conn(ctx context.Context) database.DBTX {
	return database.Conn(ctx, r.db)
}

var courseColumnNames = []string{
	"id", "title", "description", "mode", "original_price", "discounted_price",
	"features", "modules", "limited_seats", "seats_remaining", "batch_start_date", "created_at",
}

// courseColumns qualifies the course columns with alias.
func courseColumns(alias string) []string {
	cols := make([]string, len(courseColumnNames))
	for i, c := range courseColumnNames {
		cols[i] = alias + "." + c
	}
	return cols
}

// courseScan collects a course row; JSONB columns are decoded in finish.
type courseScan struct {
	course   models.Course
	features []byte
	modules  []byte
}

func (s *courseScan) dest() []any {
	c := &s.course
	return []any{
		&c.ID, &c.Title, &c.Description, &c.Mode, &c.OriginalPrice, &c.DiscountedPrice,
		&s.features, &s.modules, &c.LimitedSeats, &c.SeatsRemaining, &c.BatchStartDate, &c.CreatedAt,
	}
}

func (s *courseScan) finish() (*models.Course, error) {
	if len(s.features) > 0 {
		if err := json.Unmarshal(s.features, &s.course.Features); err != nil {
			return nil, fmt.Errorf("decode features of course %s: %w", s.course.ID, err)
		}
	}
	if len(s.modules) > 0 {
		if err := json.Unmarshal(s.modules, &s.course.Modules); err != nil {
			return nil, fmt.Errorf("decode modules of course %s: %w", s.course.ID, err)
		}
	}
	course := s.course
	return &course, nil
}

var profileColumnNames = []string{
	"id", "email", "full_name", "COALESCE(%s.mobile, '')", "COALESCE(%s.college_name, '')", "COALESCE(%s.year, '')",
	"created_at", "updated_at",
}

// profileColumns qualifies the profile columns with alias, mapping NULL
// optional fields to empty strings.
func profileColumns(alias string) []string {
	cols := make([]string, len(profileColumnNames))
	for i, c := range profileColumnNames {
		if c[0] == 'C' {
			cols[i] = fmt.Sprintf(c, alias)
			continue
		}
		cols[i] = alias + "." + c
	}
	return cols
}

func profileDest(p *models.Profile) []any {
	return []any{&p.ID, &p.Email, &p.FullName, &p.Mobile, &p.CollegeName, &p.Year, &p.CreatedAt, &p.UpdatedAt}
}
