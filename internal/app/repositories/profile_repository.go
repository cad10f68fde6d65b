package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/coursestore/internal/app/models"
	"github.com/yigit/coursestore/internal/pkg/apperrors"
	"github.com/yigit/coursestore/internal/pkg/dberrors"
	"github.com/yigit/coursestore/internal/pkg/logger"
)

// ProfileRepository handles the profiles table
type ProfileRepository struct {
	baseRepository
}

// NewProfileRepository creates a new ProfileRepository
func NewProfileRepository(db *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{baseRepository: newBase(db)}
}

// Create inserts the profile of an existing user
func (r *ProfileRepository) Create(ctx context.Context, p *models.Profile) error {
	sql, args, err := r.sb.Insert("profiles").
		Columns("id", "email", "full_name", "mobile", "college_name", "year").
		Values(p.ID, p.Email, p.FullName, p.Mobile, p.CollegeName, p.Year).
		Suffix("RETURNING created_at, updated_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create profile SQL")
		return fmt.Errorf("failed to build create profile query: %w", err)
	}

	if err := r.conn(ctx).QueryRow(ctx, sql, args...).Scan(&p.CreatedAt, &p.UpdatedAt); err != nil {
		logger.Error().Err(err).Str("userID", p.ID.String()).Msg("Error executing create profile query")
		return fmt.Errorf("error creating profile: %w", err)
	}
	return nil
}

// GetByID returns the profile of a user
func (r *ProfileRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	sql, args, err := r.sb.Select(profileColumns("p")...).
		From("profiles p").
		Where(squirrel.Eq{"p.id": id}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get profile SQL")
		return nil, fmt.Errorf("failed to build get profile query: %w", err)
	}

	var p models.Profile
	if err := r.conn(ctx).QueryRow(ctx, sql, args...).Scan(profileDest(&p)...); err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrProfileNotFound
		}
		logger.Error().Err(err).Str("userID", id.String()).Msg("Error scanning profile row")
		return nil, fmt.Errorf("error retrieving profile: %w", err)
	}
	return &p, nil
}

// Update saves the editable profile fields and refreshes p from the row
func (r *ProfileRepository) Update(ctx context.Context, p *models.Profile) error {
	sql, args, err := r.sb.Update("profiles").
		Set("full_name", p.FullName).
		Set("mobile", p.Mobile).
		Set("college_name", p.CollegeName).
		Set("year", p.Year).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": p.ID}).
		Suffix("RETURNING email, created_at, updated_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building update profile SQL")
		return fmt.Errorf("failed to build update profile query: %w", err)
	}

	if err := r.conn(ctx).QueryRow(ctx, sql, args...).Scan(&p.Email, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if dberrors.IsNoRows(err) {
			return apperrors.ErrProfileNotFound
		}
		logger.Error().Err(err).Str("userID", p.ID.String()).Msg("Error executing update profile query")
		return fmt.Errorf("error updating profile: %w", err)
	}
	return nil
}

// List returns every profile, newest first
func (r *ProfileRepository) List(ctx context.Context) ([]models.Profile, error) {
	sql, args, err := r.sb.Select(profileColumns("p")...).
		From("profiles p").
		OrderBy("p.created_at DESC").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list profiles SQL")
		return nil, fmt.Errorf("failed to build list profiles query: %w", err)
	}

	rows, err := r.conn(ctx).Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list profiles query")
		return nil, fmt.Errorf("error listing profiles: %w", err)
	}
	defer rows.Close()

	profiles := []models.Profile{}
	for rows.Next() {
		var p models.Profile
		if err := rows.Scan(profileDest(&p)...); err != nil {
			return nil, fmt.Errorf("error scanning profile row: %w", err)
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

// Count returns the number of profiles
func (r *ProfileRepository) Count(ctx context.Context) (int64, error) {
	sql, args, err := r.sb.Select("COUNT(*)").From("profiles").ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count profiles query: %w", err)
	}

	var n int64
	if err := r.conn(ctx).QueryRow(ctx, sql, args...).Scan(&n); err != nil {
		logger.Error().Err(err).Msg("Error counting profiles")
		return 0, fmt.Errorf("error counting profiles: %w", err)
	}
	return n, nil
}
