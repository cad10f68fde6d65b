package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/coursestore/internal/app/models"
	"github.com/yigit/coursestore/internal/pkg/logger"
)

// RoleRepository reads and seeds user_roles
type RoleRepository struct {
	baseRepository
}

// NewRoleRepository creates a new RoleRepository
func NewRoleRepository(db *pgxpool.Pool) *RoleRepository {
	return &RoleRepository{baseRepository: newBase(db)}
}

// HasRole reports whether the (user, role) pair exists
func (r *RoleRepository) HasRole(ctx context.Context, userID uuid.UUID, role models.Role) (bool, error) {
	sql, args, err := r.sb.Select("1").
		From("user_roles").
		Where(squirrel.Eq{"user_id": userID, "role": string(role)}).
		Prefix("SELECT EXISTS (").
		Suffix(")").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building has role SQL")
		return false, fmt.Errorf("failed to build has role query: %w", err)
	}

	var exists bool
	if err := r.conn(ctx).QueryRow(ctx, sql, args...).Scan(&exists); err != nil {
		logger.Error().Err(err).Str("userID", userID.String()).Str("role", string(role)).Msg("Error checking role")
		return false, fmt.Errorf("error checking role: %w", err)
	}
	return exists, nil
}

// Assign grants role to the user; granting twice is a no-op
func (r *RoleRepository) Assign(ctx context.Context, userID uuid.UUID, role models.Role) error {
	sql, args, err := r.sb.Insert("user_roles").
		Columns("user_id", "role").
		Values(userID, string(role)).
		Suffix("ON CONFLICT (user_id, role) DO NOTHING").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building assign role SQL")
		return fmt.Errorf("failed to build assign role query: %w", err)
	}

	if _, err := r.conn(ctx).Exec(ctx, sql, args...); err != nil {
		logger.Error().Err(err).Str("userID", userID.String()).Msg("Error assigning role")
		return fmt.Errorf("error assigning role: %w", err)
	}
	return nil
}
