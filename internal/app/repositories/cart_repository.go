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

// CartRepository handles cart lines
type CartRepository struct {
	baseRepository
}

// NewCartRepository creates a new CartRepository
func NewCartRepository(db *pgxpool.Pool) *CartRepository {
	return &CartRepository{baseRepository: newBase(db)}
}

func (r *CartRepository) selectWithCourse(userID uuid.UUID) squirrel.SelectBuilder {
	cols := append([]string{"ci.id", "ci.user_id", "ci.course_id", "ci.created_at"}, courseColumns("c")...)
	return r.sb.Select(cols...).
		From("cart_items ci").
		Join("courses c ON c.id = ci.course_id").
		Where(squirrel.Eq{"ci.user_id": userID}).
		OrderBy("ci.created_at ASC")
}

func (r *CartRepository) queryWithCourse(ctx context.Context, q squirrel.SelectBuilder) ([]models.CartItem, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building cart SQL")
		return nil, fmt.Errorf("failed to build cart query: %w", err)
	}

	rows, err := r.conn(ctx).Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing cart query")
		return nil, fmt.Errorf("error listing cart: %w", err)
	}
	defer rows.Close()

	items := []models.CartItem{}
	for rows.Next() {
		var item models.CartItem
		var s courseScan
		dest := append([]any{&item.ID, &item.UserID, &item.CourseID, &item.CreatedAt}, s.dest()...)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("error scanning cart row: %w", err)
		}
		if item.Course, err = s.finish(); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// ListByUser returns the user's lines joined with their course
func (r *CartRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error) {
	return r.queryWithCourse(ctx, r.selectWithCourse(userID))
}

// LockByUser is ListByUser with the cart rows locked until the surrounding
// transaction ends. Must be called inside a transaction.
func (r *CartRepository) LockByUser(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error) {
	return r.queryWithCourse(ctx, r.selectWithCourse(userID).Suffix("FOR UPDATE OF ci"))
}

// CountByUser returns the number of lines in the user's cart
func (r *CartRepository) CountByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	sql, args, err := r.sb.Select("COUNT(*)").
		From("cart_items").
		Where(squirrel.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count cart query: %w", err)
	}

	var n int64
	if err := r.conn(ctx).QueryRow(ctx, sql, args...).Scan(&n); err != nil {
		logger.Error().Err(err).Str("userID", userID.String()).Msg("Error counting cart items")
		return 0, fmt.Errorf("error counting cart items: %w", err)
	}
	return n, nil
}

// Add inserts a (user, course) line
func (r *CartRepository) Add(ctx context.Context, item *models.CartItem) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}

	sql, args, err := r.sb.Insert("cart_items").
		Columns("id", "user_id", "course_id").
		Values(item.ID, item.UserID, item.CourseID).
		Suffix("RETURNING created_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building add cart item SQL")
		return fmt.Errorf("failed to build add cart item query: %w", err)
	}

	if err := r.conn(ctx).QueryRow(ctx, sql, args...).Scan(&item.CreatedAt); err != nil {
		switch {
		case dberrors.IsDuplicateConstraintError(err, dberrors.ConstraintCartUserCourse):
			return apperrors.ErrAlreadyInCart
		case dberrors.IsForeignKeyViolation(err, dberrors.ConstraintCartItemsCourseFK):
			return apperrors.ErrCourseNotFound
		}
		logger.Error().Err(err).
			Str("userID", item.UserID.String()).
			Str("courseID", item.CourseID.String()).
			Msg("Error executing add cart item query")
		return fmt.Errorf("error adding cart item: %w", err)
	}
	return nil
}

// Remove deletes one of the user's lines
func (r *CartRepository) Remove(ctx context.Context, userID, itemID uuid.UUID) error {
	sql, args, err := r.sb.Delete("cart_items").
		Where(squirrel.Eq{"id": itemID, "user_id": userID}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building remove cart item SQL")
		return fmt.Errorf("failed to build remove cart item query: %w", err)
	}

	cmdTag, err := r.conn(ctx).Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("itemID", itemID.String()).Msg("Error executing remove cart item query")
		return fmt.Errorf("error removing cart item: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrCartItemNotFound
	}
	return nil
}

// DeleteByIDs removes the given lines of the user and returns how many went
func (r *CartRepository) DeleteByIDs(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	sql, args, err := r.sb.Delete("cart_items").
		Where(squirrel.Eq{"user_id": userID, "id": ids}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build delete cart items query: %w", err)
	}

	cmdTag, err := r.conn(ctx).Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("userID", userID.String()).Msg("Error deleting cart items")
		return 0, fmt.Errorf("error deleting cart items: %w", err)
	}
	return cmdTag.RowsAffected(), nil
}
