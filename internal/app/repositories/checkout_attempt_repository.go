package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/yigit/coursestore/internal/app/models"
	"github.com/yigit/coursestore/internal/pkg/apperrors"
	"github.com/yigit/coursestore/internal/pkg/dberrors"
	"github.com/yigit/coursestore/internal/pkg/logger"
)

var attemptColumns = []string{
	"id", "user_id", "idempotency_key", "status", "payment_id", "total_amount", "created_at", "updated_at",
}

func attemptDest(a *models.CheckoutAttempt) []any {
	return []any{&a.ID, &a.UserID, &a.IdempotencyKey, &a.Status, &a.PaymentID, &a.TotalAmount, &a.CreatedAt, &a.UpdatedAt}
}

// CheckoutAttemptRepository guards checkouts by idempotency key
type CheckoutAttemptRepository struct {
	baseRepository
}

// NewCheckoutAttemptRepository creates a new CheckoutAttemptRepository
func NewCheckoutAttemptRepository(db *pgxpool.Pool) *CheckoutAttemptRepository {
	return &CheckoutAttemptRepository{baseRepository: newBase(db)}
}

// Create inserts a PENDING attempt. A second attempt for the same
// (user, key) fails with ErrCheckoutInProgress.
func (r *CheckoutAttemptRepository) Create(ctx context.Context, a *models.CheckoutAttempt) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	a.Status = models.CheckoutStatusPending

	sql, args, err := r.sb.Insert("checkout_attempts").
		Columns("id", "user_id", "idempotency_key", "status").
		Values(a.ID, a.UserID, a.IdempotencyKey, string(a.Status)).
		Suffix("RETURNING created_at, updated_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create checkout attempt SQL")
		return fmt.Errorf("failed to build create checkout attempt query: %w", err)
	}

	if err := r.conn(ctx).QueryRow(ctx, sql, args...).Scan(&a.CreatedAt, &a.UpdatedAt); err != nil {
		if dberrors.IsDuplicateConstraintError(err, dberrors.ConstraintCheckoutUserKey) {
			return apperrors.ErrCheckoutInProgress
		}
		logger.Error().Err(err).Str("userID", a.UserID.String()).Msg("Error executing create checkout attempt query")
		return fmt.Errorf("error creating checkout attempt: %w", err)
	}
	return nil
}

// GetByKey returns the attempt of (user, key)
func (r *CheckoutAttemptRepository) GetByKey(ctx context.Context, userID uuid.UUID, key string) (*models.CheckoutAttempt, error) {
	sql, args, err := r.sb.Select(attemptColumns...).
		From("checkout_attempts").
		Where(squirrel.Eq{"user_id": userID, "idempotency_key": key}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get checkout attempt SQL")
		return nil, fmt.Errorf("failed to build get checkout attempt query: %w", err)
	}

	var a models.CheckoutAttempt
	if err := r.conn(ctx).QueryRow(ctx, sql, args...).Scan(attemptDest(&a)...); err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrResourceNotFound
		}
		logger.Error().Err(err).Str("userID", userID.String()).Msg("Error scanning checkout attempt row")
		return nil, fmt.Errorf("error retrieving checkout attempt: %w", err)
	}
	return &a, nil
}

// Complete records the payment and marks a PENDING attempt COMPLETED
func (r *CheckoutAttemptRepository) Complete(ctx context.Context, id uuid.UUID, paymentID string, total decimal.Decimal) error {
	return r.transition(ctx, r.sb.Update("checkout_attempts").
		Set("status", string(models.CheckoutStatusCompleted)).
		Set("payment_id", paymentID).
		Set("total_amount", total).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "status": string(models.CheckoutStatusPending)}))
}

// Restart moves an ABANDONED attempt back to PENDING so its key can be used again
func (r *CheckoutAttemptRepository) Restart(ctx context.Context, id uuid.UUID) error {
	return r.transition(ctx, r.sb.Update("checkout_attempts").
		Set("status", string(models.CheckoutStatusPending)).
		Set("payment_id", nil).
		Set("total_amount", nil).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "status": string(models.CheckoutStatusAbandoned)}))
}

func (r *CheckoutAttemptRepository) transition(ctx context.Context, q squirrel.UpdateBuilder) error {
	sql, args, err := q.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building checkout attempt update SQL")
		return fmt.Errorf("failed to build checkout attempt update query: %w", err)
	}

	cmdTag, err := r.conn(ctx).Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing checkout attempt update")
		return fmt.Errorf("error updating checkout attempt: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		// someone else moved the attempt first
		return apperrors.ErrCheckoutInProgress
	}
	return nil
}

// AbandonStale marks PENDING attempts created before cutoff as ABANDONED
func (r *CheckoutAttemptRepository) AbandonStale(ctx context.Context, cutoff time.Time) (int64, error) {
	sql, args, err := r.sb.Update("checkout_attempts").
		Set("status", string(models.CheckoutStatusAbandoned)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"status": string(models.CheckoutStatusPending)}).
		Where(squirrel.Lt{"created_at": cutoff}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build abandon stale attempts query: %w", err)
	}

	cmdTag, err := r.conn(ctx).Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error abandoning stale checkout attempts")
		return 0, fmt.Errorf("error abandoning stale checkout attempts: %w", err)
	}
	return cmdTag.RowsAffected(), nil
}
