package repositories

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/coursestore/internal/app/models"
	"github.com/yigit/coursestore/internal/pkg/apperrors"
	"github.com/yigit/coursestore/internal/pkg/dberrors"
	"github.com/yigit/coursestore/internal/pkg/logger"
)

var orderColumnNames = []string{
	"id", "user_id", "course_id", "amount_paid", "payment_status", "payment_id", "checkout_attempt_id", "purchased_at",
}

func orderColumns(alias string) []string {
	cols := make([]string, len(orderColumnNames))
	for i, c := range orderColumnNames {
		cols[i] = alias + "." + c
	}
	return cols
}

func orderDest(o *models.Order) []any {
	return []any{&o.ID, &o.UserID, &o.CourseID, &o.AmountPaid, &o.PaymentStatus, &o.PaymentID, &o.CheckoutAttemptID, &o.PurchasedAt}
}

// OrderRepository handles purchased courses
type OrderRepository struct {
	baseRepository
}

// NewOrderRepository creates a new OrderRepository
func NewOrderRepository(db *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{baseRepository: newBase(db)}
}

// Create inserts an order
func (r *OrderRepository) Create(ctx context.Context, o *models.Order) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}

	sql, args, err := r.sb.Insert("orders").
		Columns("id", "user_id", "course_id", "amount_paid", "payment_status", "payment_id", "checkout_attempt_id").
		Values(o.ID, o.UserID, o.CourseID, o.AmountPaid, string(o.PaymentStatus), o.PaymentID, o.CheckoutAttemptID).
		Suffix("RETURNING purchased_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create order SQL")
		return fmt.Errorf("failed to build create order query: %w", err)
	}

	if err := r.conn(ctx).QueryRow(ctx, sql, args...).Scan(&o.PurchasedAt); err != nil {
		logger.Error().Err(err).
			Str("userID", o.UserID.String()).
			Str("courseID", o.CourseID.String()).
			Msg("Error executing create order query")
		return fmt.Errorf("error creating order: %w", err)
	}
	return nil
}

func (r *OrderRepository) selectWithCourse() squirrel.SelectBuilder {
	cols := append(orderColumns("o"), courseColumns("c")...)
	return r.sb.Select(cols...).
		From("orders o").
		Join("courses c ON c.id = o.course_id")
}

func (r *OrderRepository) queryWithCourse(ctx context.Context, q squirrel.SelectBuilder) ([]models.Order, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building order SQL")
		return nil, fmt.Errorf("failed to build order query: %w", err)
	}

	rows, err := r.conn(ctx).Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing order query")
		return nil, fmt.Errorf("error listing orders: %w", err)
	}
	defer rows.Close()

	orders := []models.Order{}
	for rows.Next() {
		var o models.Order
		var s courseScan
		if err := rows.Scan(append(orderDest(&o), s.dest()...)...); err != nil {
			return nil, fmt.Errorf("error scanning order row: %w", err)
		}
		if o.Course, err = s.finish(); err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

// ListByUser returns the user's orders with their course, newest first
func (r *OrderRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	return r.queryWithCourse(ctx, r.selectWithCourse().
		Where(squirrel.Eq{"o.user_id": userID}).
		OrderBy("o.purchased_at DESC"))
}

// ListByCheckoutAttempt returns the orders created by one checkout
func (r *OrderRepository) ListByCheckoutAttempt(ctx context.Context, attemptID uuid.UUID) ([]models.Order, error) {
	return r.queryWithCourse(ctx, r.selectWithCourse().
		Where(squirrel.Eq{"o.checkout_attempt_id": attemptID}).
		OrderBy("o.purchased_at ASC", "o.id ASC"))
}

// ListAll returns every order with its course and buyer profile, newest first
func (r *OrderRepository) ListAll(ctx context.Context) ([]models.Order, error) {
	cols := append(orderColumns("o"), courseColumns("c")...)
	cols = append(cols, profileColumns("p")...)
	sql, args, err := r.sb.Select(cols...).
		From("orders o").
		Join("courses c ON c.id = o.course_id").
		LeftJoin("profiles p ON p.id = o.user_id").
		OrderBy("o.purchased_at DESC").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list all orders SQL")
		return nil, fmt.Errorf("failed to build list all orders query: %w", err)
	}

	rows, err := r.conn(ctx).Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list all orders query")
		return nil, fmt.Errorf("error listing orders: %w", err)
	}
	defer rows.Close()

	orders := []models.Order{}
	for rows.Next() {
		var o models.Order
		var s courseScan
		var p nullableProfile
		dest := append(orderDest(&o), s.dest()...)
		if err := rows.Scan(append(dest, p.dest()...)...); err != nil {
			return nil, fmt.Errorf("error scanning order row: %w", err)
		}
		if o.Course, err = s.finish(); err != nil {
			return nil, err
		}
		o.Profile = p.profile()
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

// GetByID returns one order without joins
func (r *OrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	sql, args, err := r.sb.Select(orderColumns("o")...).
		From("orders o").
		Where(squirrel.Eq{"o.id": id}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get order SQL")
		return nil, fmt.Errorf("failed to build get order query: %w", err)
	}

	var o models.Order
	if err := r.conn(ctx).QueryRow(ctx, sql, args...).Scan(orderDest(&o)...); err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrOrderNotFound
		}
		logger.Error().Err(err).Str("orderID", id.String()).Msg("Error scanning order row")
		return nil, fmt.Errorf("error retrieving order: %w", err)
	}
	return &o, nil
}

// MarkRefunded flips a completed order to refunded and returns the updated
// row. An order in any other state is left untouched.
func (r *OrderRepository) MarkRefunded(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	sql, args, err := r.sb.Update("orders").
		Set("payment_status", string(models.PaymentStatusRefunded)).
		Where(squirrel.Eq{"id": id, "payment_status": string(models.PaymentStatusCompleted)}).
		Suffix("RETURNING " + strings.Join(orderColumnNames, ", ")).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building refund order SQL")
		return nil, fmt.Errorf("failed to build refund order query: %w", err)
	}

	var o models.Order
	err = r.conn(ctx).QueryRow(ctx, sql, args...).Scan(orderDest(&o)...)
	if err == nil {
		return &o, nil
	}
	if !dberrors.IsNoRows(err) {
		logger.Error().Err(err).Str("orderID", id.String()).Msg("Error executing refund order query")
		return nil, fmt.Errorf("error refunding order: %w", err)
	}

	// nothing updated: either the order is missing or not refundable
	if _, err := r.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return nil, apperrors.ErrOrderNotRefundable
}

// Stats aggregates revenue and sales over every order
func (r *OrderRepository) Stats(ctx context.Context) (*models.AdminStats, error) {
	sql, args, err := r.sb.Select(
		"COALESCE(SUM(amount_paid), 0)",
		"COALESCE(SUM(amount_paid) FILTER (WHERE payment_status <> 'refunded'), 0)",
		"COUNT(*)",
	).From("orders").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build order stats query: %w", err)
	}

	var stats models.AdminStats
	if err := r.conn(ctx).QueryRow(ctx, sql, args...).Scan(&stats.TotalRevenue, &stats.NetRevenue, &stats.TotalSales); err != nil {
		logger.Error().Err(err).Msg("Error executing order stats query")
		return nil, fmt.Errorf("error computing order stats: %w", err)
	}
	return &stats, nil
}

// nullableProfile scans a LEFT JOINed profile whose columns may all be NULL.
type nullableProfile struct {
	id                                     *uuid.UUID
	email, fullName, mobile, college, year *string
	createdAt, updatedAt                   *time.Time
}

func (p *nullableProfile) dest() []any {
	return []any{&p.id, &p.email, &p.fullName, &p.mobile, &p.college, &p.year, &p.createdAt, &p.updatedAt}
}

func (p *nullableProfile) profile() *models.Profile {
	if p.id == nil {
		return nil
	}
	profile := &models.Profile{
		ID:          *p.id,
		Email:       deref(p.email),
		FullName:    deref(p.fullName),
		Mobile:      deref(p.mobile),
		CollegeName: deref(p.college),
		Year:        deref(p.year),
	}
	if p.createdAt != nil {
		profile.CreatedAt = *p.createdAt
	}
	if p.updatedAt != nil {
		profile.UpdatedAt = *p.updatedAt
	}
	return profile
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
