package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/yigit/coursestore/internal/app/models"
	"github.com/yigit/coursestore/internal/pkg/csvexport"
	"github.com/yigit/coursestore/internal/pkg/payment"
)

var (
	orderExportHeader = []string{
		"id", "user_id", "course_id", "amount_paid", "payment_status", "payment_id", "purchased_at",
		"course_title", "course_price", "student_name", "student_email", "student_mobile", "college_name",
	}
	studentExportHeader = []string{
		"id", "email", "full_name", "mobile", "college_name", "year", "created_at", "updated_at",
	}
)

// AdminService backs the admin dashboard
type AdminService struct {
	tx       Transactor
	orders   OrderStore
	profiles ProfileStore
	outbox   OutboxWriter
	gateway  payment.Gateway
	logger   zerolog.Logger
	now      func() time.Time
}

// NewAdminService creates a new AdminService
func NewAdminService(
	tx Transactor,
	orders OrderStore,
	profiles ProfileStore,
	outbox OutboxWriter,
	gateway payment.Gateway,
	logger zerolog.Logger,
) *AdminService {
	return &AdminService{
		tx:       tx,
		orders:   orders,
		profiles: profiles,
		outbox:   outbox,
		gateway:  gateway,
		logger:   logger.With().Str("component", "admin").Logger(),
		now:      time.Now,
	}
}

// Stats returns revenue, sales and student counters. TotalRevenue and
// TotalSales count refunded orders too.
func (s *AdminService) Stats(ctx context.Context) (*models.AdminStats, error) {
	stats, err := s.orders.Stats(ctx)
	if err != nil {
		return nil, err
	}

	students, err := s.profiles.Count(ctx)
	if err != nil {
		return nil, err
	}
	stats.TotalStudents = students
	return stats, nil
}

// Orders returns every order with its course and buyer, newest first
func (s *AdminService) Orders(ctx context.Context) ([]models.Order, error) {
	return s.orders.ListAll(ctx)
}

// Students returns every profile, newest first
func (s *AdminService) Students(ctx context.Context) ([]models.Profile, error) {
	return s.profiles.List(ctx)
}

// Refund marks a completed order refunded and voids its payment. The
// status change and its outbox event commit together; the void happens
// afterwards and only logs on failure.
func (s *AdminService) Refund(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	var order *models.Order
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		order, err = s.orders.MarkRefunded(ctx, orderID)
		if err != nil {
			return err
		}

		event, err := models.NewOutboxEvent(models.AggregateOrder, order.ID.String(), models.EventOrderRefunded,
			models.OrderRefundedPayload{
				OrderID:    order.ID,
				UserID:     order.UserID,
				AmountPaid: order.AmountPaid.StringFixed(2),
				PaymentID:  order.PaymentID,
				RefundedAt: s.now().UTC(),
			})
		if err != nil {
			return err
		}
		return s.outbox.Insert(ctx, event)
	})
	if err != nil {
		return nil, err
	}

	if err := s.gateway.Void(ctx, order.PaymentID); err != nil {
		ev := s.logger.Warn()
		if errors.Is(err, payment.ErrUnknownPayment) {
			ev = s.logger.Info()
		}
		ev.Err(err).Str("orderID", order.ID.String()).Str("paymentID", order.PaymentID).Msg("Payment not voided for refund")
	}

	s.logger.Info().Str("orderID", order.ID.String()).Msg("Order refunded")
	return order, nil
}

// ExportOrders renders all orders as CSV. The result is empty when there
// are no orders.
func (s *AdminService) ExportOrders(ctx context.Context, quoting csvexport.Quoting) ([]byte, error) {
	orders, err := s.orders.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	table := csvexport.Table{Header: orderExportHeader}
	for _, o := range orders {
		var title, price, name, mail, mobile, college string
		if o.Course != nil {
			title, price = o.Course.Title, o.Course.DiscountedPrice.StringFixed(2)
		}
		if o.Profile != nil {
			name, mail, mobile, college = o.Profile.FullName, o.Profile.Email, o.Profile.Mobile, o.Profile.CollegeName
		}
		table.Rows = append(table.Rows, []string{
			o.ID.String(), o.UserID.String(), o.CourseID.String(), o.AmountPaid.StringFixed(2),
			string(o.PaymentStatus), o.PaymentID, o.PurchasedAt.UTC().Format(time.RFC3339),
			title, price, name, mail, mobile, college,
		})
	}
	return csvexport.Encode(table, quoting)
}

// ExportStudents renders all profiles as CSV
func (s *AdminService) ExportStudents(ctx context.Context, quoting csvexport.Quoting) ([]byte, error) {
	profiles, err := s.profiles.List(ctx)
	if err != nil {
		return nil, err
	}

	table := csvexport.Table{Header: studentExportHeader}
	for _, p := range profiles {
		table.Rows = append(table.Rows, []string{
			p.ID.String(), p.Email, p.FullName, p.Mobile, p.CollegeName, p.Year,
			p.CreatedAt.UTC().Format(time.RFC3339), p.UpdatedAt.UTC().Format(time.RFC3339),
		})
	}
	return csvexport.Encode(table, quoting)
}
