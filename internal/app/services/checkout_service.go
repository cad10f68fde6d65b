package services

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
	"github.com/yigit/coursestore/internal/pkg/email"
	"github.com/yigit/coursestore/internal/pkg/payment"
	"github.com/yigit/coursestore/internal/pkg/session"
)

// CheckoutSummary is the payment page before paying
type CheckoutSummary struct {
	Items   []models.CartItem
	Total   decimal.Decimal
	Profile *models.Profile
}

// CheckoutResult describes a completed checkout. Replayed is set when the
// idempotency key had already completed and no new orders were made.
type CheckoutResult struct {
	AttemptID uuid.UUID
	PaymentID string
	Total     decimal.Decimal
	Orders    []models.Order
	Replayed  bool
}

// CheckoutService turns a cart into paid orders
type CheckoutService struct {
	tx       Transactor
	carts    CartStore
	orders   OrderStore
	attempts CheckoutAttemptStore
	profiles ProfileStore
	outbox   OutboxWriter
	gateway  payment.Gateway
	mailer   email.EmailService
	staleAge time.Duration
	logger   zerolog.Logger
	now      func() time.Time
}

// CheckoutDeps groups the collaborators of CheckoutService
type CheckoutDeps struct {
	Tx       Transactor
	Carts    CartStore
	Orders   OrderStore
	Attempts CheckoutAttemptStore
	Profiles ProfileStore
	Outbox   OutboxWriter
	Gateway  payment.Gateway
	Mailer   email.EmailService
}

// NewCheckoutService creates a new CheckoutService. Pending attempts older
// than staleAge are abandoned by SweepStale.
func NewCheckoutService(deps CheckoutDeps, staleAge time.Duration, logger zerolog.Logger) *CheckoutService {
	return &CheckoutService{
		tx:       deps.Tx,
		carts:    deps.Carts,
		orders:   deps.Orders,
		attempts: deps.Attempts,
		profiles: deps.Profiles,
		outbox:   deps.Outbox,
		gateway:  deps.Gateway,
		mailer:   deps.Mailer,
		staleAge: staleAge,
		logger:   logger.With().Str("component", "checkout").Logger(),
		now:      time.Now,
	}
}

// Summary returns the cart lines, their total and the buyer's profile.
// An empty cart yields apperrors.ErrCartEmpty.
func (s *CheckoutService) Summary(ctx context.Context, sess session.Session) (*CheckoutSummary, error) {
	items, err := s.carts.ListByUser(ctx, sess.UserID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, apperrors.ErrCartEmpty
	}

	profile, err := s.profiles.GetByID(ctx, sess.UserID)
	if err != nil && !errors.Is(err, apperrors.ErrProfileNotFound) {
		return nil, err
	}

	return &CheckoutSummary{
		Items:   items,
		Total:   models.CartTotal(items),
		Profile: profile,
	}, nil
}

// Checkout charges the cart total once and converts every cart line into
// an order, all in one transaction. On any failure nothing is written and
// a payment already taken is voided. Failures other than an empty cart or
// a concurrent attempt with the same key are reported as
// apperrors.ErrPaymentDeclined.
func (s *CheckoutService) Checkout(ctx context.Context, sess session.Session, idempotencyKey string) (*CheckoutResult, error) {
	key := strings.TrimSpace(idempotencyKey)
	if key == "" {
		key = uuid.NewString()
	}

	var (
		result    *CheckoutResult
		paymentID string
	)
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		result, paymentID = nil, ""

		attempt, replay, err := s.beginAttempt(ctx, sess.UserID, key)
		if err != nil {
			return err
		}
		if replay != nil {
			result = replay
			return nil
		}

		items, err := s.carts.LockByUser(ctx, sess.UserID)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return apperrors.ErrCartEmpty
		}
		total := models.CartTotal(items)

		paymentID, err = s.gateway.Charge(ctx, total, "checkout "+attempt.ID.String())
		if err != nil {
			return fmt.Errorf("charge: %w", err)
		}

		orders := make([]models.Order, 0, len(items))
		lineIDs := make([]uuid.UUID, 0, len(items))
		for _, item := range items {
			order := models.Order{
				UserID:            sess.UserID,
				CourseID:          item.CourseID,
				AmountPaid:        item.Course.DiscountedPrice,
				PaymentStatus:     models.PaymentStatusCompleted,
				PaymentID:         paymentID,
				CheckoutAttemptID: &attempt.ID,
			}
			if err := s.orders.Create(ctx, &order); err != nil {
				return err
			}
			order.Course = item.Course
			orders = append(orders, order)
			lineIDs = append(lineIDs, item.ID)
		}

		if _, err := s.carts.DeleteByIDs(ctx, sess.UserID, lineIDs); err != nil {
			return err
		}
		if err := s.attempts.Complete(ctx, attempt.ID, paymentID, total); err != nil {
			return err
		}
		if err := s.recordOrderCreated(ctx, attempt.ID, sess.UserID, paymentID, total, orders); err != nil {
			return err
		}

		result = &CheckoutResult{
			AttemptID: attempt.ID,
			PaymentID: paymentID,
			Total:     total,
			Orders:    orders,
		}
		return nil
	})
	if err != nil {
		if paymentID != "" {
			s.voidPayment(ctx, paymentID)
		}
		if apperrors.Is(err, apperrors.ErrCartEmpty, apperrors.ErrCheckoutInProgress) {
			return nil, err
		}
		s.logger.Error().Err(err).Str("userID", sess.UserID.String()).Msg("Checkout failed")
		return nil, fmt.Errorf("%w: %v", apperrors.ErrPaymentDeclined, err)
	}

	if result.Replayed {
		s.logger.Info().Str("attemptID", result.AttemptID.String()).Msg("Checkout replayed")
		return result, nil
	}

	s.logger.Info().
		Str("userID", sess.UserID.String()).
		Str("paymentID", result.PaymentID).
		Int("orders", len(result.Orders)).
		Msg("Checkout completed")
	s.sendConfirmation(ctx, sess, result)
	return result, nil
}

// beginAttempt claims the idempotency key. It returns the attempt to fill
// in, or the result of an earlier checkout that already completed.
func (s *CheckoutService) beginAttempt(ctx context.Context, userID uuid.UUID, key string) (*models.CheckoutAttempt, *CheckoutResult, error) {
	existing, err := s.attempts.GetByKey(ctx, userID, key)
	switch {
	case errors.Is(err, apperrors.ErrResourceNotFound):
		attempt := &models.CheckoutAttempt{UserID: userID, IdempotencyKey: key}
		if err := s.attempts.Create(ctx, attempt); err != nil {
			return nil, nil, err
		}
		return attempt, nil, nil
	case err != nil:
		return nil, nil, err
	}

	if !existing.Status.IsTerminal() {
		return nil, nil, apperrors.ErrCheckoutInProgress
	}
	if existing.Status == models.CheckoutStatusAbandoned {
		if err := s.attempts.Restart(ctx, existing.ID); err != nil {
			return nil, nil, err
		}
		existing.Status = models.CheckoutStatusPending
		return existing, nil, nil
	}

	orders, err := s.orders.ListByCheckoutAttempt(ctx, existing.ID)
	if err != nil {
		return nil, nil, err
	}
	replay := &CheckoutResult{
		AttemptID: existing.ID,
		Total:     existing.TotalAmount.Decimal,
		Orders:    orders,
		Replayed:  true,
	}
	if existing.PaymentID != nil {
		replay.PaymentID = *existing.PaymentID
	}
	return nil, replay, nil
}

func (s *CheckoutService) recordOrderCreated(ctx context.Context, attemptID, userID uuid.UUID, paymentID string, total decimal.Decimal, orders []models.Order) error {
	payload := models.OrderCreatedPayload{
		CheckoutAttemptID: attemptID,
		UserID:            userID,
		TotalAmount:       total.StringFixed(2),
		PaymentID:         paymentID,
		PurchasedAt:       s.now().UTC(),
	}
	for _, o := range orders {
		payload.OrderIDs = append(payload.OrderIDs, o.ID)
		payload.CourseIDs = append(payload.CourseIDs, o.CourseID)
	}

	event, err := models.NewOutboxEvent(models.AggregateOrder, attemptID.String(), models.EventOrderCreated, payload)
	if err != nil {
		return err
	}
	return s.outbox.Insert(ctx, event)
}

func (s *CheckoutService) voidPayment(ctx context.Context, paymentID string) {
	if err := s.gateway.Void(context.WithoutCancel(ctx), paymentID); err != nil {
		s.logger.Error().Err(err).Str("paymentID", paymentID).Msg("Failed to void payment of rolled back checkout")
		return
	}
	s.logger.Warn().Str("paymentID", paymentID).Msg("Payment voided after checkout rollback")
}

func (s *CheckoutService) sendConfirmation(ctx context.Context, sess session.Session, result *CheckoutResult) {
	name := ""
	if profile, err := s.profiles.GetByID(ctx, sess.UserID); err == nil {
		name = profile.FullName
	}

	receipt := email.Receipt{
		PaymentReference: result.PaymentID,
		Total:            result.Total.StringFixed(2),
	}
	for _, o := range result.Orders {
		if o.Course != nil {
			receipt.Courses = append(receipt.Courses, o.Course.Title)
		}
	}

	if err := s.mailer.SendEnrollmentConfirmation(sess.Email, name, receipt); err != nil {
		s.logger.Warn().Err(err).Str("userID", sess.UserID.String()).Msg("Failed to send enrollment confirmation")
	}
}

// SweepStale abandons old pending attempts so their keys can be used again.
// Checkout commits an attempt only once it is COMPLETED, so a pending row
// never comes from Checkout itself; the sweep clears rows written outside it
// (manual repair, imports), and a warning is logged when it finds any.
func (s *CheckoutService) SweepStale(ctx context.Context) (int64, error) {
	n, err := s.attempts.AbandonStale(ctx, s.now().Add(-s.staleAge))
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.logger.Warn().Int64("count", n).Msg("Abandoned stale checkout attempts")
	}
	return n, nil
}
