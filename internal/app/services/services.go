// Package services holds the business logic of the store. Services depend
// on the small store interfaces below rather than on concrete
// repositories, and run multi-step writes through a Transactor.
//
// Services defined in this package:
//   - AuthService: registration, login, token refresh and logout
//   - CatalogService: the course catalog, cached
//   - CartService: the session user's cart
//   - CheckoutService: payment and order creation
//   - DashboardService: the student dashboard and profile
//   - RoleService: the admin role gate
//   - AdminService: revenue, orders, students, refunds and exports
//   - ContactService: contact form submissions
package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/yigit/coursestore/internal/app/models"
)

// Transactor runs fn in a transaction carried by the ctx it receives.
type Transactor interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// UserStore persists credential records
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// ProfileStore persists student profiles
type ProfileStore interface {
	Create(ctx context.Context, p *models.Profile) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Profile, error)
	Update(ctx context.Context, p *models.Profile) error
	List(ctx context.Context) ([]models.Profile, error)
	Count(ctx context.Context) (int64, error)
}

// RoleStore answers role membership questions
type RoleStore interface {
	HasRole(ctx context.Context, userID uuid.UUID, role models.Role) (bool, error)
	Assign(ctx context.Context, userID uuid.UUID, role models.Role) error
}

// TokenStore persists refresh tokens
type TokenStore interface {
	Create(ctx context.Context, t *models.RefreshToken) error
	GetByToken(ctx context.Context, token string) (*models.RefreshToken, error)
	Revoke(ctx context.Context, token string) error
	DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error)
}

// CourseStore reads the catalog
type CourseStore interface {
	List(ctx context.Context) ([]models.Course, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Course, error)
}

// CartStore persists cart lines
type CartStore interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error)
	LockByUser(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error)
	CountByUser(ctx context.Context, userID uuid.UUID) (int64, error)
	Add(ctx context.Context, item *models.CartItem) error
	Remove(ctx context.Context, userID, itemID uuid.UUID) error
	DeleteByIDs(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) (int64, error)
}

// OrderStore persists orders
type OrderStore interface {
	Create(ctx context.Context, o *models.Order) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error)
	ListByCheckoutAttempt(ctx context.Context, attemptID uuid.UUID) ([]models.Order, error)
	ListAll(ctx context.Context) ([]models.Order, error)
	MarkRefunded(ctx context.Context, id uuid.UUID) (*models.Order, error)
	Stats(ctx context.Context) (*models.AdminStats, error)
}

// CheckoutAttemptStore persists idempotency records of checkouts
type CheckoutAttemptStore interface {
	Create(ctx context.Context, a *models.CheckoutAttempt) error
	GetByKey(ctx context.Context, userID uuid.UUID, key string) (*models.CheckoutAttempt, error)
	Complete(ctx context.Context, id uuid.UUID, paymentID string, total decimal.Decimal) error
	Restart(ctx context.Context, id uuid.UUID) error
	AbandonStale(ctx context.Context, cutoff time.Time) (int64, error)
}

// OutboxWriter records events for the relay
type OutboxWriter interface {
	Insert(ctx context.Context, e *models.OutboxEvent) error
}
