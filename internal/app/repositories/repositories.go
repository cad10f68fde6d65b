package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository            *UserRepository
	ProfileRepository         *ProfileRepository
	RoleRepository            *RoleRepository
	TokenRepository           *TokenRepository
	CourseRepository          *CourseRepository
	CartRepository            *CartRepository
	OrderRepository           *OrderRepository
	CheckoutAttemptRepository *CheckoutAttemptRepository
	OutboxRepository          *OutboxRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		UserRepository:            NewUserRepository(db),
		ProfileRepository:         NewProfileRepository(db),
		RoleRepository:            NewRoleRepository(db),
		TokenRepository:           NewTokenRepository(db),
		CourseRepository:          NewCourseRepository(db),
		CartRepository:            NewCartRepository(db),
		OrderRepository:           NewOrderRepository(db),
		CheckoutAttemptRepository: NewCheckoutAttemptRepository(db),
		OutboxRepository:          NewOutboxRepository(db),
	}
}
