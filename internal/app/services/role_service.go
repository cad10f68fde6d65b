package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/yigit/coursestore/internal/app/models"
)

// RoleService answers whether a user holds a role. It is asked on every
// request and never caches.
type RoleService struct {
	roles RoleStore
}

// NewRoleService creates a new RoleService
func NewRoleService(roles RoleStore) *RoleService {
	return &RoleService{roles: roles}
}

// IsAdmin reports whether the user has the admin role
func (s *RoleService) IsAdmin(ctx context.Context, userID uuid.UUID) (bool, error) {
	return s.roles.HasRole(ctx, userID, models.RoleAdmin)
}
