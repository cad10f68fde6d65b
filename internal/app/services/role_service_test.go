package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsAdmin(t *testing.T) {
	admin := uuid.New()
	roles := &fakeRoles{admins: map[uuid.UUID]bool{admin: true}}
	svc := NewRoleService(roles)

	ok, err := svc.IsAdmin(context.Background(), admin)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.IsAdmin(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.False(t, ok)

	roles.err = errors.New("db down")
	_, err = svc.IsAdmin(context.Background(), admin)
	assert.Error(t, err)
}
