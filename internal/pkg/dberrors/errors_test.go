package dberrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsDuplicateConstraintError(t *testing.T) {
	dup := &pgconn.PgError{Code: CodeUniqueViolation, ConstraintName: ConstraintCartUserCourse}
	wrapped := fmt.Errorf("insert cart item: %w", dup)

	assert.True(t, IsDuplicateConstraintError(dup, ConstraintCartUserCourse))
	assert.True(t, IsDuplicateConstraintError(wrapped, ConstraintCartUserCourse))
	assert.False(t, IsDuplicateConstraintError(dup, ConstraintUsersEmail))
	assert.False(t, IsDuplicateConstraintError(errors.New("boom"), ConstraintCartUserCourse))
	assert.True(t, IsUniqueViolation(wrapped))
}

func TestIsForeignKeyViolation(t *testing.T) {
	fk := &pgconn.PgError{Code: CodeForeignKeyViolation, ConstraintName: ConstraintCartItemsCourseFK}
	assert.True(t, IsForeignKeyViolation(fk, ConstraintCartItemsCourseFK))
	assert.False(t, IsUniqueViolation(fk))
}

func TestIsNoRows(t *testing.T) {
	assert.True(t, IsNoRows(fmt.Errorf("get course: %w", pgx.ErrNoRows)))
	assert.False(t, IsNoRows(errors.New("other")))
}
