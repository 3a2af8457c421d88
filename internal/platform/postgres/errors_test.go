package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/pvollan/identity-api/internal/store"
)

func TestMapUserError(t *testing.T) {
	t.Parallel()

	t.Run("nil passes through", func(t *testing.T) {
		assert.NoError(t, mapUserError(nil))
	})

	t.Run("no rows maps to user not found", func(t *testing.T) {
		err := mapUserError(sql.ErrNoRows)
		assert.ErrorIs(t, err, store.ErrUserNotFound)
		assert.True(t, store.IsNotFoundError(err))
	})

	t.Run("wrapped no rows maps to user not found", func(t *testing.T) {
		err := mapUserError(fmt.Errorf("scan: %w", sql.ErrNoRows))
		assert.ErrorIs(t, err, store.ErrUserNotFound)
	})

	t.Run("username constraint violation", func(t *testing.T) {
		pgErr := &pgconn.PgError{
			Code:           uniqueViolationCode,
			ConstraintName: usernameUniqueConstraint,
		}

		err := mapUserError(pgErr)
		assert.ErrorIs(t, err, store.ErrUsernameExists)
		assert.True(t, store.IsDuplicateError(err))
	})

	t.Run("token constraint violation", func(t *testing.T) {
		pgErr := &pgconn.PgError{
			Code:           uniqueViolationCode,
			ConstraintName: tokenUniqueConstraint,
		}

		err := mapUserError(pgErr)
		assert.ErrorIs(t, err, store.ErrTokenExists)
		assert.True(t, store.IsDuplicateError(err))
	})

	t.Run("unique violation on an unknown constraint", func(t *testing.T) {
		pgErr := &pgconn.PgError{Code: uniqueViolationCode}

		err := mapUserError(pgErr)
		assert.ErrorIs(t, err, store.ErrDuplicate)
		assert.NotErrorIs(t, err, store.ErrUsernameExists)
		assert.NotErrorIs(t, err, store.ErrTokenExists)
	})

	t.Run("not null violation maps to update failed", func(t *testing.T) {
		pgErr := &pgconn.PgError{
			Code:       notNullViolationCode,
			ColumnName: "username",
		}

		err := mapUserError(pgErr)
		assert.ErrorIs(t, err, store.ErrUpdateFailed)
	})

	t.Run("other errors pass through unchanged", func(t *testing.T) {
		cause := errors.New("connection reset")
		assert.Equal(t, cause, mapUserError(cause))
	})
}

func TestIsUniqueViolation(t *testing.T) {
	t.Parallel()

	assert.True(t, IsUniqueViolation(&pgconn.PgError{Code: uniqueViolationCode}))
	assert.True(t, IsUniqueViolation(fmt.Errorf("insert: %w", &pgconn.PgError{Code: uniqueViolationCode})))
	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: notNullViolationCode}))
	assert.False(t, IsUniqueViolation(errors.New("connection reset")))
	assert.False(t, IsUniqueViolation(nil))
}
