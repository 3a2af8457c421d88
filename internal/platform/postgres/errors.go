package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pvollan/identity-api/internal/store"
)

// PostgreSQL error codes
const (
	// uniqueViolationCode is the PostgreSQL error code for unique constraint violations
	uniqueViolationCode = "23505"

	// notNullViolationCode is the PostgreSQL error code for not null violations
	notNullViolationCode = "23502"
)

// Constraint names from the users table schema. Unique violations are mapped
// to the matching sentinel error by constraint so callers can tell a taken
// username apart from a token collision.
const (
	usernameUniqueConstraint = "users_username_key"
	tokenUniqueConstraint    = "users_token_key"
)

// mapUserError maps a database error from a user-table operation to the
// appropriate store error. It wraps the original error to preserve context.
func mapUserError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrUserNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolationCode:
			switch pgErr.ConstraintName {
			case usernameUniqueConstraint:
				return fmt.Errorf("%w: %v", store.ErrUsernameExists, err)
			case tokenUniqueConstraint:
				return fmt.Errorf("%w: %v", store.ErrTokenExists, err)
			default:
				return fmt.Errorf("%w: %v", store.ErrDuplicate, err)
			}
		case notNullViolationCode:
			return fmt.Errorf(
				"%w: not null violation (%s): %v",
				store.ErrUpdateFailed,
				pgErr.ColumnName,
				err,
			)
		}
	}

	return err
}

// IsUniqueViolation checks if the given error is a PostgreSQL unique
// constraint violation.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}
