package store

import (
	"context"
	"database/sql"

	"github.com/pvollan/identity-api/internal/domain"
)

// UserStore defines the interface for user data persistence.
type UserStore interface {
	// Create saves a new user to the store and assigns its ID.
	// Returns ErrUsernameExists if the username is already taken and
	// ErrTokenExists if the generated token collides with an existing one.
	// Returns validation errors from the domain User if data is invalid.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by their store-assigned ID.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id int64) (*domain.User, error)

	// GetByUsername retrieves a user by their exact, case-sensitive username.
	// Returns ErrUserNotFound if the user does not exist.
	GetByUsername(ctx context.Context, username string) (*domain.User, error)

	// GetByToken retrieves a user by their opaque session token.
	// The caller is responsible for normalizing the token first.
	// Returns ErrUserNotFound if no user holds the token.
	GetByToken(ctx context.Context, token string) (*domain.User, error)

	// Update modifies an existing user's details. The caller must provide
	// a complete user object; every mutable column is written.
	// Returns ErrUserNotFound if the user does not exist.
	// Returns ErrUsernameExists if updating to a username that is taken.
	Update(ctx context.Context, user *domain.User) error

	// List returns all users ordered by ID.
	List(ctx context.Context) ([]*domain.User, error)

	// WithTx returns a new UserStore instance that uses the provided
	// transaction. The transaction is created and managed by the caller
	// (typically a service).
	WithTx(tx *sql.Tx) UserStore
}
