package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/pvollan/identity-api/internal/domain"
	"github.com/pvollan/identity-api/internal/store"
)

// IdentityService provides the account operations of the system: register,
// login, lookup by id or token, logout, profile update, and listing.
type IdentityService interface {
	// Register creates a new user with a fresh opaque session token and
	// status ONLINE. Returns ErrUsernameTaken if the username is held by
	// another user.
	Register(ctx context.Context, username, password string) (*domain.User, error)

	// Authenticate verifies the given credentials. On success the user is
	// set ONLINE and persisted. An unknown username and a wrong password
	// both fail with ErrInvalidCredentials.
	Authenticate(ctx context.Context, username, password string) (*domain.User, error)

	// GetByID retrieves a user by their store-assigned ID.
	GetByID(ctx context.Context, id int64) (*domain.User, error)

	// GetByToken retrieves a user by their opaque session token.
	// The token is normalized (whitespace trimmed, one pair of enclosing
	// double quotes stripped) before lookup.
	GetByToken(ctx context.Context, token string) (*domain.User, error)

	// SetOffline marks the named user OFFLINE. The username is normalized
	// the same way as tokens in GetByToken.
	SetOffline(ctx context.Context, username string) error

	// UpdateProfile replaces the username and/or birth date of the user
	// with the given ID. Empty arguments leave the corresponding field
	// unchanged. The birth date must be a calendar date in the 2006-01-02
	// layout.
	UpdateProfile(ctx context.Context, id int64, newUsername, newBirthDate string) error

	// ListUsers returns all registered users.
	ListUsers(ctx context.Context) ([]*domain.User, error)
}

// IdentityServiceImpl implements the IdentityService interface.
type IdentityServiceImpl struct {
	userStore store.UserStore
	db        *sql.DB
	logger    *slog.Logger

	// regLocks serializes check-then-insert sequences per username so two
	// concurrent registrations of the same name cannot both pass the
	// uniqueness lookup. The database unique constraint remains the
	// authoritative backstop.
	regLocks sync.Map // username -> *sync.Mutex
}

// NewIdentityService creates a new IdentityService backed by the given
// store. When db is non-nil, mutating operations run inside a database
// transaction; a nil db (as with the in-memory store in tests) executes
// against the store directly.
func NewIdentityService(userStore store.UserStore, db *sql.DB, logger *slog.Logger) *IdentityServiceImpl {
	return &IdentityServiceImpl{
		userStore: userStore,
		db:        db,
		logger:    logger.With("component", "identity_service"),
	}
}

var _ IdentityService = (*IdentityServiceImpl)(nil)

// Register creates a new user.
// The uniqueness check runs against the authoritative store state
// immediately before the insert, under a per-username lock and, when a
// database handle is present, inside a single transaction.
func (s *IdentityServiceImpl) Register(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := domain.NewUser(username, password)
	if err != nil {
		s.logger.Warn("invalid registration input",
			"error", err,
			"username", username)
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	unlock := s.lockUsername(user.Username)
	defer unlock()

	err = s.withStore(ctx, func(ctx context.Context, us store.UserStore) error {
		_, err := us.GetByUsername(ctx, user.Username)
		if err == nil {
			return fmt.Errorf("%w: %q", ErrUsernameTaken, user.Username)
		}
		if !store.IsNotFoundError(err) {
			return fmt.Errorf("failed to check username: %w", err)
		}

		return us.Create(ctx, user)
	})

	if err != nil {
		// The constraint backstop reports the same conflict as the lookup.
		if store.IsDuplicateError(err) {
			err = fmt.Errorf("%w: %q", ErrUsernameTaken, user.Username)
		}
		if errors.Is(err, ErrUsernameTaken) {
			s.logger.Debug("attempted to register taken username",
				"username", user.Username)
		} else {
			s.logger.Error("failed to register user",
				"error", err,
				"username", user.Username)
		}
		return nil, err
	}

	s.logger.Info("user registered",
		"user_id", user.ID,
		"username", user.Username)

	return user, nil
}

// Authenticate verifies a username/password pair.
func (s *IdentityServiceImpl) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := s.userStore.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if store.IsNotFoundError(err) {
			s.logger.Debug("login attempt for unknown username")
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("failed to look up user for login", "error", err)
		return nil, fmt.Errorf("failed to authenticate user: %w", err)
	}

	if !user.PasswordMatches(password) {
		s.logger.Debug("login attempt with wrong password",
			"user_id", user.ID)
		return nil, ErrInvalidCredentials
	}

	user.Status = domain.UserStatusOnline
	if err := s.update(ctx, user); err != nil {
		s.logger.Error("failed to persist login status",
			"error", err,
			"user_id", user.ID)
		return nil, fmt.Errorf("failed to authenticate user: %w", err)
	}

	s.logger.Info("user logged in",
		"user_id", user.ID,
		"username", user.Username)

	return user, nil
}

// GetByID retrieves a user by their ID.
func (s *IdentityServiceImpl) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.userStore.GetByID(ctx, id)
	if err != nil {
		if store.IsNotFoundError(err) {
			s.logger.Debug("user not found by ID", "user_id", id)
			return nil, err
		}
		s.logger.Error("failed to retrieve user",
			"error", err,
			"user_id", id)
		return nil, fmt.Errorf("failed to retrieve user: %w", err)
	}

	return user, nil
}

// GetByToken retrieves a user by their normalized opaque session token.
func (s *IdentityServiceImpl) GetByToken(ctx context.Context, token string) (*domain.User, error) {
	user, err := s.userStore.GetByToken(ctx, Normalize(token))
	if err != nil {
		if store.IsNotFoundError(err) {
			s.logger.Debug("user not found by token")
			return nil, err
		}
		s.logger.Error("failed to retrieve user by token", "error", err)
		return nil, fmt.Errorf("failed to retrieve user by token: %w", err)
	}

	return user, nil
}

// SetOffline marks the named user OFFLINE and persists the change.
func (s *IdentityServiceImpl) SetOffline(ctx context.Context, username string) error {
	user, err := s.userStore.GetByUsername(ctx, Normalize(username))
	if err != nil {
		if store.IsNotFoundError(err) {
			s.logger.Debug("user not found for logout")
			return err
		}
		s.logger.Error("failed to look up user for logout", "error", err)
		return fmt.Errorf("failed to set user offline: %w", err)
	}

	user.Status = domain.UserStatusOffline
	if err := s.update(ctx, user); err != nil {
		s.logger.Error("failed to persist logout status",
			"error", err,
			"user_id", user.ID)
		return fmt.Errorf("failed to set user offline: %w", err)
	}

	s.logger.Info("user set offline",
		"user_id", user.ID,
		"username", user.Username)

	return nil
}

// UpdateProfile replaces the username and/or birth date of an existing user.
// Renaming onto a username held by another user fails with ErrUsernameTaken;
// the original system skipped this re-check, which allowed duplicate
// usernames to appear through updates.
func (s *IdentityServiceImpl) UpdateProfile(ctx context.Context, id int64, newUsername, newBirthDate string) error {
	newUsername = strings.TrimSpace(newUsername)

	// Parse before touching the store so a malformed date leaves the
	// record unchanged.
	var birthDate *time.Time
	if newBirthDate != "" {
		parsed, err := domain.ParseBirthDate(newBirthDate)
		if err != nil {
			s.logger.Warn("invalid birth date in profile update",
				"user_id", id,
				"value", newBirthDate)
			return err
		}
		birthDate = &parsed
	}

	if newUsername != "" {
		unlock := s.lockUsername(newUsername)
		defer unlock()
	}

	err := s.withStore(ctx, func(ctx context.Context, us store.UserStore) error {
		user, err := us.GetByID(ctx, id)
		if err != nil {
			return err
		}

		if newUsername != "" && newUsername != user.Username {
			existing, err := us.GetByUsername(ctx, newUsername)
			if err == nil && existing.ID != user.ID {
				return fmt.Errorf("%w: %q", ErrUsernameTaken, newUsername)
			}
			if err != nil && !store.IsNotFoundError(err) {
				return fmt.Errorf("failed to check username: %w", err)
			}
			user.Username = newUsername
		}

		if birthDate != nil {
			user.BirthDate = birthDate
		}

		return us.Update(ctx, user)
	})

	if err != nil {
		if store.IsDuplicateError(err) {
			err = fmt.Errorf("%w: %q", ErrUsernameTaken, newUsername)
		}
		if store.IsNotFoundError(err) || errors.Is(err, ErrUsernameTaken) {
			s.logger.Debug("profile update rejected",
				"error", err,
				"user_id", id)
		} else {
			s.logger.Error("failed to update profile",
				"error", err,
				"user_id", id)
		}
		return err
	}

	s.logger.Info("profile updated", "user_id", id)
	return nil
}

// ListUsers returns all registered users.
func (s *IdentityServiceImpl) ListUsers(ctx context.Context) ([]*domain.User, error) {
	users, err := s.userStore.List(ctx)
	if err != nil {
		s.logger.Error("failed to list users", "error", err)
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	return users, nil
}

// update persists a mutated user, inside a transaction when available.
func (s *IdentityServiceImpl) update(ctx context.Context, user *domain.User) error {
	return s.withStore(ctx, func(ctx context.Context, us store.UserStore) error {
		return us.Update(ctx, user)
	})
}

// withStore runs fn against a transaction-bound store when a database
// handle is present, and against the plain store otherwise.
func (s *IdentityServiceImpl) withStore(
	ctx context.Context,
	fn func(ctx context.Context, us store.UserStore) error,
) error {
	if s.db == nil {
		return fn(ctx, s.userStore)
	}
	return store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		return fn(ctx, s.userStore.WithTx(tx))
	})
}

// lockUsername acquires the per-username registration lock and returns the
// unlock function. Lock entries are retained for the process lifetime; the
// set is bounded by the distinct usernames ever attempted.
func (s *IdentityServiceImpl) lockUsername(username string) func() {
	v, _ := s.regLocks.LoadOrStore(username, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// Normalize trims surrounding whitespace and strips one pair of enclosing
// double quotes, if present at both ends. Tokens and usernames arrive from
// raw request bodies and some clients send them JSON-quoted.
func Normalize(value string) string {
	value = strings.TrimSpace(value)
	if len(value) >= 2 && strings.HasPrefix(value, `"`) && strings.HasSuffix(value, `"`) {
		value = value[1 : len(value)-1]
	}
	return value
}
