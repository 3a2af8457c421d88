// Package mocks provides test doubles for the application's interfaces.
package mocks

import (
	"context"
	"database/sql"
	"sync"

	"github.com/pvollan/identity-api/internal/domain"
	"github.com/pvollan/identity-api/internal/store"
)

// MockUserStore implements store.UserStore for testing. Its default
// behavior is a working in-memory store with sequential IDs and
// username/token uniqueness enforcement; individual methods can be
// overridden through the function fields.
type MockUserStore struct {
	// Function fields for customizable behavior
	CreateFn        func(ctx context.Context, user *domain.User) error
	GetByIDFn       func(ctx context.Context, id int64) (*domain.User, error)
	GetByUsernameFn func(ctx context.Context, username string) (*domain.User, error)
	GetByTokenFn    func(ctx context.Context, token string) (*domain.User, error)
	UpdateFn        func(ctx context.Context, user *domain.User) error
	ListFn          func(ctx context.Context) ([]*domain.User, error)

	// Errors to force from the default implementations
	CreateError error
	GetError    error
	UpdateError error

	mu     sync.Mutex
	users  map[int64]*domain.User
	nextID int64
}

// NewMockUserStore creates a new mock store with initialized defaults.
func NewMockUserStore() *MockUserStore {
	return &MockUserStore{
		users:  make(map[int64]*domain.User),
		nextID: 1,
	}
}

var _ store.UserStore = (*MockUserStore)(nil)

// Create implements the UserStore interface.
// IDs are assigned sequentially starting at 1, mirroring the BIGSERIAL
// column of the real store.
func (m *MockUserStore) Create(ctx context.Context, user *domain.User) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, user)
	}

	if m.CreateError != nil {
		return m.CreateError
	}

	if err := user.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.users {
		if existing.Username == user.Username {
			return store.ErrUsernameExists
		}
		if existing.Token == user.Token {
			return store.ErrTokenExists
		}
	}

	user.ID = m.nextID
	m.nextID++
	m.users[user.ID] = copyUser(user)
	return nil
}

// GetByID implements the UserStore interface.
func (m *MockUserStore) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}

	if m.GetError != nil {
		return nil, m.GetError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	return copyUser(user), nil
}

// GetByUsername implements the UserStore interface.
func (m *MockUserStore) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	if m.GetByUsernameFn != nil {
		return m.GetByUsernameFn(ctx, username)
	}

	if m.GetError != nil {
		return nil, m.GetError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, user := range m.users {
		if user.Username == username {
			return copyUser(user), nil
		}
	}
	return nil, store.ErrUserNotFound
}

// GetByToken implements the UserStore interface.
func (m *MockUserStore) GetByToken(ctx context.Context, token string) (*domain.User, error) {
	if m.GetByTokenFn != nil {
		return m.GetByTokenFn(ctx, token)
	}

	if m.GetError != nil {
		return nil, m.GetError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, user := range m.users {
		if user.Token == token {
			return copyUser(user), nil
		}
	}
	return nil, store.ErrUserNotFound
}

// Update implements the UserStore interface.
func (m *MockUserStore) Update(ctx context.Context, user *domain.User) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, user)
	}

	if m.UpdateError != nil {
		return m.UpdateError
	}

	if err := user.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.users[user.ID]
	if !ok {
		return store.ErrUserNotFound
	}

	if existing.Username != user.Username {
		for _, other := range m.users {
			if other.ID != user.ID && other.Username == user.Username {
				return store.ErrUsernameExists
			}
		}
	}

	m.users[user.ID] = copyUser(user)
	return nil
}

// List implements the UserStore interface.
// Users are returned ordered by ID.
func (m *MockUserStore) List(ctx context.Context) ([]*domain.User, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx)
	}

	if m.GetError != nil {
		return nil, m.GetError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	users := make([]*domain.User, 0, len(m.users))
	for id := int64(1); id < m.nextID; id++ {
		if user, ok := m.users[id]; ok {
			users = append(users, copyUser(user))
		}
	}
	return users, nil
}

// WithTx implements the UserStore interface. The mock has no transaction
// semantics, so it returns itself.
func (m *MockUserStore) WithTx(tx *sql.Tx) store.UserStore {
	return m
}

// copyUser returns a shallow copy so callers cannot mutate stored state
// through returned pointers.
func copyUser(u *domain.User) *domain.User {
	c := *u
	if u.BirthDate != nil {
		d := *u.BirthDate
		c.BirthDate = &d
	}
	return &c
}
