package store_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pvollan/identity-api/internal/store"
)

func TestErrorHierarchy(t *testing.T) {
	t.Parallel()

	t.Run("entity errors wrap the generic sentinels", func(t *testing.T) {
		assert.ErrorIs(t, store.ErrUserNotFound, store.ErrNotFound)
		assert.ErrorIs(t, store.ErrUsernameExists, store.ErrDuplicate)
		assert.ErrorIs(t, store.ErrTokenExists, store.ErrDuplicate)
	})

	t.Run("IsNotFoundError", func(t *testing.T) {
		assert.True(t, store.IsNotFoundError(store.ErrNotFound))
		assert.True(t, store.IsNotFoundError(store.ErrUserNotFound))
		assert.True(t, store.IsNotFoundError(fmt.Errorf("lookup: %w", store.ErrUserNotFound)))
		assert.False(t, store.IsNotFoundError(store.ErrDuplicate))
		assert.False(t, store.IsNotFoundError(errors.New("something else")))
		assert.False(t, store.IsNotFoundError(nil))
	})

	t.Run("IsDuplicateError", func(t *testing.T) {
		assert.True(t, store.IsDuplicateError(store.ErrDuplicate))
		assert.True(t, store.IsDuplicateError(store.ErrUsernameExists))
		assert.True(t, store.IsDuplicateError(fmt.Errorf("insert: %w", store.ErrTokenExists)))
		assert.False(t, store.IsDuplicateError(store.ErrNotFound))
		assert.False(t, store.IsDuplicateError(nil))
	})
}

func TestStoreError(t *testing.T) {
	t.Parallel()

	t.Run("message with wrapped error", func(t *testing.T) {
		cause := errors.New("connection reset")
		err := store.NewStoreError("user", "create", "insert failed", cause)

		assert.Equal(t, "create operation on user failed: insert failed: connection reset", err.Error())
		assert.ErrorIs(t, err, cause)
	})

	t.Run("message without wrapped error", func(t *testing.T) {
		err := store.NewStoreError("user", "update", "no rows affected", nil)

		assert.Equal(t, "update operation on user failed: no rows affected", err.Error())
		assert.Nil(t, errors.Unwrap(err))
	})

	t.Run("sentinel checks see through StoreError", func(t *testing.T) {
		err := store.NewStoreError("user", "get", "missing row", store.ErrUserNotFound)
		assert.True(t, store.IsNotFoundError(err))
	})
}
