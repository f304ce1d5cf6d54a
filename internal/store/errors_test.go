package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsNotFoundError(t *testing.T) {
	assert.True(t, IsNotFoundError(ErrNotFound))
	assert.True(t, IsNotFoundError(ErrBookNotFound))
	assert.True(t, IsNotFoundError(ErrMemberNotFound))
	assert.True(t, IsNotFoundError(ErrLoanNotFound))
	assert.True(t, IsNotFoundError(fmt.Errorf("lookup: %w", ErrLoanNotFound)))

	assert.False(t, IsNotFoundError(nil))
	assert.False(t, IsNotFoundError(ErrDuplicate))
	assert.False(t, IsNotFoundError(errors.New("boom")))
}

func TestIsDuplicateError(t *testing.T) {
	assert.True(t, IsDuplicateError(ErrDuplicate))
	assert.True(t, IsDuplicateError(ErrISBNExists))
	assert.True(t, IsDuplicateError(ErrEmailExists))

	assert.False(t, IsDuplicateError(ErrNotFound))
}

func TestIsConflictError(t *testing.T) {
	assert.True(t, IsConflictError(ErrConflict))
	assert.True(t, IsConflictError(fmt.Errorf("%w: book availability changed", ErrConflict)))

	assert.False(t, IsConflictError(ErrTransactionFailed))
	assert.False(t, IsConflictError(nil))
}

func TestStoreError(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewStoreError("loan", "update", "write failed", cause)

	assert.Contains(t, err.Error(), "update")
	assert.Contains(t, err.Error(), "loan")
	assert.Contains(t, err.Error(), "write failed")
	assert.Contains(t, err.Error(), "connection reset")
	assert.ErrorIs(t, err, cause)

	var storeErr *StoreError
	assert.ErrorAs(t, fmt.Errorf("outer: %w", err), &storeErr)
	assert.Equal(t, "loan", storeErr.Entity)

	bare := NewStoreError("book", "delete", "no rows", nil)
	assert.Contains(t, bare.Error(), "delete operation on book failed")
	assert.Nil(t, bare.Unwrap())
}
