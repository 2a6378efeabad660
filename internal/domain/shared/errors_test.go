package shared

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainError_Is(t *testing.T) {
	cause := errors.New("connection refused")
	wrapped := ErrNotFound.Wrap("session missing", cause)

	assert.True(t, errors.Is(wrapped, ErrNotFound))
	assert.False(t, errors.Is(wrapped, ErrInvalidInput))
	assert.True(t, errors.Is(wrapped, cause))
	assert.True(t, errors.Is(fmt.Errorf("outer: %w", wrapped), ErrNotFound))
}

func TestDomainError_Error(t *testing.T) {
	t.Run("without cause", func(t *testing.T) {
		assert.Equal(t, "Resource not found", ErrNotFound.Error())
	})

	t.Run("with cause", func(t *testing.T) {
		err := ErrInternal.Wrap("", errors.New("boom"))
		assert.Equal(t, "Internal error: boom", err.Error())
		assert.Equal(t, "INTERNAL_ERROR", err.Code)
	})
}

func TestDomainError_As(t *testing.T) {
	err := fmt.Errorf("lookup: %w", ErrInvalidInput.Wrap("ticket too long", nil))

	var domainErr *DomainError
	assert.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "INVALID_INPUT", domainErr.Code)
	assert.Equal(t, "ticket too long", domainErr.Message)
}
