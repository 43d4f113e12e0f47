package shared

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainError(t *testing.T) {
	t.Run("message is the error string", func(t *testing.T) {
		err := NewDomainError("NOT_FOUND", "Channel not found")
		assert.Equal(t, "Channel not found", err.Error())
	})

	t.Run("wrapped sentinel matches with errors.Is", func(t *testing.T) {
		wrapped := fmt.Errorf("lookup channel 7: %w", ErrNotFound)
		assert.True(t, errors.Is(wrapped, ErrNotFound))
		assert.False(t, errors.Is(wrapped, ErrForbidden))
	})

	t.Run("errors.As extracts the code", func(t *testing.T) {
		wrapped := fmt.Errorf("outer: %w", ErrForbidden)
		var de *DomainError
		assert.True(t, errors.As(wrapped, &de))
		assert.Equal(t, "FORBIDDEN", de.Code)
	})

	t.Run("copies with equal code and message match", func(t *testing.T) {
		a := NewDomainError("INVALID_STATE", "bad")
		b := NewDomainError("INVALID_STATE", "bad")
		assert.True(t, errors.Is(a, b))
	})
}
