package feed

import (
	"testing"

	"github.com/erp/clerkfeed/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSession_Transitions(t *testing.T) {
	t.Run("happy path", func(t *testing.T) {
		s := &session{state: StateUnauthenticated}
		require.NoError(t, s.advance(StateValidated))
		require.NoError(t, s.advance(StateStreaming))
		require.NoError(t, s.advance(StateComplete))
		assert.True(t, s.state.IsTerminal())
	})

	t.Run("denied is terminal", func(t *testing.T) {
		s := &session{state: StateUnauthenticated}
		require.NoError(t, s.advance(StateDenied))
		assert.ErrorIs(t, s.advance(StateValidated), shared.ErrInvalidState)
	})

	t.Run("cannot stream before validation", func(t *testing.T) {
		s := &session{state: StateUnauthenticated}
		assert.ErrorIs(t, s.advance(StateStreaming), shared.ErrInvalidState)
		assert.Equal(t, StateUnauthenticated, s.state)
	})

	t.Run("cannot complete without streaming", func(t *testing.T) {
		s := &session{state: StateValidated}
		assert.Error(t, s.advance(StateComplete))
	})
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "streaming", StateStreaming.String())
	assert.Equal(t, "state(42)", State(42).String())
}
