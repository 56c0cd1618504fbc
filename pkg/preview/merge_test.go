package preview

import (
	"testing"

	"github.com/aretw0/quill/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeOverlay(t *testing.T) {
	t.Run("Overwrites and inserts", func(t *testing.T) {
		state := domain.NewSessionState(map[string]any{"gold": 1, "name": "Ana"})

		delta, err := MergeOverlay(state, map[string]any{"gold": 5, "hp": 10})
		require.NoError(t, err)

		assert.Equal(t, 5, state["gold"])
		assert.Equal(t, 10, state["hp"])
		assert.Equal(t, "Ana", state["name"])
		assert.Equal(t, map[string]any{"gold": 5, "hp": 10}, delta)
	})

	t.Run("Unrelated keys survive successive merges", func(t *testing.T) {
		state := domain.NewSessionState(nil)

		_, err := MergeOverlay(state, map[string]any{"a": 1})
		require.NoError(t, err)
		_, err = MergeOverlay(state, map[string]any{"b": 2})
		require.NoError(t, err)

		assert.Equal(t, 1, state["a"])
		assert.Equal(t, 2, state["b"])
	})

	t.Run("Unchanged values produce no delta", func(t *testing.T) {
		state := domain.NewSessionState(map[string]any{"gold": 5})

		delta, err := MergeOverlay(state, map[string]any{"gold": 5})
		require.NoError(t, err)
		assert.Nil(t, delta)
	})

	t.Run("Empty overlay is a no-op", func(t *testing.T) {
		delta, err := MergeOverlay(nil, nil)
		require.NoError(t, err)
		assert.Nil(t, delta)
	})

	t.Run("Missing state", func(t *testing.T) {
		_, err := MergeOverlay(nil, map[string]any{"a": 1})
		assert.ErrorIs(t, err, ErrNoSessionState)
	})
}
