package runtime_test

import (
	"testing"

	"github.com/aretw0/quill/internal/runtime"
	"github.com/aretw0/quill/internal/testutils"
	"github.com/aretw0/quill/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateStory(t *testing.T) {
	t.Run("Valid Graph", func(t *testing.T) {
		story, err := runtime.DecodeStory(testutils.DecodeJSON(t, shopStory))
		require.NoError(t, err)
		assert.NoError(t, runtime.ValidateStory(story, "Start"))
	})

	t.Run("Dead Links And Orphans", func(t *testing.T) {
		story, err := runtime.DecodeStory(testutils.DecodeJSON(t, `{
			"passages": {
				"start": {"choices": [{"text": "a", "target": "missing"}, {"text": "b", "target": "next"}]},
				"next": {},
				"orphan": {}
			}
		}`))
		require.NoError(t, err)

		err = runtime.ValidateStory(story, "start")
		var validationErr *runtime.ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.Equal(t, []string{
			"Dead link: 'start' -> 'missing'",
			"Unreachable passage: 'orphan'",
		}, validationErr.Problems)
	})

	t.Run("Missing Start", func(t *testing.T) {
		story := domain.Story{Passages: map[string]domain.Passage{"a": {ID: "a"}}}
		err := runtime.ValidateStory(story, "start")
		assert.ErrorIs(t, err, domain.ErrPassageNotFound)
	})
}
