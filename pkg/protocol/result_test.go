package protocol

import (
	"encoding/json"
	"testing"

	"github.com/aretw0/quill/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPassageResult(t *testing.T) {
	t.Run("Has Choices Follows Length", func(t *testing.T) {
		outputs := []domain.Output{
			{Content: "a", PassageID: "p"},
			{Content: "b", PassageID: "p", Choices: []domain.Choice{}},
			{Content: "c", PassageID: "p", Choices: []domain.Choice{{Text: "x", Target: "y"}}},
		}
		for _, out := range outputs {
			res := NewPassageResult(out)
			assert.Equal(t, len(res.Choices) > 0, res.HasChoices)
			assert.Equal(t, out.PassageID, res.PassageID)
		}
	})

	t.Run("Preserves Choice Order", func(t *testing.T) {
		out := domain.Output{Choices: []domain.Choice{
			{Text: "z", Target: "1"},
			{Text: "a", Target: "2"},
		}}
		res := NewPassageResult(out)
		assert.Equal(t, out.Choices, res.Choices)
	})
}

func TestResult_WireShapes(t *testing.T) {
	tests := []struct {
		name   string
		result Result
		want   string
	}{
		{
			name:   "Ready",
			result: Ready(),
			want:   `{"status":"ready"}`,
		},
		{
			name:   "Passage Without Choices",
			result: NewPassageResult(domain.Output{Content: "Hi", PassageID: "start"}),
			want:   `{"content":"Hi","choices":[],"passage_id":"start","has_choices":false}`,
		},
		{
			name: "Passage With Choices",
			result: NewPassageResult(domain.Output{
				Content:   "Hi",
				PassageID: "start",
				Choices:   []domain.Choice{{Text: "Go", Target: "next"}},
			}),
			want: `{"content":"Hi","choices":[{"text":"Go","target":"next"}],"passage_id":"start","has_choices":true}`,
		},
		{
			name:   "Bare Error",
			result: NewError(KindMissingChoiceIndex),
			want:   `{"error":"Missing choice index"}`,
		},
		{
			name:   "Error With Message",
			result: NewFailure(KindEngine, "passage not found: nowhere"),
			want:   `{"error":"Engine error","message":"passage not found: nowhere"}`,
		},
		{
			name:   "Error With Traceback",
			result: DetailedErrorResult{Kind: KindEngineInit, Message: "bad", Traceback: "cause"},
			want:   `{"error":"Engine initialization failed","message":"bad","traceback":"cause"}`,
		},
		{
			name:   "Unknown Command Absent Type",
			result: NewUnknownCommand(nil),
			want:   `{"error":"Unknown command type","type":null}`,
		},
		{
			name:   "Unknown Command Echoes Type",
			result: NewUnknownCommand(json.RawMessage(`"jump"`)),
			want:   `{"error":"Unknown command type","type":"jump"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := json.Marshal(tt.result)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(got))
		})
	}
}
