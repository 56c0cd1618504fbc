package graph_test

import (
	"strings"
	"testing"

	"github.com/aretw0/quill/internal/presentation/graph"
	"github.com/aretw0/quill/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func story(passages ...domain.Passage) domain.Story {
	s := domain.Story{Passages: map[string]domain.Passage{}}
	for _, p := range passages {
		s.Passages[p.ID] = p
	}
	return s
}

func TestGenerateMermaid(t *testing.T) {
	tests := []struct {
		name     string
		story    domain.Story
		entry    string
		contains []string
	}{
		{
			name: "Passage Shapes",
			story: story(
				domain.Passage{ID: "Start", Choices: []domain.ChoiceSpec{{Text: "Go", Target: "Road"}}},
				domain.Passage{ID: "Road", Choices: []domain.ChoiceSpec{{Text: "Back", Target: "Start"}}},
				domain.Passage{ID: "End"},
			),
			entry: "Start",
			contains: []string{
				`Start(("Start"))`,
				`Road["Road"]`,
				`End(["End"])`,
			},
		},
		{
			name: "Choice Labels",
			story: story(
				domain.Passage{ID: "Start", Choices: []domain.ChoiceSpec{
					{Text: "Buy", Target: "Shop", Condition: `gold >= 5 and name ~= "x"`},
				}},
				domain.Passage{ID: "Shop"},
			),
			entry: "Start",
			contains: []string{
				`Start -- "Buy <br/> if gold >= 5 and name ~= 'x'" --> Shop`,
			},
		},
		{
			name: "Dead Links Are Dotted",
			story: story(
				domain.Passage{ID: "Start", Choices: []domain.ChoiceSpec{{Text: "Fall", Target: "Void"}}},
			),
			entry: "Start",
			contains: []string{
				`Start -. "Fall" .-> Void`,
			},
		},
		{
			name: "ID Sanitization",
			story: story(
				domain.Passage{ID: "Dark Forest", Choices: []domain.ChoiceSpec{{Text: "Leave", Target: "forest-exit"}}},
				domain.Passage{ID: "forest-exit"},
			),
			contains: []string{
				`Dark_Forest["Dark Forest"]`,
				`Dark_Forest -- "Leave" --> forest_exit`,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output := graph.GenerateMermaid(tt.story, tt.entry, nil)
			assert.True(t, strings.HasPrefix(output, "graph TD\n"))
			for _, expected := range tt.contains {
				assert.Contains(t, output, expected)
			}
		})
	}
}

func TestGenerateMermaid_Overlay(t *testing.T) {
	s := story(
		domain.Passage{ID: "Start", Choices: []domain.ChoiceSpec{{Text: "Go", Target: "Road"}}},
		domain.Passage{ID: "Road"},
	)
	overlay := &graph.GraphOverlay{
		VisitedPassages: []string{"Start", "Start", "Road"},
		CurrentPassage:  "Road",
	}

	output := graph.GenerateMermaid(s, "Start", overlay)

	assert.Equal(t, 1, strings.Count(output, "class Start visited;"))
	assert.Contains(t, output, "class Road visited;")
	assert.Contains(t, output, "class Road current;")
}

func TestGenerateMermaid_Deterministic(t *testing.T) {
	s := story(domain.Passage{ID: "b"}, domain.Passage{ID: "a"}, domain.Passage{ID: "c"})
	first := graph.GenerateMermaid(s, "a", nil)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, graph.GenerateMermaid(s, "a", nil))
	}
	assert.Less(t, strings.Index(first, `a(("a"))`), strings.Index(first, `b(["b"])`))
}
