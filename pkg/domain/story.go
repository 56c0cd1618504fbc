package domain

// DefaultInitialPassage is used when a story does not declare its entry point.
const DefaultInitialPassage = "start"

// Story is the decoded story document.
// It uses "mapstructure" tags so it can be decoded from the raw JSON value
// received on the first protocol line.
type Story struct {
	Version        string             `json:"version,omitempty" mapstructure:"version"`
	InitialPassage string             `json:"initial_passage,omitempty" mapstructure:"initial_passage"`
	State          map[string]any     `json:"state,omitempty" mapstructure:"state"`
	Passages       map[string]Passage `json:"passages" mapstructure:"passages"`
}

// Passage represents a logical unit of narrative in the story graph.
type Passage struct {
	ID      string `json:"id,omitempty" mapstructure:"id"`
	Content string `json:"content" mapstructure:"content"`

	// Execute holds statements run against the session state every time
	// the passage is entered through navigation.
	Execute []string `json:"execute,omitempty" mapstructure:"execute"`

	// Choices defines the possible paths from this passage.
	Choices []ChoiceSpec `json:"choices,omitempty" mapstructure:"choices"`

	// Tags are free-form labels carried for tooling (ignored by the runtime).
	Tags []string `json:"tags,omitempty" mapstructure:"tags"`
}

// ChoiceSpec is the authored definition of a choice.
type ChoiceSpec struct {
	Text   string `json:"text" mapstructure:"text"`
	Target string `json:"target" mapstructure:"target"`

	// Condition is an expression that must evaluate to true for the
	// choice to be visible. If empty, the choice is always visible.
	Condition string `json:"condition,omitempty" mapstructure:"condition"`
}
