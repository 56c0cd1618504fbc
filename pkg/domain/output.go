package domain

// Choice is a player-selectable option as presented to the host.
// Choices are identified by their position in Output.Choices.
type Choice struct {
	Text   string `json:"text"`
	Target string `json:"target"`
}

// Output is the read-only view produced by the engine for a passage.
type Output struct {
	Content   string
	Choices   []Choice
	PassageID string
}

// HasChoices reports whether the player can move on from this output.
func (o Output) HasChoices() bool {
	return len(o.Choices) > 0
}
