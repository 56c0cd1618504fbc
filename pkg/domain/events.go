package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventPassageEnter EventType = "passage_enter"
	EventStateMerge   EventType = "state_merge"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
}

// PassageEvent represents entry into a passage.
type PassageEvent struct {
	EventBase
	PassageID string `json:"passage_id"`
	Choices   int    `json:"choices"`
}

// MergeEvent represents an overlay applied to the session state.
type MergeEvent struct {
	EventBase
	Delta map[string]any `json:"delta,omitempty"`
}

// LifecycleHooks defines callbacks for engine observability.
type LifecycleHooks struct {
	OnPassageEnter func(context.Context, *PassageEvent)
	OnStateMerge   func(context.Context, *MergeEvent)
}
