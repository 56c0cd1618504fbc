package ports

import (
	"context"

	"github.com/aretw0/quill/pkg/domain"
)

// Engine defines the interface for story engines driven by the preview protocol.
// Implementations are used from a single goroutine and need not be safe for concurrent use.
type Engine interface {
	// Current renders the current passage without navigating.
	Current(ctx context.Context) (domain.Output, error)

	// Goto navigates to the passage with the given id and renders it.
	Goto(ctx context.Context, passageID string) (domain.Output, error)

	// Choose follows the visible choice at index and renders the target passage.
	Choose(ctx context.Context, index int) (domain.Output, error)

	// State returns the live session state. Mutations are visible to the engine.
	State() domain.SessionState
}

// EngineFactory builds an Engine from the decoded story document.
type EngineFactory func(ctx context.Context, story any) (Engine, error)
