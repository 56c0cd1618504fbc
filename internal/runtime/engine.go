package runtime

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/quill/internal/expr"
	"github.com/aretw0/quill/pkg/domain"
	"github.com/aretw0/quill/pkg/ports"
)

// Scope evaluates story expressions against a snapshot of the session state.
type Scope interface {
	Exec(source string) error
	Truthy(source string) (bool, error)
	Interpolate(text string) (string, error)
	Snapshot() (map[string]any, error)
}

// ScopeFactory creates a Scope bound to the given variables.
type ScopeFactory func(vars map[string]any) (Scope, error)

// LuaScopes is the default ScopeFactory, backed by the embedded Lua interpreter.
func LuaScopes(vars map[string]any) (Scope, error) {
	s, err := expr.NewScope(vars)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Engine is the reference story engine.
// It is driven from a single goroutine and is not safe for concurrent use.
type Engine struct {
	story     domain.Story
	state     domain.SessionState
	currentID string

	newScope ScopeFactory
	hooks    domain.LifecycleHooks
	logger   *slog.Logger
	entryID  string
}

var _ ports.Engine = (*Engine)(nil)

// EngineOption defines a functional option for configuring the Engine.
type EngineOption func(*Engine)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithScopeFactory replaces the expression language.
func WithScopeFactory(factory ScopeFactory) EngineOption {
	return func(e *Engine) {
		if factory != nil {
			e.newScope = factory
		}
	}
}

// WithEntryPassage overrides the story's initial passage.
func WithEntryPassage(passageID string) EngineOption {
	return func(e *Engine) {
		e.entryID = passageID
	}
}

// NewEngine builds an engine from a raw story document and enters its initial passage.
// Any failure is returned as a *StoryError.
func NewEngine(ctx context.Context, doc any, opts ...EngineOption) (*Engine, error) {
	e := &Engine{
		newScope: LuaScopes,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(e)
	}

	story, err := DecodeStory(doc)
	if err != nil {
		return nil, err
	}
	e.story = story
	e.state = domain.NewSessionState(story.State)

	entry, err := resolveEntry(story, e.entryID)
	if err != nil {
		return nil, &StoryError{Err: err}
	}

	if _, err := e.Goto(ctx, entry); err != nil {
		return nil, &StoryError{Err: fmt.Errorf("failed to enter initial passage: %w", err)}
	}
	e.entryID = entry

	e.logger.Debug("story loaded", "passages", len(story.Passages), "entry", entry, "version", story.Version)
	return e, nil
}

// Story returns the decoded story definition.
func (e *Engine) Story() domain.Story {
	return e.story
}

// State returns the live session state.
func (e *Engine) State() domain.SessionState {
	return e.state
}

// EntryPassageID returns the passage the session started on.
func (e *Engine) EntryPassageID() string {
	return e.entryID
}

// CurrentPassageID returns the id of the passage the session is on.
func (e *Engine) CurrentPassageID() string {
	return e.currentID
}

// Current renders the current passage against the current state without navigating.
// Passage statements are not run again.
func (e *Engine) Current(ctx context.Context) (domain.Output, error) {
	if err := ctx.Err(); err != nil {
		return domain.Output{}, err
	}

	passage, err := e.passage(e.currentID)
	if err != nil {
		return domain.Output{}, err
	}

	scope, err := e.newScope(e.state)
	if err != nil {
		return domain.Output{}, fmt.Errorf("failed to prepare expressions: %w", err)
	}
	return e.render(passage, scope)
}

func (e *Engine) passage(id string) (domain.Passage, error) {
	p, ok := e.story.Passages[id]
	if !ok {
		return domain.Passage{}, fmt.Errorf("%w: %s", domain.ErrPassageNotFound, id)
	}
	return p, nil
}

func (e *Engine) emitPassageEnter(ctx context.Context, out domain.Output) {
	if e.hooks.OnPassageEnter == nil {
		return
	}
	e.hooks.OnPassageEnter(ctx, &domain.PassageEvent{
		EventBase: domain.EventBase{
			Timestamp: time.Now(),
			Type:      domain.EventPassageEnter,
		},
		PassageID: out.PassageID,
		Choices:   len(out.Choices),
	})
}
