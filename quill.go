package quill

import (
	"context"
	"io"
	"log/slog"

	"github.com/aretw0/quill/internal/runtime"
	"github.com/aretw0/quill/pkg/domain"
	"github.com/aretw0/quill/pkg/ports"
)

// Version is the release version, overridden at build time with -ldflags.
var Version = "dev"

// Engine is the high-level entry point for the Quill library.
// It wraps the internal runtime and exposes the ports.Engine contract.
type Engine struct {
	runtime     *runtime.Engine
	runtimeOpts []runtime.EngineOption
	hooks       domain.LifecycleHooks
	logger      *slog.Logger
}

var _ ports.Engine = (*Engine)(nil)

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithScopeFactory replaces the Lua expression language with a custom one.
func WithScopeFactory(factory runtime.ScopeFactory) Option {
	return func(e *Engine) {
		e.runtimeOpts = append(e.runtimeOpts, runtime.WithScopeFactory(factory))
	}
}

// WithEntryPassage configures the passage the session starts on,
// overriding the story's "initial_passage".
func WithEntryPassage(passageID string) Option {
	return func(e *Engine) {
		e.runtimeOpts = append(e.runtimeOpts, runtime.WithEntryPassage(passageID))
	}
}

// New builds an engine from a decoded story document (the JSON value of the story line)
// and enters its initial passage.
func New(ctx context.Context, story any, opts ...Option) (*Engine, error) {
	eng := &Engine{}
	for _, opt := range opts {
		opt(eng)
	}

	// Ensure logger is initialized (so we don't pass nil to runtime, which would overwrite its default)
	if eng.logger == nil {
		eng.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	runtimeOpts := []runtime.EngineOption{
		runtime.WithLifecycleHooks(eng.hooks),
		runtime.WithLogger(eng.logger),
	}
	runtimeOpts = append(runtimeOpts, eng.runtimeOpts...)

	rt, err := runtime.NewEngine(ctx, story, runtimeOpts...)
	if err != nil {
		return nil, err
	}
	eng.runtime = rt
	return eng, nil
}

// Factory returns a ports.EngineFactory building Quill engines with the given options.
func Factory(opts ...Option) ports.EngineFactory {
	return func(ctx context.Context, story any) (ports.Engine, error) {
		return New(ctx, story, opts...)
	}
}

// Current renders the current passage without navigating.
func (e *Engine) Current(ctx context.Context) (domain.Output, error) {
	return e.runtime.Current(ctx)
}

// Goto navigates to a passage, running its statements, and renders it.
func (e *Engine) Goto(ctx context.Context, passageID string) (domain.Output, error) {
	return e.runtime.Goto(ctx, passageID)
}

// Choose follows the visible choice at index.
func (e *Engine) Choose(ctx context.Context, index int) (domain.Output, error) {
	return e.runtime.Choose(ctx, index)
}

// State returns the live session state.
func (e *Engine) State() domain.SessionState {
	return e.runtime.State()
}

// PassageID returns the id of the current passage.
func (e *Engine) PassageID() string {
	return e.runtime.CurrentPassageID()
}

// EntryPassageID returns the passage the session started on.
func (e *Engine) EntryPassageID() string {
	return e.runtime.EntryPassageID()
}

// Story returns the decoded story definition.
func (e *Engine) Story() domain.Story {
	return e.runtime.Story()
}

// Validate checks the story graph for dead links and unreachable passages,
// walking from the passage the engine started on.
func (e *Engine) Validate() error {
	return runtime.ValidateStory(e.runtime.Story(), e.runtime.EntryPassageID())
}
