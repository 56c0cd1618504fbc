package preview

import (
	"io"
	"log/slog"

	"github.com/aretw0/quill/pkg/domain"
)

// Option defines a functional option for configuring the Server and the Dispatcher.
type Option func(*settings)

type settings struct {
	logger       *slog.Logger
	metrics      *Metrics
	hooks        domain.LifecycleHooks
	maxLineBytes int
}

func newSettings(opts []Option) settings {
	s := settings{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics configures the prometheus collectors updated by the server.
func WithMetrics(m *Metrics) Option {
	return func(s *settings) {
		s.metrics = m
	}
}

// WithLifecycleHooks registers observability hooks fired by the dispatcher.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(s *settings) {
		s.hooks = hooks
	}
}

// WithMaxLineBytes limits the size of a single input line. Zero disables the limit.
func WithMaxLineBytes(n int) Option {
	return func(s *settings) {
		s.maxLineBytes = n
	}
}
