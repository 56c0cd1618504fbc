package preview

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/aretw0/quill/pkg/ports"
	"github.com/aretw0/quill/pkg/protocol"
)

// Process exit codes.
const (
	ExitOK      = 0
	ExitFailure = 1
)

// Server drives one preview session: story handshake followed by the command loop.
type Server struct {
	factory ports.EngineFactory
	opts    []Option
	settings
}

// NewServer creates a server that builds its engine with factory.
func NewServer(factory ports.EngineFactory, opts ...Option) *Server {
	return &Server{
		factory:  factory,
		opts:     opts,
		settings: newSettings(opts),
	}
}

type lineResult struct {
	line []byte
	err  error
}

// Run serves the protocol on in/out until "exit", end of input or ctx cancellation.
// It returns the process exit code.
func (s *Server) Run(ctx context.Context, in io.Reader, out io.Writer) (code int) {
	w := protocol.NewWriter(out)
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("fatal panic", "panic", r)
			s.fatal(w, fmt.Sprint(r))
			code = ExitFailure
		}
	}()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	lines := s.pump(ctx, protocol.NewLineReader(in, s.maxLineBytes))

	engine, res := s.handshake(ctx, lines)
	if res != nil {
		if err := w.Write(res); err != nil {
			s.logger.Error("failed to write startup error", "error", err)
		}
		return ExitFailure
	}
	if err := w.Write(protocol.Ready()); err != nil {
		s.logger.Error("failed to write ready signal", "error", err)
		return ExitFailure
	}
	s.logger.Info("preview session ready")

	dispatcher := NewDispatcher(engine, s.opts...)
	for {
		var next lineResult
		var ok bool
		select {
		case <-ctx.Done():
			s.logger.Info("preview session cancelled")
			return ExitOK
		case next, ok = <-lines:
		}
		if !ok || errors.Is(next.err, io.EOF) {
			s.logger.Info("input closed, ending session")
			return ExitOK
		}

		var res protocol.Result
		var stop bool
		var tooLong *protocol.LineTooLongError
		switch {
		case errors.As(next.err, &tooLong):
			res = protocol.NewFailure(protocol.KindInvalidJSON, tooLong.Error())
		case next.err != nil:
			s.logger.Error("failed to read command", "error", next.err)
			s.fatal(w, next.err.Error())
			return ExitFailure
		default:
			res, stop = dispatcher.Dispatch(ctx, next.line)
		}

		if stop {
			s.logger.Info("exit requested")
			return ExitOK
		}
		if err := w.Write(res); err != nil {
			s.logger.Error("failed to write result", "error", err)
			return ExitFailure
		}
	}
}

// handshake reads the story line and builds the engine.
// A non-nil Result is the startup failure to report.
func (s *Server) handshake(ctx context.Context, lines <-chan lineResult) (ports.Engine, protocol.Result) {
	var first lineResult
	var ok bool
	select {
	case <-ctx.Done():
		return nil, protocol.NewError(protocol.KindNoStory)
	case first, ok = <-lines:
	}

	var tooLong *protocol.LineTooLongError
	switch {
	case !ok || errors.Is(first.err, io.EOF):
		s.logger.Error("no story data provided")
		return nil, protocol.NewError(protocol.KindNoStory)
	case errors.As(first.err, &tooLong):
		return nil, protocol.NewFailure(protocol.KindInvalidStoryJSON, tooLong.Error())
	case first.err != nil:
		return nil, protocol.NewFailure(protocol.KindFatal, first.err.Error())
	}

	var doc any
	if err := json.Unmarshal(first.line, &doc); err != nil {
		s.logger.Error("invalid story JSON", "error", err)
		return nil, protocol.NewFailure(protocol.KindInvalidStoryJSON, err.Error())
	}

	engine, err := guard(func() (ports.Engine, error) {
		return s.factory(ctx, doc)
	})
	if err == nil && engine == nil {
		err = errors.New("engine factory returned no engine")
	}
	if err != nil {
		s.logger.Error("engine initialization failed", "error", err)
		res := protocol.NewFailure(protocol.KindEngineInit, err.Error())
		res.Traceback = Traceback(err)
		return nil, res
	}
	return engine, nil
}

// pump reads lines on its own goroutine so the loop can observe ctx cancellation.
// It stops after end of input, a read failure, or once ctx is done.
func (s *Server) pump(ctx context.Context, lr *protocol.LineReader) <-chan lineResult {
	lines := make(chan lineResult)
	go func() {
		defer close(lines)
		for {
			line, err := lr.ReadLine()
			select {
			case lines <- lineResult{line: line, err: err}:
			case <-ctx.Done():
				return
			}

			var tooLong *protocol.LineTooLongError
			if err != nil && !errors.As(err, &tooLong) {
				return
			}
		}
	}()
	return lines
}

func (s *Server) fatal(w *protocol.Writer, message string) {
	if err := w.Write(protocol.NewFailure(protocol.KindFatal, message)); err != nil {
		s.logger.Error("failed to write fatal error", "error", err)
	}
}
