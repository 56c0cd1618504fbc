package preview

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aretw0/quill/pkg/domain"
	"github.com/aretw0/quill/pkg/ports"
	"github.com/aretw0/quill/pkg/protocol"
)

// Dispatcher decodes command lines and routes them to the engine.
// It never panics past its own boundary: every line yields a record or the exit signal.
type Dispatcher struct {
	engine ports.Engine
	settings
}

// NewDispatcher creates a dispatcher bound to the process engine.
func NewDispatcher(engine ports.Engine, opts ...Option) *Dispatcher {
	return &Dispatcher{
		engine:   engine,
		settings: newSettings(opts),
	}
}

// Dispatch processes one input line. It returns the record to write (nil for "exit")
// and whether the command loop must stop.
func (d *Dispatcher) Dispatch(ctx context.Context, line []byte) (res protocol.Result, stop bool) {
	cmdType := "invalid"
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("command panicked", "type", cmdType, "panic", r)
			res, stop = protocol.NewFailure(protocol.KindUnexpected, fmt.Sprint(r)), false
		}
		d.metrics.observeCommand(cmdType, outcome(res, stop))
	}()

	cmd, err := protocol.DecodeCommand(line)
	if err != nil {
		var cmdErr *protocol.CommandError
		if !errors.As(err, &cmdErr) {
			return protocol.NewFailure(protocol.KindUnexpected, err.Error()), false
		}
		if cmdErr.Type != "" {
			cmdType = cmdErr.Type
		}
		d.logger.Debug("command rejected", "type", cmdType, "error", err)
		return cmdErr.Result, false
	}

	cmdType = cmd.Type()
	d.logger.Debug("command received", "type", cmdType)
	return d.Handle(ctx, cmd)
}

// Handle executes a decoded command.
func (d *Dispatcher) Handle(ctx context.Context, cmd protocol.Command) (protocol.Result, bool) {
	switch c := cmd.(type) {
	case protocol.Preview:
		return d.preview(ctx, c), false
	case protocol.Choice:
		return d.choice(ctx, c), false
	case protocol.Current:
		return d.current(ctx), false
	case protocol.Exit:
		return nil, true
	case protocol.Unknown:
		return protocol.NewUnknownCommand(c.RawType), false
	default:
		return protocol.NewFailure(protocol.KindUnexpected, fmt.Sprintf("unsupported command %T", cmd)), false
	}
}

// preview merges the overlay and then navigates. A failed navigation does not
// roll the merged overlay back.
func (d *Dispatcher) preview(ctx context.Context, c protocol.Preview) protocol.Result {
	delta, err := guard(func() (map[string]any, error) {
		return MergeOverlay(d.engine.State(), c.State)
	})
	if err != nil {
		d.logger.Warn("state merge failed", "passage", c.Passage, "error", err)
		return protocol.NewFailure(protocol.KindEngine, err.Error())
	}
	if len(c.State) > 0 {
		d.logger.Debug("state merged", "keys", len(c.State), "changed", delta)
		d.emitStateMerge(ctx, delta)
	}

	if err := c.PassageErr(); err != nil {
		d.logger.Debug("preview failed", "passage", string(c.RawPassage), "error", err)
		return protocol.NewFailure(protocol.KindEngine, err.Error())
	}

	out, err := guard(func() (domain.Output, error) {
		return d.engine.Goto(ctx, c.Passage)
	})
	if err != nil {
		d.logger.Debug("preview failed", "passage", c.Passage, "error", err)
		return protocol.NewFailure(protocol.KindEngine, err.Error())
	}
	return protocol.NewPassageResult(out)
}

func (d *Dispatcher) choice(ctx context.Context, c protocol.Choice) protocol.Result {
	out, err := guard(func() (domain.Output, error) {
		return d.engine.Choose(ctx, c.Index)
	})
	if err != nil {
		d.logger.Debug("choice failed", "index", c.Index, "error", err)
		return protocol.NewFailure(protocol.KindChoice, err.Error())
	}
	return protocol.NewPassageResult(out)
}

func (d *Dispatcher) current(ctx context.Context) protocol.Result {
	out, err := guard(func() (domain.Output, error) {
		return d.engine.Current(ctx)
	})
	if err != nil {
		d.logger.Debug("current failed", "error", err)
		return protocol.NewFailure(protocol.KindEngine, err.Error())
	}
	return protocol.NewPassageResult(out)
}

func (d *Dispatcher) emitStateMerge(ctx context.Context, delta map[string]any) {
	if d.hooks.OnStateMerge == nil {
		return
	}
	d.hooks.OnStateMerge(ctx, &domain.MergeEvent{
		EventBase: domain.EventBase{
			Timestamp: time.Now(),
			Type:      domain.EventStateMerge,
		},
		Delta: delta,
	})
}

// outcome labels a dispatch result for metrics.
func outcome(res protocol.Result, stop bool) string {
	switch r := res.(type) {
	case protocol.PassageResult:
		return OutcomeOK
	case protocol.ErrorResult:
		return r.Kind
	case protocol.DetailedErrorResult:
		return r.Kind
	case protocol.UnknownCommandResult:
		return r.Kind
	}
	if stop {
		return OutcomeOK
	}
	return "unknown"
}
