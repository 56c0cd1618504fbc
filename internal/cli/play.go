package cli

import (
	"context"
	"io"

	"github.com/aretw0/quill"
	"github.com/aretw0/quill/internal/presentation/tui"
	"github.com/aretw0/quill/pkg/preview"
)

// Play runs a story interactively on the terminal.
func Play(ctx context.Context, opts Options, path string, in io.Reader, out io.Writer, renderer quill.ContentRenderer, banner bool) error {
	cfg, err := resolveConfig(opts)
	if err != nil {
		return err
	}
	overlay, err := parseState(opts.State)
	if err != nil {
		return err
	}
	logger, err := createLogger(cfg, opts.stderr())
	if err != nil {
		return err
	}

	if banner {
		tui.PrintBanner(out, quill.Version)
	}

	engine, err := openStory(ctx, path, cfg, logger)
	if err != nil {
		return err
	}
	if _, err := preview.MergeOverlay(engine.State(), overlay); err != nil {
		return err
	}

	r := quill.NewRunner()
	r.Input = in
	r.Output = out
	r.Renderer = renderer

	runErr := r.Run(ctx, engine)
	if runErr == nil && ctx.Err() != nil {
		runErr = ctx.Err()
	}
	if isInterrupted(runErr) {
		if sig := interruptSignal(ctx); sig != nil {
			printSystemMessage(out, "Interrupted by %s at '%s' passage.", sig, engine.PassageID())
		} else {
			printSystemMessage(out, "Interrupted at '%s' passage.", engine.PassageID())
		}
	} else if runErr == nil && banner {
		printSystemMessage(out, "Finished at '%s' passage.", engine.PassageID())
	}
	return handleExecutionError(runErr)
}
