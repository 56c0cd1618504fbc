package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/aretw0/quill/internal/logging"
)

// Validate loads a story file, enters its initial passage and checks the passage graph
// for dead links and unreachable passages.
func Validate(ctx context.Context, opts Options, path string, out io.Writer) error {
	cfg, err := resolveConfig(opts)
	if err != nil {
		return err
	}

	engine, err := openStory(ctx, path, cfg, logging.NewNop())
	if err != nil {
		return err
	}
	if err := engine.Validate(); err != nil {
		return err
	}

	story := engine.Story()
	fmt.Fprintf(out, "Story is valid! %d passages, entry '%s'.\n", len(story.Passages), engine.EntryPassageID())
	return nil
}
