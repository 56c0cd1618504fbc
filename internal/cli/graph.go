package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/aretw0/quill/internal/logging"
	"github.com/aretw0/quill/internal/presentation/graph"
)

// Graph writes a Mermaid flowchart of the story. When a trail of choice indexes is given,
// it is followed from the entry passage and the visited passages are highlighted.
func Graph(ctx context.Context, opts Options, path string, out io.Writer) error {
	cfg, err := resolveConfig(opts)
	if err != nil {
		return err
	}

	engine, err := openStory(ctx, path, cfg, logging.NewNop())
	if err != nil {
		return err
	}

	var overlay *graph.GraphOverlay
	if len(opts.Trail) > 0 {
		overlay = &graph.GraphOverlay{VisitedPassages: []string{engine.PassageID()}}
		for step, index := range opts.Trail {
			output, err := engine.Choose(ctx, index)
			if err != nil {
				return fmt.Errorf("trail step %d (choice %d at '%s'): %w", step+1, index, engine.PassageID(), err)
			}
			overlay.VisitedPassages = append(overlay.VisitedPassages, output.PassageID)
		}
		overlay.CurrentPassage = engine.PassageID()
	}

	_, err = io.WriteString(out, graph.GenerateMermaid(engine.Story(), engine.EntryPassageID(), overlay))
	return err
}
