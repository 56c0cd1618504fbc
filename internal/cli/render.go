package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/quill"
	"github.com/aretw0/quill/pkg/domain"
	"github.com/aretw0/quill/pkg/preview"
	"github.com/aretw0/quill/pkg/protocol"
)

// Render shows a single passage: the current one after entering the story, or passageID
// when given. The --state overlay is merged first, exactly as a preview command does.
func Render(ctx context.Context, opts Options, path, passageID string, out io.Writer, renderer quill.ContentRenderer) error {
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

	engine, err := openStory(ctx, path, cfg, logger)
	if err != nil {
		return err
	}
	if _, err := preview.MergeOverlay(engine.State(), overlay); err != nil {
		return err
	}

	var output domain.Output
	if passageID != "" {
		output, err = engine.Goto(ctx, passageID)
	} else {
		output, err = engine.Current(ctx)
	}
	if err != nil {
		return err
	}

	if opts.JSON {
		return protocol.NewWriter(out).Write(protocol.NewPassageResult(output))
	}
	return writePassage(out, output, renderer)
}

func writePassage(out io.Writer, output domain.Output, renderer quill.ContentRenderer) error {
	content := output.Content
	if renderer != nil {
		rendered, err := renderer(content)
		if err != nil {
			return fmt.Errorf("rendering content: %w", err)
		}
		content = rendered
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "[%s]\n%s\n", output.PassageID, strings.TrimSpace(content))
	for i, c := range output.Choices {
		fmt.Fprintf(&sb, "  [%d] %s -> %s\n", i, c.Text, c.Target)
	}
	_, err := io.WriteString(out, sb.String())
	return err
}
