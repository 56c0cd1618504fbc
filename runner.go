package quill

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/aretw0/quill/pkg/domain"
	"github.com/aretw0/quill/pkg/ports"
)

// Runner plays a story interactively on a line-oriented terminal.
// Choices are listed 1-based; "exit" or "quit" ends the session.
type Runner struct {
	Input    io.Reader
	Output   io.Writer
	Renderer ContentRenderer
}

// ContentRenderer is a function that transforms the content before outputting it.
// This allows for TUI rendering (markdown to ANSI) without coupling the core package.
type ContentRenderer func(string) (string, error)

// NewRunner creates a Runner. Input and Output must be set before Run.
func NewRunner() *Runner {
	return &Runner{}
}

// Run executes the play loop until an ending passage, end of input, or cancellation.
func (r *Runner) Run(ctx context.Context, engine ports.Engine) error {
	if r.Input == nil {
		return fmt.Errorf("input reader must be set (use os.Stdin)")
	}
	if r.Output == nil {
		return fmt.Errorf("output writer must be set (use os.Stdout)")
	}
	lineReader := bufio.NewReader(r.Input)

	out, err := engine.Current(ctx)
	if err != nil {
		return fmt.Errorf("render error: %w", err)
	}

	for {
		r.display(out)
		if !out.HasChoices() {
			return nil
		}

		index, err := r.prompt(ctx, lineReader, len(out.Choices))
		if errors.Is(err, io.EOF) || errors.Is(err, errQuit) {
			return nil
		}
		if err != nil {
			return err
		}

		out, err = engine.Choose(ctx, index)
		if err != nil {
			return fmt.Errorf("navigation error: %w", err)
		}
	}
}

var errQuit = errors.New("quit")

func (r *Runner) display(out domain.Output) {
	content := out.Content
	if r.Renderer != nil {
		if rendered, err := r.Renderer(content); err == nil {
			content = rendered
		}
	}
	fmt.Fprintln(r.Output, strings.TrimSpace(content))

	for i, c := range out.Choices {
		fmt.Fprintf(r.Output, "  [%d] %s\n", i+1, c.Text)
	}
}

// prompt reads until the user picks a valid choice and returns its 0-based index.
func (r *Runner) prompt(ctx context.Context, lineReader *bufio.Reader, count int) (int, error) {
	for {
		if err := ctx.Err(); err != nil {
			return 0, err
		}

		fmt.Fprint(r.Output, "> ")
		text, err := lineReader.ReadString('\n')
		input := strings.TrimSpace(text)
		if err != nil && (!errors.Is(err, io.EOF) || input == "") {
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(r.Output)
			}
			return 0, err
		}

		if input == "exit" || input == "quit" {
			fmt.Fprintln(r.Output, "Bye!")
			return 0, errQuit
		}

		n, convErr := strconv.Atoi(input)
		if convErr == nil && n >= 1 && n <= count {
			return n - 1, nil
		}
		fmt.Fprintf(r.Output, "Choose a number between 1 and %d.\n", count)
		if err != nil {
			return 0, err
		}
	}
}
