package tui

import (
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// IsTerminal reports whether f is attached to an interactive terminal.
func IsTerminal(f *os.File) bool {
	return f != nil && term.IsTerminal(int(f.Fd()))
}

// Style picks the glamour style for the terminal background.
func Style() string {
	if termenv.HasDarkBackground() {
		return "dark"
	}
	return "light"
}

// NewRenderer returns a function that renders passage markdown using glamour.
// When out is not a terminal the content is returned unchanged.
func NewRenderer(out *os.File) func(string) (string, error) {
	if !IsTerminal(out) {
		return PlainRenderer
	}

	width := 80
	if w, _, err := term.GetSize(int(out.Fd())); err == nil && w > 0 {
		width = w
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(Style()),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return PlainRenderer
	}

	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}
}

// PlainRenderer returns the content as is.
func PlainRenderer(content string) (string, error) {
	return content, nil
}
