package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner outputs the Quill banner with the release version.
func PrintBanner(w io.Writer, version string) {
	p := termenv.ColorProfile()
	lines := []struct {
		text  string
		color string
	}{
		{`   ____        _ _ _ `, "#818cf8"},
		{`  / __ \__  __(_) | |`, "#a78bfa"},
		{` / / / / / / / / | |`, "#c084fc"},
		{`/ /_/ / /_/ / / | | |`, "#e879f9"},
		{`\___\_\__,_/_/|_|_|_|`, "#f472b6"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintf(w, "%s\n\n", termenv.String("quill "+version).Faint())
}
