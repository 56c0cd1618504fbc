package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/aretw0/quill/internal/config"
)

// Options contains the command line settings shared by all commands.
// Zero values mean "not set on the command line".
type Options struct {
	ConfigPath   string
	LogLevel     string
	MetricsAddr  string
	MaxLineBytes int
	EntryPassage string

	// State is a raw JSON object merged into the session state before rendering.
	State string
	// JSON switches render output to a protocol passage record.
	JSON bool
	// Trail is a sequence of choice indexes followed from the entry passage.
	Trail []int

	// Stderr receives logs and diagnostics (default os.Stderr).
	Stderr io.Writer
}

func (o Options) stderr() io.Writer {
	if o.Stderr == nil {
		return os.Stderr
	}
	return o.Stderr
}

// resolveConfig layers the configuration file and environment under the explicit flags.
func resolveConfig(opts Options) (config.Config, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return cfg, err
	}

	if opts.LogLevel != "" {
		cfg.LogLevel = opts.LogLevel
	}
	if opts.MetricsAddr != "" {
		cfg.MetricsAddr = opts.MetricsAddr
	}
	if opts.MaxLineBytes != 0 {
		cfg.MaxLineBytes = opts.MaxLineBytes
	}
	if opts.EntryPassage != "" {
		cfg.EntryPassage = opts.EntryPassage
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// parseState decodes the --state overlay.
func parseState(raw string) (map[string]any, error) {
	if raw == "" {
		return nil, nil
	}
	var state map[string]any
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		return nil, fmt.Errorf("error parsing --state JSON: %w", err)
	}
	return state, nil
}
