package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/quill"
	"github.com/aretw0/quill/internal/config"
	"github.com/aretw0/quill/pkg/domain"
	"gopkg.in/yaml.v3"
)

// LoadStory reads a story document from disk. Files ending in .yaml or .yml are
// parsed as YAML, everything else as JSON.
func LoadStory(path string) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading story: %w", err)
	}

	var doc any
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parsing story YAML: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parsing story JSON: %w", err)
		}
	}
	return doc, nil
}

// engineOptions returns the standard engine options for the CLI.
func engineOptions(cfg config.Config, logger *slog.Logger, hooks domain.LifecycleHooks) []quill.Option {
	opts := []quill.Option{
		quill.WithLogger(logger),
		quill.WithLifecycleHooks(hooks),
	}
	if cfg.EntryPassage != "" {
		opts = append(opts, quill.WithEntryPassage(cfg.EntryPassage))
	}
	return opts
}

// openStory loads the story file and starts an engine on it.
func openStory(ctx context.Context, path string, cfg config.Config, logger *slog.Logger) (*quill.Engine, error) {
	doc, err := LoadStory(path)
	if err != nil {
		return nil, err
	}

	engine, err := quill.New(ctx, doc, engineOptions(cfg, logger, createDebugHooks(logger))...)
	if err != nil {
		return nil, fmt.Errorf("error initializing engine: %w", err)
	}
	return engine, nil
}
