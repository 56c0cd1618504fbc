package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "QUILL_"

// DefaultMaxLineBytes bounds a single protocol line (story documents included).
const DefaultMaxLineBytes = 16 << 20

// Config holds the settings of the quill process.
type Config struct {
	// LogLevel is one of debug, info, warn, error. Logs always go to stderr.
	LogLevel string `yaml:"log_level" env:"LOG_LEVEL" validate:"required,oneof=debug info warn error"`
	// MetricsAddr enables the /metrics and /healthz endpoints when set (e.g. "127.0.0.1:9090").
	MetricsAddr string `yaml:"metrics_addr" env:"METRICS_ADDR" validate:"omitempty,hostname_port"`
	// MaxLineBytes limits the size of one input line.
	MaxLineBytes int `yaml:"max_line_bytes" env:"MAX_LINE_BYTES" validate:"gt=0"`
	// EntryPassage overrides the story's initial passage.
	EntryPassage string `yaml:"entry_passage" env:"ENTRY_PASSAGE"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		LogLevel:     "info",
		MaxLineBytes: DefaultMaxLineBytes,
	}
}

// Load layers the configuration: defaults, then the YAML file at path (if path is not empty),
// then QUILL_* environment variables. The result is not validated yet so callers can
// apply flag overrides first.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Validate checks the configuration values.
func (c Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return fmt.Errorf("config validation failed: %s must satisfy %q (got %v)", fe.Field(), fe.ActualTag(), fe.Value())
		}
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}
