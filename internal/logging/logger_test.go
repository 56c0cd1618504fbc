package logging

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithWriter_RenamesErrorKey(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, slog.LevelInfo)

	logger.Info("write failed", "error", errors.New("broken pipe"))
	logger.Debug("hidden")

	assert.Contains(t, buf.String(), `err="broken pipe"`)
	assert.NotContains(t, buf.String(), "hidden")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseLevel("verbose")
	assert.Error(t, err)
}

func TestWithSession(t *testing.T) {
	var buf bytes.Buffer
	logger, id := WithSession(NewWithWriter(&buf, slog.LevelInfo))

	_, err := uuid.Parse(id)
	require.NoError(t, err)

	logger.Info("ready")
	assert.Contains(t, buf.String(), "session_id="+id)
}
