package testutils

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// DecodeJSON decodes a JSON document into the generic form the engines receive.
// It fails the test immediately on error.
func DecodeJSON(t *testing.T, doc string) any {
	t.Helper()
	var v any
	require.NoError(t, json.Unmarshal([]byte(doc), &v), "invalid test document")
	return v
}

// WriteFile writes content to name inside a fresh temporary directory and returns its path.
func WriteFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644), "Failed to write test file")
	return path
}

// Records splits line-delimited JSON output into decoded records.
func Records(t *testing.T, out []byte) []map[string]any {
	t.Helper()
	var recs []map[string]any
	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		var rec map[string]any
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &rec), "line: %s", scanner.Text())
		recs = append(recs, rec)
	}
	require.NoError(t, scanner.Err())
	return recs
}
