package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"syscall"
	"testing"

	"github.com/aretw0/quill/internal/testutils"
	"github.com/aretw0/quill/pkg/preview"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const caveStory = `{
	"initial_passage": "Mouth",
	"state": {"torch": false},
	"passages": {
		"Mouth": {
			"content": "A cave mouth.",
			"choices": [
				{"text": "Light torch", "target": "Lit"},
				{"text": "Enter", "target": "Depths", "condition": "torch"}
			]
		},
		"Lit": {
			"content": "The torch burns.",
			"execute": ["torch = true"],
			"choices": [{"text": "Back", "target": "Mouth"}]
		},
		"Depths": {"content": "Darkness, {{deep}}."}
	}
}`

const caveYAML = `initial_passage: Mouth
passages:
  Mouth:
    content: "A cave mouth with {coins} coins."
    choices:
      - text: Leave
        target: Outside
  Outside:
    content: Daylight.
state:
  coins: 3
`

func quietOptions() Options {
	return Options{Stderr: &bytes.Buffer{}}
}

func TestResolveConfig_FlagsWin(t *testing.T) {
	path := testutils.WriteFile(t, "quill.yaml", "log_level: warn\nmax_line_bytes: 2048\n")
	t.Setenv("QUILL_LOG_LEVEL", "error")

	cfg, err := resolveConfig(Options{ConfigPath: path, LogLevel: "debug"})
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 2048, cfg.MaxLineBytes)

	_, err = resolveConfig(Options{LogLevel: "chatty"})
	assert.Error(t, err)
}

func TestLoadStory(t *testing.T) {
	doc, err := LoadStory(testutils.WriteFile(t, "cave.yaml", caveYAML))
	require.NoError(t, err)
	assert.Equal(t, "Mouth", doc.(map[string]any)["initial_passage"])

	_, err = LoadStory(testutils.WriteFile(t, "broken.json", "{"))
	assert.ErrorContains(t, err, "parsing story JSON")

	_, err = LoadStory(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorContains(t, err, "reading story")
}

func TestServe(t *testing.T) {
	input := strings.Join([]string{
		strings.Join(strings.Fields(caveStory), " "),
		`{"type":"choice","index":0}`,
		`{"type":"preview","passage":"Depths","state":{"torch":true}}`,
		`{"type":"exit"}`,
	}, "\n")
	var out bytes.Buffer
	var logs bytes.Buffer

	code := Serve(context.Background(), Options{LogLevel: "debug", Stderr: &logs}, strings.NewReader(input), &out)
	require.Equal(t, preview.ExitOK, code)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.JSONEq(t, `{"status":"ready"}`, lines[0])
	assert.JSONEq(t, `{"content":"The torch burns.","choices":[{"text":"Back","target":"Mouth"}],"passage_id":"Lit","has_choices":true}`, lines[1])
	assert.JSONEq(t, `{"content":"Darkness, {deep}.","choices":[],"passage_id":"Depths","has_choices":false}`, lines[2])

	assert.Contains(t, logs.String(), "session_id=")
	assert.Contains(t, logs.String(), "Enter Passage")
	assert.NotContains(t, out.String(), "session_id", "logs never reach the protocol stream")
}

func TestServe_InvalidConfig(t *testing.T) {
	var out, logs bytes.Buffer
	code := Serve(context.Background(), Options{MetricsAddr: "no-port", Stderr: &logs}, strings.NewReader(""), &out)

	assert.Equal(t, preview.ExitFailure, code)
	assert.Empty(t, out.String())
	assert.Contains(t, logs.String(), "config validation failed")
}

func TestValidate(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, Validate(context.Background(), quietOptions(), testutils.WriteFile(t, "cave.json", caveStory), &out))
	assert.Contains(t, out.String(), "3 passages, entry 'Mouth'")

	broken := `{"passages":{"start":{"content":"x","choices":[{"text":"go","target":"gone"}]}}}`
	err := Validate(context.Background(), quietOptions(), testutils.WriteFile(t, "broken.json", broken), &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Dead link: 'start' -> 'gone'")
}

func TestRender(t *testing.T) {
	path := testutils.WriteFile(t, "cave.json", caveStory)

	t.Run("Current passage", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, Render(context.Background(), quietOptions(), path, "", &out, nil))
		assert.Equal(t, "[Mouth]\nA cave mouth.\n  [0] Light torch -> Lit\n", out.String())
	})

	t.Run("State overlay reveals choices", func(t *testing.T) {
		opts := quietOptions()
		opts.State = `{"torch": true}`
		var out bytes.Buffer
		require.NoError(t, Render(context.Background(), opts, path, "Mouth", &out, nil))
		assert.Contains(t, out.String(), "  [1] Enter -> Depths\n")
	})

	t.Run("JSON record", func(t *testing.T) {
		opts := quietOptions()
		opts.JSON = true
		var out bytes.Buffer
		require.NoError(t, Render(context.Background(), opts, path, "Depths", &out, nil))

		var rec map[string]any
		require.NoError(t, json.Unmarshal(out.Bytes(), &rec))
		assert.Equal(t, "Depths", rec["passage_id"])
		assert.Equal(t, false, rec["has_choices"])
	})

	t.Run("YAML story with renderer", func(t *testing.T) {
		var out bytes.Buffer
		upper := func(s string) (string, error) { return strings.ToUpper(s), nil }
		require.NoError(t, Render(context.Background(), quietOptions(), testutils.WriteFile(t, "cave.yml", caveYAML), "", &out, upper))
		assert.Contains(t, out.String(), "A CAVE MOUTH WITH 3 COINS.")
	})

	t.Run("Bad state", func(t *testing.T) {
		opts := quietOptions()
		opts.State = `[1]`
		err := Render(context.Background(), opts, path, "", &bytes.Buffer{}, nil)
		assert.ErrorContains(t, err, "--state")
	})
}

func TestPlay(t *testing.T) {
	path := testutils.WriteFile(t, "cave.json", caveStory)
	var out bytes.Buffer

	err := Play(context.Background(), quietOptions(), path, strings.NewReader("1\n1\n2\n"), &out, nil, true)
	require.NoError(t, err)

	text := out.String()
	assert.Contains(t, text, "quill ")
	assert.Contains(t, text, "The torch burns.")
	assert.Contains(t, text, "Darkness, {deep}.")
	assert.Contains(t, text, ">>> Finished at 'Depths' passage.")
}

// cancelOnRead answers one invalid choice and cancels the session while doing so.
type cancelOnRead struct {
	cancel func()
}

func (r cancelOnRead) Read(p []byte) (int, error) {
	r.cancel()
	return copy(p, "9\n"), nil
}

func TestPlay_InterruptedBySignal(t *testing.T) {
	path := testutils.WriteFile(t, "cave.json", caveStory)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigCtx := &SignalContext{Context: ctx, Cancel: cancel, sigVal: syscall.SIGTERM}

	var out bytes.Buffer
	err := Play(sigCtx, quietOptions(), path, cancelOnRead{cancel: cancel}, &out, nil, false)

	require.NoError(t, err)
	assert.Contains(t, out.String(), ">>> Interrupted by terminated at 'Mouth' passage.")
	assert.Equal(t, syscall.SIGTERM, interruptSignal(sigCtx))
	assert.Nil(t, interruptSignal(context.Background()))
}

func TestGraph(t *testing.T) {
	path := testutils.WriteFile(t, "cave.json", caveStory)

	t.Run("Plain", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, Graph(context.Background(), quietOptions(), path, &out))
		assert.Contains(t, out.String(), `Mouth(("Mouth"))`)
		assert.Contains(t, out.String(), `Mouth -- "Enter <br/> if torch" --> Depths`)
		assert.NotContains(t, out.String(), "classDef")
	})

	t.Run("Trail", func(t *testing.T) {
		opts := quietOptions()
		opts.Trail = []int{0, 0, 1}
		var out bytes.Buffer
		require.NoError(t, Graph(context.Background(), opts, path, &out))
		assert.Contains(t, out.String(), "class Lit visited;")
		assert.Contains(t, out.String(), "class Depths current;")
	})

	t.Run("Trail out of range", func(t *testing.T) {
		opts := quietOptions()
		opts.Trail = []int{5}
		err := Graph(context.Background(), opts, path, &bytes.Buffer{})
		assert.ErrorContains(t, err, "trail step 1")
	})
}
