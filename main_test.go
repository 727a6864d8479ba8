package main

import (
	"bytes"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcncl/lsjson/internal/config"
	"github.com/mcncl/lsjson/internal/errors"
)

// newTestContext returns a colorless context writing to stdout and logging to logs.
func newTestContext(stdout, logs *bytes.Buffer) *Context {
	cfg := config.NewConfig()
	cfg.Color = config.ColorNever
	return &Context{
		Config: cfg,
		Logger: newLogger(logs, true),
		Stdout: stdout,
	}
}

func writeJSON(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRun_SimpleJSON(t *testing.T) {
	originalCLI := CLI
	defer func() { CLI = originalCLI }()

	CLI.Path = writeJSON(t, `{"a": 1, "b": [true, false]}`)

	var stdout, logs bytes.Buffer
	ctx := newTestContext(&stdout, &logs)
	require.NoError(t, run(ctx))

	out := strings.Split(strings.TrimSuffix(stdout.String(), "\n"), "\n")
	require.Len(t, out, 8)
	assert.Equal(t, "=> lsjson "+CLI.Path, out[0])
	assert.Equal(t, "{Dict", out[1])
	assert.True(t, strings.HasSuffix(out[2], "Int"))
	assert.Equal(t, "        [List", out[4])
	assert.Equal(t, "        ... ]", out[6])
	assert.Equal(t, "}", out[7])

	assert.Contains(t, logs.String(), "rendered document")
}

func TestRun_ModeFromConfig(t *testing.T) {
	originalCLI := CLI
	defer func() { CLI = originalCLI }()

	CLI.Path = writeJSON(t, `[1, 2]`)

	var stdout, logs bytes.Buffer
	ctx := newTestContext(&stdout, &logs)
	ctx.Config.DefaultMode = config.ModeAll
	ctx.Config.Banner = false
	require.NoError(t, run(ctx))

	expected := "[List\n" +
		strings.Repeat("    ", 8) + "Int\n" +
		"-> 1\n" +
		strings.Repeat("    ", 8) + "Int\n" +
		"-> 2\n" +
		"]\n"
	assert.Equal(t, expected, stdout.String())
}

func TestRun_ColoredBanner(t *testing.T) {
	originalCLI := CLI
	defer func() { CLI = originalCLI }()

	CLI.Path = writeJSON(t, `[]`)

	var stdout, logs bytes.Buffer
	ctx := newTestContext(&stdout, &logs)
	ctx.Config.Color = config.ColorAlways
	require.NoError(t, run(ctx))

	assert.True(t, strings.HasPrefix(stdout.String(), "\x1b[35;1m=> lsjson "), "got %q", stdout.String())
	assert.Contains(t, stdout.String(), "\x1b[31;1m[]")
}

func TestRun_FromStdin(t *testing.T) {
	originalCLI := CLI
	defer func() { CLI = originalCLI }()

	CLI.Path = ""

	var stdout, logs bytes.Buffer
	ctx := newTestContext(&stdout, &logs)
	ctx.Config.DefaultMode = config.ModeExample
	ctx.Stdin = strings.NewReader("5")
	require.NoError(t, run(ctx))

	expected := "=> lsjson <stdin>\n" +
		strings.Repeat("    ", 9) + "Int\n" +
		"-> 5\n"
	assert.Equal(t, expected, stdout.String())
}

func TestRun_FromPipe(t *testing.T) {
	originalCLI := CLI
	defer func() { CLI = originalCLI }()

	CLI.Path = ""

	r, w, err := os.Pipe()
	require.NoError(t, err)
	defer func() { _ = r.Close() }()

	go func() {
		defer func() { _ = w.Close() }()
		_, _ = w.WriteString(`[{"item": "apple"}, {"item": "banana"}]`)
	}()

	var stdout, logs bytes.Buffer
	ctx := newTestContext(&stdout, &logs)
	ctx.Stdin = r
	require.NoError(t, run(ctx))

	assert.Contains(t, stdout.String(), ":item")
	assert.Equal(t, 1, strings.Count(stdout.String(), ":item"), "only the first element is walked")
}

func TestRun_Errors(t *testing.T) {
	dir := t.TempDir()
	empty := filepath.Join(dir, "empty.json")
	require.NoError(t, os.WriteFile(empty, nil, 0o644))
	invalid := filepath.Join(dir, "invalid.json")
	require.NoError(t, os.WriteFile(invalid, []byte(`{"invalid": json}`), 0o644))

	tests := []struct {
		name     string
		path     string
		exitCode int
	}{
		{"missing file", filepath.Join(dir, "missing.json"), errors.ExitNotFound},
		{"invalid JSON", invalid, errors.ExitMalformed},
		{"empty file", empty, errors.ExitMalformed},
		{"directory", dir, errors.ExitUsage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			originalCLI := CLI
			defer func() { CLI = originalCLI }()
			CLI.Path = tt.path

			var stdout, logs bytes.Buffer
			err := run(newTestContext(&stdout, &logs))
			require.Error(t, err)
			assert.Equal(t, tt.exitCode, errors.ExitCode(err))
			// The banner is written before the document is read.
			assert.Equal(t, "=> lsjson "+tt.path+"\n", stdout.String())
		})
	}
}

func TestRun_NoInput(t *testing.T) {
	originalCLI := CLI
	defer func() { CLI = originalCLI }()

	CLI.Path = ""

	var stdout, logs bytes.Buffer
	err := run(newTestContext(&stdout, &logs))
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, errors.ErrNoInput))
	assert.Equal(t, errors.ExitUsage, errors.ExitCode(err))
	assert.Empty(t, stdout.String())
}

func TestRun_EmptyStdinIsMissingInput(t *testing.T) {
	originalCLI := CLI
	defer func() { CLI = originalCLI }()

	CLI.Path = ""

	for _, input := range []string{"", " \n\t"} {
		var stdout, logs bytes.Buffer
		ctx := newTestContext(&stdout, &logs)
		ctx.Stdin = strings.NewReader(input)

		err := run(ctx)
		require.Error(t, err)
		assert.True(t, stderrors.Is(err, errors.ErrNoInput), "input %q", input)
		assert.Equal(t, errors.ExitUsage, errors.ExitCode(err))
		assert.Equal(t, "where is input json file?", errors.UserFriendlyError(err))
		assert.Empty(t, stdout.String(), "no banner for missing input")
	}
}

func TestRun_FloatExampleUsesDecodedValue(t *testing.T) {
	originalCLI := CLI
	defer func() { CLI = originalCLI }()

	CLI.Path = writeJSON(t, `{"x": 1.50, "y": 1E400}`)

	var stdout, logs bytes.Buffer
	ctx := newTestContext(&stdout, &logs)
	ctx.Config.DefaultMode = config.ModeAll
	ctx.Config.Banner = false
	require.NoError(t, run(ctx))

	assert.Contains(t, stdout.String(), "\n    -> 1.5\n")
	assert.Contains(t, stdout.String(), "\n    -> +Inf\n")
	assert.NotContains(t, stdout.String(), "1E400")
}

func TestRun_DefaultsWithoutConfigOrLogger(t *testing.T) {
	originalCLI := CLI
	defer func() { CLI = originalCLI }()

	CLI.Path = writeJSON(t, `{}`)

	var stdout bytes.Buffer
	require.NoError(t, run(&Context{Stdout: &stdout}))
	assert.Contains(t, stdout.String(), "{}")
}

func TestCLIMode(t *testing.T) {
	originalCLI := CLI
	defer func() { CLI = originalCLI }()

	CLI.Example, CLI.All = false, false
	assert.Equal(t, "", cliMode())

	CLI.Example = true
	assert.Equal(t, config.ModeExample, cliMode())

	CLI.Example, CLI.All = false, true
	assert.Equal(t, config.ModeAll, cliMode())
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	newLogger(&buf, false).Debug("hidden")
	assert.Empty(t, buf.String())

	newLogger(&buf, true).Debug("shown")
	assert.Contains(t, buf.String(), "shown")

	assert.Equal(t, log.DebugLevel, newLogger(&buf, true).GetLevel())
}
