package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.jacobcolvin.com/devlog/log"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer

	m := log.NewManager()
	t.Cleanup(func() { require.NoError(t, m.Reset()) })

	cmd := newRootCmd(&stdout, &stderr, m)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(t.Context())

	return stdout.String(), stderr.String(), err
}

func TestEmit(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		args    []string
		want    []string
		notWant []string
	}{
		"default level": {
			args: []string{"emit", "--object", "motor", "moved to 5"},
			want: []string{"INFO [motor] moved to 5"},
		},
		"filtered": {
			args:    []string{"emit", "--log-level", "ERROR", "--at", "WARNING", "hidden"},
			notWant: []string{"hidden"},
		},
		"finish logs status at debug": {
			args: []string{"emit", "--log-level", "DEBUG", "--at", "DEBUG", "--object", "motor", "--finish", "go"},
			want: []string{
				"DEBUG [motor] go",
				"DEBUG [Status(obj=motor, done=true, success=true)] finished",
			},
		},
		"custom date format": {
			args: []string{"emit", "--log-datefmt", "[x]", "msg"},
			want: []string{"[x] INFO [device] msg"},
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			_, stderr, err := execute(t, tc.args...)
			require.NoError(t, err)

			for _, w := range tc.want {
				assert.Contains(t, stderr, w)
			}

			for _, nw := range tc.notWant {
				assert.NotContains(t, stderr, nw)
			}
		})
	}
}

func TestEmitToFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	logPath := filepath.Join(dir, "device.log")
	cfgPath := filepath.Join(dir, "devlog.yaml")

	require.NoError(t, os.WriteFile(cfgPath, []byte("level: WARNING\nfile: "+logPath+"\n"), 0o644))

	_, stderr, err := execute(t, "--config", cfgPath, "emit", "--at", "ERROR", "--object", "pump", "stalled")
	require.NoError(t, err)
	assert.Empty(t, stderr)

	b, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Regexp(t, `^\d{2}:\d{2}:\d{2} ERROR \[pump\] stalled\n$`, string(b))
}

func TestEmitFlagOverridesConfig(t *testing.T) {
	t.Parallel()

	cfgPath := filepath.Join(t.TempDir(), "devlog.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("level = \"CRITICAL\"\n"), 0o644))

	_, stderr, err := execute(t, "--config", cfgPath, "--log-level", "INFO", "emit", "shown")
	require.NoError(t, err)
	assert.Contains(t, stderr, "INFO [device] shown")
}

func TestEmitErrors(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		want error
		args []string
	}{
		"unknown emit level": {
			args: []string{"emit", "--at", "LOUD", "msg"},
			want: log.ErrUnknownLevel,
		},
		"unknown log level": {
			args: []string{"emit", "--log-level", "info", "msg"},
			want: log.ErrUnknownLevel,
		},
		"watch without config": {
			args: []string{"--watch", "emit", "msg"},
			want: log.ErrInvalidArgument,
		},
		"missing config": {
			args: []string{"--config", "does-not-exist.yaml", "emit", "msg"},
			want: log.ErrReadConfig,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			_, _, err := execute(t, tc.args...)
			require.ErrorIs(t, err, tc.want)
		})
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	stdout, _, err := execute(t, "validate", "DEBUG", "CRITICAL")
	require.NoError(t, err)
	assert.Equal(t, "DEBUG: ok\nCRITICAL: ok\n", stdout)

	stdout, _, err = execute(t, "validate", "INFO", "info", "LOUD")
	require.ErrorIs(t, err, ErrInvalidLevels)
	assert.ErrorContains(t, err, "info, LOUD")
	assert.True(t, strings.HasPrefix(stdout, "INFO: ok\n"))
	assert.Contains(t, stdout, "LOUD: ")
}

func TestSchema(t *testing.T) {
	t.Parallel()

	stdout, _, err := execute(t, "schema")
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &doc))
	assert.Equal(t, "devlog logging configuration", doc["title"])
	assert.Contains(t, doc["properties"], "level")
}

func TestVersion(t *testing.T) {
	t.Parallel()

	stdout, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stdout, "devlog "))

	stdout, _, err = execute(t, "version", "--json")
	require.NoError(t, err)

	var info map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &info))
	assert.Contains(t, info, "goVersion")
}

func TestEmitWatch(t *testing.T) {
	t.Parallel()

	cfgPath := filepath.Join(t.TempDir(), "devlog.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("datefmt: \"<ts>\"\n"), 0o644))

	var stdout, stderr bytes.Buffer

	m := log.NewManager()
	t.Cleanup(func() { require.NoError(t, m.Reset()) })

	ctx, cancel := context.WithTimeout(t.Context(), 500*time.Millisecond)
	defer cancel()

	cmd := newRootCmd(&stdout, &stderr, m)
	cmd.SetArgs([]string{"--config", cfgPath, "--watch", "emit", "--interval", "50ms", "tick"})

	require.NoError(t, cmd.ExecuteContext(ctx))
	assert.Contains(t, stderr.String(), "<ts> INFO [device] tick\n")
	assert.Greater(t, strings.Count(stderr.String(), "tick"), 1)
}
