package log_test

import (
	"encoding/json"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.jacobcolvin.com/devlog/log"
)

func writeConfigFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return path
}

func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	backups := 5
	color := false

	want := &log.FileConfig{
		Level:       "DEBUG",
		File:        "/var/log/device.log",
		DateFormat:  "2006-01-02 15:04:05",
		Rotation:    "hourly",
		BackupCount: &backups,
		Color:       &color,
	}

	tcs := map[string]struct {
		name    string
		content string
	}{
		"yaml": {
			name: "devlog.yaml",
			content: `level: DEBUG
file: /var/log/device.log
datefmt: "2006-01-02 15:04:05"
rotation: hourly
backup_count: 5
color: false
`,
		},
		"toml": {
			name: "devlog.toml",
			content: `level = "DEBUG"
file = "/var/log/device.log"
datefmt = "2006-01-02 15:04:05"
rotation = "hourly"
backup_count = 5
color = false
`,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			fc, err := log.LoadConfigFile(writeConfigFile(t, tc.name, tc.content))
			require.NoError(t, err)
			assert.Equal(t, want, fc)
		})
	}
}

func TestLoadConfigFilePartial(t *testing.T) {
	t.Parallel()

	fc, err := log.LoadConfigFile(writeConfigFile(t, "devlog.yml", "level: WARNING\n"))
	require.NoError(t, err)

	assert.Equal(t, "WARNING", fc.Level)
	assert.Nil(t, fc.BackupCount)
	assert.Nil(t, fc.Color)
}

func TestLoadConfigFileErrors(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		path func(t *testing.T) string
	}{
		"missing": {
			path: func(t *testing.T) string {
				t.Helper()
				return filepath.Join(t.TempDir(), "missing.yaml")
			},
		},
		"bad yaml": {
			path: func(t *testing.T) string {
				t.Helper()
				return writeConfigFile(t, "devlog.yaml", "level: [DEBUG\n")
			},
		},
		"bad toml": {
			path: func(t *testing.T) string {
				t.Helper()
				return writeConfigFile(t, "devlog.toml", "level = \n")
			},
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			_, err := log.LoadConfigFile(tc.path(t))
			require.ErrorIs(t, err, log.ErrReadConfig)
		})
	}
}

func TestApplyFile(t *testing.T) {
	t.Parallel()

	backups := 2
	color := false

	fc := &log.FileConfig{
		Level:       "DEBUG",
		File:        "device.log",
		BackupCount: &backups,
		Color:       &color,
	}

	t.Run("no flags", func(t *testing.T) {
		t.Parallel()

		cfg := log.NewConfig()
		cfg.ApplyFile(fc, nil)

		assert.Equal(t, "DEBUG", cfg.Level)
		assert.Equal(t, "device.log", cfg.File)
		assert.Equal(t, 2, cfg.BackupCount)
		assert.False(t, cfg.Color)
		assert.Equal(t, log.DefaultDateFormat, cfg.DateFormat)
	})

	t.Run("changed flags win", func(t *testing.T) {
		t.Parallel()

		cfg := log.NewConfig()
		flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
		cfg.RegisterFlags(flags)
		require.NoError(t, flags.Parse([]string{"--log-level=ERROR", "--log-backup-count=9"}))

		cfg.ApplyFile(fc, flags)

		assert.Equal(t, "ERROR", cfg.Level)
		assert.Equal(t, 9, cfg.BackupCount)
		assert.Equal(t, "device.log", cfg.File)
		assert.False(t, cfg.Color)
	})
}

func TestConfigSchema(t *testing.T) {
	t.Parallel()

	schema, err := log.ConfigSchema()
	require.NoError(t, err)

	b, err := json.Marshal(schema)
	require.NoError(t, err)

	var doc struct {
		Properties map[string]struct {
			Enum        []string `json:"enum"`
			Description string   `json:"description"`
		} `json:"properties"`
		Title string `json:"title"`
	}
	require.NoError(t, json.Unmarshal(b, &doc))

	assert.Equal(t, "devlog logging configuration", doc.Title)
	assert.ElementsMatch(t,
		[]string{"level", "file", "datefmt", "rotation", "backup_count", "color"},
		slices.Collect(maps.Keys(doc.Properties)))
	assert.Equal(t, log.GetAllLevelStrings(), doc.Properties["level"].Enum)
	assert.Equal(t, log.GetAllRotationStrings(), doc.Properties["rotation"].Enum)
	assert.NotEmpty(t, doc.Properties["file"].Description)
}
