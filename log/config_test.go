package log_test

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.jacobcolvin.com/devlog/log"
)

func TestNewConfigDefaults(t *testing.T) {
	t.Parallel()

	cfg := log.NewConfig()

	assert.Equal(t, log.DefaultLevel, cfg.Level)
	assert.Equal(t, log.DefaultDateFormat, cfg.DateFormat)
	assert.Equal(t, string(log.DefaultRotation), cfg.Rotation)
	assert.Empty(t, cfg.File)
	assert.Zero(t, cfg.BackupCount)
	assert.True(t, cfg.Color)
	assert.Nil(t, cfg.Stream)
}

func TestRegisterFlags(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		want *log.Config
		args []string
	}{
		"defaults": {
			args: nil,
			want: log.NewConfig(),
		},
		"all flags": {
			args: []string{
				"--log-level=DEBUG",
				"--log-file=device.log",
				"--log-datefmt=2006-01-02",
				"--log-color=false",
				"--log-backup-count=3",
				"--log-rotation=hourly",
			},
			want: func() *log.Config {
				cfg := log.NewConfig()
				cfg.Level = "DEBUG"
				cfg.File = "device.log"
				cfg.DateFormat = "2006-01-02"
				cfg.Color = false
				cfg.BackupCount = 3
				cfg.Rotation = "hourly"

				return cfg
			}(),
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			cfg := log.NewConfig()
			flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
			cfg.RegisterFlags(flags)

			require.NoError(t, flags.Parse(tc.args))
			assert.Equal(t, tc.want, cfg)
		})
	}
}

func TestRegisterFlagsCustomNames(t *testing.T) {
	t.Parallel()

	cfg := log.Flags{
		Level:       "verbosity",
		File:        "output",
		DateFormat:  "time-layout",
		Color:       "color",
		BackupCount: "keep",
		Rotation:    "rotate",
	}.NewConfig()

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	cfg.RegisterFlags(flags)

	require.NoError(t, flags.Parse([]string{"--verbosity=ERROR", "--keep=7"}))
	assert.Equal(t, "ERROR", cfg.Level)
	assert.Equal(t, 7, cfg.BackupCount)
	assert.Nil(t, flags.Lookup("log-level"))
}

func TestRegisterCompletions(t *testing.T) {
	t.Parallel()

	cfg := log.NewConfig()
	cmd := &cobra.Command{Use: "test"}
	cfg.RegisterFlags(cmd.Flags())
	require.NoError(t, cfg.RegisterCompletions(cmd))

	tcs := map[string]struct {
		flag      string
		want      []string
		directive cobra.ShellCompDirective
	}{
		"level": {
			flag:      "log-level",
			want:      log.GetAllLevelStrings(),
			directive: cobra.ShellCompDirectiveNoFileComp,
		},
		"rotation": {
			flag:      "log-rotation",
			want:      log.GetAllRotationStrings(),
			directive: cobra.ShellCompDirectiveNoFileComp,
		},
		"datefmt": {
			flag:      "log-datefmt",
			directive: cobra.ShellCompDirectiveNoFileComp,
		},
		"backup count": {
			flag:      "log-backup-count",
			directive: cobra.ShellCompDirectiveNoFileComp,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			fn, ok := cmd.GetFlagCompletionFunc(tc.flag)
			require.True(t, ok)

			got, directive := fn(cmd, nil, "")
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.directive, directive)
		})
	}

	_, ok := cmd.GetFlagCompletionFunc("log-file")
	assert.False(t, ok)
}

func TestRegisterCompletionsMissingFlags(t *testing.T) {
	t.Parallel()

	cfg := log.NewConfig()
	cmd := &cobra.Command{Use: "test"}

	require.Error(t, cfg.RegisterCompletions(cmd))
}

func TestOptions(t *testing.T) {
	t.Parallel()

	base := log.NewConfig()
	base.Level = "ERROR"

	cfg := log.NewConfig()
	for _, opt := range []log.Option{
		log.WithConfig(base),
		log.WithFile("device.log"),
		log.WithDateFormat("15:04"),
		log.WithColor(false),
		log.WithBackupCount(4),
		log.WithRotation(log.RotationWeekly),
	} {
		opt(cfg)
	}

	assert.Equal(t, "ERROR", cfg.Level)
	assert.Equal(t, "device.log", cfg.File)
	assert.Equal(t, "15:04", cfg.DateFormat)
	assert.False(t, cfg.Color)
	assert.Equal(t, 4, cfg.BackupCount)
	assert.Equal(t, "weekly", cfg.Rotation)

	// WithConfig copies, so base is untouched.
	assert.Empty(t, base.File)
}
