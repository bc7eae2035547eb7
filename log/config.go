package log

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const (
	// DefaultLevel is the level applied when none is configured.
	DefaultLevel = "INFO"
	// DefaultRotation is the rollover interval for file output.
	DefaultRotation = RotationMidnight
)

// Flags holds CLI flag names for log configuration, allowing callers to
// customize flag names while keeping sensible defaults via [NewConfig].
type Flags struct {
	Level       string
	File        string
	DateFormat  string
	Color       string
	BackupCount string
	Rotation    string
}

// NewConfig creates a new [Config] with default values embedding these flag
// names.
func (f Flags) NewConfig() *Config {
	return &Config{
		Flags:      f,
		Level:      DefaultLevel,
		DateFormat: DefaultDateFormat,
		Rotation:   string(DefaultRotation),
		Color:      true,
	}
}

// Config holds the settings applied by [Manager.Apply].
//
// Create instances with [NewConfig] and register CLI flags with
// [Config.RegisterFlags]. The zero value is not a valid configuration; its
// empty level is rejected.
type Config struct {
	// Stream is the console destination used when File is empty.
	// Nil means the manager's default stream, normally [os.Stderr].
	Stream io.Writer
	// Level is the name of the level set on the library and control
	// loggers. See [ValidateLevel].
	Level string
	// File, when set, selects time-rotated file output at this path.
	File string
	// DateFormat is the timestamp layout passed to the [Formatter].
	DateFormat string
	// Rotation is the rollover interval for file output.
	Rotation string
	Flags    Flags
	// BackupCount is the number of rolled files kept for file output.
	BackupCount int
	// Color requests colored level tokens. It only takes effect when the
	// destination is an interactive terminal; file output is never
	// colored.
	Color bool
}

// NewConfig returns a new [Config] with default flag names and values:
// console output at INFO with color and [DefaultDateFormat].
func NewConfig() *Config {
	f := Flags{
		Level:       "log-level",
		File:        "log-file",
		DateFormat:  "log-datefmt",
		Color:       "log-color",
		BackupCount: "log-backup-count",
		Rotation:    "log-rotation",
	}

	return f.NewConfig()
}

// RegisterFlags adds logging flags to the given [*pflag.FlagSet].
func (c *Config) RegisterFlags(flags *pflag.FlagSet) {
	flags.StringVar(&c.Level, c.Flags.Level, DefaultLevel,
		fmt.Sprintf("log level, one of: %s", GetAllLevelStrings()))
	flags.StringVar(&c.File, c.Flags.File, "",
		"write logs to this file with time-based rotation instead of the console")
	flags.StringVar(&c.DateFormat, c.Flags.DateFormat, DefaultDateFormat,
		"timestamp layout, in Go reference time")
	flags.BoolVar(&c.Color, c.Flags.Color, true,
		"color log levels when writing to a terminal")
	flags.IntVar(&c.BackupCount, c.Flags.BackupCount, 0,
		"number of rotated log files to keep (0 keeps all)")
	flags.StringVar(&c.Rotation, c.Flags.Rotation, string(DefaultRotation),
		fmt.Sprintf("log file rotation interval, one of: %s", GetAllRotationStrings()))
}

// RegisterCompletions registers shell completions for log flags on cmd.
// The file flag keeps default file completion.
func (c *Config) RegisterCompletions(cmd *cobra.Command) error {
	err := cmd.RegisterFlagCompletionFunc(c.Flags.Level,
		cobra.FixedCompletions(GetAllLevelStrings(), cobra.ShellCompDirectiveNoFileComp))
	if err != nil {
		return fmt.Errorf("registering %s completion: %w", c.Flags.Level, err)
	}

	err = cmd.RegisterFlagCompletionFunc(c.Flags.Rotation,
		cobra.FixedCompletions(GetAllRotationStrings(), cobra.ShellCompDirectiveNoFileComp))
	if err != nil {
		return fmt.Errorf("registering %s completion: %w", c.Flags.Rotation, err)
	}

	noFileComp := func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	for _, name := range []string{c.Flags.DateFormat, c.Flags.BackupCount} {
		err = cmd.RegisterFlagCompletionFunc(name, noFileComp)
		if err != nil {
			return fmt.Errorf("registering %s completion: %w", name, err)
		}
	}

	return nil
}

// Option modifies a [Config] before [Manager.Configure] applies it.
type Option func(*Config)

// WithConfig replaces the settings with a copy of cfg.
func WithConfig(cfg *Config) Option {
	return func(c *Config) {
		*c = *cfg
	}
}

// WithLevel sets the level name.
func WithLevel(level string) Option {
	return func(c *Config) {
		c.Level = level
	}
}

// WithFile selects rotating file output at path.
func WithFile(path string) Option {
	return func(c *Config) {
		c.File = path
	}
}

// WithDateFormat sets the timestamp layout.
func WithDateFormat(layout string) Option {
	return func(c *Config) {
		c.DateFormat = layout
	}
}

// WithColor requests colored level tokens on terminals.
func WithColor(color bool) Option {
	return func(c *Config) {
		c.Color = color
	}
}

// WithBackupCount sets the number of rolled files kept.
func WithBackupCount(n int) Option {
	return func(c *Config) {
		c.BackupCount = n
	}
}

// WithRotation sets the rollover interval for file output.
func WithRotation(r Rotation) Option {
	return func(c *Config) {
		c.Rotation = string(r)
	}
}

// WithStream sets the console destination.
func WithStream(w io.Writer) Option {
	return func(c *Config) {
		c.Stream = w
	}
}
