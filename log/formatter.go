package log

import (
	"strings"
	"time"

	charmlog "charm.land/log/v2"
)

// DefaultDateFormat is the timestamp layout used when none is configured.
const DefaultDateFormat = "15:04:05"

// Record is a single log event as seen by a [Handler].
type Record struct {
	Time time.Time
	// Logger is the name of the logger the record was emitted on.
	Logger string
	// Identity is the emitting object's identity, if the record came
	// through an [Adapter].
	Identity string
	// Message is the rendered message, including any "[identity] " prefix.
	Message string
	Level   Level
}

// Formatter renders a [Record] as a line of text.
//
// A Formatter is immutable after construction and safe for concurrent use.
//
// Create instances with [NewFormatter].
type Formatter struct {
	styles     *charmlog.Styles
	dateFormat string
	color      bool
}

// FormatterOptions configures a [Formatter].
type FormatterOptions struct {
	// DateFormat is the [time.Time.Format] layout for timestamps.
	// Empty means [DefaultDateFormat].
	DateFormat string
	// Color enables terminal color on the level token.
	Color bool
}

// NewFormatter creates a [Formatter] from opts.
func NewFormatter(opts FormatterOptions) *Formatter {
	f := &Formatter{
		dateFormat: opts.DateFormat,
		color:      opts.Color,
	}
	if f.dateFormat == "" {
		f.dateFormat = DefaultDateFormat
	}

	if f.color {
		f.styles = charmlog.DefaultStyles()
	}

	return f
}

// DateFormat returns the configured timestamp layout.
func (f *Formatter) DateFormat() string {
	return f.dateFormat
}

// Color reports whether the formatter emits color escape sequences.
func (f *Formatter) Color() bool {
	return f.color
}

// Format renders r as "<timestamp> <LEVEL> <message>\n".
func (f *Formatter) Format(r Record) string {
	var sb strings.Builder

	sb.WriteString(r.Time.Format(f.dateFormat))
	sb.WriteByte(' ')
	sb.WriteString(f.levelToken(r.Level))
	sb.WriteByte(' ')
	sb.WriteString(r.Message)

	if !strings.HasSuffix(r.Message, "\n") {
		sb.WriteByte('\n')
	}

	return sb.String()
}

func (f *Formatter) levelToken(lvl Level) string {
	name := lvl.String()
	if !f.color {
		return name
	}

	style, ok := f.styles.Levels[charmLevel(lvl)]
	if !ok {
		return name
	}

	// The default styles carry their own short label and width limit.
	return style.UnsetString().UnsetMaxWidth().Render(name)
}

// charmLevel maps lvl onto the nearest charm level so its style can be
// reused.
func charmLevel(lvl Level) charmlog.Level {
	switch {
	case lvl >= LevelCritical:
		return charmlog.FatalLevel
	case lvl >= LevelError:
		return charmlog.ErrorLevel
	case lvl >= LevelWarning:
		return charmlog.WarnLevel
	case lvl >= LevelInfo:
		return charmlog.InfoLevel
	}

	return charmlog.DebugLevel
}
