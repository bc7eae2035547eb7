package log

import (
	"errors"
	"fmt"
)

// Level is the severity of a log record. Higher values are more severe.
type Level int

const (
	// LevelNotSet defers to the nearest ancestor logger's level.
	// As an effective level it enables everything.
	LevelNotSet Level = 0
	// LevelDebug is for detailed diagnostics.
	LevelDebug Level = 10
	// LevelInfo is for routine operational messages.
	LevelInfo Level = 20
	// LevelWarning is for unexpected but recoverable conditions.
	LevelWarning Level = 30
	// LevelError is for failed operations.
	LevelError Level = 40
	// LevelCritical is for failures the library cannot continue past.
	LevelCritical Level = 50
)

var (
	// ErrInvalidArgument indicates an invalid argument was provided.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrUnknownLevel indicates an unrecognized level name.
	ErrUnknownLevel = errors.New("unknown log level")
	// ErrUnknownRotation indicates an unrecognized rotation interval.
	ErrUnknownRotation = errors.New("unknown rotation interval")
	// ErrIdentity indicates an emitting object could not produce its identity.
	ErrIdentity = errors.New("log identity")
	// ErrReadConfig indicates a logging config file could not be read.
	ErrReadConfig = errors.New("read log config")
)

// levels is ordered from most to least severe.
var levels = []Level{
	LevelCritical,
	LevelError,
	LevelWarning,
	LevelInfo,
	LevelDebug,
	LevelNotSet,
}

// String returns the canonical upper-case name of l.
func (l Level) String() string {
	switch l {
	case LevelCritical:
		return "CRITICAL"
	case LevelError:
		return "ERROR"
	case LevelWarning:
		return "WARNING"
	case LevelInfo:
		return "INFO"
	case LevelDebug:
		return "DEBUG"
	case LevelNotSet:
		return "NOTSET"
	}

	return fmt.Sprintf("Level(%d)", int(l))
}

// ParseLevel returns the [Level] named by name. Matching is case-sensitive:
// "INFO" is a level, "info" is not.
func ParseLevel(name string) (Level, error) {
	for _, lvl := range levels {
		if lvl.String() == name {
			return lvl, nil
		}
	}

	return LevelNotSet, fmt.Errorf("%w: %q", ErrUnknownLevel, name)
}

// ValidateLevel reports whether name is one of the recognized level names.
// The returned error wraps both [ErrInvalidArgument] and [ErrUnknownLevel].
func ValidateLevel(name string) error {
	_, err := ParseLevel(name)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}

	return nil
}

// GetAllLevelStrings returns every recognized level name, most severe first.
func GetAllLevelStrings() []string {
	names := make([]string, 0, len(levels))
	for _, lvl := range levels {
		names = append(names, lvl.String())
	}

	return names
}
