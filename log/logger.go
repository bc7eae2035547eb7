package log

import (
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"
)

// Logger is a named scope in the logger hierarchy.
//
// Records emitted on a Logger are filtered by its effective level and then
// passed to its own handlers and to those of every ancestor.
//
// Loggers are created by a [Manager]; see [Manager.Logger] and
// [Manager.ControlLogger].
type Logger struct {
	parent   *Logger
	now      func() time.Time
	name     string
	handlers []Handler
	level    Level
	mu       sync.RWMutex
}

func newLogger(name string, parent *Logger) *Logger {
	return &Logger{
		name:   name,
		parent: parent,
		now:    time.Now,
	}
}

// Name returns the dotted name of l.
func (l *Logger) Name() string {
	return l.name
}

// Parent returns the parent logger, or nil for the top of the hierarchy.
func (l *Logger) Parent() *Logger {
	return l.parent
}

// Level returns the level set directly on l, which may be [LevelNotSet].
func (l *Logger) Level() Level {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.level
}

// SetLevel sets the level of l. [LevelNotSet] makes l inherit from its
// ancestors again.
func (l *Logger) SetLevel(lvl Level) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.level = lvl
}

// EffectiveLevel returns the level used to filter records on l: its own
// level if set, otherwise that of the nearest ancestor with a level set,
// otherwise [LevelNotSet].
func (l *Logger) EffectiveLevel() Level {
	for cur := l; cur != nil; cur = cur.parent {
		lvl := cur.Level()
		if lvl != LevelNotSet {
			return lvl
		}
	}

	return LevelNotSet
}

// Enabled reports whether a record at lvl would be emitted on l.
func (l *Logger) Enabled(lvl Level) bool {
	return lvl >= l.EffectiveLevel()
}

// AddHandler attaches h to l. Attaching the same handler twice has no
// effect.
func (l *Logger) AddHandler(h Handler) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if slices.Contains(l.handlers, h) {
		return
	}

	l.handlers = append(l.handlers, h)
}

// RemoveHandler detaches h from l and reports whether it was attached.
func (l *Logger) RemoveHandler(h Handler) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	i := slices.Index(l.handlers, h)
	if i < 0 {
		return false
	}

	l.handlers = slices.Delete(l.handlers, i, i+1)

	return true
}

// Handlers returns a copy of the handlers attached directly to l.
func (l *Logger) Handlers() []Handler {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return slices.Clone(l.handlers)
}

// Log emits a record at lvl. When args are given, format is expanded with
// [fmt.Sprintf]. The returned error joins any handler write failures.
func (l *Logger) Log(lvl Level, format string, args ...any) error {
	if !l.Enabled(lvl) {
		return nil
	}

	return l.emit(Record{
		Time:    l.now(),
		Level:   lvl,
		Logger:  l.name,
		Message: sprintf(format, args...),
	})
}

// Debug emits a record at [LevelDebug].
func (l *Logger) Debug(format string, args ...any) error {
	return l.Log(LevelDebug, format, args...)
}

// Info emits a record at [LevelInfo].
func (l *Logger) Info(format string, args ...any) error {
	return l.Log(LevelInfo, format, args...)
}

// Warning emits a record at [LevelWarning].
func (l *Logger) Warning(format string, args ...any) error {
	return l.Log(LevelWarning, format, args...)
}

// Error emits a record at [LevelError].
func (l *Logger) Error(format string, args ...any) error {
	return l.Log(LevelError, format, args...)
}

// Critical emits a record at [LevelCritical].
func (l *Logger) Critical(format string, args ...any) error {
	return l.Log(LevelCritical, format, args...)
}

// emit passes r to the handlers of l and each of its ancestors.
// Level filtering has already happened.
func (l *Logger) emit(r Record) error {
	var errs []error

	for cur := l; cur != nil; cur = cur.parent {
		for _, h := range cur.Handlers() {
			err := h.Handle(r)
			if err != nil {
				errs = append(errs, err)
			}
		}
	}

	return errors.Join(errs...)
}

func sprintf(format string, args ...any) string {
	if len(args) == 0 {
		return format
	}

	return fmt.Sprintf(format, args...)
}
