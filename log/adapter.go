package log

import "fmt"

// Identifier is implemented by objects that log through an [Adapter].
//
// LogIdentity is called on every enabled emission, so it should reflect
// the object's current state and be cheap to compute.
type Identifier interface {
	LogIdentity() (string, error)
}

// IdentifierFunc adapts a function to [Identifier].
type IdentifierFunc func() (string, error)

// LogIdentity calls f.
func (f IdentifierFunc) LogIdentity() (string, error) {
	return f()
}

// Stringer returns an [Identifier] that calls s.String on every emission.
func Stringer(s fmt.Stringer) Identifier {
	return IdentifierFunc(func() (string, error) {
		return s.String(), nil
	})
}

// Adapter logs on behalf of one emitting object, prefixing each message with
// "[identity] " where identity is read from the object at emission time.
//
// An Adapter is immutable and safe for concurrent use.
//
// Create instances with [NewAdapter] or [Manager.Bind].
type Adapter struct {
	logger *Logger
	id     Identifier
}

// NewAdapter binds id to l.
func NewAdapter(l *Logger, id Identifier) *Adapter {
	return &Adapter{
		logger: l,
		id:     id,
	}
}

// Logger returns the logger records are forwarded to.
func (a *Adapter) Logger() *Logger {
	return a.logger
}

// Log emits a record at lvl. If the bound object fails to produce its
// identity, nothing is emitted and the error is returned wrapping
// [ErrIdentity].
func (a *Adapter) Log(lvl Level, format string, args ...any) error {
	if !a.logger.Enabled(lvl) {
		return nil
	}

	id, err := a.id.LogIdentity()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrIdentity, err)
	}

	return a.logger.emit(Record{
		Time:     a.logger.now(),
		Level:    lvl,
		Logger:   a.logger.name,
		Identity: id,
		Message:  "[" + id + "] " + sprintf(format, args...),
	})
}

// Debug emits a record at [LevelDebug].
func (a *Adapter) Debug(format string, args ...any) error {
	return a.Log(LevelDebug, format, args...)
}

// Info emits a record at [LevelInfo].
func (a *Adapter) Info(format string, args ...any) error {
	return a.Log(LevelInfo, format, args...)
}

// Warning emits a record at [LevelWarning].
func (a *Adapter) Warning(format string, args ...any) error {
	return a.Log(LevelWarning, format, args...)
}

// Error emits a record at [LevelError].
func (a *Adapter) Error(format string, args ...any) error {
	return a.Log(LevelError, format, args...)
}

// Critical emits a record at [LevelCritical].
func (a *Adapter) Critical(format string, args ...any) error {
	return a.Log(LevelCritical, format, args...)
}
