package log

import (
	"fmt"
	"io"
	"os"
	"sync"
)

const (
	// LibraryLoggerName is the name of the top of the library's logger
	// hierarchy.
	LibraryLoggerName = "device"
	// ControlLoggerName is the name of the control-layer logger, a child of
	// the library logger.
	ControlLoggerName = LibraryLoggerName + ".control"
)

// Manager owns a logger hierarchy and the single handler installed on it.
//
// The hierarchy has two loggers: the library logger and the control-layer
// logger beneath it. Installing a handler always replaces the previous one,
// so output is never duplicated.
//
// Configuration methods are serialized, but concurrent reconfiguration has
// no ordering guarantee: the last call to finish wins. Configure once at
// startup or test setup. Emission through the loggers and adapters is safe
// for concurrent use at any time.
//
// Create instances with [NewManager]. Most programs use [Default].
type Manager struct {
	root    *Logger
	control *Logger
	current Handler
	stream  io.Writer
	mu      sync.Mutex
}

// NewManager creates a [Manager] with a fresh logger hierarchy and no
// handler installed. Console output defaults to [os.Stderr].
func NewManager() *Manager {
	root := newLogger(LibraryLoggerName, nil)

	return &Manager{
		root:    root,
		control: newLogger(ControlLoggerName, root),
		stream:  os.Stderr,
	}
}

// Logger returns the library logger.
func (m *Manager) Logger() *Logger {
	return m.root
}

// ControlLogger returns the control-layer logger.
func (m *Manager) ControlLogger() *Logger {
	return m.control
}

// Current returns the installed handler, or nil if none is installed.
func (m *Manager) Current() Handler {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.current
}

// Install detaches the current handler from the library logger, attaches h,
// and then closes the detached handler. The returned error reports a failure
// to close the old handler; h is installed regardless.
func (m *Manager) Install(h Handler) error {
	if h == nil {
		return fmt.Errorf("%w: nil handler", ErrInvalidArgument)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	return m.install(h)
}

// Uninstall detaches and closes the current handler, if any.
func (m *Manager) Uninstall() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.install(nil)
}

func (m *Manager) install(h Handler) error {
	old := m.current
	if old == h {
		return nil
	}

	if old != nil {
		m.root.RemoveHandler(old)
	}

	if h != nil {
		m.root.AddHandler(h)
	}

	m.current = h

	if old == nil {
		return nil
	}

	err := old.Close()
	if err != nil {
		return fmt.Errorf("close replaced handler: %w", err)
	}

	return nil
}

// Configure applies [NewConfig] defaults modified by opts. With no options
// it installs a console handler at INFO.
func (m *Manager) Configure(opts ...Option) error {
	cfg := NewConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	return m.Apply(cfg)
}

// Apply validates cfg, builds a [Formatter] and [Handler] from it, installs
// the handler and sets the level of both loggers.
//
// Validation and handler construction happen before anything is changed: on
// error the previous configuration stays in effect, except when only the
// replaced handler failed to close.
func (m *Manager) Apply(cfg *Config) error {
	if cfg == nil {
		cfg = NewConfig()
	}

	lvl, err := ParseLevel(cfg.Level)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}

	if cfg.BackupCount < 0 {
		return fmt.Errorf("%w: negative backup count %d", ErrInvalidArgument, cfg.BackupCount)
	}

	h, err := m.newHandler(cfg)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	installErr := m.install(h)

	m.root.SetLevel(lvl)
	m.control.SetLevel(lvl)

	return installErr
}

// newHandler builds the handler described by cfg. Color is only enabled for
// console output to a terminal.
func (m *Manager) newHandler(cfg *Config) (Handler, error) {
	opts := FormatterOptions{
		DateFormat: cfg.DateFormat,
	}

	if cfg.File == "" {
		stream := cfg.Stream
		if stream == nil {
			stream = m.stream
		}

		opts.Color = cfg.Color && isTerminal(stream)

		h := NewStreamHandler(stream)
		h.SetFormatter(NewFormatter(opts))

		return h, nil
	}

	rotation := DefaultRotation
	if cfg.Rotation != "" {
		r, err := ParseRotation(cfg.Rotation)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
		}

		rotation = r
	}

	h, err := NewRotatingFileHandler(cfg.File, RotatingFileOptions{
		Rotation:    rotation,
		BackupCount: cfg.BackupCount,
	})
	if err != nil {
		return nil, err
	}

	h.SetFormatter(NewFormatter(opts))

	return h, nil
}

// Reset uninstalls the current handler and clears the levels of both
// loggers, returning m to the never-configured state.
func (m *Manager) Reset() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.root.SetLevel(LevelNotSet)
	m.control.SetLevel(LevelNotSet)

	return m.install(nil)
}

// Bind returns an [Adapter] on the library logger for id.
func (m *Manager) Bind(id Identifier) *Adapter {
	return NewAdapter(m.root, id)
}

// BindControl returns an [Adapter] on the control-layer logger for id.
func (m *Manager) BindControl(id Identifier) *Adapter {
	return NewAdapter(m.control, id)
}

var (
	defaultMu      sync.RWMutex
	defaultManager = NewManager()
)

// Default returns the process-wide [Manager].
func Default() *Manager {
	defaultMu.RLock()
	defer defaultMu.RUnlock()

	return defaultManager
}

// SetDefault replaces the process-wide [Manager] and returns the previous
// one. The previous manager's handler is left installed; call
// [Manager.Uninstall] on it to release it.
func SetDefault(m *Manager) *Manager {
	if m == nil {
		m = NewManager()
	}

	defaultMu.Lock()
	defer defaultMu.Unlock()

	old := defaultManager
	defaultManager = m

	return old
}

// Configure calls [Manager.Configure] on the [Default] manager.
func Configure(opts ...Option) error {
	return Default().Configure(opts...)
}

// Bind calls [Manager.Bind] on the [Default] manager.
func Bind(id Identifier) *Adapter {
	return Default().Bind(id)
}

// Reset calls [Manager.Reset] on the [Default] manager.
func Reset() error {
	return Default().Reset()
}
