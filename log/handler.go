package log

import (
	"fmt"
	"io"
	"os"
	"sync"

	"golang.org/x/term"
)

// Handler is a sink for formatted log records.
//
// Implementations must be safe for concurrent use; [Logger] calls Handle
// from whichever goroutine emits the record.
type Handler interface {
	// Handle formats and writes r.
	Handle(r Record) error
	// Formatter returns the formatter used by Handle.
	Formatter() *Formatter
	// SetFormatter replaces the formatter used by Handle.
	SetFormatter(f *Formatter)
	// Close releases any resources held by the handler.
	Close() error
}

// StreamHandler writes records to an [io.Writer], typically a console.
//
// Create instances with [NewStreamHandler].
type StreamHandler struct {
	w         io.Writer
	formatter *Formatter
	mu        sync.Mutex
}

// NewStreamHandler creates a [StreamHandler] writing to w with a default
// [Formatter].
func NewStreamHandler(w io.Writer) *StreamHandler {
	return &StreamHandler{
		w:         w,
		formatter: NewFormatter(FormatterOptions{}),
	}
}

// Writer returns the destination stream.
func (h *StreamHandler) Writer() io.Writer {
	return h.w
}

// Handle writes the formatted record to the stream.
func (h *StreamHandler) Handle(r Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := io.WriteString(h.w, h.formatter.Format(r))
	if err != nil {
		return fmt.Errorf("write log record: %w", err)
	}

	return nil
}

// Formatter returns the current formatter.
func (h *StreamHandler) Formatter() *Formatter {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.formatter
}

// SetFormatter replaces the formatter. A nil formatter resets it to the
// default.
func (h *StreamHandler) SetFormatter(f *Formatter) {
	if f == nil {
		f = NewFormatter(FormatterOptions{})
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.formatter = f
}

// Close is a no-op. The stream belongs to the caller and is left open.
func (h *StreamHandler) Close() error {
	return nil
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}

	return term.IsTerminal(int(f.Fd())) //nolint:gosec // File descriptors fit in an int.
}
