// Package logtest provides helpers for testing code that logs through
// [go.jacobcolvin.com/devlog/log].
package logtest

import (
	"slices"
	"strings"
	"sync"

	"go.jacobcolvin.com/devlog/log"
)

// Recorder is a [log.Handler] that keeps every record it handles along with
// its formatted output. Safe for concurrent use.
//
// Create instances with [NewRecorder].
type Recorder struct {
	formatter *log.Formatter
	records   []log.Record
	out       strings.Builder
	mu        sync.Mutex
	closed    bool
}

// NewRecorder creates a [Recorder] with a default [log.Formatter].
func NewRecorder() *Recorder {
	return &Recorder{
		formatter: log.NewFormatter(log.FormatterOptions{}),
	}
}

// Handle records r.
func (r *Recorder) Handle(rec log.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.records = append(r.records, rec)
	r.out.WriteString(r.formatter.Format(rec))

	return nil
}

// Formatter returns the current formatter.
func (r *Recorder) Formatter() *log.Formatter {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.formatter
}

// SetFormatter replaces the formatter. A nil formatter resets it to the
// default.
func (r *Recorder) SetFormatter(f *log.Formatter) {
	if f == nil {
		f = log.NewFormatter(log.FormatterOptions{})
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.formatter = f
}

// Close marks the recorder closed. Records are still accepted.
func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.closed = true

	return nil
}

// Closed reports whether Close has been called.
func (r *Recorder) Closed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.closed
}

// Records returns a copy of the handled records.
func (r *Recorder) Records() []log.Record {
	r.mu.Lock()
	defer r.mu.Unlock()

	return slices.Clone(r.records)
}

// Messages returns the message of each handled record.
func (r *Recorder) Messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	msgs := make([]string, 0, len(r.records))
	for _, rec := range r.records {
		msgs = append(msgs, rec.Message)
	}

	return msgs
}

// String returns the formatted output of every handled record.
func (r *Recorder) String() string {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.out.String()
}

// JoinLF joins multiple strings with LF line endings.
// Use this to construct expected log output with explicit line endings.
//
// Example:
//
//	want := logtest.JoinLF(
//		"[x] one",
//		"[x] two",
//	) // -> "[x] one\n[x] two"
func JoinLF(ss ...string) string {
	return strings.Join(ss, "\n")
}
