package log

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"
)

// Rotation is the interval at which a [RotatingFileHandler] starts a new
// file.
type Rotation string

const (
	// RotationHourly rolls at the top of every hour.
	RotationHourly Rotation = "hourly"
	// RotationMidnight rolls at local midnight.
	RotationMidnight Rotation = "midnight"
	// RotationWeekly rolls at local midnight between Sunday and Monday.
	RotationWeekly Rotation = "weekly"
)

// ParseRotation parses a rotation interval name.
func ParseRotation(s string) (Rotation, error) {
	r := Rotation(strings.ToLower(s))
	if slices.Contains([]Rotation{RotationHourly, RotationMidnight, RotationWeekly}, r) {
		return r, nil
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownRotation, s)
}

// GetAllRotationStrings returns every recognized rotation interval name.
func GetAllRotationStrings() []string {
	return []string{
		string(RotationHourly),
		string(RotationMidnight),
		string(RotationWeekly),
	}
}

// suffixLayout is the [time.Time.Format] layout appended to rolled files.
func (r Rotation) suffixLayout() string {
	if r == RotationHourly {
		return "2006-01-02_15"
	}

	return "2006-01-02"
}

// periodStart returns the start of the rotation period containing t.
func (r Rotation) periodStart(t time.Time) time.Time {
	year, month, day := t.Date()

	switch r {
	case RotationHourly:
		return time.Date(year, month, day, t.Hour(), 0, 0, 0, t.Location())
	case RotationWeekly:
		// Weeks start on Monday.
		offset := (int(t.Weekday()) + 6) % 7
		return time.Date(year, month, day-offset, 0, 0, 0, 0, t.Location())
	}

	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

// next returns the start of the period after the one beginning at start.
func (r Rotation) next(start time.Time) time.Time {
	switch r {
	case RotationHourly:
		return start.Add(time.Hour)
	case RotationWeekly:
		return start.AddDate(0, 0, 7)
	}

	return start.AddDate(0, 0, 1)
}

// RotatingFileOptions configures a [RotatingFileHandler].
type RotatingFileOptions struct {
	// Now returns the current time. Defaults to [time.Now].
	Now func() time.Time
	// Rotation is the rollover interval. Defaults to [RotationMidnight].
	Rotation Rotation
	// BackupCount is the number of rolled files to keep.
	// 0 keeps all of them.
	BackupCount int
}

// RotatingFileHandler writes records to a file and rolls it over on a time
// basis. The rolled file is renamed to "<path>.<suffix>", where the suffix
// is the start of the period it covers, and only the newest BackupCount
// rolled files are kept.
//
// Create instances with [NewRotatingFileHandler].
type RotatingFileHandler struct {
	rolloverAt  time.Time
	periodStart time.Time
	file        *os.File
	formatter   *Formatter
	now         func() time.Time
	path        string
	rotation    Rotation
	backupCount int
	mu          sync.Mutex
	closed      bool
}

// NewRotatingFileHandler opens path for appending and returns a
// [RotatingFileHandler] writing to it. The parent directory must exist.
func NewRotatingFileHandler(path string, opts RotatingFileOptions) (*RotatingFileHandler, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: empty log file path", ErrInvalidArgument)
	}

	if opts.BackupCount < 0 {
		return nil, fmt.Errorf("%w: negative backup count %d", ErrInvalidArgument, opts.BackupCount)
	}

	rotation := RotationMidnight
	if opts.Rotation != "" {
		r, err := ParseRotation(string(opts.Rotation))
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
		}

		rotation = r
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}

	h := &RotatingFileHandler{
		path:        path,
		rotation:    rotation,
		backupCount: opts.BackupCount,
		now:         now,
		formatter:   NewFormatter(FormatterOptions{}),
	}

	// An existing file belongs to the period it was last written in, so it
	// rolls under that period's suffix.
	start := now()

	info, err := os.Stat(path)
	if err == nil {
		start = info.ModTime()
	}

	err = h.open(start)
	if err != nil {
		return nil, err
	}

	return h, nil
}

// Path returns the path of the active log file.
func (h *RotatingFileHandler) Path() string {
	return h.path
}

// Rotation returns the rollover interval.
func (h *RotatingFileHandler) Rotation() Rotation {
	return h.rotation
}

// BackupCount returns the number of rolled files retained.
func (h *RotatingFileHandler) BackupCount() int {
	return h.backupCount
}

// Formatter returns the current formatter.
func (h *RotatingFileHandler) Formatter() *Formatter {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.formatter
}

// SetFormatter replaces the formatter. A nil formatter resets it to the
// default.
func (h *RotatingFileHandler) SetFormatter(f *Formatter) {
	if f == nil {
		f = NewFormatter(FormatterOptions{})
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.formatter = f
}

// Handle writes the formatted record, rolling the file over first if the
// current period has ended.
func (h *RotatingFileHandler) Handle(r Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return fmt.Errorf("write log record: %w", os.ErrClosed)
	}

	var rollErr error

	now := h.now()
	if h.file == nil {
		// A previous rollover could not reopen the file.
		err := h.open(now)
		if err != nil {
			return err
		}
	} else if !now.Before(h.rolloverAt) {
		rollErr = h.rollover(now)
		if h.file == nil {
			return rollErr
		}
	}

	_, err := h.file.WriteString(h.formatter.Format(r))
	if err != nil {
		return errors.Join(rollErr, fmt.Errorf("write log record: %w", err))
	}

	return rollErr
}

// Close closes the log file. Idempotent.
func (h *RotatingFileHandler) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil
	}

	h.closed = true

	if h.file == nil {
		return nil
	}

	err := h.file.Close()
	h.file = nil

	if err != nil {
		return fmt.Errorf("close log file: %w", err)
	}

	return nil
}

func (h *RotatingFileHandler) open(now time.Time) error {
	f, err := os.OpenFile(h.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644) //nolint:gosec // Log path is caller-provided.
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}

	h.file = f
	h.periodStart = h.rotation.periodStart(now)
	h.rolloverAt = h.rotation.next(h.periodStart)

	return nil
}

// rollover renames the active file after the period it covered, prunes old
// files and reopens path. Rename and prune failures are reported but do not
// stop the reopen. If the reopen fails, h.file stays nil and the next Handle
// retries it.
func (h *RotatingFileHandler) rollover(now time.Time) error {
	var errs []error

	err := h.file.Close()
	h.file = nil

	if err != nil {
		errs = append(errs, fmt.Errorf("close log file: %w", err))
	}

	err = h.roll()
	if err != nil {
		errs = append(errs, err)
	}

	err = h.prune()
	if err != nil {
		errs = append(errs, err)
	}

	err = h.open(now)
	if err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// roll renames the closed active file to its rolled name.
func (h *RotatingFileHandler) roll() error {
	rolled := h.path + "." + h.periodStart.Format(h.rotation.suffixLayout())

	err := os.Remove(rolled)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove rolled log file: %w", err)
	}

	err = os.Rename(h.path, rolled)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("roll log file: %w", err)
	}

	return nil
}

// prune removes the oldest rolled files beyond the backup count.
func (h *RotatingFileHandler) prune() error {
	if h.backupCount == 0 {
		return nil
	}

	rolled, err := h.RolledFiles()
	if err != nil {
		return err
	}

	if len(rolled) <= h.backupCount {
		return nil
	}

	for _, p := range rolled[:len(rolled)-h.backupCount] {
		err := os.Remove(p)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("remove old log file: %w", err)
		}
	}

	return nil
}

// RolledFiles returns the paths of rolled files belonging to this handler,
// oldest first.
func (h *RotatingFileHandler) RolledFiles() ([]string, error) {
	dir := filepath.Dir(h.path)
	prefix := filepath.Base(h.path) + "."

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list log directory: %w", err)
	}

	var rolled []string

	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, prefix) {
			continue
		}

		_, err := time.Parse(h.rotation.suffixLayout(), strings.TrimPrefix(name, prefix))
		if err != nil {
			continue
		}

		rolled = append(rolled, filepath.Join(dir, name))
	}

	// The suffix layouts sort lexically in time order.
	slices.Sort(rolled)

	return rolled, nil
}
