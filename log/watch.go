package log

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/pflag"
)

const reloadDebounce = 100 * time.Millisecond

// WatchConfigFile applies the config file at path on top of base, then
// re-applies it whenever the file is written or recreated, until ctx is
// done. Flags explicitly set on flags keep precedence over file values, as
// with [Config.ApplyFile].
//
// Load and apply failures are logged at ERROR on the control logger and the
// previous configuration stays in effect. Only a failure to set up the
// watch is returned.
func (m *Manager) WatchConfigFile(ctx context.Context, path string, base *Config, flags *pflag.FlagSet) error {
	if base == nil {
		base = NewConfig()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create config watcher: %w", err)
	}
	defer watcher.Close() //nolint:errcheck // Nothing to do on close failure.

	// Watch the directory so editors that replace the file are seen.
	err = watcher.Add(filepath.Dir(path))
	if err != nil {
		return fmt.Errorf("watch %s: %w", path, err)
	}

	target := filepath.Clean(path)
	m.reload(target, base, flags)

	var pending <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if filepath.Clean(event.Name) != target {
				continue
			}

			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}

			pending = time.After(reloadDebounce)

		case <-pending:
			pending = nil

			m.reload(target, base, flags)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}

			m.logControl(LevelError, "config watcher: %v", err)
		}
	}
}

func (m *Manager) reload(path string, base *Config, flags *pflag.FlagSet) {
	fc, err := LoadConfigFile(path)
	if err != nil {
		m.logControl(LevelError, "config watcher: %v", err)
		return
	}

	cfg := *base
	cfg.ApplyFile(fc, flags)

	err = m.Apply(&cfg)
	if err != nil {
		m.logControl(LevelError, "config watcher: apply %s: %v", path, err)
		return
	}

	m.logControl(LevelDebug, "config watcher: applied %s", path)
}

func (m *Manager) logControl(lvl Level, format string, args ...any) {
	//nolint:errcheck // Nowhere to report a failure to log.
	m.control.Log(lvl, format, args...)
}
