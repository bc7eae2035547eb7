// Package log configures logging for the device library and tags records
// with the identity of the object that emitted them.
//
// A [Manager] owns a two-level logger hierarchy: the library logger
// ([LibraryLoggerName]) and the control-layer logger ([ControlLoggerName])
// beneath it. A logger without its own level inherits the level of its
// nearest ancestor; see [Logger.EffectiveLevel].
//
// [Manager.Configure] validates a level name, builds a [Formatter] and a
// [Handler] (console or time-rotated file), and installs the handler in
// place of the previous one, so there is never more than one:
//
//	err := log.Configure(
//	    log.WithLevel("DEBUG"),
//	    log.WithFile("device.log"),
//	    log.WithBackupCount(10),
//	)
//
// Called with no options it installs a console handler at INFO. Color is
// only used on interactive terminals and never in files.
//
// Objects log through an [Adapter], which prefixes every message with the
// object's identity as it is at the moment of the call:
//
//	type Motor struct{ name string }
//
//	func (m *Motor) LogIdentity() (string, error) { return m.name, nil }
//
//	a := log.Bind(&Motor{name: "x"})
//	a.Info("moved to %d", 5) // 12:00:00 INFO [x] moved to 5
//
// [Config] integrates with [github.com/spf13/pflag] and
// [github.com/spf13/cobra], and [LoadConfigFile] reads the same settings
// from YAML or TOML:
//
//	cfg := log.NewConfig()
//	cfg.RegisterFlags(rootCmd.PersistentFlags())
//	cfg.RegisterCompletions(rootCmd)
//
//	err := log.Default().Apply(cfg)
//
// Code using [log/slog] can share the hierarchy through [Logger.Handler].
package log
