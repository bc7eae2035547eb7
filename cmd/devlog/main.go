// Package main provides the devlog CLI, which drives the device logging
// configuration from flags and config files.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"go.jacobcolvin.com/devlog/device"
	"go.jacobcolvin.com/devlog/log"
	"go.jacobcolvin.com/devlog/version"
)

// ErrInvalidLevels indicates that validate was given unknown level names.
var ErrInvalidLevels = errors.New("invalid levels")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := newRootCmd(os.Stdout, os.Stderr, log.Default()).ExecuteContext(ctx)

	stop()

	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

// rootOptions holds the settings shared by every subcommand.
type rootOptions struct {
	cfg        *log.Config
	manager    *log.Manager
	configPath string
	watch      bool
}

func newRootCmd(stdout, stderr io.Writer, m *log.Manager) *cobra.Command {
	opts := &rootOptions{
		cfg:     log.NewConfig(),
		manager: m,
	}
	opts.cfg.Stream = stderr

	rootCmd := &cobra.Command{
		Use:   "devlog",
		Short: "Configure and exercise device library logging",
		Long: `devlog configures the device library's logging from flags or a YAML/TOML
config file and emits records through device objects, so a logging setup can
be checked before it is deployed.`,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	flags := rootCmd.PersistentFlags()
	opts.cfg.RegisterFlags(flags)
	flags.StringVar(&opts.configPath, "config", "", "YAML or TOML logging config file")
	flags.BoolVar(&opts.watch, "watch", false, "re-apply the config file when it changes")

	completionErr := opts.cfg.RegisterCompletions(rootCmd)
	if completionErr != nil {
		fmt.Fprintf(stderr, "register completions: %v\n", completionErr)
	}

	rootCmd.AddCommand(
		newEmitCmd(opts),
		newValidateCmd(),
		newSchemaCmd(),
		newVersionCmd(),
	)

	return rootCmd
}

// configure applies the flags, merged with the config file when one is
// given.
func (o *rootOptions) configure(cmd *cobra.Command) error {
	cfg := *o.cfg

	if o.configPath != "" {
		fc, err := log.LoadConfigFile(o.configPath)
		if err != nil {
			return err
		}

		cfg.ApplyFile(fc, cmd.Flags())
	}

	err := o.manager.Apply(&cfg)
	if err != nil {
		return fmt.Errorf("configure logging: %w", err)
	}

	return nil
}

type emitOptions struct {
	object   string
	level    string
	interval time.Duration
	finish   bool
}

func newEmitCmd(root *rootOptions) *cobra.Command {
	opts := &emitOptions{}

	cmd := &cobra.Command{
		Use:   "emit [flags] <message> [message ...]",
		Short: "Emit messages through a device object",
		Long: `Emit configures logging and logs each message through a device object, so
every line carries the object's name. With --finish, a status for the object
is finished afterwards and logs its own state.

With --watch, messages are re-emitted every --interval until interrupted while
the config file is re-applied on change.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEmit(cmd, root, opts, args)
		},
	}

	cmd.Flags().StringVar(&opts.object, "object", "device", "name of the emitting object")
	cmd.Flags().StringVar(&opts.level, "at", "INFO", "level to emit messages at")
	cmd.Flags().DurationVar(&opts.interval, "interval", time.Second, "emit interval with --watch")
	cmd.Flags().BoolVar(&opts.finish, "finish", false, "finish a status for the object after emitting")

	cobra.CheckErr(cmd.RegisterFlagCompletionFunc("at",
		cobra.FixedCompletions(log.GetAllLevelStrings(), cobra.ShellCompDirectiveNoFileComp)))

	return cmd
}

func runEmit(cmd *cobra.Command, root *rootOptions, opts *emitOptions, args []string) error {
	lvl, err := log.ParseLevel(opts.level)
	if err != nil {
		return fmt.Errorf("--at: %w", err)
	}

	if root.watch && root.configPath == "" {
		return fmt.Errorf("%w: --watch requires --config", log.ErrInvalidArgument)
	}

	err = root.configure(cmd)
	if err != nil {
		return err
	}

	obj := device.NewObject(opts.object, device.WithManager(root.manager))

	emit := func() error {
		for _, msg := range args {
			logErr := obj.Log().Log(lvl, "%s", msg)
			if logErr != nil {
				return fmt.Errorf("emit: %w", logErr)
			}
		}

		return nil
	}

	if !root.watch {
		err = emit()
		if err != nil {
			return err
		}

		if !opts.finish {
			return nil
		}

		st := device.NewStatus(device.WithObject(obj), device.WithManager(root.manager))

		return st.Finished(true)
	}

	return watchAndEmit(cmd.Context(), root, cmd, opts.interval, emit)
}

func watchAndEmit(ctx context.Context, root *rootOptions, cmd *cobra.Command, interval time.Duration, emit func() error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	base := *root.cfg

	var (
		wg       sync.WaitGroup
		watchErr error
	)

	wg.Go(func() {
		watchErr = root.manager.WatchConfigFile(ctx, root.configPath, &base, cmd.Flags())
		cancel()
	})

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var err error

loop:
	for {
		err = emit()
		if err != nil {
			break
		}

		select {
		case <-ctx.Done():
			break loop
		case <-ticker.C:
		}
	}

	cancel()
	wg.Wait()

	return errors.Join(err, watchErr)
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <level> [level ...]",
		Short: "Check level names",
		Long:  `Validate reports whether each argument is a recognized level name. Names are case-sensitive.`,
		Args:  cobra.MinimumNArgs(1),
		ValidArgsFunction: func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
			return log.GetAllLevelStrings(), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			var invalid []string

			for _, arg := range args {
				err := log.ValidateLevel(arg)
				if err != nil {
					fmt.Fprintf(cmd.OutOrStdout(), "%s: %v\n", arg, err)
					invalid = append(invalid, arg)

					continue
				}

				fmt.Fprintf(cmd.OutOrStdout(), "%s: ok\n", arg)
			}

			if len(invalid) > 0 {
				return fmt.Errorf("%w: %s", ErrInvalidLevels, strings.Join(invalid, ", "))
			}

			return nil
		},
	}
}

func newSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema of the logging config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			schema, err := log.ConfigSchema()
			if err != nil {
				return err
			}

			out, err := json.MarshalIndent(schema, "", "  ")
			if err != nil {
				return fmt.Errorf("encode schema: %w", err)
			}

			out = append(out, '\n')

			_, err = cmd.OutOrStdout().Write(out)
			if err != nil {
				return fmt.Errorf("write schema: %w", err)
			}

			return nil
		},
	}
}

func newVersionCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := version.Get()

			if !asJSON {
				fmt.Fprintln(cmd.OutOrStdout(), info.String())
				return nil
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")

			err := enc.Encode(info)
			if err != nil {
				return fmt.Errorf("encode version: %w", err)
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")

	return cmd
}
