// Package app wires the command line surface: flag parsing, configuration
// resolution, logger lifecycle and the research/aggregate subcommands.
package app

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"marketscout/internal/config"
	"marketscout/internal/logger"
)

const version = "0.1.0"

// Hooks for tests.
var (
	exitFn           = os.Exit
	startupCleanupFn = logger.CleanupOldLogs
)

type exitError struct {
	code int
}

func (e exitError) Error() string {
	return fmt.Sprintf("exit %d", e.code)
}

// Run is the program entrypoint for cmd/marketscout/main.go.
func Run() {
	exitFn(run())
}

func run() int {
	cmd := newRootCommand()
	cmd.SetArgs(os.Args[1:])
	if err := cmd.Execute(); err != nil {
		var ee exitError
		if errors.As(err, &ee) {
			return ee.code
		}
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		return 1
	}
	return 0
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "marketscout",
		Short:         "Parallel AI-driven business directory research",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if config.EnvFlagEnabled("NO_COLOR") || config.EnvFlagEnabled("MARKETSCOUT_NO_COLOR") {
				color.NoColor = true
			}
		},
	}
	cmd.CompletionOptions.DisableDefaultCmd = true

	cmd.AddCommand(
		newResearchCommand(),
		newAggregateCommand(),
		newCheckCommand(),
		newInitTargetCommand(),
		newVersionCommand(),
		newCleanupCommand(),
	)

	return cmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:           "version",
		Short:         "Print version and exit",
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Printf("marketscout version %s\n", version)
			return nil
		},
	}
}

func newCleanupCommand() *cobra.Command {
	return &cobra.Command{
		Use:           "cleanup",
		Short:         "Clean up stale log files and exit",
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			stats, err := logger.CleanupOldLogs()
			if err != nil {
				fmt.Fprintf(os.Stderr, "ERROR: cleanup failed: %v\n", err)
				return exitError{code: 1}
			}
			fmt.Printf("Scanned %d log files: deleted %d, kept %d, errors %d\n",
				stats.Scanned, stats.Deleted, stats.Kept, stats.Errors)
			return nil
		},
	}
}

// runWithLoggerAndCleanup wraps a command body with the logger lifecycle:
// install a per-run file logger, sweep stale logs from dead processes, and on
// a failed run replay recent errors to stderr before removing the log file.
func runWithLoggerAndCleanup(fn func() int) (exitCode int) {
	log, err := logger.NewLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: failed to initialize logger: %v\n", err)
		return 1
	}
	logger.SetLogger(log)

	defer func() {
		log := logger.ActiveLogger()
		if log != nil {
			log.Flush()
		}
		if err := logger.CloseLogger(); err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: failed to close logger: %v\n", err)
		}
		if log == nil {
			return
		}

		if exitCode != 0 {
			if entries := log.ExtractRecentErrors(10); len(entries) > 0 {
				fmt.Fprintln(os.Stderr, "\n=== Recent Errors ===")
				for _, entry := range entries {
					fmt.Fprintln(os.Stderr, entry)
				}
				fmt.Fprintf(os.Stderr, "Log file: %s (deleted)\n", log.Path())
			}
		}
		_ = log.RemoveLogFile()
	}()

	if _, err := startupCleanupFn(); err != nil {
		logger.LogWarn(fmt.Sprintf("Stale log cleanup failed: %v", err))
	}

	return fn()
}
