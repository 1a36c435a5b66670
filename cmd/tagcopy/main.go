package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"tagcopy/internal/buildpipeline"
	"tagcopy/internal/observ"
	"tagcopy/internal/prof"
	"tagcopy/internal/version"
)

// newRootCmd builds the command tree. Tests get a fresh tree per run.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "tagcopy",
		Short: "CHERI tag-preservation checker for memory transfers",
		Long: `tagcopy classifies memcpy/memmove calls in .cap scenarios as tag-preserving,
non-tag-preserving or undecided, and validates alignment builtins`,
		Version:           version.Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: setupRun,
		PersistentPostRunE: func(*cobra.Command, []string) error {
			_ = observ.Logger().Sync()
			return stopProfiling()
		},
	}

	// Глобальные флаги
	pf := root.PersistentFlags()
	pf.String("log-level", "warn", "log level (debug|info|warn|error)")
	pf.Bool("log-dev", false, "human-readable console logs")
	pf.String("color", "auto", "colorize output (auto|on|off)")
	pf.String("manifest", "", "project manifest (default: search upwards from the first path)")
	pf.String("target", "", "target for files without a target declaration")
	pf.Int("jobs", 0, "max parallel workers (0=auto)")
	pf.Int("max-diagnostics", 100, "maximum number of diagnostics per file")
	pf.Bool("werror", false, "treat warnings as errors")
	pf.String("cache-dir", "", "disk cache directory (default: $XDG_CACHE_HOME/tagcopy)")
	pf.Bool("no-cache", false, "disable the disk cache")
	pf.Bool("timings", false, "show timing information")
	pf.String("cpu-profile", "", "write a CPU profile to file")
	pf.String("mem-profile", "", "write a heap profile to file on exit")
	pf.String("runtime-trace", "", "write a runtime trace to file")

	root.AddCommand(
		newCheckCmd(),
		newEmitCmd(),
		newExplainCmd(),
		newFixCmd(),
		newTokenizeCmd(),
		newWatchCmd(),
		newInitCmd(),
		newVersionCmd(),
	)
	return root
}

// profiling is the active profiler session; PostRun skips on errors, so main stops it too.
var profiling *prof.Session

func setupRun(cmd *cobra.Command, _ []string) error {
	level, err := cmd.Flags().GetString("log-level")
	if err != nil {
		return fmt.Errorf("failed to get log-level flag: %w", err)
	}
	dev, err := cmd.Flags().GetBool("log-dev")
	if err != nil {
		return fmt.Errorf("failed to get log-dev flag: %w", err)
	}
	logger, err := observ.NewLogger(level, dev)
	if err != nil {
		return err
	}
	observ.SetLogger(logger)

	var opts prof.Options
	if opts.CPU, err = cmd.Flags().GetString("cpu-profile"); err != nil {
		return fmt.Errorf("failed to get cpu-profile flag: %w", err)
	}
	if opts.Mem, err = cmd.Flags().GetString("mem-profile"); err != nil {
		return fmt.Errorf("failed to get mem-profile flag: %w", err)
	}
	if opts.Trace, err = cmd.Flags().GetString("runtime-trace"); err != nil {
		return fmt.Errorf("failed to get runtime-trace flag: %w", err)
	}
	if opts.Enabled() {
		if profiling, err = prof.Start(opts); err != nil {
			return err
		}
	}
	return nil
}

func stopProfiling() error {
	err := profiling.Stop()
	profiling = nil
	return err
}

// main runs the CLI and exits with status 1 on any failure. Diagnostics have
// already been printed when a command fails with ErrDiagnostics.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if perr := stopProfiling(); perr != nil {
		fmt.Fprintln(os.Stderr, "error:", perr)
	}
	if err == nil {
		return
	}
	if !errors.Is(err, buildpipeline.ErrDiagnostics) {
		fmt.Fprintln(os.Stderr, "error:", err)
	}
	os.Exit(1)
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
