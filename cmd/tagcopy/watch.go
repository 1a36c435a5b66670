package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"tagcopy/internal/buildpipeline"
	"tagcopy/internal/observ"
	"tagcopy/internal/watch"
)

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [flags] [directory]",
		Short: "Re-run check whenever a scenario or the manifest changes",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runWatch,
	}
	addRenderFlags(cmd)
	cmd.Flags().Duration("debounce", watch.DefaultDebounce, "quiet period before re-running")
	return cmd
}

func runWatch(cmd *cobra.Command, args []string) error {
	rf, err := readRenderFlags(cmd)
	if err != nil {
		return err
	}
	debounce, err := cmd.Flags().GetDuration("debounce")
	if err != nil {
		return fmt.Errorf("failed to get debounce flag: %w", err)
	}
	rc, err := loadRunConfig(cmd, args)
	if err != nil {
		return err
	}

	root := rc.baseDir
	if len(args) > 0 {
		root = args[0]
		if st, statErr := os.Stat(root); statErr == nil && !st.IsDir() {
			root = filepath.Dir(root)
		}
	}
	w, err := watch.New(root, debounce)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	rerun := func() {
		err := checkOnce(cmd, rc, rf, args)
		if err != nil && !errors.Is(err, buildpipeline.ErrDiagnostics) {
			fmt.Fprintln(cmd.ErrOrStderr(), "error:", err)
		}
	}
	rerun()
	fmt.Fprintf(out, "watching %s (ctrl-c to stop)\n", w.Root())

	return w.Run(cmd.Context(), func(_ context.Context, changed []string) {
		observ.Logger().Info("rerun", zap.Strings("changed", changed))
		// правки манифеста меняют конфигурацию целиком
		next, err := loadRunConfig(cmd, args)
		if err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), "error:", err)
			return
		}
		rc = next
		fmt.Fprintf(out, "\n-- %s: %d changed --\n", time.Now().Format(time.TimeOnly), len(changed))
		rerun()
	})
}
