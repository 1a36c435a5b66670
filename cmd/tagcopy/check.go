package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"tagcopy/internal/buildpipeline"
	"tagcopy/internal/driver"
)

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [flags] [file.cap|directory]...",
		Short: "Classify memory transfers and validate alignment builtins",
		Long: `Check parses every .cap scenario, classifies each memcpy/memmove, validates
alignment builtins and reports diagnostics. Without arguments the manifest's
sources (or the current directory) are checked.`,
		RunE: runCheck,
	}
	addRenderFlags(cmd)
	return cmd
}

func runCheck(cmd *cobra.Command, args []string) error {
	rf, err := readRenderFlags(cmd)
	if err != nil {
		return err
	}
	rc, err := loadRunConfig(cmd, args)
	if err != nil {
		return err
	}
	return checkOnce(cmd, rc, rf, args)
}

func checkOnce(cmd *cobra.Command, rc *runConfig, rf renderFlags, args []string) error {
	fs, results, err := driver.CheckPaths(cmd.Context(), rc.paths, &rc.opts)
	if err != nil {
		return fmt.Errorf("check failed: %w", err)
	}
	if err := renderDiagnostics(cmd.OutOrStdout(), fs, results, rc, rf, args); err != nil {
		return err
	}
	if driver.AnyFailed(results) {
		return buildpipeline.ErrDiagnostics
	}
	return nil
}
