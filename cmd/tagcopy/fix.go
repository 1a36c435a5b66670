package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"tagcopy/internal/driver"
	"tagcopy/internal/fix"
)

func newFixCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fix [flags] [file.cap|directory]...",
		Short: "Apply suggested fixes, such as aligning underaligned copy destinations",
		RunE:  runFix,
	}
	cmd.Flags().Bool("once", false, "apply only the first fix in source order")
	cmd.Flags().Bool("dry-run", false, "show what would change without writing files")
	return cmd
}

func runFix(cmd *cobra.Command, args []string) error {
	once, err := cmd.Flags().GetBool("once")
	if err != nil {
		return fmt.Errorf("failed to get once flag: %w", err)
	}
	dryRun, err := cmd.Flags().GetBool("dry-run")
	if err != nil {
		return fmt.Errorf("failed to get dry-run flag: %w", err)
	}
	rc, err := loadRunConfig(cmd, args)
	if err != nil {
		return err
	}
	// вердикт werror не должен мешать собирать исправления
	rc.opts.WarningsAsErrors = false

	fs, results, err := driver.CheckPaths(cmd.Context(), rc.paths, &rc.opts)
	if err != nil {
		return fmt.Errorf("fix failed: %w", err)
	}

	opts := fix.ApplyOptions{Mode: fix.ApplyModeAll, DryRun: dryRun}
	if once {
		opts.Mode = fix.ApplyModeOnce
	}
	res, err := fix.Apply(fs, driver.MergeBags(results).Items(), opts)
	out := cmd.OutOrStdout()
	if errors.Is(err, fix.ErrNoFixes) {
		fmt.Fprintln(out, "no applicable fixes found")
		return nil
	}
	if err != nil {
		return err
	}

	for _, a := range res.Applied {
		fmt.Fprintf(out, "%s: %s [%s]\n", a.PrimaryPath, a.Title, a.Code.ID())
	}
	for _, s := range res.Skipped {
		fmt.Fprintf(cmd.ErrOrStderr(), "skipped %s: %s\n", s.ID, s.Reason)
	}
	verb := "updated"
	if dryRun {
		verb = "would update"
	}
	for _, ch := range res.FileChanges {
		fmt.Fprintf(out, "%s %s (%d %s)\n", verb, ch.Path, ch.EditCount, plural(ch.EditCount, "edit", "edits"))
	}
	return nil
}
