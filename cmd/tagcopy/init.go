package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"tagcopy/internal/project"
	"tagcopy/internal/version"
)

func newInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init [path|name]",
		Short: "Initialize a new tagcopy project",
		Long: `Initialize a new tagcopy project by creating a manifest (tagcopy.toml or
tagcopy.yaml) and an example scenario (example.cap). If [path|name] is omitted,
initializes the current directory.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runInit,
	}
	cmd.Flags().String("manifest-format", "toml", "manifest format (toml|yaml)")
	return cmd
}

func runInit(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("manifest-format")
	if err != nil {
		return fmt.Errorf("failed to get manifest-format flag: %w", err)
	}

	wd, err := os.Getwd()
	if err != nil {
		return err
	}
	target := wd
	if len(args) == 1 && args[0] != "." {
		target = args[0]
		if !filepath.IsAbs(target) {
			target = filepath.Join(wd, target)
		}
	}

	res, err := project.Scaffold(target, "^"+version.Version, project.Format(format))
	if err != nil {
		return err
	}

	rel := target
	if r, err := filepath.Rel(wd, target); err == nil {
		rel = r
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Initialized tagcopy project in %s\n", rel)
	fmt.Fprintf(out, "  - %s\n", filepath.Base(res.Manifest))
	if res.ExampleExists {
		fmt.Fprintf(out, "  - %s (existing)\n", filepath.Base(res.Example))
	} else {
		fmt.Fprintf(out, "  - %s\n", filepath.Base(res.Example))
	}
	return nil
}
