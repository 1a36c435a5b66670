package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"tagcopy/internal/layout"
	"tagcopy/internal/version"
)

type versionPayload struct {
	Tool      string   `json:"tool"`
	Version   string   `json:"version"`
	GitCommit string   `json:"git_commit,omitempty"`
	BuildDate string   `json:"build_date,omitempty"`
	Targets   []string `json:"targets"`
}

func newVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show tagcopy build information",
		RunE:  runVersion,
	}
	cmd.Flags().String("format", "pretty", "output format (pretty|json)")
	return cmd
}

func runVersion(cmd *cobra.Command, _ []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	out := cmd.OutOrStdout()
	switch strings.ToLower(format) {
	case "pretty":
		colorFlag, _ := cmd.Flags().GetString("color")
		colored := colorFlag == "on" || (colorFlag == "auto" && isTerminal(os.Stdout))
		fmt.Fprintln(out, version.String(colored))
		fmt.Fprintf(out, "targets: %s\n", strings.Join(layout.TargetNames(), ", "))
		return nil
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(versionPayload{
			Tool:      "tagcopy",
			Version:   version.Version,
			GitCommit: version.GitCommit,
			BuildDate: version.BuildDate,
			Targets:   layout.TargetNames(),
		})
	default:
		return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
	}
}
