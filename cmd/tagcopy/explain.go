package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"tagcopy/internal/buildpipeline"
	"tagcopy/internal/diagfmt"
	"tagcopy/internal/driver"
)

func newExplainCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "explain [flags] [file.cap|directory]...",
		Short: "Show how every transfer and alignment builtin was decided",
		Long: `Explain prints, per file, the classification of each memory transfer (source
evidence, rule, disposition and emitted attribute) and the outcome of each
alignment builtin call.`,
		RunE: runExplain,
	}
	cmd.Flags().String("format", "table", "output format (table|json)")
	cmd.Flags().String("path-mode", "auto", "file path display (auto|absolute|relative|basename)")
	return cmd
}

func runExplain(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	if format != "table" && format != "json" {
		return fmt.Errorf("unknown format: %s", format)
	}
	modeFlag, err := cmd.Flags().GetString("path-mode")
	if err != nil {
		return fmt.Errorf("failed to get path-mode flag: %w", err)
	}
	mode, ok := diagfmt.ParsePathMode(modeFlag)
	if !ok {
		return fmt.Errorf("unknown path mode: %s", modeFlag)
	}
	rc, err := loadRunConfig(cmd, args)
	if err != nil {
		return err
	}

	fs, results, err := driver.CheckPaths(cmd.Context(), rc.paths, &rc.opts)
	if err != nil {
		return fmt.Errorf("explain failed: %w", err)
	}

	out := cmd.OutOrStdout()
	if format == "json" {
		payload := make(map[string]driver.Summary, len(results))
		for i := range results {
			payload[diagfmt.FilePath(fs, results[i].FileID, mode)] = results[i].Summary
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(payload); err != nil {
			return fmt.Errorf("failed to encode summary: %w", err)
		}
	} else {
		for i := range results {
			if i > 0 {
				fmt.Fprintln(out)
			}
			writeExplanation(out, diagfmt.FilePath(fs, results[i].FileID, mode), &results[i].Summary)
		}
	}
	if driver.AnyFailed(results) {
		fmt.Fprintln(cmd.ErrOrStderr(), "some files have errors; run `tagcopy check` for details")
		return buildpipeline.ErrDiagnostics
	}
	return nil
}

var headerStyle = lipgloss.NewStyle().Bold(true)

func writeExplanation(w io.Writer, path string, sum *driver.Summary) {
	target := sum.Target
	if target == "" {
		target = "-"
	}
	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("== %s (target %s) ==", path, target)))

	if len(sum.Transfers) == 0 {
		fmt.Fprintln(w, "no memory transfers")
	} else {
		rows := make([][]string, 0, len(sum.Transfers))
		for _, tr := range sum.Transfers {
			op := tr.Op
			if tr.Implicit {
				op += " (implicit)"
			}
			warn := ""
			if tr.Warned {
				warn = "CG9001"
			}
			rows = append(rows, []string{
				position(tr.Line, tr.Col), tr.Func, op,
				tr.Source, tr.SourceWhy, strconv.Itoa(tr.DstAlign), tr.Length,
				tr.Rule, tr.Disposition, tr.Attribute, warn,
			})
		}
		t := table.New().
			Border(lipgloss.NormalBorder()).
			Headers("AT", "FUNC", "OP", "SOURCE", "EVIDENCE", "DST ALIGN", "LEN", "RULE", "DISPOSITION", "ATTRIBUTE", "WARN").
			Rows(rows...)
		fmt.Fprintln(w, t.Render())
	}

	if len(sum.AlignCalls) > 0 {
		rows := make([][]string, 0, len(sum.AlignCalls))
		for _, ac := range sum.AlignCalls {
			rows = append(rows, []string{position(ac.Line, ac.Col), ac.Func, ac.Builtin, ac.Outcome})
		}
		t := table.New().
			Border(lipgloss.NormalBorder()).
			Headers("AT", "FUNC", "BUILTIN", "OUTCOME").
			Rows(rows...)
		fmt.Fprintln(w, t.Render())
	}

	if len(sum.Instantiations) > 0 {
		fmt.Fprintln(w, "instantiations:")
		for _, inst := range sum.Instantiations {
			fmt.Fprintf(w, "  %s\n", inst)
		}
	}
	fmt.Fprintf(w, "%d transfers, %d underaligned destinations, %d alignment builtins\n",
		len(sum.Transfers), sum.Warnings(), len(sum.AlignCalls))
}

func position(line, col uint32) string {
	return fmt.Sprintf("%d:%d", line, col)
}
