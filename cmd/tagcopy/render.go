package main

import (
	"encoding/json"
	"fmt"
	"io"

	"tagcopy/internal/diag"
	"tagcopy/internal/diagfmt"
	"tagcopy/internal/driver"
	"tagcopy/internal/source"
	"tagcopy/internal/version"
)

// renderDiagnostics prints every file's diagnostics in the requested format.
func renderDiagnostics(w io.Writer, fs *source.FileSet, results []driver.FileResult, rc *runConfig, rf renderFlags, args []string) error {
	if !rc.timings {
		for i := range results {
			results[i].Bag.Filter(func(d diag.Diagnostic) bool { return d.Code != diag.ObsTimings })
		}
	}
	showFixes := rf.suggest || rf.preview

	switch rf.format {
	case "pretty":
		opts := diagfmt.PrettyOpts{
			Color:       rc.color,
			Context:     2,
			PathMode:    rf.pathMode,
			ShowNotes:   rf.withNotes,
			ShowFixes:   showFixes,
			ShowPreview: rf.preview,
		}
		for i := range results {
			if results[i].Bag.Len() == 0 {
				continue
			}
			diagfmt.Pretty(w, results[i].Bag, fs, opts)
		}
		printTally(w, results)
	case "short":
		output := diag.FormatShortDiagnostics(driver.MergeBags(results).Items(), fs, rf.withNotes)
		if output != "" {
			fmt.Fprintln(w, output)
		}
	case "json":
		jsonOpts := diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         rf.pathMode,
			IncludeNotes:     rf.withNotes,
			IncludeFixes:     showFixes,
			IncludePreviews:  rf.preview,
		}
		output := make(map[string]diagfmt.DiagnosticsOutput, len(results))
		for i := range results {
			r := &results[i]
			output[diagfmt.FilePath(fs, r.FileID, rf.pathMode)] = diagfmt.BuildDiagnosticsOutput(r.Bag, fs, jsonOpts)
		}
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(output); err != nil {
			return fmt.Errorf("failed to encode diagnostics output: %w", err)
		}
	case "sarif":
		meta := diagfmt.SarifRunMeta{
			ToolName:       "tagcopy",
			ToolVersion:    version.Version,
			InvocationArgs: args,
		}
		if err := diagfmt.Sarif(w, driver.MergeBags(results), fs, meta); err != nil {
			return fmt.Errorf("failed to format diagnostics: %w", err)
		}
	default:
		return fmt.Errorf("unknown format: %s", rf.format)
	}
	return nil
}

func printTally(w io.Writer, results []driver.FileResult) {
	var errs, warns, cached int
	for i := range results {
		errs += results[i].Bag.Count(diag.SevError)
		warns += results[i].Bag.Count(diag.SevWarning)
		if results[i].Cached {
			cached++
		}
	}
	fmt.Fprintf(w, "%d %s checked, %d %s, %d %s",
		len(results), plural(len(results), "file", "files"),
		errs, plural(errs, "error", "errors"),
		warns, plural(warns, "warning", "warnings"))
	if cached > 0 {
		fmt.Fprintf(w, " (%d cached)", cached)
	}
	fmt.Fprintln(w)
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
