package buildpipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"tagcopy/internal/driver"
	"tagcopy/internal/observ"
	"tagcopy/internal/source"
)

// ErrDiagnostics is returned when at least one file reported errors.
var ErrDiagnostics = errors.New("diagnostics reported errors")

// Request configures one pipeline run.
type Request struct {
	Paths []string
	// OutDir receives one .ll file per input; empty disables writing.
	OutDir   string
	BaseDir  string
	Options  driver.Options
	Progress ProgressSink
}

// Result captures per-file artefacts and stage timings.
type Result struct {
	FileSet *source.FileSet
	Files   []driver.FileResult
	Outputs []string
	Timings Timings
}

// Files lists the display names of the inputs the request covers, in run order.
func (r *Request) Files() ([]string, error) {
	paths, err := driver.ListSources(r.Paths)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = displayName(p, r.BaseDir)
	}
	return out, nil
}

var phaseStages = map[string]Stage{
	driver.PhaseParse: StageParse,
	driver.PhaseSema:  StageCheck,
	driver.PhaseEmit:  StageEmit,
}

// Run checks every input, emits IR when OutDir is set and reports progress.
func Run(ctx context.Context, req *Request) (Result, error) {
	var result Result
	if req == nil {
		return result, fmt.Errorf("missing pipeline request")
	}
	if len(req.Paths) == 0 {
		return result, fmt.Errorf("no input paths")
	}
	files, err := req.Files()
	if err != nil {
		return result, err
	}
	emitQueued(req.Progress, files)

	opts := req.Options
	opts.EnableTimings = true
	opts.EmitIR = opts.EmitIR || req.OutDir != ""
	if opts.BaseDir == "" {
		opts.BaseDir = req.BaseDir
	}
	inner := opts.PhaseObserver
	opts.PhaseObserver = func(ev driver.PhaseEvent) {
		if inner != nil {
			inner(ev)
		}
		stage, ok := phaseStages[ev.Name]
		if !ok || ev.Status != driver.PhaseStart || req.Progress == nil {
			return
		}
		req.Progress.OnEvent(Event{File: displayName(ev.File, req.BaseDir), Stage: stage, Status: StatusWorking})
	}

	fs, results, err := driver.CheckPaths(ctx, req.Paths, &opts)
	result.FileSet = fs
	result.Files = results
	if err != nil {
		emitStage(req.Progress, files, StageCheck, StatusError, err)
		return result, err
	}
	recordTimings(&result)

	failed := false
	for i := range results {
		r := &results[i]
		name := displayName(r.Path, req.BaseDir)
		stats := fileStats(r)
		if r.Failed() {
			failed = true
			req.progress(Event{File: name, Stage: StageCheck, Status: StatusError, Err: ErrDiagnostics, Stats: stats})
			continue
		}
		if req.OutDir == "" {
			req.progress(Event{File: name, Stage: StageCheck, Status: StatusDone, Stats: stats})
			continue
		}
		start := time.Now()
		req.progress(Event{File: name, Stage: StageWrite, Status: StatusWorking})
		out, err := writeModule(req.OutDir, name, r.IR)
		elapsed := time.Since(start)
		result.Timings.Add(StageWrite, elapsed)
		if err != nil {
			req.progress(Event{File: name, Stage: StageWrite, Status: StatusError, Err: err, Elapsed: elapsed})
			return result, err
		}
		observ.Logger().Debug("wrote module", zap.String("file", name), zap.String("out", out))
		result.Outputs = append(result.Outputs, out)
		req.progress(Event{File: name, Stage: StageWrite, Status: StatusDone, Elapsed: elapsed, Stats: stats})
	}

	if failed {
		return result, ErrDiagnostics
	}
	return result, nil
}

func (r *Request) progress(ev Event) {
	if r.Progress != nil {
		r.Progress.OnEvent(ev)
	}
}

// writeModule stores ir under outDir, mirroring the input's display path.
func writeModule(outDir, name, ir string) (string, error) {
	rel := strings.TrimSuffix(name, driver.SourceExt) + ".ll"
	if filepath.IsAbs(rel) || strings.HasPrefix(rel, "..") {
		rel = filepath.Base(rel)
	}
	out := filepath.Join(outDir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(out, []byte(ir), 0o600); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", out, err)
	}
	return out, nil
}

func fileStats(r *driver.FileResult) *FileStats {
	return &FileStats{
		Transfers:    len(r.Summary.Transfers),
		Underaligned: r.Summary.Warnings(),
		AlignCalls:   len(r.Summary.AlignCalls),
		Cached:       r.Cached,
	}
}

func recordTimings(result *Result) {
	for i := range result.Files {
		rep := result.Files[i].Timing
		if rep == nil {
			continue
		}
		for _, p := range rep.Phases {
			if stage, ok := phaseStages[p.Name]; ok {
				result.Timings.Add(stage, time.Duration(p.DurationMS*float64(time.Millisecond)))
			}
		}
	}
}
