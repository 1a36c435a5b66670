package driver

import (
	"context"
	"fmt"
	"time"

	"fortio.org/safecast"
	"go.uber.org/zap"

	"tagcopy/internal/ast"
	"tagcopy/internal/backend/llvm"
	"tagcopy/internal/diag"
	"tagcopy/internal/observ"
	"tagcopy/internal/parser"
	"tagcopy/internal/sema"
	"tagcopy/internal/source"
)

// FileResult is the outcome of checking one file.
type FileResult struct {
	Path    string
	FileID  source.FileID
	Bag     *diag.Bag
	AST     *ast.File
	Builder *ast.Builder
	// Sema is nil on cache hits and when the file has syntax errors.
	Sema    *sema.Result
	Summary Summary
	IR      string
	Timing  *observ.Report
	Cached  bool
}

// Failed reports whether the file produced any error.
func (r *FileResult) Failed() bool {
	return r.Bag != nil && r.Bag.HasErrors()
}

// CheckFile loads and checks a single file.
func CheckFile(ctx context.Context, path string, opts *Options) (*source.FileSet, *FileResult, error) {
	fs := newFileSet(opts)
	id, err := fs.Load(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	res, err := checkLoaded(ctx, fs, id, opts)
	if err != nil {
		return fs, nil, err
	}
	return fs, &res, nil
}

// CheckSource checks in-memory content registered under name.
func CheckSource(ctx context.Context, name string, content []byte, opts *Options) (*source.FileSet, *FileResult, error) {
	fs := newFileSet(opts)
	id := fs.AddVirtual(name, content)
	res, err := checkLoaded(ctx, fs, id, opts)
	if err != nil {
		return fs, nil, err
	}
	return fs, &res, nil
}

func newFileSet(opts *Options) *source.FileSet {
	fs := source.NewFileSet()
	if opts != nil && opts.BaseDir != "" {
		fs.SetBaseDir(opts.BaseDir)
	}
	return fs
}

// checkLoaded runs parse, sema and (optionally) emission for a file already
// in fs. It only reads fs, so callers may run it concurrently.
func checkLoaded(ctx context.Context, fs *source.FileSet, id source.FileID, opts *Options) (FileResult, error) {
	if opts == nil {
		opts = &Options{}
	}
	file := fs.Get(id)
	res := FileResult{Path: file.Path, FileID: id}
	log := observ.Logger().With(zap.String("file", file.Path))

	key := cacheKey(file.Hash, opts)
	if opts.Cache != nil {
		var payload DiskPayload
		hit, err := opts.Cache.Get(key, &payload)
		switch {
		case err != nil:
			log.Warn("cache read failed", zap.Error(err))
		case hit:
			log.Debug("cache hit")
			opts.observe(file.Path, PhaseEvent{Name: PhaseCache, Status: PhaseEnd})
			res.Bag = payload.restoreBag(id, opts.MaxDiagnostics)
			res.Summary = payload.Summary
			res.IR = payload.IR
			res.Cached = true
			return res, nil
		}
	}

	maxErrors, err := safecast.Conv[uint](max(opts.MaxDiagnostics, 0))
	if err != nil {
		return res, fmt.Errorf("max diagnostics overflow: %w", err)
	}

	res.Bag = diag.NewBag(opts.MaxDiagnostics)
	reporter := diag.BagReporter{Bag: res.Bag}
	res.Builder = ast.NewBuilder(ast.Hints{})
	timer := observ.NewTimer(zap.String("file", file.Path))
	phase := func(name string, fn func() string) {
		opts.observe(file.Path, PhaseEvent{Name: name, Status: PhaseStart})
		start := time.Now()
		timer.Time(name, fn)
		opts.observe(file.Path, PhaseEvent{Name: name, Status: PhaseEnd, Elapsed: time.Since(start)})
	}

	phase(PhaseParse, func() string {
		res.AST = parser.ParseFile(file, res.Builder, parser.Options{Reporter: reporter, MaxErrors: maxErrors})
		return fmt.Sprintf("%d items", len(res.AST.Items))
	})
	if err := ctx.Err(); err != nil {
		return res, err
	}

	// семантика по битому AST даёт только шум
	if !res.Bag.HasErrors() {
		phase(PhaseSema, func() string {
			r := sema.Check(res.AST, res.Builder, sema.Options{
				Reporter: reporter,
				Target:   opts.Target,
				Policy:   opts.Policy,
			})
			res.Sema = &r
			res.Summary = buildSummary(&r, fs)
			for _, row := range res.Summary.Transfers {
				log.Debug("classified transfer",
					zap.String("func", row.Func),
					zap.String("op", row.Op),
					zap.Uint32("line", row.Line),
					zap.String("rule", row.Rule),
					zap.String("disposition", row.Disposition),
					zap.Bool("warned", row.Warned))
			}
			return fmt.Sprintf("%d transfers, %d align calls", len(r.Transfers), len(r.AlignCalls))
		})
	}

	if opts.EmitIR && res.Sema != nil && !res.Bag.HasErrors() {
		var emitErr error
		phase(PhaseEmit, func() string {
			res.IR, emitErr = llvm.EmitModule(res.Sema)
			return fmt.Sprintf("%d bytes", len(res.IR))
		})
		if emitErr != nil {
			return res, fmt.Errorf("%s: failed to emit IR: %w", file.Path, emitErr)
		}
	}

	if opts.WarningsAsErrors {
		res.Bag.Transform(func(d diag.Diagnostic) diag.Diagnostic {
			if d.Severity == diag.SevWarning {
				d.Severity = diag.SevError
			}
			return d
		})
	}

	if opts.Cache != nil {
		if err := opts.Cache.Put(key, toPayload(file.Path, res.Bag, res.Summary, res.IR)); err != nil {
			log.Warn("cache write failed", zap.Error(err))
		}
	}

	if opts.EnableTimings {
		rep := timer.Report()
		res.Timing = &rep
		appendTimingDiagnostic(res.Bag, id, file.Path, rep)
	}
	return res, nil
}
