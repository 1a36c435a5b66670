package driver

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"tagcopy/internal/diag"
	"tagcopy/internal/observ"
	"tagcopy/internal/source"
)

// SourceExt is the scenario file extension.
const SourceExt = ".cap"

// ListSources expands files and directories into a sorted, deduplicated
// list of .cap files. Explicit file arguments are taken as is.
func ListSources(paths []string) ([]string, error) {
	seen := make(map[string]struct{})
	var files []string
	add := func(p string) {
		p = filepath.Clean(p)
		if _, ok := seen[p]; ok {
			return
		}
		seen[p] = struct{}{}
		files = append(files, p)
	}
	for _, p := range paths {
		st, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %q: %w", p, err)
		}
		if !st.IsDir() {
			add(p)
			continue
		}
		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() && path != p && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			if !d.IsDir() && strings.HasSuffix(path, SourceExt) {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to walk %q: %w", p, err)
		}
	}
	// Сортируем для детерминированного порядка
	sort.Strings(files)
	return files, nil
}

// CheckPaths checks every .cap file under paths in parallel. Results are in
// ListSources order regardless of scheduling.
func CheckPaths(ctx context.Context, paths []string, opts *Options) (*source.FileSet, []FileResult, error) {
	if opts == nil {
		opts = &Options{}
	}
	files, err := ListSources(paths)
	if err != nil {
		return nil, nil, err
	}
	fileSet := newFileSet(opts)
	if len(files) == 0 {
		return fileSet, nil, nil
	}

	// Загружаем заранее: дальше воркеры только читают FileSet.
	ids := make([]source.FileID, len(files))
	for i, path := range files {
		id, err := fileSet.Load(path)
		if err != nil {
			return fileSet, nil, fmt.Errorf("failed to load %s: %w", path, err)
		}
		ids[i] = id
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	observ.Logger().Debug("checking files", zap.Int("files", len(files)), zap.Int("jobs", jobs))

	// индексы уникальны для каждой горутины, мьютекс не нужен
	results := make([]FileResult, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))
	for i := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := checkLoaded(gctx, fileSet, ids[i], opts)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fileSet, results, err
	}
	return fileSet, results, nil
}

// MergeBags collects all file diagnostics into one bag ordered by file and
// position.
func MergeBags(results []FileResult) *diag.Bag {
	out := diag.NewBag(0)
	for i := range results {
		out.Merge(results[i].Bag)
	}
	out.Sort()
	return out
}

// AnyFailed reports whether any file produced errors.
func AnyFailed(results []FileResult) bool {
	for i := range results {
		if results[i].Failed() {
			return true
		}
	}
	return false
}
