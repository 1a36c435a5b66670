package buildpipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	cleanSrc = `struct OneCap { b: cap; }
fn move(d: *OneCap, s: *OneCap) {
    memcpy(d, s, 16);
}
`
	warnSrc = `struct OneCap { b: cap; }
fn spill(c: *OneCap, s: *char) {
    memcpy(s, c, 16);
}
`
	errSrc = `fn f(p: *char) {
    is_aligned(p, 7);
}
`
)

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		p := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	}
	return dir
}

type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) OnEvent(ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recorder) has(file string, stage Stage, status Status) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ev := range r.events {
		if ev.File == file && ev.Stage == stage && ev.Status == status {
			return true
		}
	}
	return false
}

func (r *recorder) stats(file string) *FileStats {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ev := range r.events {
		if ev.File == file && ev.Stats != nil {
			return ev.Stats
		}
	}
	return nil
}

func TestRunWritesModules(t *testing.T) {
	dir := writeTree(t, map[string]string{"a.cap": cleanSrc, "sub/b.cap": warnSrc})
	out := t.TempDir()
	rec := &recorder{}

	res, err := Run(context.Background(), &Request{
		Paths:    []string{dir},
		OutDir:   out,
		BaseDir:  dir,
		Progress: rec,
	})
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join(out, "a.ll"), filepath.Join(out, "sub", "b.ll")}, res.Outputs)

	ir, err := os.ReadFile(filepath.Join(out, "sub", "b.ll"))
	require.NoError(t, err)
	require.Contains(t, string(ir), `target triple = "riscv64-unknown-freebsd-purecap"`)
	require.Contains(t, string(ir), `"frontend-memtransfer-type"="'struct OneCap'"`)

	for _, f := range []string{"a.cap", "sub/b.cap"} {
		require.True(t, rec.has(f, StageParse, StatusQueued), f)
		require.True(t, rec.has(f, StageCheck, StatusWorking), f)
		require.True(t, rec.has(f, StageEmit, StatusWorking), f)
		require.True(t, rec.has(f, StageWrite, StatusDone), f)
	}
	require.True(t, res.Timings.Has(StageParse))
	require.True(t, res.Timings.Has(StageWrite))

	stats := rec.stats("sub/b.cap")
	require.NotNil(t, stats)
	require.Positive(t, stats.Transfers)
	require.False(t, stats.Cached)
}

func TestRunReportsDiagnostics(t *testing.T) {
	dir := writeTree(t, map[string]string{"bad.cap": errSrc, "ok.cap": cleanSrc})
	rec := &recorder{}
	res, err := Run(context.Background(), &Request{Paths: []string{dir}, BaseDir: dir, Progress: FuncSink(rec.OnEvent)})
	require.True(t, errors.Is(err, ErrDiagnostics), "err = %v", err)
	require.Len(t, res.Files, 2)
	require.Empty(t, res.Outputs)
	require.True(t, rec.has("bad.cap", StageCheck, StatusError))
	require.True(t, rec.has("ok.cap", StageCheck, StatusDone))
}

func TestRunRequestErrors(t *testing.T) {
	_, err := Run(context.Background(), nil)
	require.Error(t, err)
	_, err = Run(context.Background(), &Request{})
	require.ErrorContains(t, err, "no input paths")
	_, err = Run(context.Background(), &Request{Paths: []string{filepath.Join(t.TempDir(), "missing")}})
	require.Error(t, err)
}

func TestDisplayName(t *testing.T) {
	base := t.TempDir()
	require.Equal(t, "x/y.cap", displayName(filepath.Join(base, "x", "y.cap"), base))
	outside := filepath.Join(filepath.Dir(base), "other.cap")
	require.True(t, strings.HasSuffix(displayName(outside, base), "other.cap"))
	require.Equal(t, "rel/z.cap", displayName("rel/z.cap", ""))
}

func TestWriteModuleStaysInOutDir(t *testing.T) {
	out := t.TempDir()
	p, err := writeModule(out, "../escape.cap", "ir")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(out, "escape.ll"), p)
}
