package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tagcopy/internal/buildpipeline"
	"tagcopy/internal/diagfmt"
)

const transferScenario = `target purecap128;
struct OneCap { b: cap; }
struct strbuf { data: char[16]; }

fn test(c: *OneCap, ch: char, buf: *void, n: ulong, s: *char) {
    memmove(c, &ch, sizeof(ch));
    memcpy(c, "abc", 16);
    memmove(c, buf, n);
    memcpy(s, c, 16);
    copy(*c);
}
`

const cleanScenario = `struct OneCap { b: cap; }

fn move(d: *OneCap, s: *OneCap) {
    memcpy(d, s, 16);
}
`

const alignScenario = `fn f(p: *char) {
    let ibuf: int[16];
    align_up(ibuf, 32);
    is_aligned(p, 7);
}
`

func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append([]string{"--no-cache", "--color", "off"}, args...))
	err = root.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

// newProject lays out a manifest plus the given scenarios in a temp dir.
func newProject(t *testing.T, manifest string, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	if manifest == "" {
		manifest = "[project]\nname = \"cli-test\"\n"
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tagcopy.toml"), []byte(manifest), 0o600))
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}
	return dir
}

func TestCheckFormats(t *testing.T) {
	dir := newProject(t, "", map[string]string{"scen.cap": transferScenario})

	out, _, err := execute(t, "check", "--format", "short", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "warning CG9001 scen.cap:9:5")

	out, _, err = execute(t, "check", "--format", "pretty", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "1 file checked, 0 errors, 1 warning")

	out, _, err = execute(t, "check", "--format", "json", "--path-mode", "basename", dir)
	require.NoError(t, err)
	var payload map[string]diagfmt.DiagnosticsOutput
	require.NoError(t, json.Unmarshal([]byte(out), &payload))
	require.Contains(t, payload, "scen.cap")
	require.Len(t, payload["scen.cap"].Diagnostics, 1)
	assert.Equal(t, "CG9001", payload["scen.cap"].Diagnostics[0].Code)

	out, _, err = execute(t, "check", "--format", "sarif", dir)
	require.NoError(t, err)
	assert.Contains(t, out, `"version": "2.1.0"`)
}

func TestCheckFailures(t *testing.T) {
	dir := newProject(t, "", map[string]string{
		"scen.cap":  transferScenario,
		"align.cap": alignScenario,
	})

	out, _, err := execute(t, "check", "--format", "short", dir)
	require.ErrorIs(t, err, buildpipeline.ErrDiagnostics)
	assert.Contains(t, out, "error SEM3204 align.cap:4:")

	out, _, err = execute(t, "--werror", "check", "--format", "short", filepath.Join(dir, "scen.cap"))
	require.ErrorIs(t, err, buildpipeline.ErrDiagnostics)
	assert.Contains(t, out, "error CG9001 scen.cap:9:5")
}

func TestManifestWerror(t *testing.T) {
	manifest := "[project]\nname = \"strict\"\n\n[check]\nwarnings_as_errors = true\n"
	dir := newProject(t, manifest, map[string]string{"scen.cap": transferScenario})
	_, _, err := execute(t, "check", "--format", "short", dir)
	require.ErrorIs(t, err, buildpipeline.ErrDiagnostics)
}

func TestConfigErrors(t *testing.T) {
	tests := []struct {
		name     string
		manifest string
		args     []string
		want     string
	}{
		{"requires", "[project]\nname = \"p\"\nrequires = \">= 99.0\"\n", nil, "does not satisfy"},
		{"unknown target flag", "", []string{"--target", "bogus"}, "unknown target"},
		{"bad manifest key", "[project]\nname = \"p\"\nnope = 1\n", nil, "unknown key"},
		{"bad color", "", []string{"--color", "sometimes"}, "invalid --color"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := newProject(t, tt.manifest, map[string]string{"clean.cap": cleanScenario})
			args := append(append([]string{}, tt.args...), "check", dir)
			_, _, err := execute(t, args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestUnknownFormat(t *testing.T) {
	dir := newProject(t, "", map[string]string{"clean.cap": cleanScenario})
	_, _, err := execute(t, "check", "--format", "xml", dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown format")
}

func TestEmit(t *testing.T) {
	dir := newProject(t, "", map[string]string{"clean.cap": cleanScenario})

	out, _, err := execute(t, "emit", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "@llvm.memcpy")
	assert.Contains(t, out, "must_preserve_cheri_tags")

	outDir := t.TempDir()
	out, _, err = execute(t, "emit", "--ui", "off", "-o", outDir, dir)
	require.NoError(t, err)
	assert.Contains(t, out, "wrote ")
	data, err := os.ReadFile(filepath.Join(outDir, "clean.ll"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "must_preserve_cheri_tags")
}

func TestEmitSkipsFailedFiles(t *testing.T) {
	dir := newProject(t, "", map[string]string{"align.cap": alignScenario})
	out, errOut, err := execute(t, "emit", "--format", "short", dir)
	require.ErrorIs(t, err, buildpipeline.ErrDiagnostics)
	assert.NotContains(t, out, "@llvm")
	assert.Contains(t, errOut, "SEM3204")
}

func TestExplain(t *testing.T) {
	dir := newProject(t, "", map[string]string{"scen.cap": transferScenario})

	out, _, err := execute(t, "explain", dir)
	require.NoError(t, err)
	for _, want := range []string{"target purecap128", "DISPOSITION", "no_preserve_cheri_tags", "CG9001", "5 transfers, 1 underaligned"} {
		assert.Contains(t, out, want)
	}

	out, _, err = execute(t, "explain", "--format", "json", "--path-mode", "basename", dir)
	require.NoError(t, err)
	var payload map[string]struct {
		Target    string           `json:"target"`
		Transfers []map[string]any `json:"transfers"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &payload))
	assert.Equal(t, "purecap128", payload["scen.cap"].Target)
	assert.Len(t, payload["scen.cap"].Transfers, 5)
}

func TestInitThenCheck(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "fresh")

	out, _, err := execute(t, "init", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "tagcopy.toml")
	assert.FileExists(t, filepath.Join(dir, "example.cap"))

	_, _, err = execute(t, "init", dir)
	require.Error(t, err)

	out, _, err = execute(t, "check", "--format", "short", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "CG9001")

	yamlDir := filepath.Join(t.TempDir(), "yaml")
	_, _, err = execute(t, "init", "--manifest-format", "yaml", yamlDir)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(yamlDir, "tagcopy.yaml"))
}

func TestFixAlignsDestination(t *testing.T) {
	src := `struct OneCap { b: cap; }
fn f(c: *OneCap) {
    let buf: char[32];
    memcpy(&buf, c, 16);
}
`
	dir := newProject(t, "", map[string]string{"scen.cap": src})

	out, _, err := execute(t, "fix", "--dry-run", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "would update scen.cap (1 edit)")

	out, _, err = execute(t, "fix", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "align 'buf' to the capability slot [CG9001]")
	data, err := os.ReadFile(filepath.Join(dir, "scen.cap"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "let buf: @align(cap) char[32];")

	out, _, err = execute(t, "--werror", "check", "--format", "short", dir)
	require.NoError(t, err)
	assert.NotContains(t, out, "CG9001")

	out, _, err = execute(t, "fix", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "no applicable fixes found")
}

func TestTokenize(t *testing.T) {
	dir := newProject(t, "", map[string]string{"clean.cap": cleanScenario})
	out, _, err := execute(t, "tokenize", filepath.Join(dir, "clean.cap"))
	require.NoError(t, err)
	assert.Contains(t, out, "memcpy")
}

func TestVersion(t *testing.T) {
	out, _, err := execute(t, "version", "--format", "json")
	require.NoError(t, err)
	var payload versionPayload
	require.NoError(t, json.Unmarshal([]byte(out), &payload))
	assert.Equal(t, "tagcopy", payload.Tool)
	assert.Contains(t, payload.Targets, "hybrid64")

	out, _, err = execute(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "tagcopy "))
}

func TestParseSwitch(t *testing.T) {
	tests := []struct {
		in      string
		want    autoSwitch
		wantErr bool
	}{
		{"", switchAuto, false},
		{"AUTO", switchAuto, false},
		{" on ", switchOn, false},
		{"off", switchOff, false},
		{"maybe", switchAuto, true},
	}
	for _, tt := range tests {
		got, err := parseSwitch("ui", tt.in)
		if tt.wantErr {
			assert.ErrorContains(t, err, "invalid --ui", tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
	assert.Equal(t, "off", switchOff.String())
}

func TestSwitchEnabled(t *testing.T) {
	var buf bytes.Buffer
	assert.True(t, switchOn.enabled(&buf, true), "on ignores suppression")
	assert.False(t, switchOff.enabled(&buf, false))
	assert.False(t, switchAuto.enabled(&buf, false), "a buffer is not a terminal")

	// без -o живой прогресс не включается даже принудительно
	assert.False(t, progressView(switchOn, "", &buf))
	assert.True(t, progressView(switchOn, "out", &buf))
	assert.False(t, progressView(switchAuto, "out", &buf))
}
