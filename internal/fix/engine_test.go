package fix

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"tagcopy/internal/diag"
	"tagcopy/internal/source"
)

const fixSrc = "fn f() {\n    let buf: char[16];\n    let tmp: char[8];\n}\n"

func loadFixture(t *testing.T) (*source.FileSet, source.FileID, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scen.cap")
	if err := os.WriteFile(path, []byte(fixSrc), 0o600); err != nil {
		t.Fatal(err)
	}
	fs := source.NewFileSet()
	fs.SetBaseDir(filepath.Dir(path))
	id, err := fs.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	return fs, id, path
}

func offset(t *testing.T, needle string) uint32 {
	t.Helper()
	for i := 0; i+len(needle) <= len(fixSrc); i++ {
		if fixSrc[i:i+len(needle)] == needle {
			return uint32(i)
		}
	}
	t.Fatalf("%q not in fixture", needle)
	return 0
}

func alignDiag(id source.FileID, at uint32) diag.Diagnostic {
	sp := source.Span{File: id, Start: at, End: at}
	return diag.Diagnostic{
		Severity: diag.SevWarning,
		Code:     diag.CgInefficientTagCopy,
		Message:  "underaligned",
		Primary:  sp,
		Fixes:    []diag.Fix{InsertText("align to the capability slot", sp, "@align(cap) ")},
	}
}

func TestApplyAll(t *testing.T) {
	fs, id, path := loadFixture(t)
	first := offset(t, "char[16]")
	second := offset(t, "char[8]")
	diags := []diag.Diagnostic{
		alignDiag(id, second),
		alignDiag(id, first),
		alignDiag(id, first), // второй экземпляр шаблона
	}

	res, err := Apply(fs, diags, ApplyOptions{Mode: ApplyModeAll})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(res.Applied) != 2 || len(res.Skipped) != 0 {
		t.Fatalf("applied=%d skipped=%+v", len(res.Applied), res.Skipped)
	}
	if res.Applied[0].PrimaryPath != "scen.cap" {
		t.Errorf("path = %q", res.Applied[0].PrimaryPath)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := "fn f() {\n    let buf: @align(cap) char[16];\n    let tmp: @align(cap) char[8];\n}\n"
	if string(got) != want {
		t.Errorf("file = %q\nwant %q", got, want)
	}
	if len(res.FileChanges) != 1 || res.FileChanges[0].EditCount != 2 {
		t.Errorf("changes = %+v", res.FileChanges)
	}
}

func TestApplyOnceAndDryRun(t *testing.T) {
	fs, id, path := loadFixture(t)
	diags := []diag.Diagnostic{alignDiag(id, offset(t, "char[8]")), alignDiag(id, offset(t, "char[16]"))}

	res, err := Apply(fs, diags, ApplyOptions{Mode: ApplyModeOnce, DryRun: true})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(res.Applied) != 1 {
		t.Fatalf("applied = %d", len(res.Applied))
	}
	// первым идёт исправление с меньшим смещением
	want := "fn f() {\n    let buf: @align(cap) char[16];\n    let tmp: char[8];\n}\n"
	if string(res.FileChanges[0].Content) != want {
		t.Errorf("content = %q", res.FileChanges[0].Content)
	}
	onDisk, _ := os.ReadFile(path)
	if string(onDisk) != fixSrc {
		t.Error("dry run must not write")
	}
}

func TestApplySkips(t *testing.T) {
	fs, id, _ := loadFixture(t)
	at := offset(t, "char[16]")
	sp := source.Span{File: id, Start: at, End: at + 8}

	tests := []struct {
		name   string
		diags  []diag.Diagnostic
		reason string
	}{
		{
			name: "guard mismatch",
			diags: []diag.Diagnostic{{Code: diag.CgInefficientTagCopy, Primary: sp,
				Fixes: []diag.Fix{ReplaceSpan("replace", sp, "int[4]", "char[32]")}}},
			reason: "existing text does not match expected content",
		},
		{
			name: "overlap",
			diags: []diag.Diagnostic{
				{Code: diag.CgInefficientTagCopy, Primary: sp, Fixes: []diag.Fix{ReplaceSpan("a", sp, "int[4]", "char[16]")}},
				{Code: diag.CgInefficientTagCopy, Primary: sp, Fixes: []diag.Fix{ReplaceSpan("b", source.Span{File: id, Start: at + 2, End: at + 4}, "xx", "")}},
			},
			reason: "conflicts with a previously applied edit",
		},
		{
			name: "out of range",
			diags: []diag.Diagnostic{{Code: diag.CgInefficientTagCopy, Primary: sp,
				Fixes: []diag.Fix{ReplaceSpan("far", source.Span{File: id, Start: 1000, End: 1001}, "x", "")}}},
			reason: "edit span out of range",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, _ := Apply(fs, tt.diags, ApplyOptions{Mode: ApplyModeAll, DryRun: true})
			if len(res.Skipped) == 0 || res.Skipped[len(res.Skipped)-1].Reason != tt.reason {
				t.Fatalf("skipped = %+v, want reason %q", res.Skipped, tt.reason)
			}
		})
	}
}

func TestApplyNoFixes(t *testing.T) {
	fs, id, _ := loadFixture(t)
	d := alignDiag(id, offset(t, "char[8]"))

	if _, err := Apply(fs, []diag.Diagnostic{{Code: d.Code, Primary: d.Primary}}, ApplyOptions{}); !errors.Is(err, ErrNoFixes) {
		t.Errorf("err = %v, want ErrNoFixes", err)
	}
	if _, err := Apply(fs, []diag.Diagnostic{d}, ApplyOptions{Code: diag.SemaTypeMismatch}); !errors.Is(err, ErrNoFixes) {
		t.Errorf("code filter: err = %v, want ErrNoFixes", err)
	}
	if _, err := Apply(nil, nil, ApplyOptions{}); err == nil {
		t.Error("nil FileSet must fail")
	}

	virt := source.NewFileSet()
	vid := virt.AddVirtual("mem.cap", []byte(fixSrc))
	res, err := Apply(virt, []diag.Diagnostic{alignDiag(vid, 0)}, ApplyOptions{Mode: ApplyModeAll})
	if !errors.Is(err, ErrNoFixes) || len(res.Skipped) != 1 || res.Skipped[0].Reason != "target file is virtual" {
		t.Errorf("virtual: err=%v skipped=%+v", err, res.Skipped)
	}
}

func TestSpansConflict(t *testing.T) {
	tests := []struct {
		a, b source.Span
		want bool
	}{
		{source.Span{Start: 1, End: 1}, source.Span{Start: 1, End: 1}, true},
		{source.Span{Start: 1, End: 1}, source.Span{Start: 2, End: 2}, false},
		{source.Span{Start: 2, End: 2}, source.Span{Start: 1, End: 4}, true},
		{source.Span{Start: 4, End: 4}, source.Span{Start: 1, End: 4}, false},
		{source.Span{Start: 1, End: 3}, source.Span{Start: 3, End: 5}, false},
		{source.Span{Start: 1, End: 4}, source.Span{Start: 3, End: 5}, true},
	}
	for _, tt := range tests {
		if got := spansConflict(tt.a, tt.b); got != tt.want {
			t.Errorf("spansConflict(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}
