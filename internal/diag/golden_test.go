package diag

import (
	"testing"

	"tagcopy/internal/source"
)

func TestFormatGoldenDiagnostics(t *testing.T) {
	fs := source.NewFileSet()
	fs.SetBaseDir("/workspace")

	file := fs.Add("/workspace/testdata/golden/sample.cap", []byte("a\nb\n"), 0)

	diags := []Diagnostic{
		{
			Severity: SevWarning,
			Code:     SemaError,
			Message:  "another",
			Primary:  source.Span{File: file, Start: 2, End: 3},
		},
		{
			Severity: SevError,
			Code:     SynUnexpectedToken,
			Message:  "first line\nsecond",
			Primary:  source.Span{File: file, Start: 0, End: 1},
			Notes: []Note{
				{Span: source.Span{File: file, Start: 2, End: 3}, Msg: "note line"},
				{Span: source.Span{File: 42, Start: 0, End: 0}, Msg: "dangling"},
			},
		},
	}

	expected := "error SYN2001 testdata/golden/sample.cap:1:1 first line second\n" +
		"note SYN2001 testdata/golden/sample.cap:2:1 note line\n" +
		"warning SEM3001 testdata/golden/sample.cap:2:1 another"

	if got := FormatGoldenDiagnostics(diags, fs, true); got != expected {
		t.Fatalf("unexpected golden diagnostics:\nwant:\n%s\n\ngot:\n%s", expected, got)
	}
}

func TestFormatShortKeepsOrder(t *testing.T) {
	fs := source.NewFileSet()
	fs.SetBaseDir("/workspace")
	file := fs.Add("/workspace/a.cap", []byte("xy\nz\n"), 0)

	diags := []Diagnostic{
		NewError(SemaIncompleteType, source.Span{File: file, Start: 3, End: 4}, "late"),
		New(SevWarning, CgInefficientTagCopy, source.Span{File: file, Start: 1, End: 2}, "early"),
	}
	expected := "error SEM3200 a.cap:2:1 late\n" +
		"warning CG9001 a.cap:1:2 early"
	if got := FormatShortDiagnostics(diags, fs, false); got != expected {
		t.Fatalf("want:\n%s\ngot:\n%s", expected, got)
	}
}

func TestBagLimitAndSort(t *testing.T) {
	bag := NewBag(3)
	sp := func(start uint32) source.Span { return source.Span{Start: start, End: start + 1} }

	if !bag.Add(New(SevWarning, CgInefficientTagCopy, sp(5), "w")) {
		t.Fatal("first add rejected")
	}
	bag.Add(New(SevWarning, CgInefficientTagCopy, sp(1), "same span, lower severity"))
	bag.Add(NewError(SemaBuiltinArity, sp(1), "e"))
	if bag.Add(NewError(SemaError, sp(0), "overflow")) {
		t.Fatal("add past limit accepted")
	}

	bag.Sort()
	items := bag.Items()
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	if items[0].Code != SemaBuiltinArity || items[1].Message != "same span, lower severity" || items[2].Message != "w" {
		t.Fatalf("unexpected order: %+v", items)
	}
	if !bag.HasErrors() || bag.Count(SevWarning) != 2 || bag.Count(SevError) != 1 {
		t.Fatal("unexpected severity counts")
	}

	bag.Filter(func(d Diagnostic) bool { return d.Severity == SevWarning })
	if bag.Len() != 2 || bag.HasErrors() {
		t.Fatalf("filter kept %d items", bag.Len())
	}
}

func TestDedupReporter(t *testing.T) {
	bag := NewBag(0)
	r := NewDedupReporter(BagReporter{Bag: bag})
	sp := source.Span{Start: 4, End: 9}
	for range 3 {
		ReportError(r, SemaAlignNotPowerOfTwo, sp, "requested alignment is not a power of 2").
			WithNote(source.Span{Start: 20, End: 25}, "in instantiation").
			Emit()
	}
	if bag.Len() != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", bag.Len())
	}
	if got := len(bag.Items()[0].Notes); got != 1 {
		t.Fatalf("expected 1 note, got %d", got)
	}
}

func TestCodeIDs(t *testing.T) {
	tests := []struct {
		code  Code
		want  string
		phase string
	}{
		{LexUnknownChar, "LEX1001", "lex"},
		{SynUnexpectedToken, "SYN2001", "syntax"},
		{SemaIncompleteType, "SEM3200", "sema"},
		{IOLoadFileError, "IO4001", "io"},
		{ObsTimings, "OBS6001", "observability"},
		{CgInefficientTagCopy, "CG9001", "codegen"},
		{Code(7), "E0000", "unknown"},
	}
	for _, tt := range tests {
		if got := tt.code.ID(); got != tt.want {
			t.Errorf("%d.ID() = %q, want %q", tt.code, got, tt.want)
		}
		if got := tt.code.Phase(); got != tt.phase {
			t.Errorf("%d.Phase() = %q, want %q", tt.code, got, tt.phase)
		}
	}
}
