package diagfmt

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"

	"tagcopy/internal/diag"
	"tagcopy/internal/source"
)

func TestJSONBasic(t *testing.T) {
	fs, id, bag := prettyFixture(t, "dir/test.cap")
	bag.Add(diag.New(diag.SevWarning, diag.CgInefficientTagCopy, source.Span{File: id, Start: 11, End: 17}, "underaligned").
		WithNote(source.Span{File: id, Start: 0, End: 3}, "For more information"))

	var buf bytes.Buffer
	if err := JSON(&buf, bag, fs, JSONOpts{IncludePositions: true, PathMode: PathModeBasename, IncludeNotes: true}); err != nil {
		t.Fatalf("JSON() error: %v", err)
	}

	var got DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
	}
	want := DiagnosticsOutput{
		Count:    1,
		Warnings: 1,
		Diagnostics: []DiagnosticJSON{{
			Severity: "WARNING",
			Code:     "CG9001",
			Phase:    "codegen",
			Message:  "underaligned",
			Location: LocationJSON{File: "test.cap", StartByte: 11, EndByte: 17, StartLine: 2, StartCol: 1, EndLine: 2, EndCol: 7},
			Notes: []NoteJSON{{
				Message:  "For more information",
				Location: LocationJSON{File: "test.cap", StartByte: 0, EndByte: 3, StartLine: 1, StartCol: 1, EndLine: 1, EndCol: 4},
			}},
		}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("JSON mismatch (-want +got):\n%s", diff)
	}
}

func TestJSONOptions(t *testing.T) {
	fs, id, bag := prettyFixture(t, "test.cap")
	span := source.Span{File: id, Start: 24, End: 26}
	bag.Add(diag.NewError(diag.SemaError, span, "first").
		WithNote(span, "note").
		WithFix("use 32", diag.FixEdit{Span: span, NewText: "32", OldText: "16"}))
	bag.Add(diag.New(diag.SevInfo, diag.ObsTimings, span, "timings").WithNote(span, "parse 1ms"))
	bag.Add(diag.NewError(diag.SemaError, span, "third"))

	t.Run("max", func(t *testing.T) {
		out := BuildDiagnosticsOutput(bag, fs, JSONOpts{Max: 2})
		if out.Count != 2 || len(out.Diagnostics) != 2 {
			t.Fatalf("Count = %d, want 2", out.Count)
		}
		if !out.Truncated || out.Errors != 1 {
			t.Errorf("Truncated = %v, Errors = %d", out.Truncated, out.Errors)
		}
	})

	t.Run("notes and positions off", func(t *testing.T) {
		out := BuildDiagnosticsOutput(bag, fs, JSONOpts{})
		if len(out.Diagnostics[0].Notes) != 0 {
			t.Errorf("notes included without IncludeNotes")
		}
		if len(out.Diagnostics[1].Notes) != 1 {
			t.Errorf("timing notes must always be kept")
		}
		if out.Diagnostics[0].Location.StartLine != 0 {
			t.Errorf("positions included without IncludePositions")
		}
		if out.Diagnostics[0].Fixes != nil {
			t.Errorf("fixes included without IncludeFixes")
		}
	})

	t.Run("fix previews", func(t *testing.T) {
		out := BuildDiagnosticsOutput(bag, fs, JSONOpts{IncludeFixes: true, IncludePreviews: true})
		want := []FixJSON{{
			Title: "use 32",
			Edits: []FixEditJSON{{
				Location:    LocationJSON{File: "test.cap", StartByte: 24, EndByte: 26},
				NewText:     "32",
				OldText:     "16",
				BeforeLines: []string{"memcpy(d, s, 16);"},
				AfterLines:  []string{"memcpy(d, s, 32);"},
			}},
		}}
		if diff := cmp.Diff(want, out.Diagnostics[0].Fixes); diff != "" {
			t.Errorf("fixes mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestFixEditPreviewOutOfRange(t *testing.T) {
	fs, id, _ := prettyFixture(t, "test.cap")
	if _, err := buildFixEditPreview(fs, diag.FixEdit{Span: source.Span{File: id, Start: 5, End: 2}}); err == nil {
		t.Fatal("expected error for inverted span")
	}
	if _, err := buildFixEditPreview(nil, diag.FixEdit{}); err == nil {
		t.Fatal("expected error for nil FileSet")
	}
}
