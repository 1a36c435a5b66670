package fix

import (
	"testing"

	"tagcopy/internal/source"
)

// TestInsertTextCollapsesSpan проверяет, что вставка всегда нулевой ширины
func TestInsertTextCollapsesSpan(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.cap", []byte("let buf: char[16];"))

	span := source.Span{File: fileID, Start: 9, End: 17}
	fix := InsertText("align", span, "@align(cap) ")

	if len(fix.Edits) != 1 {
		t.Fatalf("expected 1 edit, got %d", len(fix.Edits))
	}
	edit := fix.Edits[0]
	if edit.Span.Start != 9 || edit.Span.End != 9 {
		t.Errorf("expected zero-width span at 9, got %v", edit.Span)
	}
	if edit.OldText != "" {
		t.Errorf("insertions carry no guard, got %q", edit.OldText)
	}
}

func TestReplaceSpanKeepsGuard(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.cap", []byte("let buf: @align(4) char[16];"))

	span := source.Span{File: fileID, Start: 9, End: 18}
	fix := ReplaceSpan("align", span, "@align(cap)", "@align(4)")

	if fix.Title != "align" {
		t.Errorf("title = %q", fix.Title)
	}
	edit := fix.Edits[0]
	if edit.Span != span || edit.NewText != "@align(cap)" || edit.OldText != "@align(4)" {
		t.Errorf("unexpected edit %+v", edit)
	}
}
