package fix

import (
	"tagcopy/internal/diag"
	"tagcopy/internal/source"
)

// InsertText creates a fix that inserts text at a zero-width position.
func InsertText(title string, at source.Span, text string) diag.Fix {
	at.End = at.Start
	return diag.Fix{
		Title: title,
		Edits: []diag.FixEdit{{Span: at, NewText: text}},
	}
}

// ReplaceSpan replaces the text covered by span. A non-empty expect guards
// against applying the edit to a file that changed since it was checked.
func ReplaceSpan(title string, span source.Span, newText, expect string) diag.Fix {
	return diag.Fix{
		Title: title,
		Edits: []diag.FixEdit{{Span: span, NewText: newText, OldText: expect}},
	}
}
