package diag

import (
	"cmp"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"tagcopy/internal/source"
)

// shortLine is one rendered entry: `<severity> <CODE> <path>:<line>:<col> <message>`.
type shortLine struct {
	sev, code, path string
	line, col       uint32
	msg             string
}

func (l shortLine) String() string {
	return fmt.Sprintf("%s %s %s:%d:%d %s", l.sev, l.code, l.path, l.line, l.col, l.msg)
}

func compareShortLines(a, b shortLine) int {
	return cmp.Or(
		strings.Compare(a.path, b.path),
		cmp.Compare(a.line, b.line),
		cmp.Compare(a.col, b.col),
		strings.Compare(a.sev, b.sev),
		strings.Compare(a.code, b.code),
		strings.Compare(a.msg, b.msg),
	)
}

// FormatGoldenDiagnostics renders one line per diagnostic (and per note when
// includeNotes is set), sorted by position, so golden files do not depend
// on the order in which phases reported.
func FormatGoldenDiagnostics(diags []Diagnostic, fs *source.FileSet, includeNotes bool) string {
	lines := shortLines(diags, fs, includeNotes)
	slices.SortStableFunc(lines, compareShortLines)
	return joinLines(lines)
}

// FormatShortDiagnostics uses the golden line format in report order, so
// notes stay right under their diagnostic.
func FormatShortDiagnostics(diags []Diagnostic, fs *source.FileSet, includeNotes bool) string {
	return joinLines(shortLines(diags, fs, includeNotes))
}

func joinLines(lines []shortLine) string {
	parts := make([]string, len(lines))
	for i, l := range lines {
		parts[i] = l.String()
	}
	return strings.Join(parts, "\n")
}

func shortLines(diags []Diagnostic, fs *source.FileSet, includeNotes bool) []shortLine {
	if fs == nil {
		return nil
	}
	var out []shortLine
	for i := range diags {
		d := &diags[i]
		id := d.Code.ID()
		if l, ok := locate(fs, d.Primary); ok {
			l.sev, l.code, l.msg = d.Severity.Label(), id, oneLine(d.Message)
			out = append(out, l)
		}
		if !includeNotes {
			continue
		}
		for _, n := range d.Notes {
			// заметки с чужим или неизвестным файлом пропускаем
			if l, ok := locate(fs, n.Span); ok {
				l.sev, l.code, l.msg = "note", id, oneLine(n.Msg)
				out = append(out, l)
			}
		}
	}
	return out
}

func locate(fs *source.FileSet, span source.Span) (shortLine, bool) {
	if int(span.File) >= fs.Len() {
		return shortLine{}, false
	}
	start, _ := fs.Resolve(span)
	path := filepath.ToSlash(fs.Get(span.File).FormatPath("relative", fs.BaseDir()))
	for strings.HasPrefix(path, "./") {
		path = path[2:]
	}
	return shortLine{path: path, line: start.Line, col: start.Col}, true
}

// oneLine folds CR/LF into spaces.
func oneLine(msg string) string {
	msg = strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ").Replace(msg)
	return strings.TrimSpace(msg)
}
