package diagfmt

import (
	"bytes"
	"strings"
	"testing"

	"tagcopy/internal/diag"
	"tagcopy/internal/source"
)

const prettySrc = "let x = 1;\nmemcpy(d, s, 16);\n"

func prettyFixture(t *testing.T, path string) (*source.FileSet, source.FileID, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual(path, []byte(prettySrc))
	return fs, id, diag.NewBag(10)
}

// TestPathModes проверяет различные режимы форматирования путей
func TestPathModes(t *testing.T) {
	fs, id, bag := prettyFixture(t, "/home/user/project/src/test.cap")
	fs.SetBaseDir("/home/user/project")
	bag.Add(diag.NewError(diag.SemaMemTransferOperand, source.Span{File: id, Start: 11, End: 17}, "operand of type 'int' is not a pointer"))

	tests := []struct {
		name string
		mode PathMode
		want string
	}{
		{"absolute", PathModeAbsolute, "/home/user/project/src/test.cap:2:1:"},
		{"relative", PathModeRelative, "src/test.cap:2:1:"},
		{"basename", PathModeBasename, "test.cap:2:1:"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			Pretty(&buf, bag, fs, PrettyOpts{PathMode: tt.mode})
			if !strings.HasPrefix(buf.String(), tt.want) {
				t.Errorf("output %q does not start with %q", buf.String(), tt.want)
			}
		})
	}
}

func TestPrettyUnderline(t *testing.T) {
	fs, id, bag := prettyFixture(t, "test.cap")
	d := diag.New(diag.SevWarning, diag.CgInefficientTagCopy, source.Span{File: id, Start: 11, End: 17}, "underaligned destination").
		WithNote(source.Span{File: id, Start: 0, End: 3}, "see here")
	bag.Add(d)

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{ShowNotes: true})

	want := "test.cap:2:1: warning CG9001: underaligned destination\n" +
		"2 | memcpy(d, s, 16);\n" +
		"  | ^~~~~~\n" +
		"test.cap:1:1: note: see here\n" +
		"1 | let x = 1;\n" +
		"  | ^~~\n"
	if got := buf.String(); got != want {
		t.Errorf("Pretty mismatch:\n got: %q\nwant: %q", got, want)
	}
}

func TestPrettyHidesNotesByDefault(t *testing.T) {
	fs, id, bag := prettyFixture(t, "test.cap")
	bag.Add(diag.NewError(diag.SemaError, source.Span{File: id, Start: 0, End: 3}, "boom").
		WithNote(source.Span{File: id, Start: 4, End: 5}, "hidden"))

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{})
	if strings.Contains(buf.String(), "hidden") {
		t.Errorf("notes printed without ShowNotes: %q", buf.String())
	}
}

func TestPrettyContext(t *testing.T) {
	fs, id, bag := prettyFixture(t, "test.cap")
	bag.Add(diag.NewError(diag.SemaError, source.Span{File: id, Start: 11, End: 17}, "boom"))

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{Context: 1})
	out := buf.String()
	for _, want := range []string{"1 | let x = 1;", "2 | memcpy", "3 | \n"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in %q", want, out)
		}
	}
}

func TestUnderlineDisplayWidth(t *testing.T) {
	tests := []struct {
		name      string
		line      string
		start     int
		end       int
		pad, wide int
	}{
		{"ascii", "abc def", 5, 8, 4, 3},
		{"tab", "\tx", 2, 3, tabWidth, 1},
		{"wide runes", "日本 x", 8, 9, 5, 1},
		{"empty span", "abc", 2, 2, 1, 1},
		{"past end", "ab", 2, 40, 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pad, width := underline(tt.line, tt.start, tt.end)
			if pad != tt.pad || width != tt.wide {
				t.Errorf("underline(%q, %d, %d) = (%d, %d), want (%d, %d)",
					tt.line, tt.start, tt.end, pad, width, tt.pad, tt.wide)
			}
		})
	}
}

func TestPrettyFixPreview(t *testing.T) {
	fs, id, bag := prettyFixture(t, "test.cap")
	bag.Add(diag.NewError(diag.SemaError, source.Span{File: id, Start: 24, End: 26}, "length").
		WithFix("use 32", diag.FixEdit{Span: source.Span{File: id, Start: 24, End: 26}, NewText: "32"}))

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{ShowFixes: true, ShowPreview: true})
	out := buf.String()
	for _, want := range []string{"fix: use 32", "    - memcpy(d, s, 16);", "    + memcpy(d, s, 32);"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in %q", want, out)
		}
	}
}
