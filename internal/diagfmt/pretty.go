package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"fortio.org/safecast"
	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"tagcopy/internal/diag"
	"tagcopy/internal/source"
)

const tabWidth = 4

type palette struct {
	err, warn, info, note, gutter, caret, fix *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgCyan, color.Bold),
		note:   color.New(color.FgBlue, color.Bold),
		gutter: color.New(color.FgBlue),
		caret:  color.New(color.FgGreen, color.Bold),
		fix:    color.New(color.FgGreen),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.note, p.gutter, p.caret, p.fix} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(s diag.Severity) *color.Color {
	switch s {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	}
	return p.info
}

// Pretty печатает диагностики в стиле clang: заголовок, строка исходника
// и подчёркивание ^~~~ под основным диапазоном.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	pal := newPalette(opts.Color)
	items := bag.Items()
	for i := range items {
		d := &items[i]
		if i > 0 {
			fmt.Fprintln(w)
		}
		writeHeader(w, fs, opts, pal.severity(d.Severity), d.Severity.Label()+" "+d.Code.ID(), d.Primary, d.Message)
		writeSnippet(w, fs, opts, pal, d.Primary)

		if opts.ShowNotes {
			for _, n := range d.Notes {
				writeHeader(w, fs, opts, pal.note, "note", n.Span, n.Msg)
				writeSnippet(w, fs, opts, pal, n.Span)
			}
		}
		if opts.ShowFixes {
			for _, fix := range d.Fixes {
				fmt.Fprintf(w, "  %s %s\n", pal.fix.Sprint("fix:"), fix.Title)
				if !opts.ShowPreview {
					continue
				}
				for _, edit := range fix.Edits {
					preview, err := buildFixEditPreview(fs, edit)
					if err != nil {
						continue
					}
					for _, l := range preview.before {
						fmt.Fprintf(w, "    - %s\n", expandTabs(l))
					}
					for _, l := range preview.after {
						fmt.Fprintf(w, "    + %s\n", expandTabs(l))
					}
				}
			}
		}
	}
}

func writeHeader(w io.Writer, fs *source.FileSet, opts PrettyOpts, c *color.Color, label string, span source.Span, msg string) {
	f := fs.Get(span.File)
	start, _ := fs.Resolve(span)
	fmt.Fprintf(w, "%s:%d:%d: %s %s\n",
		displayPath(f, fs, opts.PathMode), start.Line, start.Col, c.Sprint(label+":"), msg)
}

func writeSnippet(w io.Writer, fs *source.FileSet, opts PrettyOpts, pal palette, span source.Span) {
	f := fs.Get(span.File)
	if f == nil || len(f.Content) == 0 {
		return
	}
	start, end := fs.Resolve(span)
	line := int(start.Line)
	ctx := max(int(opts.Context), 0)
	first := max(line-ctx, 1)
	last := min(line+ctx, len(f.LineIdx)+1)
	gutterWidth := len(fmt.Sprint(last))

	for n := first; n <= last; n++ {
		ln, err := safecast.Conv[uint32](n)
		if err != nil {
			return
		}
		text := f.Line(ln)
		shown := clip(expandTabs(text), opts.Width)
		fmt.Fprintf(w, "%s %s\n", pal.gutter.Sprintf("%*d |", gutterWidth, n), shown)
		if n != line {
			continue
		}
		endCol := int(end.Col)
		if end.Line != start.Line {
			endCol = len(text) + 1
		}
		pad, width := underline(text, int(start.Col), endCol)
		marker := "^" + strings.Repeat("~", max(width-1, 0))
		fmt.Fprintf(w, "%s %s%s\n",
			pal.gutter.Sprintf("%*s |", gutterWidth, ""), strings.Repeat(" ", pad), pal.caret.Sprint(marker))
	}
}

// underline returns the display offset and width of the byte columns
// [startCol, endCol) within line.
func underline(line string, startCol, endCol int) (pad, width int) {
	s := clampCol(line, startCol)
	e := max(clampCol(line, endCol), s)
	pad = runewidth.StringWidth(expandTabs(line[:s]))
	width = runewidth.StringWidth(expandTabs(line[s:e]))
	return pad, max(width, 1)
}

func clampCol(line string, col int) int {
	return min(max(col-1, 0), len(line))
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", strings.Repeat(" ", tabWidth))
}

func clip(s string, width uint8) string {
	if width == 0 {
		return s
	}
	return runewidth.Truncate(s, int(width), "…")
}
