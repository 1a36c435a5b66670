package sema

import (
	"fmt"
	"testing"

	"tagcopy/internal/ast"
	"tagcopy/internal/diag"
	"tagcopy/internal/parser"
	"tagcopy/internal/source"
)

type checked struct {
	fs     *source.FileSet
	bag    *diag.Bag
	result Result
}

func checkSource(t *testing.T, src string, opts Options) checked {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.cap", []byte(src))
	bag := diag.NewBag(0)
	b := ast.NewBuilder(ast.Hints{})
	f := parser.ParseFile(fs.Get(id), b, parser.Options{Reporter: diag.BagReporter{Bag: bag}})
	if bag.HasErrors() {
		t.Fatalf("parse errors:\n%s", diag.FormatShortDiagnostics(bag.Items(), fs, false))
	}
	opts.Reporter = diag.BagReporter{Bag: bag}
	return checked{fs: fs, bag: bag, result: Check(f, b, opts)}
}

// messages renders "CODE message" per diagnostic in report order.
func messages(bag *diag.Bag) []string {
	out := make([]string, 0, bag.Len())
	for _, d := range bag.Items() {
		out = append(out, fmt.Sprintf("%s %s", d.Code.ID(), d.Message))
	}
	return out
}
