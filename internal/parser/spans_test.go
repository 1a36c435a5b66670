package parser

import (
	"os"
	"path/filepath"
	"testing"

	"tagcopy/internal/ast"
	"tagcopy/internal/diag"
	"tagcopy/internal/source"
	"tagcopy/internal/testkit"
)

func TestSpanInvariants(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("..", "driver", "testdata", "*.cap"))
	if err != nil {
		t.Fatal(err)
	}
	cases := map[string][]byte{
		"sample": []byte(sampleSource),
		"empty":  nil,
		"broken": []byte("struct S { a: int; }\nfn f( { memcpy(a, b, 1); }\nfn g() { let x: char[4]; }\n"),
	}
	for _, p := range paths {
		src, err := os.ReadFile(p)
		if err != nil {
			t.Fatal(err)
		}
		cases[filepath.Base(p)] = src
	}

	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			fs := source.NewFileSet()
			id := fs.AddVirtual(name, src)
			sf := fs.Get(id)
			b := ast.NewBuilder(ast.Hints{})
			bag := diag.NewBag(0)
			f := ParseFile(sf, b, Options{Reporter: diag.BagReporter{Bag: bag}})
			if err := testkit.CheckSpanInvariants(b, f, sf); err != nil {
				t.Fatalf("span invariants: %v", err)
			}
		})
	}
}
