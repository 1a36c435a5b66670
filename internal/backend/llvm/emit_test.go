package llvm

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"tagcopy/internal/ast"
	"tagcopy/internal/diag"
	"tagcopy/internal/layout"
	"tagcopy/internal/parser"
	"tagcopy/internal/sema"
	"tagcopy/internal/source"
	"tagcopy/internal/tags"
)

func checkSource(t *testing.T, src string) *sema.Result {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("emit.cap", []byte(src))
	bag := diag.NewBag(0)
	b := ast.NewBuilder(ast.Hints{})
	f := parser.ParseFile(fs.Get(id), b, parser.Options{Reporter: diag.BagReporter{Bag: bag}})
	res := sema.Check(f, b, sema.Options{Reporter: diag.BagReporter{Bag: bag}})
	if bag.HasErrors() {
		t.Fatalf("unexpected errors:\n%s", diag.FormatShortDiagnostics(bag.Items(), fs, false))
	}
	return &res
}

func TestEmitModulePurecap(t *testing.T) {
	res := checkSource(t, `
target purecap128;
struct OneCap { b: cap; }
fn test(c: *OneCap, s: *char, n: ulong) {
    memcpy(s, c, 16);
    memmove(c, "abc", n);
    memcpy(s, c, 32);
}
`)
	got, err := EmitModule(res)
	if err != nil {
		t.Fatalf("EmitModule: %v", err)
	}
	want := `target triple = "riscv64-unknown-freebsd-purecap"

declare void @llvm.memcpy.p200i8.p200i8.i64(i8 addrspace(200)*, i8 addrspace(200)*, i64, i1)
declare void @llvm.memmove.p200i8.p200i8.i64(i8 addrspace(200)*, i8 addrspace(200)*, i64, i1)

define void @test(i8 addrspace(200)* %s, i8 addrspace(200)* %c, i8 addrspace(200)* %str, i64 %n) {
entry:
  call void @llvm.memcpy.p200i8.p200i8.i64(i8 addrspace(200)* align 1 %s, i8 addrspace(200)* align 16 %c, i64 16, i1 false) #0
  call void @llvm.memmove.p200i8.p200i8.i64(i8 addrspace(200)* align 16 %c, i8 addrspace(200)* align 1 %str, i64 %n, i1 false) #1
  call void @llvm.memcpy.p200i8.p200i8.i64(i8 addrspace(200)* align 1 %s, i8 addrspace(200)* align 16 %c, i64 32, i1 false) #0
  ret void
}

attributes #0 = { must_preserve_cheri_tags "frontend-memtransfer-type"="'struct OneCap'" }
attributes #1 = { no_preserve_cheri_tags }
`
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("IR mismatch (-want +got):\n%s", diff)
	}
}

func TestEmitModuleHybridAndInstantiations(t *testing.T) {
	res := checkSource(t, `
target hybrid64;
struct Holder { c: cap; }
fn tmpl<T>(d: *T, s: *T) {
    memcpy(d, s, sizeof(T));
}
instantiate tmpl<Holder>;
instantiate tmpl<int>;
`)
	got, err := EmitModule(res)
	if err != nil {
		t.Fatalf("EmitModule: %v", err)
	}
	for _, want := range []string{
		"declare void @llvm.memcpy.p0i8.p0i8.i64(i8*, i8*, i64, i1)\n",
		`define void @"tmpl<struct Holder>"(i8* %d, i8* %s) {`,
		`define void @"tmpl<int>"(i8* %d, i8* %s) {`,
		"call void @llvm.memcpy.p0i8.p0i8.i64(i8* align 16 %d, i8* align 16 %s, i64 16, i1 false) #0",
		"call void @llvm.memcpy.p0i8.p0i8.i64(i8* align 4 %d, i8* align 4 %s, i64 4, i1 false) #1",
		`attributes #0 = { must_preserve_cheri_tags "frontend-memtransfer-type"="'struct Holder'" }`,
		"attributes #1 = { must_preserve_cheri_tags }",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("missing %q in:\n%s", want, got)
		}
	}
}

func TestEmitModuleEmpty(t *testing.T) {
	res := checkSource(t, "target purecap64;\nfn f() {}")
	got, err := EmitModule(res)
	if err != nil {
		t.Fatalf("EmitModule: %v", err)
	}
	if got != "target triple = \"riscv32-unknown-freebsd-purecap\"\n\n" {
		t.Fatalf("unexpected output %q", got)
	}
	if _, err := EmitModule(nil); err == nil {
		t.Fatalf("nil result must fail")
	}
}

func TestFallbackNamesKeepTheirTypes(t *testing.T) {
	preserve := tags.Result{Decision: tags.Decision{Disposition: tags.Disposition{Kind: tags.MustPreserveTags}}}
	res := &sema.Result{
		Target: layout.Purecap128(),
		Transfers: []sema.Transfer{
			{Func: "f", Op: tags.Memcpy, DstValue: "d", SrcValue: "tmp", LenValue: "tmp", Length: tags.Dynamic(), Result: preserve},
			{Func: "f", Op: tags.Memcpy, DstValue: "tmp", SrcValue: "d", LenValue: "tmp", Length: tags.Dynamic(), Result: preserve},
		},
	}
	got, err := EmitModule(res)
	if err != nil {
		t.Fatalf("EmitModule: %v", err)
	}
	for _, want := range []string{
		"define void @f(i8 addrspace(200)* %d, i8 addrspace(200)* %tmp, i64 %tmp.1) {",
		"align 1 %d, i8 addrspace(200)* align 1 %tmp, i64 %tmp.1, i1 false) #0",
		"align 1 %tmp, i8 addrspace(200)* align 1 %d, i64 %tmp.1, i1 false) #0",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("missing %q in:\n%s", want, got)
		}
	}
}

func TestParamListDedupe(t *testing.T) {
	p := newParamList()
	names := []string{
		p.add("c", "dst", "i8*"),
		p.add("", "src", "i8*"),
		p.add("c", "dst", "i8*"),
		p.add(".str", "src", "i8*"),
		p.add("c", "len", "i64"),
		p.add("c", "len", "i64"),
	}
	if diff := cmp.Diff([]string{"c", "src", "c", "str", "c.1", "c.1"}, names); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
	if got := p.String(); got != "i8* %c, i8* %src, i8* %str, i64 %c.1" {
		t.Fatalf("params = %s", got)
	}
}

func TestGlobalName(t *testing.T) {
	if got := globalName("test"); got != "@test" {
		t.Fatalf("plain name = %s", got)
	}
	if got := globalName("templ<int, 7>"); got != `@"templ<int, 7>"` {
		t.Fatalf("quoted name = %s", got)
	}
}
