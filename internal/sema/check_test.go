package sema

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"tagcopy/internal/diag"
	"tagcopy/internal/layout"
	"tagcopy/internal/tags"
)

const memtransferSrc = `
target purecap128;
struct OneCap { b: cap; }
struct strbuf { data: char[16]; }

fn test(c: *OneCap, ch: char, buf: *void, n: ulong, s: *char) {
    memmove(c, &ch, sizeof(ch));
    memcpy(c, "abc", 16);
    memmove(c, buf, n);
    memcpy(s, c, 16);
    copy(*c);
}
`

func TestMemtransferDispositions(t *testing.T) {
	got := checkSource(t, memtransferSrc, Options{})

	var attrs []string
	for _, tr := range got.result.Transfers {
		attrs = append(attrs, tr.Result.Disposition.Attribute())
	}
	want := []string{
		"no_preserve_cheri_tags",
		"no_preserve_cheri_tags",
		"must_preserve_cheri_tags",
		`must_preserve_cheri_tags "frontend-memtransfer-type"="'struct OneCap'"`,
		`must_preserve_cheri_tags "frontend-memtransfer-type"="'struct OneCap'"`,
	}
	if diff := cmp.Diff(want, attrs); diff != "" {
		t.Fatalf("attributes mismatch (-want +got):\n%s", diff)
	}
	if !got.result.Transfers[4].Implicit {
		t.Fatalf("copy(*c) must be an implicit transfer")
	}

	wantDiags := []string{
		"CG9001 memcpy operation with capability argument 'struct OneCap' and underaligned destination (aligned to 1 bytes) may be inefficient or result in CHERI tags bits being stripped",
	}
	if diff := cmp.Diff(wantDiags, messages(got.bag)); diff != "" {
		t.Fatalf("diagnostics mismatch (-want +got):\n%s", diff)
	}
	golden := diag.FormatShortDiagnostics(got.bag.Items(), got.fs, true)
	if !strings.Contains(golden, "note CG9001 test.cap:10:5 For more information") {
		t.Fatalf("missing note in:\n%s", golden)
	}
}

func TestOveralignedByteBuffers(t *testing.T) {
	src := `
struct Over { @align(32) array: char[32]; }
fn f(d: *char) {
    let abuf: @align(cap) char[16];
    let plain: char[16];
    let o: Over;
    memcpy(d, abuf, 16);
    memcpy(d, plain, 16);
    memcpy(d, &o, sizeof(o));
}
`
	got := checkSource(t, src, Options{})
	want := []string{
		"CG9001 memcpy operation with capability argument <unknown type> and underaligned destination (aligned to 1 bytes) may be inefficient or result in CHERI tags bits being stripped",
		"CG9001 memcpy operation with capability argument 'struct Over' and underaligned destination (aligned to 1 bytes) may be inefficient or result in CHERI tags bits being stripped",
	}
	if diff := cmp.Diff(want, messages(got.bag)); diff != "" {
		t.Fatalf("diagnostics mismatch (-want +got):\n%s", diff)
	}
	if n, ok := got.result.Transfers[2].Length.Bytes(); !ok || n != 32 {
		t.Fatalf("sizeof(o) = %d, %v; want 32", n, ok)
	}

	// the policy knob turns slot-sized plain buffers into possible tag storage
	got = checkSource(t, src, Options{Policy: tags.Policy{CharArraysAsTagStorage: true}})
	if len(got.bag.Items()) != 3 {
		t.Fatalf("want 3 warnings with CharArraysAsTagStorage, got:\n%s", strings.Join(messages(got.bag), "\n"))
	}
}

func TestOveralignedNestedByteBuffers(t *testing.T) {
	src := `
struct OneCap { b: cap; }
fn f(c: *OneCap) {
    let flat: @align(cap) char[32];
    let grid: @align(cap) char[2][16];
    let rows: char[2][16];
    memmove(c, flat, 32);
    memmove(c, grid, 32);
    memmove(c, rows, 32);
}
`
	got := checkSource(t, src, Options{})
	var attrs []string
	for _, tr := range got.result.Transfers {
		attrs = append(attrs, tr.Result.Disposition.Attribute())
	}
	want := []string{
		"must_preserve_cheri_tags",
		"must_preserve_cheri_tags",
		"no_preserve_cheri_tags",
	}
	if diff := cmp.Diff(want, attrs); diff != "" {
		t.Fatalf("attributes mismatch (-want +got):\n%s", diff)
	}
	if got.bag.Len() != 0 {
		t.Fatalf("slot-aligned destination must not warn:\n%s", strings.Join(messages(got.bag), "\n"))
	}
}

func TestTargetChangesPointerClassification(t *testing.T) {
	body := `
struct P { p: *char; }
fn f(d: *P, s: *P) {
    memcpy(d, s, sizeof(*s));
}
`
	tests := []struct {
		target string
		want   tags.DispositionKind
		size   int64
	}{
		{"target purecap128;", tags.MustPreserveTagsWithKnownType, 16},
		{"target purecap64;", tags.MustPreserveTagsWithKnownType, 8},
		{"target hybrid64;", tags.NoTagsPossible, 8},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			got := checkSource(t, tt.target+body, Options{})
			if len(got.result.Transfers) != 1 {
				t.Fatalf("transfers: %d", len(got.result.Transfers))
			}
			tr := got.result.Transfers[0]
			if tr.Result.Disposition.Kind != tt.want {
				t.Fatalf("disposition = %s, want %s", tr.Result.Disposition, tt.want)
			}
			if n, _ := tr.Length.Bytes(); n != tt.size {
				t.Fatalf("length = %d, want %d", n, tt.size)
			}
		})
	}
}

func TestVirtualMethodsCarryVtableCapability(t *testing.T) {
	src := `
struct V { x: int; virtual fn f(); }
fn g(d: *V, s: *V) {
    memcpy(d, s, sizeof(V));
}
`
	got := checkSource(t, src, Options{})
	tr := got.result.Transfers[0]
	if tr.Result.Source.Evidence != tags.HasCapabilities {
		t.Fatalf("source evidence = %s", tr.Result.Source)
	}
	if n, _ := tr.Length.Bytes(); n != 32 {
		t.Fatalf("sizeof(V) = %d, want 32", n)
	}
}

func TestTargetSelection(t *testing.T) {
	hybrid := layout.Hybrid64()
	got := checkSource(t, "fn f() {}", Options{Target: &hybrid})
	if got.result.Target.Name != "hybrid64" {
		t.Fatalf("fallback target = %s", got.result.Target.Name)
	}
	got = checkSource(t, "target purecap64;", Options{Target: &hybrid})
	if got.result.Target.Name != "purecap64" {
		t.Fatalf("declared target = %s", got.result.Target.Name)
	}
	got = checkSource(t, "target mips;", Options{})
	want := []string{"SEM3208 unknown target 'mips'"}
	if diff := cmp.Diff(want, messages(got.bag)); diff != "" {
		t.Fatalf("diagnostics mismatch (-want +got):\n%s", diff)
	}
	if got.result.Target.Name != layout.Default().Name {
		t.Fatalf("unknown target must fall back to the default")
	}
}

func TestSemanticErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []string
	}{
		{
			name: "incomplete local",
			src:  "struct fwd;\nfn f() { let x: fwd; }",
			want: []string{"SEM3200 variable has incomplete type 'struct fwd'"},
		},
		{
			name: "non-pointer operand",
			src:  "fn f(d: *char, n: int) { memcpy(d, n, 4); }",
			want: []string{"SEM3201 operand of type 'int' is not a pointer"},
		},
		{
			name: "memcpy arity",
			src:  "fn f(d: *char) { memcpy(d, d); }",
			want: []string{"SEM3202 too few arguments to function call, expected 3, have 2"},
		},
		{
			name: "copy of scalar",
			src:  "fn f(x: int) { copy(x); }",
			want: []string{"SEM3209 cannot copy-construct from a value of type 'int'; an aggregate lvalue is required"},
		},
		{
			name: "unknown names",
			src:  "fn f(x: nope) { memcpy(y, \"a\", 1); }",
			want: []string{"SEM3005 unknown type name 'nope'", "SEM3005 use of undeclared identifier 'y'"},
		},
		{
			name: "duplicate struct",
			src:  "struct A { x: int; }\nstruct A { y: int; }",
			want: []string{"SEM3002 redefinition of 'struct A'"},
		},
		{
			name: "recursive struct",
			src:  "struct A { x: int; }\nstruct B { b: B[1]; }",
			want: []string{"SEM3200 field has incomplete type 'struct B'"},
		},
		{
			name: "bad field alignment",
			src:  "struct A { @align(3) x: int; }",
			want: []string{"SEM3064 requested alignment is not a power of 2"},
		},
		{
			name: "redundant alignment",
			src:  "fn f(p: *int) { align_up(p, 1); }",
			want: []string{"SEM3206 aligning to 1 byte is a no-op"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := checkSource(t, tt.src, Options{})
			if diff := cmp.Diff(tt.want, messages(got.bag)); diff != "" {
				t.Fatalf("diagnostics mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
