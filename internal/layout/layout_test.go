package layout

import (
	"errors"
	"testing"

	"tagcopy/internal/source"
	"tagcopy/internal/types"
)

func TestScalarAndCapabilityLayouts(t *testing.T) {
	in := types.NewInterner()
	b := in.Builtins()
	tests := []struct {
		target Target
		id     types.TypeID
		size   int
		align  int
	}{
		{Purecap128(), b.Char, 1, 1},
		{Purecap128(), b.Long, 8, 8},
		{Purecap128(), b.U128, 16, 16},
		{Purecap128(), b.Cap, 16, 16},
		{Purecap128(), in.Intern(types.MakePointer(b.Void)), 16, 16},
		{Hybrid64(), in.Intern(types.MakePointer(b.Void)), 8, 8},
		{Hybrid64(), b.Cap, 16, 16},
		{Purecap64(), b.Cap, 8, 8},
		{Purecap128(), in.Intern(types.MakeArray(b.Int, 16)), 64, 4},
	}
	for _, tt := range tests {
		e := New(tt.target, in)
		l, err := e.LayoutOf(tt.id)
		if err != nil {
			t.Fatalf("%s on %s: %v", types.Label(in, tt.id), tt.target.Name, err)
		}
		if l.Size != tt.size || l.Align != tt.align {
			t.Errorf("%s on %s: got %d/%d, want %d/%d", types.Label(in, tt.id), tt.target.Name, l.Size, l.Align, tt.size, tt.align)
		}
	}
}

func TestStructLayoutHonoursExplicitAlignment(t *testing.T) {
	in := types.NewInterner()
	b := in.Builtins()
	s := in.RegisterStruct("Over", source.Span{})
	in.SetStructFields(s, []types.StructField{
		{Name: "tag", Type: b.Char},
		{Name: "array", Type: in.Intern(types.MakeArray(b.Char, 32)), Align: 32},
	}, nil)

	l, err := New(Purecap128(), in).LayoutOf(s)
	if err != nil {
		t.Fatal(err)
	}
	if l.Align != 32 || l.Size != 64 || l.FieldOffsets[1] != 32 {
		t.Fatalf("unexpected layout %+v", l)
	}
}

func TestVirtualMethodsAddVtablePointer(t *testing.T) {
	in := types.NewInterner()
	b := in.Builtins()
	s := in.RegisterStruct("MemPtr", source.Span{})
	in.SetStructFields(s, []types.StructField{{Name: "data", Type: b.Int}},
		[]types.StructMethod{{Name: "func"}, {Name: "vfunc", Virtual: true}})

	l, err := New(Purecap128(), in).LayoutOf(s)
	if err != nil {
		t.Fatal(err)
	}
	if l.FieldOffsets[0] != 16 || l.Size != 32 || l.Align != 16 {
		t.Fatalf("unexpected layout %+v", l)
	}
}

func TestLayoutErrors(t *testing.T) {
	in := types.NewInterner()
	fwd := in.RegisterStruct("fwddecl", source.Span{})
	node := in.RegisterStruct("Node", source.Span{})
	in.SetStructFields(node, []types.StructField{{Name: "next", Type: node}}, nil)
	param := in.RegisterParam("T", source.Span{})

	tests := []struct {
		id   types.TypeID
		kind LayoutErrorKind
	}{
		{fwd, LayoutErrIncomplete},
		{in.Builtins().Void, LayoutErrIncomplete},
		{node, LayoutErrRecursiveUnsized},
		{in.Intern(types.MakeArray(param, 4)), LayoutErrDependent},
	}
	e := New(Purecap128(), in)
	for _, tt := range tests {
		_, err := e.LayoutOf(tt.id)
		var le *LayoutError
		if !errors.As(err, &le) || le.Kind != tt.kind {
			t.Errorf("%s: got %v, want kind %d", types.Label(in, tt.id), err, tt.kind)
		}
	}
}

func TestLookupTarget(t *testing.T) {
	for _, name := range TargetNames() {
		tgt, ok := LookupTarget(name)
		if !ok || tgt.Name != name {
			t.Fatalf("LookupTarget(%q) = %+v, %v", name, tgt, ok)
		}
		if err := tgt.CapabilityLayout().Validate(); err != nil {
			t.Fatalf("%s: %v", name, err)
		}
	}
	if _, ok := LookupTarget("x86_64"); ok {
		t.Fatal("unknown target resolved")
	}
	if got := Purecap128().WithSlot(32, 32); got.PtrSize != 32 || got.CapAlign != 32 {
		t.Fatalf("WithSlot = %+v", got)
	}
}
