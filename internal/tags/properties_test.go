package tags

import (
	"fmt"
	"testing"
)

// operandUniverse enumerates representative operands for property checks.
func operandUniverse() []Operand {
	types := []StaticType{
		oneCap,
		KnownAggregate{Name: "struct Plain", Fields: []Field{{Name: "x", Type: KnownScalar{Kind: ScalarInteger}, Align: 4}}},
		KnownAggregate{Name: "struct Over", Fields: []Field{{Name: "b", Type: KnownScalarArray{Elem: ScalarChar, Count: 32}, Align: 16, ExplicitlyOveraligned: true}}},
		KnownScalarArray{Elem: ScalarInteger, Count: 16},
		KnownScalarArray{Elem: ScalarChar, Count: 16},
		KnownCompositeArray{Elem: KnownCapability{}, Count: 2},
		KnownCompositeArray{Elem: oneCap, Count: 2},
		KnownCompositeArray{Elem: KnownScalarArray{Elem: ScalarChar, Count: 16}, Count: 2},
		KnownScalar{Kind: ScalarInteger},
		KnownScalar{Kind: ScalarChar},
		KnownCapability{Pointee: "void"},
		OpaquePointer{Pointee: "void"},
		UnknownViaIndirection{Pointee: "char"},
	}
	var out []Operand
	for _, st := range types {
		for _, prov := range []Provenance{AddressOf, ArrayDecay, Indirect, Literal} {
			for _, align := range []int{1, 4, 16, 32} {
				for _, over := range []bool{false, true} {
					out = append(out, Operand{Type: st, Provenance: prov, DeclaredAlign: align, ExplicitlyOveraligned: over})
				}
			}
		}
	}
	return out
}

func lengths() []TransferLength {
	return []TransferLength{StaticallyKnown(1), StaticallyKnown(16), StaticallyKnown(40), Dynamic()}
}

// containsCapability is ground truth by construction, independent of the classifier.
func containsCapability(t StaticType) bool {
	switch t := t.(type) {
	case KnownCapability:
		return true
	case KnownAggregate:
		for _, f := range t.Fields {
			if containsCapability(f.Type) {
				return true
			}
		}
	case KnownCompositeArray:
		return t.Count > 0 && containsCapability(t.Elem)
	}
	return false
}

// A capability-bearing source must never be classified as tag-free,
// whatever the destination and length.
func TestSoundness(t *testing.T) {
	c := Classifier{Layout: purecap}
	universe := operandUniverse()
	for _, src := range universe {
		if src.Provenance == Literal || !containsCapability(src.Type) {
			continue
		}
		for _, dst := range universe {
			for _, l := range lengths() {
				if d := c.Explain(src, dst, l); d.Disposition.Kind == NoTagsPossible {
					t.Fatalf("capability source %v -> %v classified tag-free: %s", src.Type, dst.Type, d)
				}
			}
		}
	}
}

// overalignedBytes reports char storage aligned for capability slots, at
// any nesting depth. align/over come from the enclosing declaration.
func overalignedBytes(t StaticType, align int, over bool) bool {
	switch t := t.(type) {
	case KnownScalarArray:
		return t.Elem == ScalarChar && over && align >= purecap.SlotAlign
	case KnownCompositeArray:
		return t.Count > 0 && overalignedBytes(t.Elem, align, over)
	case KnownAggregate:
		for _, f := range t.Fields {
			if overalignedBytes(f.Type, f.Align, f.ExplicitlyOveraligned) {
				return true
			}
		}
	}
	return false
}

func TestOveralignedByteStorageKeepsTags(t *testing.T) {
	c := Classifier{Layout: purecap}
	for _, src := range operandUniverse() {
		if src.Provenance == Literal || !overalignedBytes(src.Type, src.DeclaredAlign, src.ExplicitlyOveraligned) {
			continue
		}
		for _, l := range lengths() {
			if d := c.Explain(src, capDst(), l); !d.Disposition.PreservesTags() {
				t.Fatalf("%v (align %d) classified tag-free: %s", src.Type, src.DeclaredAlign, d)
			}
		}
	}
}

func TestLiteralSideNeverRequiresPreservation(t *testing.T) {
	c := Classifier{Layout: purecap}
	for _, other := range operandUniverse() {
		lit := Operand{Type: KnownScalarArray{Elem: ScalarChar, Count: 4}, Provenance: Literal, DeclaredAlign: 1}
		for _, l := range lengths() {
			if d := c.Classify(lit, other, l); d.PreservesTags() {
				t.Fatalf("literal source into %v preserves tags: %s", other.Type, d)
			}
			// as destination the literal contributes nothing of its own
			if got, want := c.Classify(other, lit, l), c.Classify(other, capDst(), l); got != want {
				t.Fatalf("%v into literal: %s, want %s", other.Type, got, want)
			}
		}
	}
}

func TestDiagnosticTrigger(t *testing.T) {
	c := Classifier{Layout: purecap}
	universe := operandUniverse()
	for _, src := range universe {
		for _, dst := range universe {
			res := c.Check(Memmove, dst.Span, src, dst, StaticallyKnown(16))
			want := res.Disposition.PreservesTags() && dst.DeclaredAlign < purecap.SlotAlign
			if (res.Warning != nil) != want {
				t.Fatalf("src %v dst %v (align %d) %s: warning=%v", src.Type, dst.Type, dst.DeclaredAlign, res.Disposition, res.Warning != nil)
			}
		}
	}
}

func TestInefficientCopyMessage(t *testing.T) {
	c := Classifier{Layout: purecap}
	voidBuf := Operand{Type: OpaquePointer{Pointee: "void"}, Provenance: Indirect, DeclaredAlign: 1}
	intBuf := Operand{Type: KnownScalar{Kind: ScalarInteger}, Provenance: Indirect, DeclaredAlign: 4}

	tests := []struct {
		op   MemOp
		src  Operand
		dst  Operand
		want string
	}{
		{Memmove, capDst(), voidBuf, "memmove operation with capability argument 'struct OneCap' and underaligned destination (aligned to 1 bytes) may be inefficient or result in CHERI tags bits being stripped"},
		{Memcpy, voidBuf, voidBuf, "memcpy operation with capability argument <unknown type> and underaligned destination (aligned to 1 bytes) may be inefficient or result in CHERI tags bits being stripped"},
		{Memmove, capDst(), intBuf, "memmove operation with capability argument 'struct OneCap' and underaligned destination (aligned to 4 bytes) may be inefficient or result in CHERI tags bits being stripped"},
	}
	for i, tt := range tests {
		t.Run(fmt.Sprint(i), func(t *testing.T) {
			res := c.Check(tt.op, tt.dst.Span, tt.src, tt.dst, StaticallyKnown(16))
			if res.Warning == nil {
				t.Fatal("expected warning")
			}
			if got := res.Warning.Message(); got != tt.want {
				t.Fatalf("message:\n got %s\nwant %s", got, tt.want)
			}
		})
	}

	if res := c.Check(Memmove, voidBuf.Span, voidBuf, capDst(), StaticallyKnown(16)); res.Warning != nil {
		t.Fatal("slot-aligned destination must not warn")
	}
}
