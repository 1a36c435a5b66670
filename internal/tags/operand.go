package tags

import (
	"fmt"

	"tagcopy/internal/source"
)

// Provenance records how an operand address was formed.
type Provenance uint8

const (
	AddressOf  Provenance = iota // &x
	ArrayDecay                   // array name used as a pointer
	Indirect                     // value of a pointer variable
	Literal                      // string literal or other constant data
)

func (p Provenance) String() string {
	switch p {
	case AddressOf:
		return "address-of"
	case ArrayDecay:
		return "array-decay"
	case Indirect:
		return "indirect"
	case Literal:
		return "literal"
	}
	return fmt.Sprintf("Provenance(%d)", p)
}

// ScalarKind classifies non-capability primitives.
type ScalarKind uint8

const (
	ScalarInteger ScalarKind = iota
	ScalarChar               // char / unsigned char: the byte type
	ScalarFloat
	ScalarBool
)

func (k ScalarKind) String() string {
	switch k {
	case ScalarChar:
		return "char"
	case ScalarFloat:
		return "float"
	case ScalarBool:
		return "bool"
	default:
		return "integer"
	}
}

// StaticType is the static knowledge about what an operand points at.
// Implementations: KnownAggregate, KnownScalarArray, KnownCompositeArray,
// KnownScalar, KnownCapability, OpaquePointer, UnknownViaIndirection.
type StaticType interface {
	fmt.Stringer
	isStaticType()
}

// KnownAggregate is a complete struct with a known field layout.
// Name is the display spelling, e.g. "struct OneCap".
type KnownAggregate struct {
	Name   string
	Fields []Field
}

// KnownScalarArray is an array of scalars, including char buffers.
type KnownScalarArray struct {
	Elem  ScalarKind
	Count int
}

// KnownCompositeArray is an array of capabilities, aggregates or nested arrays.
type KnownCompositeArray struct {
	Elem  StaticType
	Count int
}

// KnownScalar is a single non-capability scalar.
type KnownScalar struct {
	Kind ScalarKind
}

// KnownCapability is a capability-sized value: a pointer on purecap targets
// or an explicit capability integer.
type KnownCapability struct {
	Pointee string
}

// OpaquePointer is memory reached through a type-erased pointer (void *).
type OpaquePointer struct {
	Pointee string
}

// UnknownViaIndirection is memory reached through a pointer whose pointee
// may be reinterpreted freely (char *, incomplete structs).
type UnknownViaIndirection struct {
	Pointee string
}

func (KnownAggregate) isStaticType()        {}
func (KnownScalarArray) isStaticType()      {}
func (KnownCompositeArray) isStaticType()   {}
func (KnownScalar) isStaticType()           {}
func (KnownCapability) isStaticType()       {}
func (OpaquePointer) isStaticType()         {}
func (UnknownViaIndirection) isStaticType() {}

func (t KnownAggregate) String() string   { return t.Name }
func (t KnownScalarArray) String() string { return fmt.Sprintf("%s[%d]", t.Elem, t.Count) }
func (t KnownCompositeArray) String() string {
	return fmt.Sprintf("%s[%d]", t.Elem, t.Count)
}
func (t KnownScalar) String() string { return t.Kind.String() }
func (t KnownCapability) String() string {
	if t.Pointee == "" {
		return "capability"
	}
	return "capability to " + t.Pointee
}
func (t OpaquePointer) String() string         { return "opaque " + t.Pointee }
func (t UnknownViaIndirection) String() string { return "unknown via " + t.Pointee }

// Field is one member of a KnownAggregate.
type Field struct {
	Name                  string
	Type                  StaticType
	Align                 int
	ExplicitlyOveraligned bool
}

// Operand describes one side of a memory transfer.
type Operand struct {
	Type                  StaticType
	Provenance            Provenance
	DeclaredAlign         int
	ExplicitlyOveraligned bool
	Span                  source.Span
}

// TransferLength is the byte count of a transfer, when it is a constant.
type TransferLength struct {
	n     int64
	known bool
}

// StaticallyKnown is a length folded to a constant.
func StaticallyKnown(n int64) TransferLength {
	return TransferLength{n: n, known: true}
}

// Dynamic is a length only known at run time.
func Dynamic() TransferLength {
	return TransferLength{}
}

// Bytes returns the constant length, if known.
func (l TransferLength) Bytes() (int64, bool) {
	return l.n, l.known
}

// CoversSlot reports a known length of at least one full slot.
func (l TransferLength) CoversSlot(layout CapabilityLayout) bool {
	return l.known && l.n >= int64(layout.SlotWidth)
}

// Precise reports a known length that is an exact, non-zero multiple of the slot width.
func (l TransferLength) Precise(layout CapabilityLayout) bool {
	return l.CoversSlot(layout) && l.n%int64(layout.SlotWidth) == 0
}

func (l TransferLength) String() string {
	if !l.known {
		return "dynamic"
	}
	return fmt.Sprintf("%d", l.n)
}
