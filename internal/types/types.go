package types

import "fmt"

// TypeID uniquely identifies a type inside the interner.
type TypeID uint32

// NoTypeID marks the absence of a type.
const NoTypeID TypeID = 0

// Kind enumerates all supported kinds of types.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindVoid
	KindBool
	KindChar // char / uchar: the byte type
	KindInt
	KindFloat
	KindCap           // raw capability value (intcap)
	KindPointer       // *T, a capability on purecap targets
	KindArray         // T[N]
	KindStruct        // nominal aggregate
	KindMemberPointer // int S::* / void (S::*)()
	KindParam         // uninstantiated generic type parameter
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindVoid:
		return "void"
	case KindBool:
		return "bool"
	case KindChar:
		return "char"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindCap:
		return "cap"
	case KindPointer:
		return "pointer"
	case KindArray:
		return "array"
	case KindStruct:
		return "struct"
	case KindMemberPointer:
		return "member-pointer"
	case KindParam:
		return "param"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Width captures the precision of integers/floats in bits.
type Width uint8

const (
	Width8   Width = 8
	Width16  Width = 16
	Width32  Width = 32
	Width64  Width = 64
	Width128 Width = 128
)

// Type is a compact descriptor for any supported type.
type Type struct {
	Kind     Kind
	Elem     TypeID // pointer/array element, member-pointer pointee
	Count    uint32 // array length
	Width    Width  // numeric primitives
	Unsigned bool   // numeric primitives
	Payload  uint32 // struct/param slot; owner struct TypeID for member pointers
	Func     bool   // member pointer to function
}

// MakeInt describes an integer of the given width.
func MakeInt(width Width, unsigned bool) Type {
	return Type{Kind: KindInt, Width: width, Unsigned: unsigned}
}

func MakeFloat(width Width) Type {
	return Type{Kind: KindFloat, Width: width}
}

func MakePointer(elem TypeID) Type {
	return Type{Kind: KindPointer, Elem: elem}
}

func MakeArray(elem TypeID, count uint32) Type {
	return Type{Kind: KindArray, Elem: elem, Count: count}
}

// MakeMemberPointer describes a pointer to a data member (fn=false) or member
// function (fn=true) of owner.
func MakeMemberPointer(owner, elem TypeID, fn bool) Type {
	return Type{Kind: KindMemberPointer, Elem: elem, Payload: uint32(owner), Func: fn}
}
