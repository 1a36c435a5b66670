package types

import (
	"fmt"

	"fortio.org/safecast"

	"tagcopy/internal/source"
)

// Builtins stores TypeIDs for the primitive types of the scenario language.
type Builtins struct {
	Void   TypeID
	Bool   TypeID
	Char   TypeID
	UChar  TypeID
	Short  TypeID
	UShort TypeID
	Int    TypeID
	UInt   TypeID
	Long   TypeID
	ULong  TypeID
	I128   TypeID
	U128   TypeID
	Float  TypeID
	Double TypeID
	Cap    TypeID
}

// Interner provides stable TypeIDs by hashing structural descriptors.
// Structs and generic params are nominal: each registration gets a fresh id.
type Interner struct {
	types    []Type
	index    map[Type]TypeID
	builtins Builtins
	byName   map[string]TypeID
	structs  []StructInfo
	params   []ParamInfo
}

// NewInterner constructs an interner seeded with built-in primitives.
func NewInterner() *Interner {
	in := &Interner{
		index:  make(map[Type]TypeID, 64),
		byName: make(map[string]TypeID, 16),
	}
	in.types = append(in.types, Type{Kind: KindInvalid}) // 0 = NoTypeID
	in.structs = append(in.structs, StructInfo{})
	in.params = append(in.params, ParamInfo{})

	b := &in.builtins
	b.Void = in.builtin("void", Type{Kind: KindVoid})
	b.Bool = in.builtin("bool", Type{Kind: KindBool})
	b.Char = in.builtin("char", Type{Kind: KindChar, Width: Width8})
	b.UChar = in.builtin("uchar", Type{Kind: KindChar, Width: Width8, Unsigned: true})
	b.Short = in.builtin("short", MakeInt(Width16, false))
	b.UShort = in.builtin("ushort", MakeInt(Width16, true))
	b.Int = in.builtin("int", MakeInt(Width32, false))
	b.UInt = in.builtin("uint", MakeInt(Width32, true))
	b.Long = in.builtin("long", MakeInt(Width64, false))
	b.ULong = in.builtin("ulong", MakeInt(Width64, true))
	b.I128 = in.builtin("i128", MakeInt(Width128, false))
	b.U128 = in.builtin("u128", MakeInt(Width128, true))
	b.Float = in.builtin("float", MakeFloat(Width32))
	b.Double = in.builtin("double", MakeFloat(Width64))
	b.Cap = in.builtin("cap", Type{Kind: KindCap})
	return in
}

func (in *Interner) builtin(name string, t Type) TypeID {
	id := in.Intern(t)
	in.byName[name] = id
	return id
}

// Builtins returns TypeIDs for primitive types.
func (in *Interner) Builtins() Builtins {
	return in.builtins
}

// LookupBuiltin resolves a primitive type name such as "ulong" or "cap".
func (in *Interner) LookupBuiltin(name string) (TypeID, bool) {
	id, ok := in.byName[name]
	return id, ok
}

// Intern ensures the provided descriptor has a stable TypeID.
func (in *Interner) Intern(t Type) TypeID {
	if t.Kind == KindInvalid {
		return NoTypeID
	}
	if id, ok := in.index[t]; ok {
		return id
	}
	return in.internRaw(t)
}

func (in *Interner) internRaw(t Type) TypeID {
	n, err := safecast.Conv[uint32](len(in.types))
	if err != nil {
		panic(fmt.Errorf("len(types) overflow: %w", err))
	}
	id := TypeID(n)
	in.types = append(in.types, t)
	in.index[t] = id
	return id
}

// Lookup returns the descriptor for a TypeID.
func (in *Interner) Lookup(id TypeID) (Type, bool) {
	if id == NoTypeID || int(id) >= len(in.types) {
		return Type{}, false
	}
	return in.types[id], true
}

// MustLookup panics when id is invalid.
func (in *Interner) MustLookup(id TypeID) Type {
	tt, ok := in.Lookup(id)
	if !ok {
		panic("types: invalid TypeID")
	}
	return tt
}

// Kind is a shortcut for MustLookup(id).Kind that tolerates NoTypeID.
func (in *Interner) Kind(id TypeID) Kind {
	tt, _ := in.Lookup(id)
	return tt.Kind
}

func slot(n int) uint32 {
	s, err := safecast.Conv[uint32](n)
	if err != nil {
		panic(fmt.Errorf("slot overflow: %w", err))
	}
	return s
}

// RegisterStruct allocates a nominal struct type and returns its TypeID.
// The struct starts incomplete until SetStructFields is called.
func (in *Interner) RegisterStruct(name string, decl source.Span) TypeID {
	in.structs = append(in.structs, StructInfo{Name: name, Decl: decl})
	return in.internRaw(Type{Kind: KindStruct, Payload: slot(len(in.structs) - 1)})
}

// SetStructFields completes the struct with its fields and methods.
func (in *Interner) SetStructFields(id TypeID, fields []StructField, methods []StructMethod) {
	info := in.structInfo(id)
	if info == nil {
		return
	}
	info.Fields = append([]StructField(nil), fields...)
	info.Methods = append([]StructMethod(nil), methods...)
	info.Complete = true
}

// StructInfo returns metadata for the provided struct TypeID.
func (in *Interner) StructInfo(id TypeID) (*StructInfo, bool) {
	info := in.structInfo(id)
	return info, info != nil
}

func (in *Interner) structInfo(id TypeID) *StructInfo {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindStruct || int(tt.Payload) >= len(in.structs) {
		return nil
	}
	return &in.structs[tt.Payload]
}

// RegisterParam allocates a fresh generic type parameter.
func (in *Interner) RegisterParam(name string, decl source.Span) TypeID {
	in.params = append(in.params, ParamInfo{Name: name, Decl: decl})
	return in.internRaw(Type{Kind: KindParam, Payload: slot(len(in.params) - 1)})
}

// ParamInfo returns metadata for a generic parameter type.
func (in *Interner) ParamInfo(id TypeID) (*ParamInfo, bool) {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindParam || int(tt.Payload) >= len(in.params) {
		return nil, false
	}
	return &in.params[tt.Payload], true
}
