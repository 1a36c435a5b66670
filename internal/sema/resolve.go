package sema

import (
	"fmt"

	"fortio.org/safecast"

	"tagcopy/internal/ast"
	"tagcopy/internal/diag"
	"tagcopy/internal/tags"
	"tagcopy/internal/types"
)

// resolveType maps a syntactic type to an interned one. It reports and
// returns NoTypeID on failure.
func (c *checker) resolveType(id ast.TypeID) types.TypeID {
	te := c.typeExpr(id)
	if te == nil {
		return types.NoTypeID
	}
	switch te.Kind {
	case ast.TypeName:
		if t, ok := c.lookupTypeName(te.Name); ok {
			return t
		}
		c.errorf(diag.SemaUnresolvedSymbol, te.Span, fmt.Sprintf("unknown type name '%s'", te.Name))
		return types.NoTypeID

	case ast.TypePointer:
		elem := c.resolveType(te.Elem)
		if elem == types.NoTypeID {
			return types.NoTypeID
		}
		return c.types.Intern(types.MakePointer(elem))

	case ast.TypeArray:
		elem := c.resolveType(te.Elem)
		if elem == types.NoTypeID {
			return types.NoTypeID
		}
		n := c.constEval(te.Len)
		switch n.state {
		case constDependent:
			// T[A] before instantiation: an opaque dependent placeholder
			return c.types.RegisterParam(fmt.Sprintf("%s[%s]", types.Label(c.types, elem), n.text), te.Span)
		case constInvalid:
			return types.NoTypeID
		}
		if n.value < 1 {
			c.errorf(diag.SemaAttrInvalidParameter, te.Span, fmt.Sprintf("array size must be positive, got %d", n.value))
			return types.NoTypeID
		}
		count, err := safecast.Conv[uint32](n.value)
		if err != nil {
			c.errorf(diag.SemaAttrInvalidParameter, te.Span, fmt.Sprintf("array size %d is too large", n.value))
			return types.NoTypeID
		}
		return c.types.Intern(types.MakeArray(elem, count))
	}
	return types.NoTypeID
}

func (c *checker) lookupTypeName(name string) (types.TypeID, bool) {
	if t, ok := c.lookupTypeParam(name); ok {
		return t, true
	}
	if t, ok := c.types.LookupBuiltin(name); ok {
		return t, true
	}
	if t, ok := c.structs[name]; ok {
		return t, true
	}
	return types.NoTypeID, false
}

// alignAttr evaluates @align(N) or @align(T). The bool result is false when
// the attribute is absent, invalid or still dependent.
func (c *checker) alignAttr(attr *ast.AlignAttr) (int, bool) {
	if attr == nil {
		return 0, false
	}
	if attr.Type != ast.NoTypeID {
		t := c.resolveType(attr.Type)
		if t == types.NoTypeID || c.types.IsDependent(t) {
			return 0, false
		}
		a, err := c.result.Layout.AlignOf(t)
		if err != nil {
			c.errorf(diag.SemaAttrInvalidParameter, attr.Span, "invalid @align type: "+err.Error())
			return 0, false
		}
		return a, true
	}
	v := c.constEval(attr.Value)
	switch v.state {
	case constDependent, constInvalid:
		return 0, false
	}
	if v.value < 1 || v.value&(v.value-1) != 0 {
		c.errorf(diag.SemaAttrAlignNotPowerOfTwo, attr.Span, "requested alignment is not a power of 2")
		return 0, false
	}
	a, err := safecast.Conv[int](v.value)
	if err != nil {
		return 0, false
	}
	return a, true
}

// naturalAlign is the ABI alignment of t, or 1 when t has no layout.
func (c *checker) naturalAlign(t types.TypeID) int {
	if t == types.NoTypeID || c.types.IsDependent(t) {
		return 1
	}
	a, err := c.result.Layout.AlignOf(t)
	if err != nil {
		return 1
	}
	return a
}

// staticType describes an object of type t at a known location.
func (c *checker) staticType(t types.TypeID) tags.StaticType {
	tt, ok := c.types.Lookup(t)
	if !ok {
		return tags.OpaquePointer{Pointee: "?"}
	}
	switch tt.Kind {
	case types.KindVoid:
		return tags.OpaquePointer{Pointee: "void"}
	case types.KindBool, types.KindChar, types.KindInt, types.KindFloat:
		return tags.KnownScalar{Kind: scalarKind(tt.Kind)}
	case types.KindCap:
		return tags.KnownCapability{Pointee: types.Label(c.types, t)}
	case types.KindPointer:
		if c.result.Target.Purecap {
			return tags.KnownCapability{Pointee: types.Label(c.types, tt.Elem)}
		}
		return tags.KnownScalar{Kind: tags.ScalarInteger}
	case types.KindMemberPointer:
		// member function pointers hold a code pointer
		if tt.Func && c.result.Target.Purecap {
			return tags.KnownCapability{Pointee: types.Label(c.types, t)}
		}
		return tags.KnownScalar{Kind: tags.ScalarInteger}
	case types.KindArray:
		elem, _ := c.types.Lookup(tt.Elem)
		switch elem.Kind {
		case types.KindBool, types.KindChar, types.KindInt, types.KindFloat:
			return tags.KnownScalarArray{Elem: scalarKind(elem.Kind), Count: int(tt.Count)}
		}
		return tags.KnownCompositeArray{Elem: c.staticType(tt.Elem), Count: int(tt.Count)}
	case types.KindStruct:
		return c.aggregate(t)
	}
	return tags.UnknownViaIndirection{Pointee: types.Label(c.types, t)}
}

func (c *checker) aggregate(t types.TypeID) tags.StaticType {
	label := types.Label(c.types, t)
	info, ok := c.types.StructInfo(t)
	if !ok || !info.Complete {
		return tags.UnknownViaIndirection{Pointee: label}
	}
	var fields []tags.Field
	if c.result.Target.Purecap && hasVirtual(info) {
		fields = append(fields, tags.Field{Name: "__vptr", Type: tags.KnownCapability{Pointee: "vtable"}, Align: c.result.Target.PtrAlign})
	}
	for _, f := range info.Fields {
		natural := c.naturalAlign(f.Type)
		fields = append(fields, tags.Field{
			Name:                  f.Name,
			Type:                  c.staticType(f.Type),
			Align:                 max(natural, f.Align),
			ExplicitlyOveraligned: f.Align > natural,
		})
	}
	return tags.KnownAggregate{Name: label, Fields: fields}
}

// pointeeType describes memory reached through a pointer to t.
func (c *checker) pointeeType(t types.TypeID) tags.StaticType {
	label := types.Label(c.types, t)
	switch c.types.Kind(t) {
	case types.KindVoid:
		return tags.OpaquePointer{Pointee: label}
	case types.KindChar:
		// byte pointers may alias anything
		return tags.UnknownViaIndirection{Pointee: label}
	case types.KindStruct:
		if !c.types.IsComplete(t) {
			return tags.UnknownViaIndirection{Pointee: label}
		}
	}
	return c.staticType(t)
}

func hasVirtual(info *types.StructInfo) bool {
	for _, m := range info.Methods {
		if m.Virtual {
			return true
		}
	}
	return false
}

func scalarKind(k types.Kind) tags.ScalarKind {
	switch k {
	case types.KindChar:
		return tags.ScalarChar
	case types.KindFloat:
		return tags.ScalarFloat
	case types.KindBool:
		return tags.ScalarBool
	}
	return tags.ScalarInteger
}
