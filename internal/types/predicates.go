package types

// IsIntegral reports integer, char and bool types.
func (in *Interner) IsIntegral(id TypeID) bool {
	switch in.Kind(id) {
	case KindInt, KindChar, KindBool:
		return true
	}
	return false
}

// IsScalar reports arithmetic types that can never hold a capability.
func (in *Interner) IsScalar(id TypeID) bool {
	return in.IsIntegral(id) || in.Kind(id) == KindFloat
}

// IsCapability reports types whose values occupy a capability slot.
func (in *Interner) IsCapability(id TypeID) bool {
	switch in.Kind(id) {
	case KindCap, KindPointer:
		return true
	}
	return false
}

func (in *Interner) IsChar(id TypeID) bool {
	return in.Kind(id) == KindChar
}

// IsDependent reports whether id mentions an uninstantiated generic parameter.
func (in *Interner) IsDependent(id TypeID) bool {
	tt, ok := in.Lookup(id)
	if !ok {
		return false
	}
	switch tt.Kind {
	case KindParam:
		return true
	case KindPointer, KindArray, KindMemberPointer:
		return in.IsDependent(tt.Elem)
	}
	return false
}

// Decay turns T[N] into *T and leaves other types unchanged.
func (in *Interner) Decay(id TypeID) TypeID {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindArray {
		return id
	}
	return in.Intern(MakePointer(tt.Elem))
}

// Elem returns the element/pointee type of pointers and arrays.
func (in *Interner) Elem(id TypeID) TypeID {
	tt, ok := in.Lookup(id)
	if !ok {
		return NoTypeID
	}
	switch tt.Kind {
	case KindPointer, KindArray:
		return tt.Elem
	}
	return NoTypeID
}

// IsComplete is false for forward-declared structs and arrays of them.
func (in *Interner) IsComplete(id TypeID) bool {
	tt, ok := in.Lookup(id)
	if !ok {
		return false
	}
	switch tt.Kind {
	case KindVoid:
		return false
	case KindStruct:
		info, ok := in.StructInfo(id)
		return ok && info.Complete
	case KindArray:
		return in.IsComplete(tt.Elem)
	}
	return true
}

// Substitute replaces generic parameters according to subst.
func (in *Interner) Substitute(id TypeID, subst map[TypeID]TypeID) TypeID {
	tt, ok := in.Lookup(id)
	if !ok {
		return id
	}
	switch tt.Kind {
	case KindParam:
		if to, ok := subst[id]; ok {
			return to
		}
		return id
	case KindPointer, KindArray, KindMemberPointer:
		elem := in.Substitute(tt.Elem, subst)
		if elem == tt.Elem {
			return id
		}
		tt.Elem = elem
		return in.Intern(tt)
	}
	return id
}
