package layout

import (
	"tagcopy/internal/types"
)

func (e *LayoutEngine) computeLayout(id types.TypeID, stack []types.TypeID) (TypeLayout, *LayoutError) {
	tt, ok := e.Types.Lookup(id)
	if !ok {
		return TypeLayout{Size: 0, Align: 1}, nil
	}

	switch tt.Kind {
	case types.KindVoid:
		return TypeLayout{Size: 0, Align: 1}, e.errorFor(LayoutErrIncomplete, id)

	case types.KindBool, types.KindChar:
		return scalarLayoutBytes(1), nil

	case types.KindInt, types.KindFloat:
		return scalarLayoutBytes(int(tt.Width) / 8), nil

	case types.KindCap:
		return TypeLayout{Size: e.Target.CapSize, Align: e.Target.CapAlign}, nil

	case types.KindPointer:
		return TypeLayout{Size: e.Target.PtrSize, Align: e.Target.PtrAlign}, nil

	case types.KindMemberPointer:
		// data member: ptrdiff offset; member function: code pointer + adjustment
		if tt.Func {
			return TypeLayout{Size: e.Target.PtrSize * 2, Align: e.Target.PtrAlign}, nil
		}
		return scalarLayoutBytes(8), nil

	case types.KindArray:
		elem, err := e.layoutOf(tt.Elem, stack)
		if err != nil {
			return TypeLayout{Size: 0, Align: 1}, err
		}
		return TypeLayout{Size: elem.Size * int(tt.Count), Align: elem.Align}, nil

	case types.KindStruct:
		return e.structLayout(id, stack)

	case types.KindParam:
		return TypeLayout{Size: 0, Align: 1}, e.errorFor(LayoutErrDependent, id)
	}
	return TypeLayout{Size: 0, Align: 1}, nil
}

func (e *LayoutEngine) structLayout(id types.TypeID, stack []types.TypeID) (TypeLayout, *LayoutError) {
	info, ok := e.Types.StructInfo(id)
	if !ok || !info.Complete {
		return TypeLayout{Size: 0, Align: 1}, e.errorFor(LayoutErrIncomplete, id)
	}

	out := TypeLayout{
		Align:        1,
		FieldOffsets: make([]int, len(info.Fields)),
		FieldAligns:  make([]int, len(info.Fields)),
	}
	off := 0
	if hasVirtual(info) {
		// vtable pointer goes first
		off = e.Target.PtrSize
		out.Align = e.Target.PtrAlign
	}
	for i, f := range info.Fields {
		fl, err := e.layoutOf(f.Type, stack)
		if err != nil {
			return TypeLayout{Size: 0, Align: 1}, err
		}
		align := max(fl.Align, f.Align)
		off = roundUp(off, align)
		out.FieldOffsets[i] = off
		out.FieldAligns[i] = align
		off += fl.Size
		out.Align = max(out.Align, align)
	}
	out.Size = roundUp(off, out.Align)
	if out.Size == 0 {
		out.Size = 1
	}
	return out, nil
}

func hasVirtual(info *types.StructInfo) bool {
	for _, m := range info.Methods {
		if m.Virtual {
			return true
		}
	}
	return false
}

func (e *LayoutEngine) errorFor(kind LayoutErrorKind, id types.TypeID) *LayoutError {
	return &LayoutError{Kind: kind, Type: id, Label: types.Label(e.Types, id)}
}

func scalarLayoutBytes(n int) TypeLayout {
	if n <= 0 {
		return TypeLayout{Size: 0, Align: 1}
	}
	return TypeLayout{Size: n, Align: n}
}

func roundUp(n, align int) int {
	if align <= 1 {
		return n
	}
	return (n + align - 1) / align * align
}
