package types

import (
	"fmt"
	"strings"
)

// Label returns a C-like spelling of id: "struct OneCap", "char *",
// "int[16]", "int MemPtr::*", "void (MemPtr::*)()".
func Label(in *Interner, id TypeID) string {
	return labelDepth(in, id, 0)
}

func labelDepth(in *Interner, id TypeID, depth int) string {
	if id == NoTypeID || in == nil {
		return "?"
	}
	if depth > 8 {
		return "..."
	}
	tt, ok := in.Lookup(id)
	if !ok {
		return "?"
	}
	switch tt.Kind {
	case KindVoid:
		return "void"
	case KindBool:
		return "bool"
	case KindChar:
		if tt.Unsigned {
			return "unsigned char"
		}
		return "char"
	case KindInt:
		return intLabel(tt)
	case KindFloat:
		if tt.Width == Width32 {
			return "float"
		}
		return "double"
	case KindCap:
		return "__intcap"
	case KindPointer:
		elem := labelDepth(in, tt.Elem, depth+1)
		if strings.HasSuffix(elem, "*") {
			return elem + "*"
		}
		return elem + " *"
	case KindArray:
		return fmt.Sprintf("%s[%d]", labelDepth(in, tt.Elem, depth+1), tt.Count)
	case KindStruct:
		info, ok := in.StructInfo(id)
		if !ok {
			return "struct ?"
		}
		return "struct " + info.Name
	case KindMemberPointer:
		owner := "?"
		if info, ok := in.StructInfo(TypeID(tt.Payload)); ok {
			owner = info.Name
		}
		if tt.Func {
			return fmt.Sprintf("%s (%s::*)()", labelDepth(in, tt.Elem, depth+1), owner)
		}
		return fmt.Sprintf("%s %s::*", labelDepth(in, tt.Elem, depth+1), owner)
	case KindParam:
		if info, ok := in.ParamInfo(id); ok {
			return info.Name
		}
		return "T"
	}
	return "?"
}

func intLabel(tt Type) string {
	var base string
	switch tt.Width {
	case Width16:
		base = "short"
	case Width32:
		base = "int"
	case Width64:
		base = "long"
	case Width128:
		base = "__int128"
	default:
		base = fmt.Sprintf("int%d", tt.Width)
	}
	if tt.Unsigned {
		return "unsigned " + base
	}
	return base
}
