package types

import "tagcopy/internal/source"

// StructField describes a single field inside a struct type.
// Align is the explicit @align value in bytes, 0 when absent.
type StructField struct {
	Name  string
	Type  TypeID
	Align int
	Span  source.Span
}

type StructMethod struct {
	Name    string
	Virtual bool
}

// StructInfo stores metadata for a struct type.
type StructInfo struct {
	Name     string
	Decl     source.Span
	Fields   []StructField
	Methods  []StructMethod
	Complete bool
}

// Field returns the named field.
func (s *StructInfo) Field(name string) (StructField, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return StructField{}, false
}

// Method returns the named method.
func (s *StructInfo) Method(name string) (StructMethod, bool) {
	for _, m := range s.Methods {
		if m.Name == name {
			return m, true
		}
	}
	return StructMethod{}, false
}

type ParamInfo struct {
	Name string
	Decl source.Span
}
