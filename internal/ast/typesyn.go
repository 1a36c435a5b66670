package ast

import "tagcopy/internal/source"

type TypeExprKind uint8

const (
	TypeName    TypeExprKind = iota // Name
	TypePointer                     // *Elem
	TypeArray                       // Elem[Len]
)

// TypeExpr is the syntactic form of a type.
type TypeExpr struct {
	Kind TypeExprKind
	Span source.Span
	Name string
	Elem TypeID
	Len  ExprID
}

type Types struct {
	Arena *Arena[TypeExpr]
}

func NewTypes(capHint uint) *Types {
	return &Types{Arena: NewArena[TypeExpr](capHint)}
}

func (t *Types) New(x TypeExpr) TypeID {
	return TypeID(t.Arena.Allocate(x))
}

func (t *Types) Get(id TypeID) *TypeExpr {
	return t.Arena.Get(uint32(id))
}
