package ast

import "tagcopy/internal/source"

type ExprKind uint8

const (
	ExprIdent     ExprKind = iota // Name
	ExprIntLit                    // Text, Value
	ExprStringLit                 // Text (quoted), Value = decoded length
	ExprBoolLit                   // Value 0/1
	ExprAddrOf                    // &Operand
	ExprDeref                     // *Operand
	ExprNeg                       // -Operand
	ExprMemberRef                 // Owner::Name
	ExprSizeof                    // sizeof(Type) or sizeof(Operand)
	ExprAlignof                   // alignof(Type) or alignof(Operand)
	ExprCall                      // Name(Args...)
)

func (k ExprKind) String() string {
	switch k {
	case ExprIdent:
		return "ident"
	case ExprIntLit:
		return "int"
	case ExprStringLit:
		return "string"
	case ExprBoolLit:
		return "bool"
	case ExprAddrOf:
		return "addr-of"
	case ExprDeref:
		return "deref"
	case ExprNeg:
		return "neg"
	case ExprMemberRef:
		return "member-ref"
	case ExprSizeof:
		return "sizeof"
	case ExprAlignof:
		return "alignof"
	case ExprCall:
		return "call"
	}
	return "expr(?)"
}

// Expr is a flat expression node; which fields are meaningful depends on Kind.
type Expr struct {
	Kind    ExprKind
	Span    source.Span
	Name    string // ident, member or callee name
	Owner   string // struct name for Owner::Name
	Text    string // raw literal text
	Value   int64
	Operand ExprID
	Type    TypeID // sizeof/alignof of a type
	Args    []ExprID
}

type Exprs struct {
	Arena *Arena[Expr]
}

func NewExprs(capHint uint) *Exprs {
	return &Exprs{Arena: NewArena[Expr](capHint)}
}

func (e *Exprs) New(x Expr) ExprID {
	return ExprID(e.Arena.Allocate(x))
}

func (e *Exprs) Get(id ExprID) *Expr {
	return e.Arena.Get(uint32(id))
}
