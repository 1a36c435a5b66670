package ast

import "tagcopy/internal/source"

// Stmt is a function body statement.
type Stmt interface {
	StmtSpan() source.Span
	isStmt()
}

// LetStmt declares a local: `let buf: @align(cap) char[16];`.
type LetStmt struct {
	Span  source.Span
	Name  string
	Type  TypeID
	Align *AlignAttr
}

// ExprStmt is an expression evaluated for its effect, in practice a call.
type ExprStmt struct {
	Span source.Span
	Expr ExprID
}

func (s *LetStmt) StmtSpan() source.Span  { return s.Span }
func (s *ExprStmt) StmtSpan() source.Span { return s.Span }

func (*LetStmt) isStmt()  {}
func (*ExprStmt) isStmt() {}
