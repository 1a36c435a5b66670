package ast

import "tagcopy/internal/source"

// Item is a top-level declaration. The set of implementations is closed.
type Item interface {
	ItemSpan() source.Span
	isItem()
}

// TargetDecl selects the target description: `target purecap128;`.
type TargetDecl struct {
	Span source.Span
	Name string
}

// AlignAttr is `@align(N)` or `@align(T)`; exactly one of Value and Type is set.
type AlignAttr struct {
	Span  source.Span
	Value ExprID
	Type  TypeID
}

type FieldDecl struct {
	Span  source.Span
	Name  string
	Type  TypeID
	Align *AlignAttr
}

type MethodDecl struct {
	Span    source.Span
	Name    string
	Virtual bool
}

// StructDecl is an aggregate; Incomplete marks a forward declaration `struct S;`.
type StructDecl struct {
	Span       source.Span
	NameSpan   source.Span
	Name       string
	Fields     []FieldDecl
	Methods    []MethodDecl
	Incomplete bool
}

// GenericParam is `T` (type parameter) or `A: long` (value parameter, Kind set).
type GenericParam struct {
	Span source.Span
	Name string
	Kind TypeID
}

type Param struct {
	Span  source.Span
	Name  string
	Type  TypeID
	Align *AlignAttr
}

type FnDecl struct {
	Span     source.Span
	NameSpan source.Span
	Name     string
	Generics []GenericParam
	Params   []Param
	Body     []Stmt
}

// GenericArg is either a type or a constant expression.
type GenericArg struct {
	Span  source.Span
	Type  TypeID
	Value ExprID
}

// InstantiateDecl requests `instantiate name<args>;`.
type InstantiateDecl struct {
	Span source.Span
	Name string
	Args []GenericArg
}

func (d *TargetDecl) ItemSpan() source.Span      { return d.Span }
func (d *StructDecl) ItemSpan() source.Span      { return d.Span }
func (d *FnDecl) ItemSpan() source.Span          { return d.Span }
func (d *InstantiateDecl) ItemSpan() source.Span { return d.Span }

func (*TargetDecl) isItem()      {}
func (*StructDecl) isItem()      {}
func (*FnDecl) isItem()          {}
func (*InstantiateDecl) isItem() {}
