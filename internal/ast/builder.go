package ast

import "tagcopy/internal/source"

type Hints struct{ Exprs, Types uint }

// Builder owns the arenas for one parsed file.
type Builder struct {
	Exprs *Exprs
	Types *Types
}

func NewBuilder(hints Hints) *Builder {
	if hints.Exprs == 0 {
		hints.Exprs = 1 << 8
	}
	if hints.Types == 0 {
		hints.Types = 1 << 7
	}
	return &Builder{
		Exprs: NewExprs(hints.Exprs),
		Types: NewTypes(hints.Types),
	}
}

// File is the parse result of one source file.
type File struct {
	Span   source.Span
	Source source.FileID
	Items  []Item
}

// Target returns the first target declaration, if any.
func (f *File) Target() *TargetDecl {
	for _, it := range f.Items {
		if t, ok := it.(*TargetDecl); ok {
			return t
		}
	}
	return nil
}
