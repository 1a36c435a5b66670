package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"tagcopy/internal/ast"
	"tagcopy/internal/source"
)

// CheckSpanInvariants runs a minimal set of span invariants on a parsed file:
// 1) file.Span lies within file content bounds and is non-empty when items exist
// 2) every item span is non-empty, inside file.Span and after the previous item
// 3) statement, attribute, type and expression spans nest inside their parents
func CheckSpanInvariants(b *ast.Builder, f *ast.File, sf *source.File) error {
	if b == nil || f == nil || sf == nil {
		return fmt.Errorf("nil builder, file node or source file")
	}
	if f.Source != sf.ID {
		return fmt.Errorf("file node points to different file id: got=%d want=%d", f.Source, sf.ID)
	}

	// 1) file span sanity
	if f.Span.File != sf.ID {
		return fmt.Errorf("file span points to different file id: got=%d want=%d", f.Span.File, sf.ID)
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	if f.Span.End > lenContent {
		return fmt.Errorf("file span end beyond content: %d > %d", f.Span.End, lenContent)
	}
	if len(f.Items) > 0 && f.Span.End <= f.Span.Start {
		return fmt.Errorf("file span is empty: %v", f.Span)
	}

	// 2) item spans within file span, in source order
	var prevEnd uint32
	for i, it := range f.Items {
		if it == nil {
			return fmt.Errorf("nil item at index %d", i)
		}
		sp := it.ItemSpan()
		if sp.End <= sp.Start {
			return fmt.Errorf("empty item span: %v", sp)
		}
		if !f.Span.Contains(sp) {
			return fmt.Errorf("item span %v is outside file span %v", sp, f.Span)
		}
		if sp.Start < prevEnd {
			return fmt.Errorf("item span %v overlaps previous item ending at %d", sp, prevEnd)
		}
		prevEnd = sp.End

		// 3) nested spans
		w := walker{b: b}
		if err := w.item(it); err != nil {
			return err
		}
	}
	return nil
}

type walker struct {
	b *ast.Builder
}

func (w walker) item(it ast.Item) error {
	switch d := it.(type) {
	case *ast.StructDecl:
		for i := range d.Fields {
			fd := &d.Fields[i]
			if err := inside(d.Span, fd.Span, "field "+fd.Name); err != nil {
				return err
			}
			if err := w.align(fd.Span, fd.Align); err != nil {
				return err
			}
			if err := w.typ(fd.Span, fd.Type); err != nil {
				return err
			}
		}
		for _, m := range d.Methods {
			if err := inside(d.Span, m.Span, "method "+m.Name); err != nil {
				return err
			}
		}
	case *ast.FnDecl:
		for i := range d.Params {
			p := &d.Params[i]
			if err := inside(d.Span, p.Span, "param "+p.Name); err != nil {
				return err
			}
			if err := w.align(p.Span, p.Align); err != nil {
				return err
			}
			if err := w.typ(p.Span, p.Type); err != nil {
				return err
			}
		}
		for _, st := range d.Body {
			if err := w.stmt(d.Span, st); err != nil {
				return err
			}
		}
	case *ast.InstantiateDecl:
		for _, a := range d.Args {
			if err := inside(d.Span, a.Span, "generic argument"); err != nil {
				return err
			}
			if err := w.typ(a.Span, a.Type); err != nil {
				return err
			}
			if err := w.expr(a.Span, a.Value); err != nil {
				return err
			}
		}
	}
	return nil
}

func (w walker) stmt(parent source.Span, st ast.Stmt) error {
	if st == nil {
		return fmt.Errorf("nil statement inside %v", parent)
	}
	sp := st.StmtSpan()
	if err := inside(parent, sp, "statement"); err != nil {
		return err
	}
	switch s := st.(type) {
	case *ast.LetStmt:
		if err := w.align(s.Span, s.Align); err != nil {
			return err
		}
		return w.typ(s.Span, s.Type)
	case *ast.ExprStmt:
		return w.expr(s.Span, s.Expr)
	}
	return nil
}

func (w walker) align(parent source.Span, attr *ast.AlignAttr) error {
	if attr == nil {
		return nil
	}
	if err := inside(parent, attr.Span, "@align"); err != nil {
		return err
	}
	if err := w.typ(attr.Span, attr.Type); err != nil {
		return err
	}
	return w.expr(attr.Span, attr.Value)
}

func (w walker) typ(parent source.Span, id ast.TypeID) error {
	if !id.IsValid() {
		return nil
	}
	t := w.b.Types.Get(id)
	if t == nil {
		return fmt.Errorf("dangling type id %d", id)
	}
	if err := inside(parent, t.Span, "type"); err != nil {
		return err
	}
	if err := w.typ(t.Span, t.Elem); err != nil {
		return err
	}
	return w.expr(t.Span, t.Len)
}

func (w walker) expr(parent source.Span, id ast.ExprID) error {
	if !id.IsValid() {
		return nil
	}
	e := w.b.Exprs.Get(id)
	if e == nil {
		return fmt.Errorf("dangling expr id %d", id)
	}
	if err := inside(parent, e.Span, e.Kind.String()); err != nil {
		return err
	}
	if err := w.expr(e.Span, e.Operand); err != nil {
		return err
	}
	if err := w.typ(e.Span, e.Type); err != nil {
		return err
	}
	for _, a := range e.Args {
		if err := w.expr(e.Span, a); err != nil {
			return err
		}
	}
	return nil
}

func inside(parent, child source.Span, what string) error {
	if child.End < child.Start {
		return fmt.Errorf("%s span is inverted: %v", what, child)
	}
	if !parent.Contains(child) {
		return fmt.Errorf("%s span %v is outside %v", what, child, parent)
	}
	return nil
}
