package sema

import (
	"fmt"

	"tagcopy/internal/ast"
	"tagcopy/internal/diag"
	"tagcopy/internal/source"
	"tagcopy/internal/types"
)

func (c *checker) checkBody(e *env) {
	defer c.enter(e)()

	if e.generic {
		for _, gp := range e.fn.Generics {
			if vp := e.values[gp.Name]; vp != nil && gp.Kind != ast.NoTypeID {
				vp.typ = c.resolveType(gp.Kind)
			}
		}
	}
	for _, p := range e.fn.Params {
		c.declareLocal(p.Name, p.Span, p.Type, p.Align, false)
	}
	for _, st := range e.fn.Body {
		switch st := st.(type) {
		case *ast.LetStmt:
			c.declareLocal(st.Name, st.Span, st.Type, st.Align, true)
		case *ast.ExprStmt:
			c.checkExprStmt(st)
		default:
			panic(fmt.Sprintf("sema: unhandled statement %T", st))
		}
	}
}

func (c *checker) checkExprStmt(st *ast.ExprStmt) {
	e := c.expr(st.Expr)
	if e == nil {
		return
	}
	if e.Kind != ast.ExprCall {
		// evaluated for diagnostics only
		defer c.silence(c.replaying())()
		c.exprType(st.Expr)
		return
	}
	c.exprType(st.Expr)
}

// declareLocal binds a parameter or let. Declarations whose type depends on
// a generic parameter are checked again per instantiation.
func (c *checker) declareLocal(name string, sp source.Span, typ ast.TypeID, attr *ast.AlignAttr, let bool) {
	defer c.silence(c.replaying() && !c.deferredDecls[sp])()

	if prev := c.lookupLocal(name); prev != nil {
		c.errorf(diag.SemaDuplicateSymbol, sp, fmt.Sprintf("redefinition of '%s'", name),
			diag.Note{Span: prev.span, Msg: "previous definition is here"})
		return
	}
	if c.lookupValue(name) != nil {
		c.errorf(diag.SemaDuplicateSymbol, sp, fmt.Sprintf("declaration of '%s' shadows template parameter", name))
		return
	}

	t := c.resolveType(typ)
	if t == types.NoTypeID {
		return
	}
	l := &local{name: name, typ: t, span: sp, let: let, attr: attr}
	if te := c.typeExpr(typ); te != nil {
		l.typeSpan = te.Span
	}
	c.env.locals[name] = l

	if c.inGeneric() && (c.types.IsDependent(t) || c.attrDependent(attr)) {
		c.deferredDecls[sp] = true
		return
	}
	if c.types.Kind(t) != types.KindPointer && !c.types.IsComplete(t) {
		c.errorf(diag.SemaIncompleteType, sp, fmt.Sprintf("variable has incomplete type '%s'", c.incompleteLabel(t)))
		return
	}

	natural := c.naturalAlign(t)
	l.align = natural
	if a, ok := c.alignAttr(attr); ok {
		if a < natural {
			c.report(diag.SemaAttrInvalidParameter, diag.SevWarning, attr.Span,
				fmt.Sprintf("requested alignment %d is less than the natural alignment %d of '%s' and is ignored", a, natural, types.Label(c.types, t)))
			return
		}
		l.align = a
		l.overaligned = a > natural
	}
}

func (c *checker) attrDependent(attr *ast.AlignAttr) bool {
	if attr == nil {
		return false
	}
	if attr.Type != ast.NoTypeID {
		t := c.resolveType(attr.Type)
		return t != types.NoTypeID && c.types.IsDependent(t)
	}
	return c.constEval(attr.Value).state == constDependent
}
