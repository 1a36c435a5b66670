package sema

import (
	"fmt"

	"fortio.org/safecast"

	"tagcopy/internal/ast"
	"tagcopy/internal/diag"
	"tagcopy/internal/types"
)

// exprType computes the type of an expression, reporting problems.
// NoTypeID means the expression is invalid.
func (c *checker) exprType(id ast.ExprID) types.TypeID {
	e := c.expr(id)
	if e == nil {
		return types.NoTypeID
	}
	b := c.types.Builtins()
	switch e.Kind {
	case ast.ExprIntLit:
		if e.Value > 1<<31-1 || e.Value < -1<<31 {
			return b.Long
		}
		return b.Int

	case ast.ExprBoolLit:
		return b.Bool

	case ast.ExprStringLit:
		n, err := safecast.Conv[uint32](e.Value)
		if err != nil {
			c.errorf(diag.SemaError, e.Span, "string literal is too long")
			return types.NoTypeID
		}
		return c.types.Intern(types.MakeArray(b.Char, n))

	case ast.ExprIdent:
		if l := c.lookupLocal(e.Name); l != nil {
			return l.typ
		}
		if vp := c.lookupValue(e.Name); vp != nil {
			return vp.typ
		}
		c.errorf(diag.SemaUnresolvedSymbol, e.Span, fmt.Sprintf("use of undeclared identifier '%s'", e.Name))
		return types.NoTypeID

	case ast.ExprNeg:
		t := c.exprType(e.Operand)
		if t != types.NoTypeID && !c.types.IsScalar(t) && !c.types.IsDependent(t) {
			c.errorf(diag.SemaTypeMismatch, e.Span, fmt.Sprintf("invalid argument type '%s' to unary expression", types.Label(c.types, t)))
			return types.NoTypeID
		}
		return t

	case ast.ExprAddrOf:
		if inner := c.expr(e.Operand); inner != nil && inner.Kind == ast.ExprMemberRef {
			return c.memberPointer(inner)
		}
		if !c.isLValue(e.Operand) {
			if c.exprType(e.Operand) != types.NoTypeID {
				c.errorf(diag.SemaTypeMismatch, e.Span, "cannot take the address of an rvalue")
			}
			return types.NoTypeID
		}
		t := c.exprType(e.Operand)
		if t == types.NoTypeID {
			return t
		}
		return c.types.Intern(types.MakePointer(t))

	case ast.ExprDeref:
		t := c.exprType(e.Operand)
		if t == types.NoTypeID || c.types.Kind(t) == types.KindParam {
			return t
		}
		if c.types.Kind(t) != types.KindPointer {
			c.errorf(diag.SemaTypeMismatch, e.Span, fmt.Sprintf("indirection requires pointer operand ('%s' invalid)", types.Label(c.types, t)))
			return types.NoTypeID
		}
		return c.types.Elem(t)

	case ast.ExprMemberRef:
		c.errorf(diag.SemaTypeMismatch, e.Span, fmt.Sprintf("call to non-static member '%s::%s' without an object; take its address with '&'", e.Owner, e.Name))
		return types.NoTypeID

	case ast.ExprSizeof, ast.ExprAlignof:
		if t := c.queryType(e); t == types.NoTypeID {
			return types.NoTypeID
		}
		return b.ULong

	case ast.ExprCall:
		return c.callType(id, e)
	}
	return types.NoTypeID
}

// memberPointer types &Owner::member.
func (c *checker) memberPointer(ref *ast.Expr) types.TypeID {
	owner, ok := c.structs[ref.Owner]
	if !ok {
		c.errorf(diag.SemaUnresolvedSymbol, ref.Span, fmt.Sprintf("use of undeclared identifier '%s'", ref.Owner))
		return types.NoTypeID
	}
	info, _ := c.types.StructInfo(owner)
	if info == nil || !info.Complete {
		c.errorf(diag.SemaIncompleteType, ref.Span, fmt.Sprintf("incomplete type 'struct %s' named in nested name specifier", ref.Owner))
		return types.NoTypeID
	}
	if f, ok := info.Field(ref.Name); ok {
		return c.types.Intern(types.MakeMemberPointer(owner, f.Type, false))
	}
	if _, ok := info.Method(ref.Name); ok {
		return c.types.Intern(types.MakeMemberPointer(owner, c.types.Builtins().Void, true))
	}
	c.errorf(diag.SemaUnresolvedSymbol, ref.Span, fmt.Sprintf("no member named '%s' in 'struct %s'", ref.Name, ref.Owner))
	return types.NoTypeID
}

func (c *checker) isLValue(id ast.ExprID) bool {
	e := c.expr(id)
	if e == nil {
		return false
	}
	switch e.Kind {
	case ast.ExprIdent:
		return c.lookupLocal(e.Name) != nil
	case ast.ExprDeref:
		return true
	}
	return false
}

// callType checks a builtin call once per body and memoizes its type.
func (c *checker) callType(id ast.ExprID, e *ast.Expr) types.TypeID {
	if t, done := c.env.calls[id]; done {
		return t
	}
	t := c.checkCall(id, e)
	c.env.calls[id] = t
	return t
}

func (c *checker) checkCall(id ast.ExprID, e *ast.Expr) types.TypeID {
	kind, ok := builtinCallee(e.Name)
	if !ok {
		if _, user := c.fns[e.Name]; user {
			c.errorf(diag.SemaError, e.Span, fmt.Sprintf("calls to '%s' are not supported; only builtins may be called", e.Name))
			return types.NoTypeID
		}
		c.errorf(diag.SemaUnresolvedSymbol, e.Span, fmt.Sprintf("use of undeclared identifier '%s'", e.Name))
		return types.NoTypeID
	}
	switch kind {
	case calleeAlign:
		return c.checkAlignCall(id, e)
	case calleeMemcpy, calleeMemmove:
		c.checkTransfer(id, e, kind)
		return c.types.Intern(types.MakePointer(c.types.Builtins().Void))
	case calleeCopy:
		c.checkCopy(id, e)
	}
	return c.types.Builtins().Void
}
