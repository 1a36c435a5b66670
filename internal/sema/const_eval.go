package sema

import (
	"fmt"
	"strconv"

	"tagcopy/internal/ast"
	"tagcopy/internal/diag"
	"tagcopy/internal/types"
)

type constState uint8

const (
	constKnown     constState = iota
	constDependent            // mentions an uninstantiated generic parameter
	constRuntime              // well-formed but not a compile-time constant
	constInvalid              // already reported
)

type constValue struct {
	state constState
	value int64
	text  string // spelling of the dependent parameter, for placeholders
}

func known(v int64) constValue { return constValue{state: constKnown, value: v} }

// constEval folds literals, sizeof/alignof and generic value parameters.
func (c *checker) constEval(id ast.ExprID) constValue {
	e := c.expr(id)
	if e == nil {
		return constValue{state: constInvalid}
	}
	switch e.Kind {
	case ast.ExprIntLit, ast.ExprBoolLit:
		return known(e.Value)

	case ast.ExprNeg:
		v := c.constEval(e.Operand)
		if v.state == constKnown {
			v.value = -v.value
		}
		return v

	case ast.ExprIdent:
		if vp := c.lookupValue(e.Name); vp != nil {
			if !vp.known {
				return constValue{state: constDependent, text: e.Name}
			}
			return known(vp.value)
		}
		if c.lookupLocal(e.Name) != nil {
			return constValue{state: constRuntime}
		}
		c.errorf(diag.SemaUnresolvedSymbol, e.Span, fmt.Sprintf("use of undeclared identifier '%s'", e.Name))
		return constValue{state: constInvalid}

	case ast.ExprSizeof, ast.ExprAlignof:
		t := c.queryType(e)
		switch {
		case t == types.NoTypeID:
			return constValue{state: constInvalid}
		case c.types.IsDependent(t):
			return constValue{state: constDependent, text: types.Label(c.types, t)}
		}
		l, err := c.result.Layout.LayoutOf(t)
		if err != nil {
			c.errorf(diag.SemaIncompleteType, e.Span, fmt.Sprintf("invalid application of '%s' to an incomplete type '%s'", sizeofName(e.Kind), c.incompleteLabel(t)))
			return constValue{state: constInvalid}
		}
		if e.Kind == ast.ExprAlignof {
			return known(int64(l.Align))
		}
		return known(int64(l.Size))

	case ast.ExprStringLit, ast.ExprAddrOf, ast.ExprDeref, ast.ExprMemberRef, ast.ExprCall:
		if c.exprType(id) == types.NoTypeID {
			return constValue{state: constInvalid}
		}
		return constValue{state: constRuntime}
	}
	return constValue{state: constInvalid}
}

func sizeofName(k ast.ExprKind) string {
	if k == ast.ExprAlignof {
		return "alignof"
	}
	return "sizeof"
}

// queryType is the type measured by sizeof/alignof. The parser prefers the
// type reading of `sizeof(x)`, so names and `*p` that denote values are
// reinterpreted here.
func (c *checker) queryType(e *ast.Expr) types.TypeID {
	if e.Type == ast.NoTypeID {
		return c.exprType(e.Operand)
	}
	if t, ok := c.valueTypeOf(e.Type); ok {
		return t
	}
	return c.resolveType(e.Type)
}

// valueTypeOf reads a type expression as a value expression when its base
// name is a variable: `x` is the variable, `*p` dereferences it.
func (c *checker) valueTypeOf(id ast.TypeID) (types.TypeID, bool) {
	te := c.typeExpr(id)
	if te == nil {
		return types.NoTypeID, false
	}
	switch te.Kind {
	case ast.TypeName:
		if _, isType := c.lookupTypeName(te.Name); isType {
			return types.NoTypeID, false
		}
		l := c.lookupLocal(te.Name)
		if l == nil {
			return types.NoTypeID, false
		}
		return l.typ, true
	case ast.TypePointer:
		inner, ok := c.valueTypeOf(te.Elem)
		if !ok {
			return types.NoTypeID, false
		}
		if c.types.Kind(inner) != types.KindPointer {
			c.errorf(diag.SemaTypeMismatch, te.Span, fmt.Sprintf("indirection requires pointer operand ('%s' invalid)", types.Label(c.types, inner)))
			return types.NoTypeID, true
		}
		return c.types.Elem(inner), true
	}
	return types.NoTypeID, false
}

func formatArg(v int64) string {
	return strconv.FormatInt(v, 10)
}
