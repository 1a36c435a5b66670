package sema

import (
	"fmt"

	"tagcopy/internal/ast"
	"tagcopy/internal/diag"
	"tagcopy/internal/fix"
	"tagcopy/internal/source"
	"tagcopy/internal/tags"
	"tagcopy/internal/types"
)

type callee uint8

const (
	calleeMemcpy callee = iota + 1
	calleeMemmove
	calleeCopy
	calleeAlign
)

func builtinCallee(name string) (callee, bool) {
	switch name {
	case "memcpy":
		return calleeMemcpy, true
	case "memmove":
		return calleeMemmove, true
	case "copy":
		return calleeCopy, true
	case "align_up", "align_down", "is_aligned":
		return calleeAlign, true
	}
	return 0, false
}

// checkTransfer handles memcpy(dst, src, n) and memmove(dst, src, n).
func (c *checker) checkTransfer(id ast.ExprID, e *ast.Expr, kind callee) {
	defer c.silence(c.replaying() && !c.deferredExprs[id])()

	if len(e.Args) != 3 {
		c.errorf(diag.SemaBuiltinArity, e.Span, arityMessage(3, len(e.Args)))
		return
	}
	dstT := c.exprType(e.Args[0])
	srcT := c.exprType(e.Args[1])
	length := c.constEval(e.Args[2])
	if dstT == types.NoTypeID || srcT == types.NoTypeID || length.state == constInvalid {
		return
	}
	if c.inGeneric() && (c.types.IsDependent(dstT) || c.types.IsDependent(srcT) || length.state == constDependent) {
		c.deferredExprs[id] = true
		return
	}

	dst, okDst := c.lowerOperand(e.Args[0], dstT)
	src, okSrc := c.lowerOperand(e.Args[1], srcT)
	if !okDst || !okSrc {
		return
	}
	n := tags.Dynamic()
	if length.state == constKnown {
		if length.value < 0 {
			c.errorf(diag.SemaMemTransferOperand, c.expr(e.Args[2]).Span, fmt.Sprintf("negative transfer length %d", length.value))
			return
		}
		n = tags.StaticallyKnown(length.value)
	}
	op := tags.Memcpy
	if kind == calleeMemmove {
		op = tags.Memmove
	}
	tr := Transfer{Op: op, Span: e.Span, Src: src, Dst: dst, Length: n,
		DstValue: c.valueName(e.Args[0]), SrcValue: c.valueName(e.Args[1])}
	if _, ok := n.Bytes(); !ok {
		tr.LenValue = c.valueName(e.Args[2])
	}
	c.classify(tr, e.Args[0])
}

// checkCopy handles copy(x): copy-construction of an aggregate, lowered to a
// memcpy of the whole object onto a like-typed destination.
func (c *checker) checkCopy(id ast.ExprID, e *ast.Expr) {
	defer c.silence(c.replaying() && !c.deferredExprs[id])()

	if len(e.Args) != 1 {
		c.errorf(diag.SemaBuiltinArity, e.Span, arityMessage(1, len(e.Args)))
		return
	}
	arg := c.expr(e.Args[0])
	t := c.exprType(e.Args[0])
	if t == types.NoTypeID {
		return
	}
	if c.inGeneric() && c.types.IsDependent(t) {
		c.deferredExprs[id] = true
		return
	}
	if c.types.Kind(t) != types.KindStruct || !c.isLValue(e.Args[0]) {
		c.errorf(diag.SemaCopyOperand, arg.Span, fmt.Sprintf("cannot copy-construct from a value of type '%s'; an aggregate lvalue is required", types.Label(c.types, t)))
		return
	}
	if !c.types.IsComplete(t) {
		c.errorf(diag.SemaIncompleteType, arg.Span, fmt.Sprintf("variable has incomplete type '%s'", types.Label(c.types, t)))
		return
	}
	size, err := c.result.Layout.SizeOf(t)
	if err != nil {
		c.errorf(diag.SemaRecursiveUnsized, arg.Span, err.Error())
		return
	}

	obj := tags.Operand{
		Type:          c.aggregate(t),
		Provenance:    tags.Indirect,
		DeclaredAlign: c.naturalAlign(t),
		Span:          arg.Span,
	}
	if arg.Kind == ast.ExprIdent {
		l := c.lookupLocal(arg.Name)
		obj.Provenance = tags.AddressOf
		obj.DeclaredAlign = l.align
		obj.ExplicitlyOveraligned = l.overaligned
	}
	// the new object gets the type's natural alignment
	dst := obj
	dst.Provenance = tags.AddressOf
	dst.DeclaredAlign = c.naturalAlign(t)
	dst.ExplicitlyOveraligned = false
	c.classify(Transfer{
		Op: tags.Memcpy, Span: e.Span, Src: obj, Dst: dst,
		Length:   tags.StaticallyKnown(int64(size)),
		Implicit: true,
		DstValue: "copy",
		SrcValue: c.valueName(e.Args[0]),
	}, ast.NoExprID)
}

// classify records one transfer; dstExpr is the destination argument, if any.
func (c *checker) classify(tr Transfer, dstExpr ast.ExprID) {
	tr.Func = c.env.name
	tr.Result = c.result.Classifier.Check(tr.Op, tr.Span, tr.Src, tr.Dst, tr.Length)
	if w := tr.Result.Warning; w != nil {
		c.reportWithFixes(diag.CgInefficientTagCopy, diag.SevWarning, w.Span, w.Message(),
			c.alignFixes(dstExpr), diag.Note{Span: w.Span, Msg: w.Note()})
	}
	if c.muted() {
		return
	}
	c.result.Transfers = append(c.result.Transfers, tr)
}

// alignFixes suggests raising a let-bound destination to the capability
// slot alignment. Parameters and indirect destinations get no fix.
func (c *checker) alignFixes(dstExpr ast.ExprID) []diag.Fix {
	if dstExpr == ast.NoExprID {
		return nil
	}
	e := c.expr(dstExpr)
	if e != nil && e.Kind == ast.ExprAddrOf {
		e = c.expr(e.Operand)
	}
	if e == nil || e.Kind != ast.ExprIdent {
		return nil
	}
	l := c.lookupLocal(e.Name)
	if l == nil || !l.let || l.typeSpan.Empty() {
		return nil
	}
	title := fmt.Sprintf("align '%s' to the capability slot", l.name)
	if l.attr != nil {
		return []diag.Fix{fix.ReplaceSpan(title, l.attr.Span, "@align(cap)", "")}
	}
	return []diag.Fix{fix.InsertText(title, l.typeSpan, "@align(cap) ")}
}

// lowerOperand builds the classifier's view of a pointer argument.
func (c *checker) lowerOperand(id ast.ExprID, t types.TypeID) (tags.Operand, bool) {
	e := c.expr(id)
	op := tags.Operand{Span: e.Span}

	switch {
	case e.Kind == ast.ExprStringLit:
		op.Type = c.staticType(t)
		op.Provenance = tags.Literal
		op.DeclaredAlign = 1
		return op, true

	case e.Kind == ast.ExprAddrOf && c.isLValue(e.Operand):
		obj := c.exprType(e.Operand)
		op.Type = c.staticType(obj)
		op.Provenance = tags.AddressOf
		op.DeclaredAlign, op.ExplicitlyOveraligned = c.objectAlign(e.Operand, obj)
		return op, true

	case c.types.Kind(t) == types.KindArray && e.Kind == ast.ExprIdent:
		op.Type = c.staticType(t)
		op.Provenance = tags.ArrayDecay
		op.DeclaredAlign, op.ExplicitlyOveraligned = c.objectAlign(id, t)
		return op, true

	case c.types.Kind(t) == types.KindPointer:
		elem := c.types.Elem(t)
		op.Type = c.pointeeType(elem)
		op.Provenance = tags.Indirect
		op.DeclaredAlign = c.naturalAlign(elem)
		return op, true
	}

	c.errorf(diag.SemaMemTransferOperand, e.Span, fmt.Sprintf("operand of type '%s' is not a pointer", types.Label(c.types, t)))
	return op, false
}

// objectAlign is the alignment of the object named by lvalue id.
func (c *checker) objectAlign(id ast.ExprID, t types.TypeID) (int, bool) {
	e := c.expr(id)
	if e != nil && e.Kind == ast.ExprIdent {
		if l := c.lookupLocal(e.Name); l != nil && l.align > 0 {
			return l.align, l.overaligned
		}
	}
	return c.naturalAlign(t), false
}

func arityMessage(want, have int) string {
	if have < want {
		return fmt.Sprintf("too few arguments to function call, expected %d, have %d", want, have)
	}
	return fmt.Sprintf("too many arguments to function call, expected %d, have %d", want, have)
}

func (c *checker) spanOf(id ast.ExprID) source.Span {
	if e := c.expr(id); e != nil {
		return e.Span
	}
	return source.Span{}
}

// valueName is a readable IR name for an operand expression.
func (c *checker) valueName(id ast.ExprID) string {
	e := c.expr(id)
	if e == nil {
		return "tmp"
	}
	switch e.Kind {
	case ast.ExprIdent:
		return e.Name
	case ast.ExprAddrOf:
		return c.valueName(e.Operand) + ".addr"
	case ast.ExprDeref:
		return c.valueName(e.Operand) + ".val"
	case ast.ExprStringLit:
		return ".str"
	}
	return "tmp"
}
