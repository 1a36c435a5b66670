package sema

import (
	"tagcopy/internal/alignbuiltin"
	"tagcopy/internal/ast"
	"tagcopy/internal/diag"
	"tagcopy/internal/types"
)

var rejectionCodes = map[alignbuiltin.Reason]diag.Code{
	alignbuiltin.ReasonArity:           diag.SemaBuiltinArity,
	alignbuiltin.ReasonPointerToMember: diag.SemaAlignOperandType,
	alignbuiltin.ReasonOperandType:     diag.SemaAlignOperandType,
	alignbuiltin.ReasonNotConstant:     diag.SemaConstNotConstant,
	alignbuiltin.ReasonBelowOne:        diag.SemaAlignBelowOne,
	alignbuiltin.ReasonNotPowerOfTwo:   diag.SemaAlignNotPowerOfTwo,
}

func (c *checker) checkAlignCall(id ast.ExprID, e *ast.Expr) types.TypeID {
	pending := c.pending[id]
	defer c.silence(c.replaying() && pending == nil)()

	call, ok := c.lowerAlignCall(id, e)
	if !ok {
		return types.NoTypeID
	}
	if c.replaying() && pending != nil {
		return c.finishAlign(call, pending.Resume(c, c.types))
	}

	out := alignbuiltin.Validate(call, c.types)
	if out.State == alignbuiltin.Deferred {
		c.pending[id] = out.Pending
		c.deferredExprs[id] = true
		if call.Builtin == alignbuiltin.IsAligned {
			return c.types.Builtins().Bool
		}
		return call.Operand.Type
	}
	return c.finishAlign(call, out)
}

// SubstituteCall rebuilds a deferred call in the current instantiation.
func (c *checker) SubstituteCall(call alignbuiltin.Call) alignbuiltin.Call {
	e := c.expr(call.Origin)
	if e == nil {
		return call
	}
	if nc, ok := c.lowerAlignCall(call.Origin, e); ok {
		return nc
	}
	return call
}

func (c *checker) lowerAlignCall(id ast.ExprID, e *ast.Expr) (alignbuiltin.Call, bool) {
	b, _ := alignbuiltin.Lookup(e.Name)
	call := alignbuiltin.Call{Builtin: b, Span: e.Span, ArgCount: len(e.Args), Origin: id}
	if len(e.Args) == 0 {
		return call, true
	}
	call.Operand = alignbuiltin.Operand{Type: c.exprType(e.Args[0]), Span: c.spanOf(e.Args[0])}
	if call.Operand.Type == types.NoTypeID {
		return call, false
	}
	if len(e.Args) < 2 {
		return call, true
	}
	v := c.constEval(e.Args[1])
	if v.state == constInvalid {
		return call, false
	}
	call.Align = &alignbuiltin.AlignArg{
		Span:      c.spanOf(e.Args[1]),
		Value:     v.value,
		Constant:  v.state == constKnown,
		Dependent: v.state == constDependent,
	}
	return call, true
}

func (c *checker) finishAlign(call alignbuiltin.Call, out alignbuiltin.Outcome) types.TypeID {
	if !c.muted() {
		c.result.AlignCalls = append(c.result.AlignCalls, AlignCall{Func: c.env.name, Call: call, Outcome: out})
	}
	if rej := out.Rejected; rej != nil {
		sp := rej.Span
		if rej.Reason == alignbuiltin.ReasonArity {
			sp = call.Span
		}
		var notes []diag.Note
		if rej.Reason == alignbuiltin.ReasonPointerToMember {
			notes = append(notes, diag.Note{Span: call.Span, Msg: rej.Reason.String() + " in " + call.Builtin.String()})
		}
		c.errorf(rejectionCodes[rej.Reason], sp, rej.Message, notes...)
		return types.NoTypeID
	}
	if v := out.Validated; v != nil {
		if v.Redundant {
			c.report(diag.SemaAlignRedundant, diag.SevWarning, call.Align.Span, "aligning to 1 byte is a no-op")
		}
		return v.ResultType
	}
	return types.NoTypeID
}
