package alignbuiltin

import (
	"fmt"

	"tagcopy/internal/source"
	"tagcopy/internal/types"
)

// Validate checks a call. Checks run in a fixed order: arity, pointer-to-member
// operand, dependence (defer), operand kind, alignment constness, alignment
// lower bound, power of two.
func Validate(call Call, in *types.Interner) Outcome {
	return validate(call, in, true)
}

func validate(call Call, in *types.Interner, allowDefer bool) Outcome {
	if call.Align == nil || call.ArgCount != 2 {
		have := call.ArgCount
		msg := fmt.Sprintf("too few arguments to function call, expected 2, have %d", have)
		if have > 2 {
			msg = fmt.Sprintf("too many arguments to function call, expected 2, have %d", have)
		}
		return reject(ReasonArity, call.Span, msg)
	}

	opType, _ := in.Lookup(call.Operand.Type)
	if opType.Kind == types.KindMemberPointer {
		return reject(ReasonPointerToMember, call.Operand.Span, operandTypeMessage(in, call.Operand.Type))
	}

	if allowDefer && (in.IsDependent(call.Operand.Type) || call.Align.Dependent) {
		return Outcome{State: Deferred, Pending: &Pending{Call: call}}
	}

	var result types.TypeID
	switch opType.Kind {
	case types.KindPointer:
		result = call.Operand.Type
	case types.KindArray:
		result = in.Decay(call.Operand.Type)
	case types.KindInt, types.KindChar, types.KindBool, types.KindCap:
		result = call.Operand.Type
	default:
		return reject(ReasonOperandType, call.Operand.Span, operandTypeMessage(in, call.Operand.Type))
	}
	if call.Builtin == IsAligned {
		result = in.Builtins().Bool
	}

	align := call.Align
	switch {
	case !align.Constant:
		return reject(ReasonNotConstant, align.Span, "requested alignment is not a constant expression")
	case align.Value < 1:
		return reject(ReasonBelowOne, align.Span, "requested alignment must be 1 or greater")
	case !IsPowerOfTwo(align.Value):
		return reject(ReasonNotPowerOfTwo, align.Span, "requested alignment is not a power of 2")
	}

	return Outcome{
		State: Resolved,
		Validated: &Validated{
			ResultType: result,
			Alignment:  align.Value,
			Redundant:  align.Value == 1,
		},
	}
}

// IsPowerOfTwo reports v == 2^k for some k >= 0.
func IsPowerOfTwo(v int64) bool {
	return v > 0 && v&(v-1) == 0
}

func operandTypeMessage(in *types.Interner, id types.TypeID) string {
	return fmt.Sprintf("operand of type '%s' where arithmetic or pointer type is required", types.Label(in, id))
}

func reject(reason Reason, sp source.Span, msg string) Outcome {
	return Outcome{
		State:    Resolved,
		Rejected: &Rejected{Reason: reason, Message: msg, Span: sp},
	}
}
