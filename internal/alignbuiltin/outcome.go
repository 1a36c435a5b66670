package alignbuiltin

import (
	"fmt"

	"tagcopy/internal/source"
	"tagcopy/internal/types"
)

// State is the lifecycle position of a call.
type State uint8

const (
	Unresolved State = iota
	Deferred
	Resolved
)

func (s State) String() string {
	switch s {
	case Unresolved:
		return "unresolved"
	case Deferred:
		return "deferred"
	case Resolved:
		return "resolved"
	}
	return fmt.Sprintf("State(%d)", s)
}

// Reason classifies a rejection.
type Reason uint8

const (
	ReasonArity Reason = iota + 1
	ReasonPointerToMember
	ReasonOperandType
	ReasonNotConstant
	ReasonBelowOne
	ReasonNotPowerOfTwo
)

func (r Reason) String() string {
	switch r {
	case ReasonArity:
		return "wrong number of arguments"
	case ReasonPointerToMember:
		return "pointer-to-member not permitted"
	case ReasonOperandType:
		return "operand must be a pointer, array or integer"
	case ReasonNotConstant:
		return "alignment is not a constant"
	case ReasonBelowOne:
		return "must be 1 or greater"
	case ReasonNotPowerOfTwo:
		return "not a power of two"
	}
	return fmt.Sprintf("Reason(%d)", r)
}

// Validated is an accepted call. Redundant marks an alignment of 1.
type Validated struct {
	ResultType types.TypeID
	Alignment  int64
	Redundant  bool
}

// Rejected is a user-facing error at Span.
type Rejected struct {
	Reason  Reason
	Message string
	Span    source.Span
}

// Outcome is the result of Validate. For State Resolved exactly one of
// Validated and Rejected is set; for Deferred, Pending is set.
type Outcome struct {
	State     State
	Validated *Validated
	Rejected  *Rejected
	Pending   *Pending
}

func (o Outcome) String() string {
	switch {
	case o.State == Deferred:
		return "deferred"
	case o.Rejected != nil:
		return "rejected: " + o.Rejected.Reason.String()
	case o.Validated != nil:
		return "validated"
	}
	return o.State.String()
}
