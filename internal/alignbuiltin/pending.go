package alignbuiltin

import "tagcopy/internal/types"

// Substituter rebuilds a deferred call with concrete types and constants.
type Substituter interface {
	SubstituteCall(call Call) Call
}

// Pending is a call captured while its operand or alignment was dependent.
type Pending struct {
	Call Call
}

// Resume re-validates the captured call for one instantiation. Deferral is
// not allowed a second time: anything still dependent is rejected.
func (p *Pending) Resume(s Substituter, in *types.Interner) Outcome {
	return validate(s.SubstituteCall(p.Call), in, false)
}
