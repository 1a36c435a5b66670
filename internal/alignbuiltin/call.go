package alignbuiltin

import (
	"fmt"

	"tagcopy/internal/ast"
	"tagcopy/internal/source"
	"tagcopy/internal/types"
)

// Builtin is one of the three alignment builtins.
type Builtin uint8

const (
	AlignUp Builtin = iota
	AlignDown
	IsAligned
)

var builtinNames = map[string]Builtin{
	"align_up":   AlignUp,
	"align_down": AlignDown,
	"is_aligned": IsAligned,
}

// Lookup maps a callee name to a builtin.
func Lookup(name string) (Builtin, bool) {
	b, ok := builtinNames[name]
	return b, ok
}

func (b Builtin) String() string {
	switch b {
	case AlignUp:
		return "align_up"
	case AlignDown:
		return "align_down"
	case IsAligned:
		return "is_aligned"
	}
	return fmt.Sprintf("Builtin(%d)", b)
}

// Operand is the first argument after type resolution.
type Operand struct {
	Type types.TypeID
	Span source.Span
}

// AlignArg is the second argument after constant folding.
// Exactly one of Constant and Dependent is set for a well-formed argument;
// neither means the expression is not a compile-time constant.
type AlignArg struct {
	Span      source.Span
	Value     int64
	Constant  bool
	Dependent bool
}

// Call is an alignment builtin call site. Align is nil when the argument is
// missing. Origin links back to the call expression so a Substituter can
// rebuild the call for an instantiation.
type Call struct {
	Builtin  Builtin
	Span     source.Span
	Operand  Operand
	Align    *AlignArg
	ArgCount int
	Origin   ast.ExprID
}
