package layout

import (
	"fmt"
	"strings"

	"tagcopy/internal/types"
)

// LayoutErrorKind enumerates types of layout calculation errors.
type LayoutErrorKind uint8

const (
	// LayoutErrRecursiveUnsized indicates a struct containing itself by value.
	LayoutErrRecursiveUnsized LayoutErrorKind = iota + 1
	// LayoutErrIncomplete indicates a forward-declared struct or void.
	LayoutErrIncomplete
	// LayoutErrDependent indicates a type mentioning a generic parameter.
	LayoutErrDependent
)

// LayoutError represents an error during memory layout calculation.
type LayoutError struct {
	Kind  LayoutErrorKind
	Type  types.TypeID
	Label string
	Cycle []string // for LayoutErrRecursiveUnsized
}

func (e *LayoutError) Error() string {
	if e == nil {
		return "<nil>"
	}
	switch e.Kind {
	case LayoutErrRecursiveUnsized:
		if len(e.Cycle) == 0 {
			return fmt.Sprintf("recursive aggregate '%s' has infinite size", e.Label)
		}
		return fmt.Sprintf("recursive aggregate has infinite size (cycle: %s)", strings.Join(e.Cycle, " -> "))
	case LayoutErrIncomplete:
		return fmt.Sprintf("incomplete type '%s'", e.Label)
	case LayoutErrDependent:
		return fmt.Sprintf("type '%s' depends on a generic parameter", e.Label)
	default:
		return fmt.Sprintf("layout error kind=%d type '%s'", e.Kind, e.Label)
	}
}
