package tags

import (
	"fmt"

	"tagcopy/internal/source"
)

// MemOp is the kind of memory transfer.
type MemOp uint8

const (
	Memcpy MemOp = iota
	Memmove
)

func (op MemOp) String() string {
	if op == Memmove {
		return "memmove"
	}
	return "memcpy"
}

// UnknownTypeDescription is used when no operand has a known aggregate type.
const UnknownTypeDescription = "<unknown type>"

// InefficientCopy is the request for an advisory "underaligned destination"
// diagnostic. It never blocks compilation.
type InefficientCopy struct {
	Op              MemOp
	Span            source.Span
	TypeDescription string
	ActualAlign     int
	SlotAlign       int
}

// Message is the warning text.
func (w InefficientCopy) Message() string {
	return fmt.Sprintf("%s operation with capability argument %s and underaligned destination (aligned to %d bytes) may be inefficient or result in CHERI tags bits being stripped",
		w.Op, w.TypeDescription, w.ActualAlign)
}

// Note is the informational follow-up attached to the warning.
func (w InefficientCopy) Note() string {
	return fmt.Sprintf("For more information: align the destination to at least %d bytes or use a copy that is known not to contain capabilities", w.SlotAlign)
}

// Result is everything the emission step needs for one call site.
type Result struct {
	Decision
	Warning *InefficientCopy
}

// Check classifies a call site and returns the diagnostic request if the
// copy keeps tags into a destination aligned below the slot alignment.
func (c *Classifier) Check(op MemOp, site source.Span, src, dst Operand, length TransferLength) Result {
	res := Result{Decision: c.Explain(src, dst, length)}
	if !res.Disposition.PreservesTags() || dst.DeclaredAlign >= c.Layout.SlotAlign {
		return res
	}
	desc := UnknownTypeDescription
	if res.Disposition.Kind == MustPreserveTagsWithKnownType {
		desc = "'" + res.Disposition.KnownType + "'"
	}
	res.Warning = &InefficientCopy{
		Op:              op,
		Span:            site,
		TypeDescription: desc,
		ActualAlign:     dst.DeclaredAlign,
		SlotAlign:       c.Layout.SlotAlign,
	}
	return res
}
