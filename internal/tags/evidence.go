package tags

import "fmt"

// Evidence is what static reasoning established about one operand.
type Evidence uint8

const (
	TagFree Evidence = iota
	HasCapabilities
	Unknown
)

func (e Evidence) String() string {
	switch e {
	case TagFree:
		return "tag-free"
	case HasCapabilities:
		return "has-capabilities"
	case Unknown:
		return "unknown"
	}
	return fmt.Sprintf("Evidence(%d)", e)
}

// join merges evidence of sibling sub-objects: capabilities dominate,
// then unknown contents.
func join(a, b Evidence) Evidence {
	if a == HasCapabilities || b == HasCapabilities {
		return HasCapabilities
	}
	if a == Unknown || b == Unknown {
		return Unknown
	}
	return TagFree
}

// Rule names the reasoning step that produced a verdict.
type Rule uint8

const (
	RuleOpaque           Rule = iota + 1 // type-erased or reinterpretable pointee
	RuleScalarAddress                    // address of scalar / scalar array
	RuleAggregate                        // recursive field scan
	RuleOveralignedBytes                 // char buffer aligned for capability storage
	RuleLiteral                          // constant data
	RuleDefault                          // nothing proved
	RuleCapabilityValue                  // the operand is itself a capability
	RuleCharStorage                      // policy: large char buffers may hold capabilities
	RuleSubSlot                          // policy: copy shorter than one slot
	RuleTagFreeSource                    // combination: the source cannot hold tags
	RuleMustPreserve                     // combination: neither side proved tag-free
)

func (r Rule) String() string {
	switch r {
	case RuleOpaque:
		return "opaque-pointee"
	case RuleScalarAddress:
		return "scalar-address"
	case RuleAggregate:
		return "aggregate-scan"
	case RuleOveralignedBytes:
		return "overaligned-bytes"
	case RuleLiteral:
		return "literal"
	case RuleDefault:
		return "default"
	case RuleCapabilityValue:
		return "capability-value"
	case RuleCharStorage:
		return "char-storage"
	case RuleSubSlot:
		return "sub-slot-length"
	case RuleTagFreeSource:
		return "tag-free-source"
	case RuleMustPreserve:
		return "must-preserve"
	}
	return fmt.Sprintf("Rule(%d)", r)
}

// Verdict is the per-operand result with the rule that decided it.
type Verdict struct {
	Evidence Evidence
	Rule     Rule
}

func (v Verdict) String() string {
	return fmt.Sprintf("%s (%s)", v.Evidence, v.Rule)
}
