package tags

import "fmt"

// Policy holds the knobs for the two known imprecisions. The zero value is
// the conservative behaviour.
type Policy struct {
	// ExcludeSubSlotCopies treats a constant length shorter than one slot as
	// unable to carry a tag.
	ExcludeSubSlotCopies bool
	// CharArraysAsTagStorage treats char buffers of at least one slot as
	// possible capability storage even without an explicit alignment.
	CharArraysAsTagStorage bool
}

// Classifier binds a capability layout and a policy.
type Classifier struct {
	Layout CapabilityLayout
	Policy Policy
}

// NewClassifier validates layout and returns a classifier.
func NewClassifier(layout CapabilityLayout, policy Policy) (*Classifier, error) {
	if err := layout.Validate(); err != nil {
		return nil, err
	}
	return &Classifier{Layout: layout, Policy: policy}, nil
}

// Decision is a Disposition together with the reasoning behind it.
type Decision struct {
	Disposition Disposition
	Source      Verdict
	Dest        Verdict
	Rule        Rule
	Length      TransferLength
}

func (d Decision) String() string {
	return fmt.Sprintf("%s by %s [src: %s, dst: %s, len: %s]", d.Disposition, d.Rule, d.Source, d.Dest, d.Length)
}

// Classify is the stateless entry point with the default policy.
func Classify(src, dst Operand, length TransferLength, layout CapabilityLayout) Disposition {
	c := Classifier{Layout: layout}
	return c.Classify(src, dst, length)
}

// Classify returns the disposition for copying length bytes from src to dst.
func (c *Classifier) Classify(src, dst Operand, length TransferLength) Disposition {
	return c.Explain(src, dst, length).Disposition
}

// Explain classifies and reports which rules fired. Tags can only travel
// from the source, so only the source verdict decides; the destination
// verdict is reported for diagnostics and tooling.
func (c *Classifier) Explain(src, dst Operand, length TransferLength) Decision {
	d := Decision{
		Source: c.operandVerdict(src),
		Dest:   c.operandVerdict(dst),
		Length: length,
	}

	switch {
	case d.Source.Evidence == TagFree:
		d.Rule = RuleTagFreeSource
		d.Disposition = Disposition{Kind: NoTagsPossible}
	case c.Policy.ExcludeSubSlotCopies && isSubSlot(length, c.Layout):
		d.Rule = RuleSubSlot
		d.Disposition = Disposition{Kind: NoTagsPossible}
	default:
		d.Rule = RuleMustPreserve
		d.Disposition = Disposition{Kind: MustPreserveTags}
		if name := aggregateName(src.Type); name != "" {
			d.Disposition = Disposition{Kind: MustPreserveTagsWithKnownType, KnownType: name}
		}
	}
	return d
}

func isSubSlot(length TransferLength, layout CapabilityLayout) bool {
	n, ok := length.Bytes()
	return ok && n < int64(layout.SlotWidth)
}

// aggregateName is the known aggregate behind t, looking through arrays.
func aggregateName(t StaticType) string {
	switch t := t.(type) {
	case KnownAggregate:
		return t.Name
	case KnownCompositeArray:
		return aggregateName(t.Elem)
	}
	return ""
}

func (c *Classifier) operandVerdict(op Operand) Verdict {
	if op.Provenance == Literal {
		return Verdict{TagFree, RuleLiteral}
	}

	switch t := op.Type.(type) {
	case OpaquePointer, UnknownViaIndirection:
		return Verdict{Unknown, RuleOpaque}

	case KnownScalar:
		if op.Provenance == AddressOf || op.Provenance == ArrayDecay {
			return Verdict{TagFree, RuleScalarAddress}
		}
		return Verdict{Unknown, RuleDefault}

	case KnownScalarArray:
		if t.Elem == ScalarChar {
			if op.ExplicitlyOveraligned && op.DeclaredAlign >= c.Layout.SlotAlign {
				return Verdict{Unknown, RuleOveralignedBytes}
			}
			if c.Policy.CharArraysAsTagStorage && t.Count >= c.Layout.SlotWidth {
				return Verdict{Unknown, RuleCharStorage}
			}
		}
		if op.Provenance == AddressOf || op.Provenance == ArrayDecay {
			return Verdict{TagFree, RuleScalarAddress}
		}
		return Verdict{Unknown, RuleDefault}

	case KnownCapability:
		return Verdict{HasCapabilities, RuleCapabilityValue}

	case KnownAggregate:
		return Verdict{c.scan(t, 0, false), RuleAggregate}

	case KnownCompositeArray:
		// выравнивание объявления распространяется на вложенные char-массивы
		ev := c.scan(t, op.DeclaredAlign, op.ExplicitlyOveraligned)
		if ev == Unknown && op.ExplicitlyOveraligned && c.scan(t, 0, false) != Unknown {
			return Verdict{ev, RuleOveralignedBytes}
		}
		return Verdict{ev, RuleAggregate}

	case nil:
		return Verdict{Unknown, RuleDefault}
	}
	panic(fmt.Sprintf("tags: unhandled static type %T", op.Type))
}

// scan walks a sub-object. align/overaligned describe the enclosing field.
func (c *Classifier) scan(t StaticType, align int, overaligned bool) Evidence {
	switch t := t.(type) {
	case KnownCapability:
		return HasCapabilities
	case KnownScalar:
		return TagFree
	case KnownScalarArray:
		if t.Elem == ScalarChar {
			if overaligned && align >= c.Layout.SlotAlign {
				return Unknown
			}
			if c.Policy.CharArraysAsTagStorage && t.Count >= c.Layout.SlotWidth {
				return Unknown
			}
		}
		return TagFree
	case KnownCompositeArray:
		if t.Count == 0 {
			return TagFree
		}
		return c.scan(t.Elem, align, overaligned)
	case KnownAggregate:
		ev := TagFree
		for _, f := range t.Fields {
			ev = join(ev, c.scan(f.Type, f.Align, f.ExplicitlyOveraligned))
			if ev == HasCapabilities {
				return ev
			}
		}
		return ev
	case OpaquePointer, UnknownViaIndirection, nil:
		return Unknown
	}
	panic(fmt.Sprintf("tags: unhandled static type %T", t))
}
