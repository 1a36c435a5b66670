package tags

import "fmt"

// DispositionKind is the three-way outcome of classification.
type DispositionKind uint8

const (
	NoTagsPossible DispositionKind = iota
	MustPreserveTags
	MustPreserveTagsWithKnownType
)

func (k DispositionKind) String() string {
	switch k {
	case NoTagsPossible:
		return "no-tags"
	case MustPreserveTags:
		return "must-preserve"
	case MustPreserveTagsWithKnownType:
		return "must-preserve-typed"
	}
	return fmt.Sprintf("DispositionKind(%d)", k)
}

// Disposition is the classification of one call site. KnownType is set only
// for MustPreserveTagsWithKnownType.
type Disposition struct {
	Kind      DispositionKind
	KnownType string
}

// PreservesTags reports whether the copy must keep capability tags.
func (d Disposition) PreservesTags() bool {
	return d.Kind != NoTagsPossible
}

const (
	attrNoPreserve   = "no_preserve_cheri_tags"
	attrMustPreserve = "must_preserve_cheri_tags"
	attrTypeKey      = "frontend-memtransfer-type"
)

// Attribute renders the call-site attribute exactly as downstream tooling expects:
//
//	no_preserve_cheri_tags
//	must_preserve_cheri_tags
//	must_preserve_cheri_tags "frontend-memtransfer-type"="'struct OneCap'"
func (d Disposition) Attribute() string {
	switch d.Kind {
	case NoTagsPossible:
		return attrNoPreserve
	case MustPreserveTagsWithKnownType:
		return fmt.Sprintf("%s %q=\"'%s'\"", attrMustPreserve, attrTypeKey, d.KnownType)
	default:
		return attrMustPreserve
	}
}

func (d Disposition) String() string {
	if d.Kind == MustPreserveTagsWithKnownType {
		return fmt.Sprintf("%s('%s')", d.Kind, d.KnownType)
	}
	return d.Kind.String()
}
