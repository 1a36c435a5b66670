package tags

import (
	"errors"
	"fmt"
)

// CapabilityLayout is the width and required alignment of a capability slot.
type CapabilityLayout struct {
	SlotWidth int
	SlotAlign int
}

var errBadLayout = errors.New("invalid capability layout")

// Validate checks that SlotAlign is a power of two and SlotWidth a positive
// multiple of it.
func (l CapabilityLayout) Validate() error {
	if l.SlotAlign <= 0 || l.SlotAlign&(l.SlotAlign-1) != 0 {
		return fmt.Errorf("%w: slot alignment %d is not a power of two", errBadLayout, l.SlotAlign)
	}
	if l.SlotWidth <= 0 || l.SlotWidth%l.SlotAlign != 0 {
		return fmt.Errorf("%w: slot width %d is not a positive multiple of %d", errBadLayout, l.SlotWidth, l.SlotAlign)
	}
	return nil
}

func (l CapabilityLayout) String() string {
	return fmt.Sprintf("cap%d/%d", l.SlotWidth, l.SlotAlign)
}
