// Package tags decides, per memory-transfer call site, whether a copy must
// preserve CHERI capability tags.
//
// The decision is made from static facts only: the operand types as the
// front end resolved them, how each operand address was formed (address-of,
// array decay, indirection through a pointer, literal data), declared
// alignments and the transfer length. The classifier is conservative: an
// operand whose contents cannot be proven tag-free might hold capabilities,
// so the copy keeps tags unless one side is provably unable to.
//
// Everything here is a pure function of its inputs plus the read-only
// CapabilityLayout of the target, so a Classifier may be shared between
// goroutines.
package tags
