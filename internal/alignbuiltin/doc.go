// Package alignbuiltin validates calls to align_up, align_down and is_aligned.
//
// A call moves through three states: Unresolved (built by sema), Deferred
// (the operand type or the alignment depends on a generic parameter) and
// Resolved (validated or rejected). Deferred calls carry a Pending value that
// is resumed once per instantiation with concrete types.
package alignbuiltin
