// Package diag defines the diagnostic model shared by every tagcopy phase.
//
// # Purpose
//
//   - Provide deterministic data structures for findings produced by the
//     lexer, parser, semantic analysis and the tag-preservation classifier.
//   - Offer light-weight utilities (Reporter, Bag) that let producers emit
//     diagnostics without coupling to storage or formatting layers.
//
// Rendering lives in internal/diagfmt; orchestration lives in internal/driver.
//
// # Data model
//
// Diagnostic is the central record:
//
//   - Severity – Info, Warning or Error.
//   - Code – numeric identifier with a stable string form (SYN2001, CG9001).
//   - Message – short, actionable text.
//   - Primary – the source.Span the finding points at.
//   - Notes – secondary spans, e.g. the instantiation that triggered an error.
//   - Fixes – optional structured edits.
//
// # Codes
//
// Ranges are grouped by phase: 1xxx lexer, 2xxx parser, 3xxx sema,
// 4xxx I/O, 5xxx project, 6xxx observability, 9xxx code generation.
// Codes are append-only; golden files reference them by ID.
package diag
