// Package diag defines the issue model shared by every chartlint analyzer.
//
// # Purpose
//
//   - Provide deterministic, serialisable records for findings produced by the
//     static overlap checker, the readability analyzer, the sandboxed renderer
//     and the font-size enforcer.
//   - Offer light-weight utilities (Reporter, Bag) that let analyzers emit
//     issues without coupling to storage or formatting layers.
//   - Model fix suggestions as structured text edits that internal/fix can
//     apply.
//
// # Scope
//
// Apart from the one-line form of FormatLines, used by the short format and
// tests, package diag renders nothing. Rendering lives in internal/diagfmt,
// application of fixes in internal/fix.
//
// # Data model
//
// Diagnostic is the central record (an "issue" in user-facing output):
//
//   - Severity – INFO, WARNING, ERROR or CRITICAL.
//   - Code – issue kind (TEXT_OVERLAP, SMALL_FONT, ...), see codes.go.
//   - Message – human oriented text; keep it short and actionable.
//   - Primary – span of the offending call or literal.
//   - Notes – other offending elements ("overlaps text at line 12").
//   - Attrs – structured key/value facts (current=8, minimum=14).
//   - Fixes – optional replacement edits.
//
// Diagnostics are values: analyzers never mutate an issue after emitting it.
//
// # Ordering
//
// Bag.Sort orders issues by kind, then by source position, so two runs over
// identical input print byte-identical reports.
package diag
