// Package diag defines the diagnostic model used by the check command.
//
// A Diagnostic is a single finding against a token-definition file: severity,
// a compact numeric Code with a stable string ID, a message and the 1-based
// line it points at. Bag collects diagnostics up to a limit and keeps their
// output order deterministic.
//
// Package diag does no formatting or IO; rendering lives in internal/diagfmt.
package diag
