// Package tokentab turns a parser generator's token-definition table into a
// dense, zero-indexed array of token names.
//
// Input lines have the shape
//
//	<ignored> <name> <code>
//
// The first field is discarded. Codes are non-negative base-10 integers.
//
// Invariants:
//   - Code 0 maps to EOFName unless the input redefines it.
//   - A later record with a known code replaces the earlier name (last write wins).
//   - Build returns exactly max(code)+1 entries; unmapped slots hold FillerName.
//   - Ingestion order is the input's line order.
package tokentab
