package tokentab

import "fmt"

// Reason classifies why a record was rejected.
type Reason uint8

const (
	// ReasonFieldCount means the line did not split into exactly three fields.
	ReasonFieldCount Reason = iota + 1
	// ReasonBadCode means the third field is not a base-10 integer.
	ReasonBadCode
	// ReasonNegativeCode means the code is below zero.
	ReasonNegativeCode
	// ReasonCodeTooLarge means the code exceeds the builder's ceiling.
	ReasonCodeTooLarge
)

func (r Reason) String() string {
	switch r {
	case ReasonFieldCount:
		return "field-count"
	case ReasonBadCode:
		return "bad-code"
	case ReasonNegativeCode:
		return "negative-code"
	case ReasonCodeTooLarge:
		return "code-too-large"
	}
	return "unknown"
}

// MalformedRecordError reports a line that breaks the
// "<ignored> <name> <code>" contract.
type MalformedRecordError struct {
	Line   int
	Text   string
	Reason Reason
	Fields int   // number of fields found on the line
	Err    error // underlying parse error, if any
}

func (e *MalformedRecordError) Error() string {
	var msg string
	switch e.Reason {
	case ReasonFieldCount:
		msg = fmt.Sprintf("expected %d fields, got %d", recordFields, e.Fields)
	case ReasonBadCode:
		msg = "token code is not an integer"
	case ReasonNegativeCode:
		msg = "token code is negative"
	case ReasonCodeTooLarge:
		msg = "token code is out of range"
	default:
		msg = "malformed record"
	}
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s: %q", e.Line, msg, e.Text)
	}
	return fmt.Sprintf("%s: %q", msg, e.Text)
}

func (e *MalformedRecordError) Unwrap() error { return e.Err }
