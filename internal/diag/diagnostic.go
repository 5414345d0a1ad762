package diag

import (
	"errors"
	"fmt"

	"toknames/internal/tokentab"
)

type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Path     string
	Line     int    // 1-based, 0 for file-level findings
	Text     string // offending line, verbatim
}

// Location renders path:line, or just path for file-level findings.
func (d Diagnostic) Location() string {
	if d.Line <= 0 {
		return d.Path
	}
	return fmt.Sprintf("%s:%d", d.Path, d.Line)
}

// FromError converts a tokentab error into an error diagnostic. Errors that are
// not MalformedRecordError become file-level IO diagnostics.
func FromError(path string, err error) Diagnostic {
	var mre *tokentab.MalformedRecordError
	if errors.As(err, &mre) {
		return Diagnostic{
			Severity: SevError,
			Code:     CodeForReason(mre.Reason),
			Message:  reasonMessage(mre),
			Path:     path,
			Line:     mre.Line,
			Text:     mre.Text,
		}
	}
	return Diagnostic{
		Severity: SevError,
		Code:     IOLoadFileError,
		Message:  err.Error(),
		Path:     path,
	}
}

// FromOverwrite reports a duplicate code as a warning.
func FromOverwrite(path string, ow tokentab.Overwrite) Diagnostic {
	return Diagnostic{
		Severity: SevWarning,
		Code:     TabDuplicateCode,
		Message:  fmt.Sprintf("code %d redefined as %s (was %s)", ow.Code, ow.New, ow.Old),
		Path:     path,
		Line:     ow.Line,
	}
}

func reasonMessage(mre *tokentab.MalformedRecordError) string {
	switch mre.Reason {
	case tokentab.ReasonFieldCount:
		return fmt.Sprintf("expected <ignored> <name> <code>, got %d fields", mre.Fields)
	case tokentab.ReasonBadCode:
		return "token code is not a base-10 integer"
	case tokentab.ReasonNegativeCode:
		return "token code must not be negative"
	case tokentab.ReasonCodeTooLarge:
		return "token code exceeds the configured maximum"
	}
	return mre.Error()
}
