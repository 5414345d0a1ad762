package tokentab

import (
	"errors"
	"strconv"
	"strings"

	"fortio.org/safecast"
)

const (
	// EOFName is the name seeded at code 0 before any record is ingested.
	EOFName = "<<EOF>>"
	// FillerName occupies every code the table does not define.
	FillerName = "ERROR"

	// DefaultMaxCode is the largest code accepted unless WithMaxCode says otherwise.
	DefaultMaxCode = 1 << 20

	recordFields = 3
)

// Record is one parsed line of the definition table.
type Record struct {
	Name string
	Code int
	Line int // 1-based, 0 when the record did not come from a line
}

// ParseRecord splits line into its three fields and validates the code.
// lineNo is only used for error reporting.
func ParseRecord(line string, lineNo, maxCode int) (Record, error) {
	fields := strings.FieldsFunc(line, isASCIISpace)
	if len(fields) != recordFields {
		return Record{}, &MalformedRecordError{
			Line:   lineNo,
			Text:   line,
			Reason: ReasonFieldCount,
			Fields: len(fields),
		}
	}
	code, err := parseCode(fields[2], maxCode)
	if err != nil {
		err.Line = lineNo
		err.Text = line
		err.Fields = recordFields
		return Record{}, err
	}
	return Record{Name: fields[1], Code: code, Line: lineNo}, nil
}

func parseCode(s string, maxCode int) (int, *MalformedRecordError) {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) && !strings.HasPrefix(s, "-") {
			return 0, &MalformedRecordError{Reason: ReasonCodeTooLarge, Err: err}
		}
		if errors.Is(err, strconv.ErrRange) {
			return 0, &MalformedRecordError{Reason: ReasonNegativeCode, Err: err}
		}
		return 0, &MalformedRecordError{Reason: ReasonBadCode, Err: err}
	}
	if v < 0 {
		return 0, &MalformedRecordError{Reason: ReasonNegativeCode}
	}
	code, err := safecast.Conv[int](v)
	if err != nil {
		return 0, &MalformedRecordError{Reason: ReasonCodeTooLarge, Err: err}
	}
	if code > maxCode {
		return 0, &MalformedRecordError{Reason: ReasonCodeTooLarge}
	}
	return code, nil
}

func isASCIISpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}
