package diag

import (
	"fmt"

	"toknames/internal/tokentab"
)

type Code uint16

const (
	UnknownCode Code = 0

	// token table records
	TabInfo          Code = 1000
	TabFieldCount    Code = 1001
	TabBadCode       Code = 1002
	TabNegativeCode  Code = 1003
	TabCodeTooLarge  Code = 1004
	TabDuplicateCode Code = 1005
	TabRedefinedEOF  Code = 1006

	// input/output
	IOLoadFileError Code = 4001
)

var codeDescription = map[Code]string{
	UnknownCode:      "Unknown error",
	TabInfo:          "Token table information",
	TabFieldCount:    "Record does not have three fields",
	TabBadCode:       "Token code is not an integer",
	TabNegativeCode:  "Token code is negative",
	TabCodeTooLarge:  "Token code is out of range",
	TabDuplicateCode: "Token code defined more than once",
	TabRedefinedEOF:  "Token code 0 replaces <<EOF>>",
	IOLoadFileError:  "Failed to read input file",
}

// ID returns the stable textual identifier, e.g. TAB1001.
func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("TAB%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}

// CodeForReason maps a rejected record to its diagnostic code.
func CodeForReason(r tokentab.Reason) Code {
	switch r {
	case tokentab.ReasonFieldCount:
		return TabFieldCount
	case tokentab.ReasonBadCode:
		return TabBadCode
	case tokentab.ReasonNegativeCode:
		return TabNegativeCode
	case tokentab.ReasonCodeTooLarge:
		return TabCodeTooLarge
	}
	return UnknownCode
}
