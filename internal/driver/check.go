package driver

import (
	"fmt"
	"os"

	"toknames/internal/diag"
	"toknames/internal/tokentab"
)

// Check lints path without generating anything: every malformed record is an
// error, every duplicate code a warning, and redefining code 0 a note. Only a
// failure to open the file is returned as error.
func Check(path string, maxCode, maxDiagnostics int) (*diag.Bag, error) {
	bag := diag.NewBag(maxDiagnostics)
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	b, err := tokentab.Scan(f, func(rec tokentab.Record, err error) bool {
		if err != nil {
			bag.Add(diag.FromError(path, err))
		} else if rec.Code == 0 {
			bag.Add(diag.Diagnostic{
				Severity: diag.SevInfo,
				Code:     diag.TabRedefinedEOF,
				Message:  fmt.Sprintf("code 0 named %s instead of %s", rec.Name, tokentab.EOFName),
				Path:     path,
				Line:     rec.Line,
			})
		}
		return !bag.Full()
	}, tokentab.WithMaxCode(maxCode))
	if err != nil {
		bag.Add(diag.FromError(path, err))
	}
	if b != nil {
		for _, ow := range b.Overwrites() {
			bag.Add(diag.FromOverwrite(path, ow))
		}
	}
	bag.Sort()
	return bag, nil
}
