package tokentab

import "strconv"

// Table is the dense code -> name array handed to emitters.
type Table []string

// Name returns the name for code, or a "token(N)" placeholder for codes
// outside the table.
func (t Table) Name(code int) string {
	if code < 0 || code >= len(t) {
		return "token(" + strconv.Itoa(code) + ")"
	}
	return t[code]
}

// MaxCode is the largest code the table covers.
func (t Table) MaxCode() int { return len(t) - 1 }

// Holes counts the filler slots.
func (t Table) Holes() int {
	n := 0
	for _, name := range t {
		if name == FillerName {
			n++
		}
	}
	return n
}
