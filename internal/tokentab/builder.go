package tokentab

import "strings"

// Overwrite describes a record that replaced an earlier name for the same code.
type Overwrite struct {
	Code int
	Old  string
	New  string
	Line int
}

// Option configures a Builder.
type Option func(*Builder)

// WithMaxCode sets the largest code the builder accepts. Values <= 0 keep the default.
func WithMaxCode(n int) Option {
	return func(b *Builder) {
		if n > 0 {
			b.maxCode = n
		}
	}
}

// Builder accumulates code -> name records. A Builder serves a single run and
// is not safe for concurrent use.
type Builder struct {
	names       map[int]string
	maxSeen     int
	maxCode     int
	line        int
	zeroDefined bool
	last        Record
	overwrites  []Overwrite
}

// New returns a builder seeded with 0 -> EOFName.
func New(opts ...Option) *Builder {
	b := &Builder{
		names:   map[int]string{0: EOFName},
		maxCode: DefaultMaxCode,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Ingest parses one line and records it. Every call advances the line counter,
// so errors name the line's position in the input.
func (b *Builder) Ingest(line string) error {
	b.line++
	rec, err := ParseRecord(strings.TrimRight(line, "\r\n"), b.line, b.maxCode)
	if err != nil {
		return err
	}
	b.put(rec)
	return nil
}

// IngestRecord records an already split record, applying the same code checks
// as Ingest.
func (b *Builder) IngestRecord(rec Record) error {
	if rec.Code < 0 {
		return &MalformedRecordError{Line: rec.Line, Text: rec.Name, Reason: ReasonNegativeCode, Fields: recordFields}
	}
	if rec.Code > b.maxCode {
		return &MalformedRecordError{Line: rec.Line, Text: rec.Name, Reason: ReasonCodeTooLarge, Fields: recordFields}
	}
	b.put(rec)
	return nil
}

func (b *Builder) put(rec Record) {
	// replacing the EOF seed is not a duplicate
	if old, ok := b.names[rec.Code]; ok && (rec.Code != 0 || b.zeroDefined) {
		b.overwrites = append(b.overwrites, Overwrite{Code: rec.Code, Old: old, New: rec.Name, Line: rec.Line})
	}
	if rec.Code == 0 {
		b.zeroDefined = true
	}
	b.names[rec.Code] = rec.Name
	b.last = rec
	if rec.Code > b.maxSeen {
		b.maxSeen = rec.Code
	}
}

// Len reports how many distinct codes are mapped, including the EOF seed.
func (b *Builder) Len() int { return len(b.names) }

// Overwrites lists duplicate-code replacements in ingestion order.
func (b *Builder) Overwrites() []Overwrite { return b.overwrites }

// Build densifies the mapping into a Table of max(code)+1 entries. It does not
// consume the builder; calling it again yields an equal table.
func (b *Builder) Build() Table {
	t := make(Table, b.maxSeen+1)
	for i := range t {
		t[i] = FillerName
	}
	for code, name := range b.names {
		t[code] = name
	}
	return t
}
