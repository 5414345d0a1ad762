package tokentab

import (
	"bufio"
	"errors"
	"fmt"
	"io"
)

const maxLineBytes = 1 << 20

// ReadTable ingests every line of r in order with a fresh builder and returns
// the densified table. The first malformed record aborts the read; no table is
// produced in that case.
func ReadTable(r io.Reader, opts ...Option) (Table, *Builder, error) {
	b := New(opts...)
	sc := newScanner(r)
	for sc.Scan() {
		if err := b.Ingest(sc.Text()); err != nil {
			return nil, nil, err
		}
	}
	if err := sc.Err(); err != nil {
		return nil, nil, fmt.Errorf("read token definitions: %w", err)
	}
	return b.Build(), b, nil
}

// Scan walks every line of r, ingesting the valid ones. fn sees each record or
// the MalformedRecordError for its line and returns false to stop early. The
// returned error is reserved for read failures.
func Scan(r io.Reader, fn func(rec Record, err error) bool, opts ...Option) (*Builder, error) {
	b := New(opts...)
	sc := newScanner(r)
	for sc.Scan() {
		err := b.Ingest(sc.Text())
		var rec Record
		if err == nil {
			rec = b.last
		} else {
			var mre *MalformedRecordError
			if !errors.As(err, &mre) {
				return b, err
			}
		}
		if !fn(rec, err) {
			break
		}
	}
	if err := sc.Err(); err != nil {
		return b, fmt.Errorf("read token definitions: %w", err)
	}
	return b, nil
}

func newScanner(r io.Reader) *bufio.Scanner {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), maxLineBytes)
	return sc
}
