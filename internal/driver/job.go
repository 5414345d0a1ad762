// Package driver runs generation jobs: read a definition table, build the
// dense array, render it and write the result without leaving partial output.
package driver

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"go.uber.org/zap"

	"toknames/internal/emit"
	"toknames/internal/log"
	"toknames/internal/observ"
	"toknames/internal/stamp"
	"toknames/internal/tokentab"
)

// Stdout is the Output value that sends the result to Options.Stdout.
const Stdout = "-"

// Job is one input -> output generation.
type Job struct {
	Input   string
	Output  string
	Emit    emit.Options
	MaxCode int
}

// Options is shared by every job of a run.
type Options struct {
	Stdout io.Writer    // destination for Output == "-"; os.Stdout when nil
	Stamps *stamp.Store // nil disables up-to-date checks
	Force  bool         // regenerate even when the stamp matches
	Jobs   int          // RunAll parallelism; <= 0 means GOMAXPROCS
}

// Result describes a finished job.
type Result struct {
	Job        Job
	Entries    int
	Holes      int
	Overwrites int
	Skipped    bool
	Timings    observ.Report
}

// JobError ties a failure to the file it concerns.
type JobError struct {
	Op   string // "read", "write", or empty for content errors
	Path string
	Err  error
}

func (e *JobError) Error() string {
	if e.Op == "" {
		return e.Path + ": " + e.Err.Error()
	}
	return e.Op + " " + e.Path + ": " + e.Err.Error()
}

func (e *JobError) Unwrap() error { return e.Err }

// Run executes job. A malformed record aborts before anything is written.
func Run(ctx context.Context, job Job, opts Options) (res Result, err error) {
	res.Job = job
	if err := ctx.Err(); err != nil {
		return res, err
	}
	timer := observ.NewTimer()
	defer func() { res.Timings = timer.Report() }()

	var data []byte
	if err := timer.Measure(observ.PhaseRead, func() (err error) {
		data, err = os.ReadFile(job.Input)
		return err
	}); err != nil {
		return res, &JobError{Op: "read", Path: job.Input, Err: err}
	}

	inputD := stamp.Sum(data)
	optionsD := optionsDigest(job)
	if upToDate(job, opts, inputD, optionsD) {
		res.Skipped = true
		log.Info("output up to date", zap.String("input", job.Input), zap.String("output", job.Output))
		return res, nil
	}

	var (
		table tokentab.Table
		b     *tokentab.Builder
	)
	if err := timer.Measure(observ.PhaseBuild, func() (err error) {
		table, b, err = tokentab.ReadTable(bytes.NewReader(data), tokentab.WithMaxCode(job.MaxCode))
		return err
	}); err != nil {
		return res, &JobError{Path: job.Input, Err: err}
	}
	res.Entries = len(table)
	res.Holes = table.Holes()
	res.Overwrites = len(b.Overwrites())
	for _, ow := range b.Overwrites() {
		log.Debug("duplicate token code",
			zap.String("input", job.Input),
			zap.Int("line", ow.Line),
			zap.Int("code", ow.Code),
			zap.String("old", ow.Old),
			zap.String("new", ow.New))
	}

	var out bytes.Buffer
	if err := timer.Measure(observ.PhaseEmit, func() error {
		return emit.Render(&out, table, job.Emit)
	}); err != nil {
		return res, &JobError{Path: job.Input, Err: err}
	}

	if err := ctx.Err(); err != nil {
		return res, err
	}
	if err := timer.Measure(observ.PhaseWrite, func() error {
		return writeOutput(job.Output, out.Bytes(), opts.Stdout)
	}); err != nil {
		return res, &JobError{Op: "write", Path: job.Output, Err: err}
	}

	if opts.Stamps != nil && job.Output != Stdout {
		st := &stamp.Stamp{
			Input:   job.Input,
			InputD:  inputD,
			Options: optionsD,
			OutputD: stamp.Sum(out.Bytes()),
			Entries: res.Entries,
		}
		if err := opts.Stamps.Put(job.Output, st); err != nil {
			log.Warn("failed to record stamp", zap.String("output", job.Output), zap.Error(err))
		}
	}
	log.Info("generated token table",
		zap.String("input", job.Input),
		zap.String("output", job.Output),
		zap.Int("entries", res.Entries),
		zap.Int("holes", res.Holes))
	return res, nil
}

func optionsDigest(job Job) stamp.Digest {
	maxCode := job.MaxCode
	if maxCode <= 0 {
		maxCode = tokentab.DefaultMaxCode
	}
	return stamp.SumStrings(job.Emit.Format.String(), job.Emit.Name, job.Emit.Package, strconv.Itoa(maxCode))
}

// upToDate holds only when the stamp matches and the output on disk is still
// the bytes the stamp recorded.
func upToDate(job Job, opts Options, inputD, optionsD stamp.Digest) bool {
	if opts.Stamps == nil || opts.Force || job.Output == Stdout {
		return false
	}
	var st stamp.Stamp
	ok, err := opts.Stamps.Get(job.Output, &st)
	if err != nil {
		log.Warn("ignoring unreadable stamp", zap.String("output", job.Output), zap.Error(err))
		return false
	}
	if !ok || !st.Matches(inputD, optionsD) {
		return false
	}
	current, err := os.ReadFile(job.Output)
	if err != nil {
		return false
	}
	return stamp.Sum(current) == st.OutputD
}

func writeOutput(path string, data []byte, stdout io.Writer) error {
	if path == Stdout {
		if stdout == nil {
			stdout = os.Stdout
		}
		_, err := stdout.Write(data)
		return err
	}
	return writeFileAtomic(path, data)
}

// writeFileAtomic replaces path with data via a temp file in the same directory.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	_, werr := f.Write(data)
	cerr := f.Close()
	if err := errors.Join(werr, cerr); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	if err := os.Chmod(tmp, 0o644); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}
