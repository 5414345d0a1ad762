package driver

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"toknames/internal/emit"
	"toknames/internal/observ"
	"toknames/internal/stamp"
	"toknames/internal/tokentab"
)

const parserH = "#define IDENT 3\n#define PLUS 5\n"

const wantC = "const char *toknames[] = {\n" +
	"\t\"<<EOF>>\",\n" +
	"\t\"ERROR\",\n" +
	"\t\"ERROR\",\n" +
	"\t\"IDENT\",\n" +
	"\t\"ERROR\",\n" +
	"\t\"PLUS\",\n" +
	"};\n"

func writeInput(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestRunWritesOutput(t *testing.T) {
	dir := t.TempDir()
	job := Job{
		Input:  writeInput(t, dir, "parser.h", parserH),
		Output: filepath.Join(dir, "gen", "toknames.c"),
	}
	res, err := Run(context.Background(), job, Options{})
	require.NoError(t, err)
	require.Equal(t, 6, res.Entries)
	require.Equal(t, 3, res.Holes)
	require.False(t, res.Skipped)

	var names []string
	for _, p := range res.Timings.Phases {
		names = append(names, p.Name)
	}
	require.Equal(t, []string{observ.PhaseRead, observ.PhaseBuild, observ.PhaseEmit, observ.PhaseWrite}, names)

	got, err := os.ReadFile(job.Output)
	require.NoError(t, err)
	require.Equal(t, wantC, string(got))

	entries, err := os.ReadDir(filepath.Dir(job.Output))
	require.NoError(t, err)
	require.Len(t, entries, 1, "temp files must not be left behind")
}

func TestRunStdout(t *testing.T) {
	dir := t.TempDir()
	var buf bytes.Buffer
	_, err := Run(context.Background(), Job{
		Input:  writeInput(t, dir, "parser.h", parserH),
		Output: Stdout,
		Emit:   emit.Options{Format: emit.FormatJSON},
	}, Options{Stdout: &buf})
	require.NoError(t, err)
	require.Equal(t, "[\n  \"<<EOF>>\",\n  \"ERROR\",\n  \"ERROR\",\n  \"IDENT\",\n  \"ERROR\",\n  \"PLUS\"\n]\n", buf.String())
}

func TestRunMalformedLeavesOutputAlone(t *testing.T) {
	dir := t.TempDir()
	out := writeInput(t, dir, "toknames.c", "previous\n")
	_, err := Run(context.Background(), Job{
		Input:  writeInput(t, dir, "parser.h", "#define A 1\n#define B\n"),
		Output: out,
	}, Options{})
	var mre *tokentab.MalformedRecordError
	require.ErrorAs(t, err, &mre)
	require.Equal(t, 2, mre.Line)

	got, err := os.ReadFile(out)
	require.NoError(t, err)
	require.Equal(t, "previous\n", string(got))
}

func TestRunMissingInput(t *testing.T) {
	_, err := Run(context.Background(), Job{Input: filepath.Join(t.TempDir(), "nope.h"), Output: Stdout}, Options{Stdout: &bytes.Buffer{}})
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Run(ctx, Job{Input: "irrelevant", Output: Stdout}, Options{})
	require.ErrorIs(t, err, context.Canceled)
}

func TestRunSkipsUpToDate(t *testing.T) {
	dir := t.TempDir()
	store, err := stamp.Open(filepath.Join(dir, "cache"))
	require.NoError(t, err)
	job := Job{Input: writeInput(t, dir, "parser.h", parserH), Output: filepath.Join(dir, "toknames.c")}
	opts := Options{Stamps: store}

	res, err := Run(context.Background(), job, opts)
	require.NoError(t, err)
	require.False(t, res.Skipped)

	res, err = Run(context.Background(), job, opts)
	require.NoError(t, err)
	require.True(t, res.Skipped)

	// different options
	job.Emit.Name = "names"
	res, err = Run(context.Background(), job, opts)
	require.NoError(t, err)
	require.False(t, res.Skipped)

	// output edited by hand
	require.NoError(t, os.WriteFile(job.Output, []byte("edited"), 0o644))
	res, err = Run(context.Background(), job, opts)
	require.NoError(t, err)
	require.False(t, res.Skipped)

	opts.Force = true
	res, err = Run(context.Background(), job, opts)
	require.NoError(t, err)
	require.False(t, res.Skipped)
	got, err := os.ReadFile(job.Output)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(got), "const char *names[] = {\n"))
}

func TestRunAll(t *testing.T) {
	dir := t.TempDir()
	var jobs []Job
	for i, body := range []string{"a A 1\n", "a B 2\n", "a C 3\n", "a D 4\n"} {
		name := string(rune('a' + i))
		jobs = append(jobs, Job{
			Input:  writeInput(t, dir, name+".h", body),
			Output: filepath.Join(dir, name+".go"),
			Emit:   emit.Options{Format: emit.FormatGo},
		})
	}
	results, err := RunAll(context.Background(), jobs, Options{Jobs: 2})
	require.NoError(t, err)
	require.Len(t, results, 4)
	for i, res := range results {
		require.Equal(t, jobs[i], res.Job)
		require.Equal(t, i+2, res.Entries)
	}
}

func TestRunAllFailsFast(t *testing.T) {
	dir := t.TempDir()
	jobs := []Job{
		{Input: writeInput(t, dir, "bad.h", "oops\n"), Output: filepath.Join(dir, "bad.c")},
	}
	_, err := RunAll(context.Background(), jobs, Options{})
	require.Error(t, err)
	_, statErr := os.Stat(filepath.Join(dir, "bad.c"))
	require.ErrorIs(t, statErr, os.ErrNotExist)
}

func TestRunAllStdoutDoesNotInterleave(t *testing.T) {
	dir := t.TempDir()
	var jobs []Job
	for i := range 6 {
		jobs = append(jobs, Job{
			Input:  writeInput(t, dir, string(rune('a'+i))+".h", parserH),
			Output: Stdout,
		})
	}
	var buf bytes.Buffer
	_, err := RunAll(context.Background(), jobs, Options{Stdout: &buf})
	require.NoError(t, err)
	require.Equal(t, strings.Repeat(wantC, 6), buf.String())
}
