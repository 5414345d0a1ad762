package observ

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func fakeClock(step time.Duration) func() time.Time {
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	n := 0
	return func() time.Time {
		n++
		return t0.Add(time.Duration(n) * step)
	}
}

func TestTimerReport(t *testing.T) {
	tm := NewTimer()
	tm.now = fakeClock(time.Millisecond)
	idx := tm.Begin(PhaseRead)
	tm.End(idx, "3 lines")
	err := tm.Measure(PhaseBuild, func() error { return errors.New("bad") })
	require.Error(t, err)
	tm.End(99, "ignored")

	r := tm.Report()
	require.Equal(t, Report{
		TotalMS: 2,
		Phases: []PhaseReport{
			{Name: PhaseRead, DurationMS: 1, Note: "3 lines"},
			{Name: PhaseBuild, DurationMS: 1, Note: "failed"},
		},
	}, r)
}

func TestSum(t *testing.T) {
	a := Report{TotalMS: 3, Phases: []PhaseReport{{Name: "read", DurationMS: 1}, {Name: "build", DurationMS: 2}}}
	b := Report{TotalMS: 4, Phases: []PhaseReport{{Name: "build", DurationMS: 3}, {Name: "write", DurationMS: 1}}}
	require.Equal(t, Report{TotalMS: 7, Phases: []PhaseReport{
		{Name: "read", DurationMS: 1},
		{Name: "build", DurationMS: 5},
		{Name: "write", DurationMS: 1},
	}}, Sum(a, b))
}

func TestWriteSummary(t *testing.T) {
	var buf bytes.Buffer
	r := Report{TotalMS: 1.5, Phases: []PhaseReport{{Name: "read", DurationMS: 1.5, Note: "x"}}}
	require.NoError(t, r.WriteSummary(&buf))
	require.Equal(t, "timings:\n  read           1.50 ms  // x\n  total          1.50 ms\n", buf.String())
	require.Equal(t, Report{}, (*Timer)(nil).Report())
}
