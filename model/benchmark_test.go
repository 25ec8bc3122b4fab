package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func measured(wall0, wall1 float64, rss0, rss1 int64) TestResult {
	return TestResult{
		Status: StatusOK,
		Before: ResourceSample{WallSeconds: wall0, ResidentKB: rss0},
		After:  ResourceSample{WallSeconds: wall1, ResidentKB: rss1},
	}
}

func TestTestResult_Deltas(t *testing.T) {
	r := TestResult{
		Status: StatusOK,
		Before: ResourceSample{WallSeconds: 1.5, UserCPUSeconds: 0.25, SysCPUSeconds: 0.5, InterpreterMemoryBytes: 4096, ResidentKB: 900},
		After:  ResourceSample{WallSeconds: 2.0, UserCPUSeconds: 0.75, SysCPUSeconds: 0.25, InterpreterMemoryBytes: 1024, ResidentKB: 800},
	}

	require.Equal(t, 0.5, r.WallDelta())
	require.Equal(t, 0.5, r.UserDelta())
	require.Equal(t, 0.0, r.SysDelta(), "negative cpu delta is clamped")
	require.Equal(t, int64(-3072), r.MemoryChange())
	require.Equal(t, int64(900), r.PeakResidentKB())
}

func TestRunTotals_Add(t *testing.T) {
	results := []TestResult{
		measured(0, 0.125, 100, 300),
		{Status: StatusLoadError, After: ResourceSample{WallSeconds: 99, ResidentKB: 1 << 30}},
		measured(1, 1.5, 700, 200),
		measured(2, 2.25, 150, 150),
	}

	var totals RunTotals
	var sum float64
	for _, r := range results {
		if totals.Add(r) {
			sum += r.WallDelta()
		}
	}

	require.Equal(t, sum, totals.TotalWallSeconds)
	require.Equal(t, 0.875, totals.TotalWallSeconds)
	require.Equal(t, int64(700), totals.PeakResidentKB)
}

func TestRunTotals_PeakIsOrderIndependent(t *testing.T) {
	results := []TestResult{
		measured(0, 1, 10, 20),
		measured(0, 1, 500, 40),
		measured(0, 1, 30, 60),
	}

	var forward, backward RunTotals
	for i := range results {
		forward.Add(results[i])
		backward.Add(results[len(results)-1-i])
	}
	require.Equal(t, int64(500), forward.PeakResidentKB)
	require.Equal(t, forward.PeakResidentKB, backward.PeakResidentKB)
}

func TestParseEvalMode(t *testing.T) {
	tests := []struct {
		in     string
		want   EvalMode
		wantOK bool
	}{
		{in: "", want: EvalGlobal, wantOK: true},
		{in: "global", want: EvalGlobal, wantOK: true},
		{in: "module", want: EvalModule, wantOK: true},
		{in: "esm", want: EvalGlobal, wantOK: false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseEvalMode(tt.in)
			require.Equal(t, tt.wantOK, ok)
			require.Equal(t, tt.want, got)
		})
	}
}
