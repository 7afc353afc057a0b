package calibration

import (
	"runtime"
	"slices"
	"testing"
)

func TestCandidatesFor(t *testing.T) {
	t.Parallel()
	tests := []struct {
		numCPU int
		want   []int
	}{
		{0, []int{1, 2}},
		{1, []int{1, 2}},
		{2, []int{1, 2, 4}},
		{3, []int{1, 2, 3, 4}},
		{4, []int{1, 2, 4, 8}},
		{6, []int{1, 2, 4, 6, 8}},
		{12, []int{1, 2, 4, 8, 12, 16}},
	}
	for _, tt := range tests {
		if got := candidatesFor(tt.numCPU); !slices.Equal(got, tt.want) {
			t.Errorf("candidatesFor(%d) = %v, want %v", tt.numCPU, got, tt.want)
		}
	}
}

func TestCandidateWorkerCounts(t *testing.T) {
	t.Parallel()
	counts := CandidateWorkerCounts()
	if !slices.IsSorted(counts) || !slices.Contains(counts, runtime.NumCPU()) {
		t.Errorf("counts = %v, want sorted and containing %d", counts, runtime.NumCPU())
	}
}

func TestCalibrationTrials(t *testing.T) {
	t.Parallel()
	if n := CalibrationTrials(); n < 500_000 {
		t.Errorf("CalibrationTrials() = %d, too small to time reliably", n)
	}
}
