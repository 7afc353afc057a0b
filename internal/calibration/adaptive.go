// This file derives the calibration search space from hardware characteristics.

package calibration

import "runtime"

// CandidateWorkerCounts returns the worker counts tried by calibration:
// powers of two up to twice the number of logical CPUs, plus the CPU count
// itself, in increasing order.
func CandidateWorkerCounts() []int {
	return candidatesFor(runtime.NumCPU())
}

func candidatesFor(numCPU int) []int {
	if numCPU < 1 {
		numCPU = 1
	}
	var counts []int
	added := false
	for w := 1; w <= 2*numCPU; w *= 2 {
		if !added && w > numCPU {
			counts = append(counts, numCPU)
			added = true
		}
		if w == numCPU {
			added = true
		}
		counts = append(counts, w)
	}
	return counts
}

// CalibrationTrials returns the number of trials timed per candidate.
// Each worker gets enough trials to amortize goroutine start-up.
func CalibrationTrials() uint64 {
	numCPU := runtime.NumCPU()
	switch {
	case numCPU <= 2:
		return 500_000
	case numCPU <= 8:
		return 2_000_000
	default:
		return 4_000_000
	}
}
