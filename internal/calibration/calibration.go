package calibration

import (
	"context"
	"fmt"
	"io"
	"time"

	apperrors "github.com/agbru/montyhall/internal/errors"
	"github.com/agbru/montyhall/internal/orchestration"
)

// calibrationSeed keys every candidate run so they all simulate the same trials.
const calibrationSeed = 0x4d4f4e5459

// Result is the timing of one candidate worker count.
type Result struct {
	Workers  int
	Duration time.Duration
	Err      error
}

// Calibrate times a quiet, seeded run of trials for each worker count and
// returns the results along with the fastest successful count, or 0 when
// every candidate failed. It stops early if ctx is canceled.
func Calibrate(ctx context.Context, trials uint64, candidates []int, opts ...orchestration.Option) ([]Result, int, error) {
	results := make([]Result, 0, len(candidates))
	best := 0
	var bestDuration time.Duration
	for _, w := range candidates {
		if err := ctx.Err(); err != nil {
			return results, best, err
		}
		cfg := orchestration.RunConfig{
			Trials:    trials,
			Workers:   w,
			Seed:      calibrationSeed,
			Seeded:    true,
			Partition: orchestration.PartitionDynamic,
		}
		report, err := orchestration.Run(ctx, cfg, opts...)
		res := Result{Workers: w, Duration: report.Elapsed, Err: err}
		results = append(results, res)
		if err != nil {
			if apperrors.IsContextError(err) {
				return results, best, err
			}
			continue
		}
		if best == 0 || res.Duration < bestDuration {
			best, bestDuration = w, res.Duration
		}
	}
	return results, best, nil
}

// RunCalibration runs the full calibration mode: it times every candidate
// worker count, prints the summary table and returns an exit code.
func RunCalibration(ctx context.Context, out io.Writer, trials uint64, candidates []int, colors apperrors.ColorProvider, opts ...orchestration.Option) int {
	fmt.Fprintf(out, "--- Calibration ---\n")
	fmt.Fprintf(out, "Timing %d trials for %d worker counts.\n", trials, len(candidates))

	results, best, err := Calibrate(ctx, trials, candidates, opts...)
	if err != nil {
		return apperrors.HandleRunError(err, out, colors)
	}
	printCalibrationResults(out, results, best, trials)
	if best == 0 {
		fmt.Fprintf(out, "%sNo candidate completed successfully.%s\n", colors.Red(), colors.Reset())
		return apperrors.ExitErrorGeneric
	}
	printRecommendation(out, best)
	return apperrors.ExitSuccess
}
