package orchestration

import (
	"time"

	"github.com/agbru/montyhall/internal/format"
)

// ProgressAggregator turns per-worker progress updates into a single
// completion fraction and ETA. It wraps format.ProgressWithETA and is owned
// by the goroutine consuming the progress channel.
type ProgressAggregator struct {
	state      *format.ProgressWithETA
	numWorkers int
}

// NewProgressAggregator returns nil if numWorkers <= 0.
func NewProgressAggregator(numWorkers int, total uint64) *ProgressAggregator {
	if numWorkers <= 0 {
		return nil
	}
	return &ProgressAggregator{
		state:      format.NewProgressWithETA(numWorkers, total),
		numWorkers: numWorkers,
	}
}

// AggregatedProgress is the result of folding in one update.
type AggregatedProgress struct {
	Worker    int
	Completed uint64
	// Fraction is the overall completion in [0, 1].
	Fraction float64
	ETA      time.Duration
}

// Update folds in one worker update.
func (a *ProgressAggregator) Update(update ProgressUpdate) AggregatedProgress {
	fraction, eta := a.state.UpdateWithETA(update.Worker, update.Done)
	return AggregatedProgress{
		Worker:    update.Worker,
		Completed: a.state.Completed(),
		Fraction:  fraction,
		ETA:       eta,
	}
}

// Fraction returns the current completion without updating.
func (a *ProgressAggregator) Fraction() float64 {
	return a.state.Fraction()
}

// GetETA returns the current ETA estimate without updating.
func (a *ProgressAggregator) GetETA() time.Duration {
	return a.state.GetETA()
}

// NumWorkers returns the number of workers being tracked.
func (a *ProgressAggregator) NumWorkers() int {
	return a.numWorkers
}

// DrainChannel reads all updates from the channel without processing.
func DrainChannel(progressChan <-chan ProgressUpdate) {
	for range progressChan {
	}
}
