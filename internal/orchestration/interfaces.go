package orchestration

import (
	"io"
	"sync"
	"time"

	"github.com/agbru/montyhall/internal/montyhall"
)

// ProgressUpdate carries the number of trials a worker has completed so far.
type ProgressUpdate struct {
	Worker int
	Done   uint64
}

// ProgressReporter displays run progress. The orchestration layer only
// publishes counts; rendering belongs to the caller.
type ProgressReporter interface {
	// DisplayProgress consumes updates until progressChan is closed, then
	// calls wg.Done.
	DisplayProgress(wg *sync.WaitGroup, progressChan <-chan ProgressUpdate, numWorkers int, total uint64, out io.Writer)
}

// ProgressReporterFunc is a function adapter that implements ProgressReporter.
type ProgressReporterFunc func(wg *sync.WaitGroup, progressChan <-chan ProgressUpdate, numWorkers int, total uint64, out io.Writer)

// DisplayProgress calls the underlying function.
func (f ProgressReporterFunc) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan ProgressUpdate, numWorkers int, total uint64, out io.Writer) {
	f(wg, progressChan, numWorkers, total, out)
}

// NullProgressReporter drains the progress channel without displaying anything.
type NullProgressReporter struct{}

// DisplayProgress drains the channel without output.
func (NullProgressReporter) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan ProgressUpdate, _ int, _ uint64, _ io.Writer) {
	defer wg.Done()
	DrainChannel(progressChan)
}

// MetricsRecorder observes a run. Implementations must be safe for
// concurrent use; TrialsCompleted is called from workers.
type MetricsRecorder interface {
	WorkerStarted()
	WorkerStopped()
	TrialsCompleted(n uint64)
	RunFinished(tally montyhall.Tally, trials uint64, elapsed time.Duration, err error)
}

type nopRecorder struct{}

func (nopRecorder) WorkerStarted()                                            {}
func (nopRecorder) WorkerStopped()                                            {}
func (nopRecorder) TrialsCompleted(uint64)                                    {}
func (nopRecorder) RunFinished(montyhall.Tally, uint64, time.Duration, error) {}

// ResultPresenter renders a finished run.
type ResultPresenter interface {
	PresentReport(report RunReport, out io.Writer)
}
