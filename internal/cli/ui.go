package cli

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/briandowns/spinner"

	"github.com/agbru/montyhall/internal/format"
	"github.com/agbru/montyhall/internal/orchestration"
)

const (
	// ProgressRefreshRate is how often the spinner suffix is redrawn.
	ProgressRefreshRate = 200 * time.Millisecond
	// ProgressBarWidth defines the width in characters of the progress bar.
	ProgressBarWidth = 40
)

// Spinner abstracts the terminal spinner so DisplayProgress can be tested
// without a terminal.
type Spinner interface {
	// Start begins the spinner animation.
	Start()
	// Stop halts the spinner animation.
	Stop()
	// UpdateSuffix sets the text that is displayed after the spinner.
	UpdateSuffix(suffix string)
}

// realSpinner adapts *spinner.Spinner to Spinner.
type realSpinner struct {
	s *spinner.Spinner
}

func (rs *realSpinner) Start() { rs.s.Start() }
func (rs *realSpinner) Stop()  { rs.s.Stop() }

// UpdateSuffix sets the text that is displayed after the spinner.
func (rs *realSpinner) UpdateSuffix(suffix string) {
	rs.s.Lock()
	rs.s.Suffix = suffix
	rs.s.Unlock()
}

var newSpinner = func(options ...spinner.Option) Spinner {
	s := spinner.New(spinner.CharSets[11], ProgressRefreshRate, options...)
	return &realSpinner{s}
}

// CLIProgressReporter implements orchestration.ProgressReporter with a
// spinner, a progress bar and an ETA.
type CLIProgressReporter struct{}

var _ orchestration.ProgressReporter = CLIProgressReporter{}

// DisplayProgress displays a spinner and progress bar for the running simulation.
func (CLIProgressReporter) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan orchestration.ProgressUpdate, numWorkers int, total uint64, out io.Writer) {
	DisplayProgress(wg, progressChan, numWorkers, total, out)
}

// DisplayProgress consumes progress updates until progressChan is closed,
// redrawing the spinner suffix every ProgressRefreshRate, then prints the
// final completion line. It calls wg.Done before returning.
func DisplayProgress(wg *sync.WaitGroup, progressChan <-chan orchestration.ProgressUpdate, numWorkers int, total uint64, out io.Writer) {
	defer wg.Done()
	agg := orchestration.NewProgressAggregator(numWorkers, total)
	if agg == nil {
		orchestration.DrainChannel(progressChan)
		return
	}

	s := newSpinner(spinner.WithWriter(out))
	s.UpdateSuffix(" " + format.FormatProgressBarWithETA(0, 0, ProgressBarWidth))
	s.Start()

	ticker := time.NewTicker(ProgressRefreshRate)
	defer ticker.Stop()

	var last orchestration.AggregatedProgress
	for {
		select {
		case update, ok := <-progressChan:
			if !ok {
				s.Stop()
				fmt.Fprintf(out, "[%s] %6.2f%% %s/%s trials\n",
					format.ProgressBar(last.Fraction, ProgressBarWidth), last.Fraction*100,
					format.FormatCount(last.Completed), format.FormatCount(total))
				return
			}
			last = agg.Update(update)
		case <-ticker.C:
			s.UpdateSuffix(" " + format.FormatProgressBarWithETA(agg.Fraction(), agg.GetETA(), ProgressBarWidth))
		}
	}
}
