package cli

import (
	"bytes"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/briandowns/spinner"

	"github.com/agbru/montyhall/internal/orchestration"
)

// MockSpinner records calls made by DisplayProgress.
type MockSpinner struct {
	started bool
	stopped bool
	suffix  string
}

func (m *MockSpinner) Start()                     { m.started = true }
func (m *MockSpinner) Stop()                      { m.stopped = true }
func (m *MockSpinner) UpdateSuffix(suffix string) { m.suffix = suffix }

func TestRealSpinner(t *testing.T) {
	t.Parallel()
	s := spinner.New(spinner.CharSets[11], 100*time.Millisecond, spinner.WithWriter(io.Discard))
	rs := &realSpinner{s}

	rs.Start()
	rs.UpdateSuffix(" test")
	rs.Stop()
	if s.Suffix != " test" {
		t.Errorf("suffix = %q", s.Suffix)
	}
}

func TestDisplayProgress(t *testing.T) {
	originalNewSpinner := newSpinner
	defer func() { newSpinner = originalNewSpinner }()

	mockS := &MockSpinner{}
	newSpinner = func(options ...spinner.Option) Spinner {
		return mockS
	}

	var wg sync.WaitGroup
	wg.Add(1)
	progressChan := make(chan orchestration.ProgressUpdate)
	var out bytes.Buffer

	go func() {
		progressChan <- orchestration.ProgressUpdate{Worker: 0, Done: 500}
		progressChan <- orchestration.ProgressUpdate{Worker: 1, Done: 500}
		close(progressChan)
	}()

	DisplayProgress(&wg, progressChan, 2, 1000, &out)
	wg.Wait()

	if !mockS.started {
		t.Error("Spinner should have started")
	}
	if !mockS.stopped {
		t.Error("Spinner should have stopped")
	}
	if !strings.Contains(out.String(), "100.00%") || !strings.Contains(out.String(), "1,000/1,000 trials") {
		t.Errorf("unexpected final line: %q", out.String())
	}
}

func TestDisplayProgress_ZeroWorkers(t *testing.T) {
	t.Parallel()
	var wg sync.WaitGroup
	wg.Add(1)
	progressChan := make(chan orchestration.ProgressUpdate, 1)
	progressChan <- orchestration.ProgressUpdate{Worker: 0, Done: 1}
	close(progressChan)

	DisplayProgress(&wg, progressChan, 0, 10, io.Discard)
	wg.Wait()
}

func TestCLIProgressReporter_WithRun(t *testing.T) {
	originalNewSpinner := newSpinner
	defer func() { newSpinner = originalNewSpinner }()
	newSpinner = func(options ...spinner.Option) Spinner { return &MockSpinner{} }

	var out bytes.Buffer
	report, err := orchestration.Run(t.Context(), orchestration.RunConfig{Trials: 20000, Workers: 4, Seed: 1, Seeded: true},
		orchestration.WithProgress(CLIProgressReporter{}, &out),
		orchestration.WithProgressInterval(time.Millisecond))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if report.Trials != 20000 {
		t.Errorf("Trials = %d", report.Trials)
	}
	if !strings.Contains(out.String(), "20,000/20,000 trials") {
		t.Errorf("progress output missing completion line: %q", out.String())
	}
}
