package cli

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/agbru/montyhall/internal/config"
	"github.com/agbru/montyhall/internal/metrics"
	"github.com/agbru/montyhall/internal/montyhall"
	"github.com/agbru/montyhall/internal/orchestration"
	"github.com/agbru/montyhall/internal/ui"
)

func sampleReport() orchestration.RunReport {
	return orchestration.RunReport{
		RunID:     "3f2a",
		Trials:    10000,
		Workers:   4,
		Seed:      42,
		Partition: orchestration.PartitionDynamic,
		Chunk:     39,
		Tally:     montyhall.Tally{Stick: 3334, RandomSwitch: 5012, AlwaysSwap: 6666},
		Elapsed:   1500 * time.Millisecond,
	}
}

func withNoColor(t *testing.T) {
	t.Helper()
	orig := ui.GetCurrentTheme()
	ui.SetCurrentTheme(ui.NoColorTheme)
	t.Cleanup(func() { ui.SetCurrentTheme(orig) })
}

func TestFormatStrategyLine(t *testing.T) {
	t.Parallel()
	tests := []struct {
		s      montyhall.Strategy
		wins   uint64
		trials uint64
		want   string
	}{
		{montyhall.Stick, 3334, 10000, "Stick  = 3,334 : 33.34 %"},
		{montyhall.RandomSwitch, 1, 2, "Random = 1 : 50.00 %"},
		{montyhall.AlwaysSwap, 6666, 10000, "Swap   = 6,666 : 66.66 %"},
		{montyhall.AlwaysSwap, 0, 0, "Swap   = 0 : 0.00 %"},
	}
	for _, tt := range tests {
		if got := FormatStrategyLine(tt.s, tt.wins, tt.trials); got != tt.want {
			t.Errorf("FormatStrategyLine(%v, %d, %d) = %q, want %q", tt.s, tt.wins, tt.trials, got, tt.want)
		}
	}
}

func TestDisplayReport(t *testing.T) {
	withNoColor(t)
	var buf bytes.Buffer
	DisplayReport(sampleReport(), &buf)
	out := buf.String()
	for _, want := range []string{"Results", "10,000", "1.5s", "Stick  = 3,334 : 33.34 %",
		"Random = 5,012 : 50.12 %", "Swap   = 6,666 : 66.66 %", "Run 3f2a", "--seed 42"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestCLIResultPresenter_Quiet(t *testing.T) {
	withNoColor(t)
	var buf bytes.Buffer
	CLIResultPresenter{Quiet: true}.PresentReport(sampleReport(), &buf)
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("quiet output has %d lines, want 3:\n%s", len(lines), buf.String())
	}
	if !strings.HasPrefix(lines[0], "Stick") || !strings.HasPrefix(lines[2], "Swap") {
		t.Errorf("unexpected quiet output: %v", lines)
	}
}

func TestDisplayDetails(t *testing.T) {
	withNoColor(t)
	var buf bytes.Buffer
	DisplayDetails(sampleReport(), metrics.MemoryDelta{Allocated: 2048, Allocations: 12, GCCycles: 1, PauseNs: 500000, PeakSys: 1 << 20}, &buf)
	out := buf.String()
	for _, want := range []string{"6,666 trials/s", "2.0 KiB in 12 allocations", "1.0 MiB", "GC cycles:       1", "0.50ms"} {
		if !strings.Contains(out, want) {
			t.Errorf("details missing %q:\n%s", want, out)
		}
	}
}

func TestPrintExecutionConfig(t *testing.T) {
	withNoColor(t)
	var buf bytes.Buffer
	PrintExecutionConfig(config.AppConfig{Trials: 1000000, Workers: 8, Partition: "static", Chunk: 64, Seed: 7, Seeded: true}, &buf)
	out := buf.String()
	for _, want := range []string{"1,000,000 trials on 8 workers", "static partitioning, chunk 64", "Seed: 7."} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestCLIColorProvider(t *testing.T) {
	withNoColor(t)
	c := CLIColorProvider{}
	if c.Red() != "" || c.Yellow() != "" || c.Reset() != "" {
		t.Error("expected empty codes with colors disabled")
	}
}
