package cli

import (
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/agbru/montyhall/internal/config"
	apperrors "github.com/agbru/montyhall/internal/errors"
	"github.com/agbru/montyhall/internal/format"
	"github.com/agbru/montyhall/internal/metrics"
	"github.com/agbru/montyhall/internal/montyhall"
	"github.com/agbru/montyhall/internal/orchestration"
	"github.com/agbru/montyhall/internal/ui"
)

// CLIColorProvider implements apperrors.ColorProvider using the active theme.
type CLIColorProvider struct{}

var _ apperrors.ColorProvider = CLIColorProvider{}

func (CLIColorProvider) Red() string    { return ui.ColorRed() }
func (CLIColorProvider) Yellow() string { return ui.ColorYellow() }
func (CLIColorProvider) Reset() string  { return ui.ColorReset() }

// PrintExecutionConfig displays the effective configuration before a run.
func PrintExecutionConfig(cfg config.AppConfig, out io.Writer) {
	fmt.Fprintf(out, "--- Execution Configuration ---\n")
	fmt.Fprintf(out, "Simulating %s%s%s trials on %s%d%s workers (%s partitioning, chunk %d).\n",
		ui.ColorMagenta(), format.FormatCount(cfg.Trials), ui.ColorReset(),
		ui.ColorCyan(), cfg.Workers, ui.ColorReset(), cfg.Partition, cfg.Chunk)
	fmt.Fprintf(out, "Environment: %s%d%s logical processors, Go %s%s%s.\n",
		ui.ColorCyan(), runtime.NumCPU(), ui.ColorReset(), ui.ColorCyan(), runtime.Version(), ui.ColorReset())
	if cfg.Seeded {
		fmt.Fprintf(out, "Seed: %s%d%s.\n", ui.ColorYellow(), cfg.Seed, ui.ColorReset())
	}
	fmt.Fprintf(out, "\n--- Starting Execution ---\n")
}

// FormatStrategyLine renders one result line, e.g. "Swap   = 6,667 : 66.67 %".
func FormatStrategyLine(s montyhall.Strategy, wins, trials uint64) string {
	rate := 0.0
	if trials > 0 {
		rate = 100 * float64(wins) / float64(trials)
	}
	return fmt.Sprintf("%-6s = %s : %.2f %%", strategyLabel(s), format.FormatCount(wins), rate)
}

func strategyLabel(s montyhall.Strategy) string {
	name := s.String()
	return strings.ToUpper(name[:1]) + name[1:]
}

// DisplayReport prints the elapsed time and per-strategy results of a run
// inside a bordered box.
func DisplayReport(report orchestration.RunReport, out io.Writer) {
	lines := []string{
		ui.TitleStyle().Render("Results"),
		fmt.Sprintf("Trials   %s", format.FormatCount(report.Trials)),
		fmt.Sprintf("Elapsed  %s", format.FormatExecutionDuration(report.Elapsed)),
		"",
	}
	for _, s := range montyhall.Strategies {
		lines = append(lines, FormatStrategyLine(s, report.Tally.Wins(s), report.Trials))
	}
	fmt.Fprintln(out, ui.BoxStyle().Render(strings.Join(lines, "\n")))
	fmt.Fprintf(out, "Run %s%s%s, seed %d (replay with --seed %d).\n",
		ui.ColorGrey(), report.RunID, ui.ColorReset(), report.Seed, report.Seed)
}

// DisplayQuietResult prints only the three strategy lines.
func DisplayQuietResult(report orchestration.RunReport, out io.Writer) {
	for _, s := range montyhall.Strategies {
		fmt.Fprintln(out, FormatStrategyLine(s, report.Tally.Wins(s), report.Trials))
	}
}

// DisplayDetails shows throughput and the memory cost of a run.
func DisplayDetails(report orchestration.RunReport, mem metrics.MemoryDelta, out io.Writer) {
	fmt.Fprintf(out, "\nDetails:\n")
	fmt.Fprintf(out, "  Throughput:      %s trials/s\n",
		format.FormatCount(uint64(format.Throughput(report.Trials, report.Elapsed))))
	fmt.Fprintf(out, "  Workers:         %d (%s, chunk %d)\n", report.Workers, report.Partition, report.Chunk)
	fmt.Fprintf(out, "  Allocated:       %s in %s allocations\n",
		format.FormatBytes(mem.Allocated), format.FormatCount(mem.Allocations))
	fmt.Fprintf(out, "  Memory from OS:  %s\n", format.FormatBytes(mem.PeakSys))
	fmt.Fprintf(out, "  GC cycles:       %d\n", mem.GCCycles)
	fmt.Fprintf(out, "  GC pause total:  %.2fms\n", float64(mem.PauseNs)/1e6)
}

// CLIResultPresenter implements orchestration.ResultPresenter for terminal
// output. Quiet selects the three-line form.
type CLIResultPresenter struct {
	Quiet bool
}

var _ orchestration.ResultPresenter = CLIResultPresenter{}

// PresentReport displays a finished run.
func (p CLIResultPresenter) PresentReport(report orchestration.RunReport, out io.Writer) {
	if p.Quiet {
		DisplayQuietResult(report, out)
		return
	}
	DisplayReport(report, out)
}
