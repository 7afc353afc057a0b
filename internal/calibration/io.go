package calibration

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/agbru/montyhall/internal/format"
	"github.com/agbru/montyhall/internal/ui"
)

// printCalibrationResults formats and prints the calibration results table.
func printCalibrationResults(out io.Writer, results []Result, bestWorkers int, trials uint64) {
	fmt.Fprintf(out, "\n--- Calibration Summary ---\n")
	tw := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintf(tw, "  %sWorkers%s\t│ %sExecution Time%s\t│ %sThroughput%s\n",
		ui.ColorUnderline(), ui.ColorReset(), ui.ColorUnderline(), ui.ColorReset(), ui.ColorUnderline(), ui.ColorReset())
	fmt.Fprintf(tw, "  %s\t┼%s\t┼%s\n", strings.Repeat("─", 9), strings.Repeat("─", 16), strings.Repeat("─", 16))
	for _, res := range results {
		durationStr := fmt.Sprintf("%sN/A%s", ui.ColorRed(), ui.ColorReset())
		rateStr := "-"
		if res.Err == nil {
			durationStr = format.FormatExecutionDuration(res.Duration)
			rateStr = format.FormatCount(uint64(format.Throughput(trials, res.Duration))) + "/s"
		}
		highlight := ""
		if res.Workers == bestWorkers && res.Err == nil {
			highlight = fmt.Sprintf(" %s(Optimal)%s", ui.ColorGreen(), ui.ColorReset())
		}
		fmt.Fprintf(tw, "  %s%d%s\t│ %s%s%s\t│ %s%s\n",
			ui.ColorCyan(), res.Workers, ui.ColorReset(), ui.ColorYellow(), durationStr, ui.ColorReset(), rateStr, highlight)
	}
	tw.Flush()
}

// printRecommendation prints the flag that reproduces the fastest setting.
func printRecommendation(out io.Writer, best int) {
	fmt.Fprintf(out, "\n%sRecommended%s: --workers %s%d%s (or MONTYHALL_WORKERS=%d)\n",
		ui.ColorGreen(), ui.ColorReset(), ui.ColorYellow(), best, ui.ColorReset(), best)
}
