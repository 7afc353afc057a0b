package app

import (
	"context"
	"fmt"
	"io"

	"github.com/agbru/montyhall/internal/cli"
	apperrors "github.com/agbru/montyhall/internal/errors"
	"github.com/agbru/montyhall/internal/logging"
	"github.com/agbru/montyhall/internal/metrics"
	"github.com/agbru/montyhall/internal/orchestration"
	"github.com/agbru/montyhall/internal/server"
)

// runSimulation runs the configured simulation and presents its report.
//
// Diagnostic lines and the report go to out. The configuration banner is
// only printed when neither quiet nor verbose, so a verbose stdout stays a
// header followed by one line per trial and the summary. Progress is drawn
// on the error writer. The metrics server, when enabled, is shut down as soon
// as the report has been presented.
func (a *Application) runSimulation(ctx context.Context, out io.Writer) int {
	colors := cli.CLIColorProvider{}
	runMetrics := metrics.NewRunMetrics(metrics.NewRegistry())

	if a.Config.MetricsAddr != "" {
		srv := server.New(a.Config.MetricsAddr, runMetrics.Registry(), a.logger)
		if err := srv.Start(); err != nil {
			return apperrors.HandleRunError(err, a.ErrWriter, colors)
		}
		defer func() {
			if err := srv.Shutdown(context.WithoutCancel(ctx)); err != nil {
				a.logger.Error("metrics server shutdown", err)
			}
		}()
		if !a.Config.Quiet {
			fmt.Fprintf(a.ErrWriter, "Serving metrics on http://%s/metrics until the run completes\n", srv.Addr())
		}
	}

	banner := !a.Config.Quiet && !a.Config.Verbose
	if banner {
		cli.PrintExecutionConfig(a.Config, out)
	}

	opts := []orchestration.Option{
		orchestration.WithLogger(a.logger),
		orchestration.WithOutput(out),
		orchestration.WithHeader(a.Config.Verbose),
		orchestration.WithMetrics(runMetrics),
	}
	if banner {
		opts = append(opts, orchestration.WithProgress(cli.CLIProgressReporter{}, a.ErrWriter))
	}
	opts = append(opts, a.runOpts...)

	collector := metrics.NewMemoryCollector()
	before := collector.Snapshot()
	report, err := orchestration.Run(ctx, a.Config.ToRunConfig(), opts...)
	if err != nil {
		return apperrors.HandleRunError(err, a.ErrWriter, colors)
	}
	mem := metrics.Delta(before, collector.Snapshot())

	cli.CLIResultPresenter{Quiet: a.Config.Quiet}.PresentReport(report, out)
	if a.Config.Details && !a.Config.Quiet {
		cli.DisplayDetails(report, mem, out)
	}
	a.logger.Debug("report presented", logging.String("run_id", report.RunID))
	return apperrors.ExitSuccess
}
