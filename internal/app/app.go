package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/agbru/montyhall/internal/calibration"
	"github.com/agbru/montyhall/internal/cli"
	"github.com/agbru/montyhall/internal/config"
	apperrors "github.com/agbru/montyhall/internal/errors"
	"github.com/agbru/montyhall/internal/logging"
	"github.com/agbru/montyhall/internal/orchestration"
	"github.com/agbru/montyhall/internal/ui"
)

// Application represents the montyhall application instance.
type Application struct {
	Config    config.AppConfig
	ErrWriter io.Writer

	logger  logging.Logger
	runOpts []orchestration.Option
}

// AppOption configures an Application during construction.
type AppOption func(*Application)

// WithLogger replaces the console logger built from --log-level.
func WithLogger(l logging.Logger) AppOption {
	return func(a *Application) { a.logger = l }
}

// WithRunOptions appends options passed to every orchestration.Run call,
// after the ones derived from the configuration.
func WithRunOptions(opts ...orchestration.Option) AppOption {
	return func(a *Application) { a.runOpts = append(a.runOpts, opts...) }
}

// New creates a new Application instance by parsing command-line arguments.
// args[0] is the program name.
func New(args []string, errWriter io.Writer, opts ...AppOption) (*Application, error) {
	programName := "montyhall"
	var cmdArgs []string
	if len(args) > 0 {
		programName = args[0]
		cmdArgs = args[1:]
	}

	cfg, err := config.ParseConfig(programName, cmdArgs, errWriter)
	if err != nil {
		return nil, err
	}

	app := &Application{Config: cfg, ErrWriter: errWriter}
	for _, opt := range opts {
		opt(app)
	}
	if app.logger == nil {
		app.logger = logging.NewConsoleLogger(errWriter, cfg.NoColor)
	}
	return app, nil
}

// Run executes the application based on the configured mode and returns
// the process exit code.
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	if a.Config.ShowVersion {
		PrintVersion(out)
		return apperrors.ExitSuccess
	}
	if a.Config.Completion != "" {
		return a.runCompletion(out)
	}

	zerolog.SetGlobalLevel(logging.ParseLevel(a.Config.LogLevel))
	ui.InitTheme(a.Config.NoColor)

	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	if a.Config.Calibrate {
		return a.runCalibration(ctx, out)
	}
	return a.runSimulation(ctx, out)
}

// runCompletion generates shell completion scripts.
func (a *Application) runCompletion(out io.Writer) int {
	if err := cli.GenerateCompletion(out, a.Config.Completion); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error generating completion: %v\n", err)
		return apperrors.ExitErrorConfig
	}
	return apperrors.ExitSuccess
}

// runCalibration times the candidate worker counts and prints the fastest.
func (a *Application) runCalibration(ctx context.Context, out io.Writer) int {
	opts := append([]orchestration.Option{orchestration.WithLogger(a.logger)}, a.runOpts...)
	return calibration.RunCalibration(ctx, out, calibration.CalibrationTrials(),
		calibration.CandidateWorkerCounts(), cli.CLIColorProvider{}, opts...)
}

// IsHelpError checks if the error is a help flag error (--help was used).
func IsHelpError(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}
