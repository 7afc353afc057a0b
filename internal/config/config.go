package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	apperrors "github.com/agbru/montyhall/internal/errors"
	"github.com/agbru/montyhall/internal/orchestration"
)

const (
	// EnvPrefix prefixes every environment variable read by ParseConfig.
	EnvPrefix = "MONTYHALL_"
	// DefaultTrials is the number of trials simulated when -r is not given.
	DefaultTrials uint64 = 1000
	// DefaultLogLevel keeps stdout and stderr free of routine log lines.
	DefaultLogLevel = "warn"
)

// AppConfig aggregates the application's configuration parameters as
// resolved from flags, environment variables, an optional YAML file and
// built-in defaults, in that order of priority.
type AppConfig struct {
	// Trials is the number of independent trials to simulate.
	Trials uint64
	// Workers is the number of concurrent workers.
	Workers int
	// Verbose prints one diagnostic line per trial on stdout.
	Verbose bool
	// Seed keys the run's draws when Seeded is true.
	Seed   uint64
	Seeded bool
	// Partition is "static" or "dynamic".
	Partition string
	// Chunk is the number of trials claimed at a time; 0 is adaptive.
	Chunk uint64
	// Sink is "channel" or "locked".
	Sink string
	// Quiet reduces output to the result lines.
	Quiet bool
	// Details adds memory and throughput statistics after the run.
	Details bool
	// NoColor disables ANSI colors.
	NoColor bool
	// MetricsAddr, when set, serves Prometheus metrics during the run.
	MetricsAddr string
	// LogLevel is a zerolog level name.
	LogLevel string
	// Calibrate times short runs over candidate worker counts.
	Calibrate bool
	// Completion selects a shell for which a completion script is printed.
	Completion string
	// ConfigFile is the YAML file consulted for unset options.
	ConfigFile string
	// ShowVersion prints the version and exits.
	ShowVersion bool
}

// ParseConfig parses command-line arguments into an AppConfig, applies the
// YAML file and MONTYHALL_* environment overrides for options not given on
// the command line, then fills adaptive defaults and validates the result.
//
// Usage and parse errors are written to errWriter. A request for help
// returns an error wrapping flag.ErrHelp.
func ParseConfig(programName string, args []string, errWriter io.Writer) (AppConfig, error) {
	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(errWriter)

	var cfg AppConfig
	fs.Uint64Var(&cfg.Trials, "rounds", DefaultTrials, "Number of trials to simulate.")
	fs.Uint64Var(&cfg.Trials, "r", DefaultTrials, "Shorthand for --rounds.")
	fs.IntVar(&cfg.Workers, "workers", runtime.NumCPU(), "Number of concurrent workers.")
	fs.IntVar(&cfg.Workers, "t", runtime.NumCPU(), "Shorthand for --workers.")
	fs.BoolVar(&cfg.Verbose, "output", false, "Print one line per trial (index:winning:pick:reveal:stick:random:swap:worker).")
	fs.BoolVar(&cfg.Verbose, "o", false, "Shorthand for --output.")
	fs.Uint64Var(&cfg.Seed, "seed", 0, "Seed for a reproducible run (random when unset).")
	fs.StringVar(&cfg.Partition, "partition", string(orchestration.PartitionDynamic), "Work partitioning strategy: static or dynamic.")
	fs.Uint64Var(&cfg.Chunk, "chunk", 0, "Trials claimed per step (0 = adaptive).")
	fs.StringVar(&cfg.Sink, "sink", string(orchestration.SinkChannel), "Diagnostic sink: channel or locked.")
	fs.BoolVar(&cfg.Quiet, "quiet", false, "Print only the result lines.")
	fs.BoolVar(&cfg.Quiet, "q", false, "Shorthand for --quiet.")
	fs.BoolVar(&cfg.Details, "details", false, "Show memory and throughput statistics.")
	fs.BoolVar(&cfg.Details, "d", false, "Shorthand for --details.")
	fs.BoolVar(&cfg.NoColor, "no-color", false, "Disable colored output.")
	fs.StringVar(&cfg.MetricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address (e.g. :9090). The server only\nlives while the run is in progress and stops once the report is printed.")
	fs.StringVar(&cfg.LogLevel, "log-level", DefaultLogLevel, "Log level: debug, info, warn, error.")
	fs.BoolVar(&cfg.Calibrate, "calibrate", false, "Time short runs over candidate worker counts and exit.")
	fs.StringVar(&cfg.Completion, "completion", "", "Print a completion script for bash, zsh or fish and exit.")
	fs.StringVar(&cfg.ConfigFile, "config", "", "YAML configuration file.")
	fs.BoolVar(&cfg.ShowVersion, "version", false, "Print version information and exit.")
	fs.BoolVar(&cfg.ShowVersion, "V", false, "Shorthand for --version.")

	fs.Usage = func() {
		fmt.Fprintf(errWriter, "Usage: %s [options]\n\n", programName)
		fmt.Fprintf(errWriter, "Monte Carlo simulation of the Monty Hall problem.\n\n")
		fmt.Fprintf(errWriter, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(errWriter, "\nEvery option can also be set through a %s<NAME> environment variable\n", EnvPrefix)
		fmt.Fprintf(errWriter, "(for example %sROUNDS=100000) or in the file given by --config.\n", EnvPrefix)
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return AppConfig{}, err
		}
		return AppConfig{}, apperrors.NewConfigError("%v", err)
	}
	if fs.NArg() > 0 {
		return AppConfig{}, apperrors.NewConfigError("unexpected argument %q", fs.Arg(0))
	}
	cfg.Seeded = isFlagSet(fs, "seed")

	if cfg.ConfigFile == "" {
		cfg.ConfigFile = os.Getenv(EnvPrefix + "CONFIG")
	}
	if cfg.ConfigFile != "" {
		fc, err := LoadFile(cfg.ConfigFile)
		if err != nil {
			return AppConfig{}, apperrors.NewConfigError("%v", err)
		}
		applyFileConfig(&cfg, fc, fs)
	}
	if err := applyEnvOverrides(&cfg, fs); err != nil {
		return AppConfig{}, err
	}

	cfg = ApplyAdaptiveDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return AppConfig{}, err
	}
	return cfg, nil
}

// Validate checks the option values that cannot be clamped.
func (c AppConfig) Validate() error {
	if c.Workers < 1 {
		return apperrors.NewConfigError("workers must be at least 1, got %d", c.Workers)
	}
	switch orchestration.PartitionMode(c.Partition) {
	case orchestration.PartitionStatic, orchestration.PartitionDynamic:
	default:
		return apperrors.NewConfigError("unknown partition strategy %q (want static or dynamic)", c.Partition)
	}
	switch orchestration.SinkMode(c.Sink) {
	case orchestration.SinkChannel, orchestration.SinkLocked:
	default:
		return apperrors.NewConfigError("unknown sink %q (want channel or locked)", c.Sink)
	}
	switch strings.ToLower(c.LogLevel) {
	case "trace", "debug", "info", "warn", "error", "fatal", "panic", "disabled":
	default:
		return apperrors.NewConfigError("unknown log level %q", c.LogLevel)
	}
	return nil
}

// ToRunConfig returns the subset of the configuration consumed by the run
// driver.
func (c AppConfig) ToRunConfig() orchestration.RunConfig {
	return orchestration.RunConfig{
		Trials:    c.Trials,
		Workers:   c.Workers,
		Verbose:   c.Verbose,
		Seed:      c.Seed,
		Seeded:    c.Seeded,
		Partition: orchestration.PartitionMode(c.Partition),
		Chunk:     c.Chunk,
		Sink:      orchestration.SinkMode(c.Sink),
	}
}
