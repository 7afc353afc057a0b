// This file contains environment variable utilities for configuration override.

package config

import (
	"flag"
	"os"
	"strconv"
	"strings"

	apperrors "github.com/agbru/montyhall/internal/errors"
)

// isFlagSet checks if a flag was explicitly set on the command line.
func isFlagSet(fs *flag.FlagSet, name string) bool {
	found := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

// isFlagSetAny checks if any of the specified flags were explicitly set.
// Short and long forms of the same option are passed together.
func isFlagSetAny(fs *flag.FlagSet, names ...string) bool {
	for _, name := range names {
		if isFlagSet(fs, name) {
			return true
		}
	}
	return false
}

// envOverride declares a single environment variable override.
// Each entry maps an env key (without the MONTYHALL_ prefix) to the CLI flag
// name(s) it corresponds to and a function that applies the env value.
type envOverride struct {
	envKey string
	flags  []string
	apply  func(*AppConfig, string) error
}

// envOverrides is the declarative table of all environment variable overrides.
var envOverrides = []envOverride{
	// Numeric overrides
	{"ROUNDS", []string{"rounds", "r"}, func(c *AppConfig, v string) error {
		parsed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return envError("ROUNDS", v)
		}
		c.Trials = parsed
		return nil
	}},
	{"WORKERS", []string{"workers", "t"}, func(c *AppConfig, v string) error {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return envError("WORKERS", v)
		}
		c.Workers = parsed
		return nil
	}},
	{"SEED", []string{"seed"}, func(c *AppConfig, v string) error {
		parsed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return envError("SEED", v)
		}
		c.Seed, c.Seeded = parsed, true
		return nil
	}},
	{"CHUNK", []string{"chunk"}, func(c *AppConfig, v string) error {
		parsed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return envError("CHUNK", v)
		}
		c.Chunk = parsed
		return nil
	}},

	// String overrides
	{"PARTITION", []string{"partition"}, func(c *AppConfig, v string) error {
		c.Partition = strings.ToLower(v)
		return nil
	}},
	{"SINK", []string{"sink"}, func(c *AppConfig, v string) error {
		c.Sink = strings.ToLower(v)
		return nil
	}},
	{"METRICS_ADDR", []string{"metrics-addr"}, func(c *AppConfig, v string) error {
		c.MetricsAddr = v
		return nil
	}},
	{"LOG_LEVEL", []string{"log-level"}, func(c *AppConfig, v string) error {
		c.LogLevel = v
		return nil
	}},

	// Boolean overrides
	{"OUTPUT", []string{"output", "o"}, func(c *AppConfig, v string) error {
		c.Verbose = parseBoolEnv(v, c.Verbose)
		return nil
	}},
	{"QUIET", []string{"quiet", "q"}, func(c *AppConfig, v string) error {
		c.Quiet = parseBoolEnv(v, c.Quiet)
		return nil
	}},
	{"DETAILS", []string{"details", "d"}, func(c *AppConfig, v string) error {
		c.Details = parseBoolEnv(v, c.Details)
		return nil
	}},
	{"NO_COLOR", []string{"no-color"}, func(c *AppConfig, v string) error {
		c.NoColor = parseBoolEnv(v, c.NoColor)
		return nil
	}},
}

func envError(key, value string) error {
	return apperrors.NewConfigError("invalid value %q for %s%s", value, EnvPrefix, key)
}

// parseBoolEnv parses a boolean environment variable value.
// Accepts "true", "1", "yes" as true; "false", "0", "no" as false (case-insensitive).
// Returns defaultVal if the value is not recognized.
func parseBoolEnv(val string, defaultVal bool) bool {
	switch strings.ToLower(val) {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	}
	return defaultVal
}

// applyEnvOverrides applies environment variable values to the configuration
// for any flags that were not explicitly set on the command line.
// A malformed numeric value is a configuration error rather than being
// silently ignored.
func applyEnvOverrides(config *AppConfig, fs *flag.FlagSet) error {
	for _, o := range envOverrides {
		if isFlagSetAny(fs, o.flags...) {
			continue
		}
		if val := os.Getenv(EnvPrefix + o.envKey); val != "" {
			if err := o.apply(config, val); err != nil {
				return err
			}
		}
	}
	return nil
}
