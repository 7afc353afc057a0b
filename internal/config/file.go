package config

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// FileConfig mirrors the options that may be set from a YAML file. Absent
// keys stay nil so they never override a default.
//
//	rounds: 1000000
//	workers: 8
//	seed: 42
//	partition: static
//	chunk: 1024
//	sink: locked
//	metrics_addr: ":9090"
//	log_level: info
type FileConfig struct {
	Rounds      *uint64 `yaml:"rounds"`
	Workers     *int    `yaml:"workers"`
	Output      *bool   `yaml:"output"`
	Seed        *uint64 `yaml:"seed"`
	Partition   *string `yaml:"partition"`
	Chunk       *uint64 `yaml:"chunk"`
	Sink        *string `yaml:"sink"`
	Quiet       *bool   `yaml:"quiet"`
	Details     *bool   `yaml:"details"`
	NoColor     *bool   `yaml:"no_color"`
	MetricsAddr *string `yaml:"metrics_addr"`
	LogLevel    *string `yaml:"log_level"`
}

// LoadFile reads and decodes a YAML configuration file.
func LoadFile(path string) (FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return FileConfig{}, fmt.Errorf("read config: %w", err)
	}
	var fc FileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return FileConfig{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return fc, nil
}

// applyFileConfig copies the values present in fc into cfg for every option
// not given on the command line. Environment overrides are applied after
// this and take precedence.
func applyFileConfig(cfg *AppConfig, fc FileConfig, fs *flag.FlagSet) {
	if fc.Rounds != nil && !isFlagSetAny(fs, "rounds", "r") {
		cfg.Trials = *fc.Rounds
	}
	if fc.Workers != nil && !isFlagSetAny(fs, "workers", "t") {
		cfg.Workers = *fc.Workers
	}
	if fc.Output != nil && !isFlagSetAny(fs, "output", "o") {
		cfg.Verbose = *fc.Output
	}
	if fc.Seed != nil && !isFlagSet(fs, "seed") {
		cfg.Seed, cfg.Seeded = *fc.Seed, true
	}
	if fc.Partition != nil && !isFlagSet(fs, "partition") {
		cfg.Partition = strings.ToLower(*fc.Partition)
	}
	if fc.Chunk != nil && !isFlagSet(fs, "chunk") {
		cfg.Chunk = *fc.Chunk
	}
	if fc.Sink != nil && !isFlagSet(fs, "sink") {
		cfg.Sink = strings.ToLower(*fc.Sink)
	}
	if fc.Quiet != nil && !isFlagSetAny(fs, "quiet", "q") {
		cfg.Quiet = *fc.Quiet
	}
	if fc.Details != nil && !isFlagSetAny(fs, "details", "d") {
		cfg.Details = *fc.Details
	}
	if fc.NoColor != nil && !isFlagSet(fs, "no-color") {
		cfg.NoColor = *fc.NoColor
	}
	if fc.MetricsAddr != nil && !isFlagSet(fs, "metrics-addr") {
		cfg.MetricsAddr = *fc.MetricsAddr
	}
	if fc.LogLevel != nil && !isFlagSet(fs, "log-level") {
		cfg.LogLevel = *fc.LogLevel
	}
}
