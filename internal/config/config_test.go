package config

import (
	"errors"
	"flag"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	apperrors "github.com/agbru/montyhall/internal/errors"
	"github.com/agbru/montyhall/internal/logging"
	"github.com/agbru/montyhall/internal/orchestration"
)

func TestParseConfig_Defaults(t *testing.T) {
	t.Parallel()
	cfg, err := ParseConfig("montyhall", nil, io.Discard)
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	if cfg.Trials != DefaultTrials {
		t.Errorf("Trials = %d, want %d", cfg.Trials, DefaultTrials)
	}
	if cfg.Workers != runtime.NumCPU() {
		t.Errorf("Workers = %d, want %d", cfg.Workers, runtime.NumCPU())
	}
	if cfg.Verbose || cfg.Quiet || cfg.Seeded {
		t.Errorf("unexpected flags set: %+v", cfg)
	}
	if cfg.Partition != "dynamic" || cfg.Sink != "channel" {
		t.Errorf("Partition/Sink = %q/%q", cfg.Partition, cfg.Sink)
	}
	if cfg.Chunk != orchestration.AdaptiveChunk(cfg.Trials, cfg.Workers) {
		t.Errorf("Chunk = %d, want adaptive value", cfg.Chunk)
	}
	if cfg.LogLevel != DefaultLogLevel {
		t.Errorf("LogLevel = %q", cfg.LogLevel)
	}
}

func TestParseConfig_Flags(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		args  []string
		check func(t *testing.T, c AppConfig)
	}{
		{"short rounds", []string{"-r", "5000"}, func(t *testing.T, c AppConfig) {
			if c.Trials != 5000 {
				t.Errorf("Trials = %d", c.Trials)
			}
		}},
		{"long workers", []string{"--workers", "3"}, func(t *testing.T, c AppConfig) {
			if c.Workers != 3 {
				t.Errorf("Workers = %d", c.Workers)
			}
		}},
		{"zero rounds clamped", []string{"-r", "0"}, func(t *testing.T, c AppConfig) {
			if c.Trials != 1 {
				t.Errorf("Trials = %d, want 1", c.Trials)
			}
		}},
		{"zero workers clamped", []string{"-t", "0"}, func(t *testing.T, c AppConfig) {
			if c.Workers != 1 {
				t.Errorf("Workers = %d, want 1", c.Workers)
			}
		}},
		{"verbose", []string{"-o"}, func(t *testing.T, c AppConfig) {
			if !c.Verbose {
				t.Error("Verbose not set")
			}
		}},
		{"seed marks seeded", []string{"--seed", "0"}, func(t *testing.T, c AppConfig) {
			if !c.Seeded || c.Seed != 0 {
				t.Errorf("Seed = %d Seeded = %v", c.Seed, c.Seeded)
			}
		}},
		{"explicit chunk kept", []string{"--chunk", "17", "--partition", "static"}, func(t *testing.T, c AppConfig) {
			if c.Chunk != 17 || c.Partition != "static" {
				t.Errorf("Chunk = %d Partition = %q", c.Chunk, c.Partition)
			}
		}},
		{"locked sink", []string{"--sink", "locked", "-q", "-d"}, func(t *testing.T, c AppConfig) {
			if c.Sink != "locked" || !c.Quiet || !c.Details {
				t.Errorf("got %+v", c)
			}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg, err := ParseConfig("montyhall", tt.args, io.Discard)
			if err != nil {
				t.Fatalf("ParseConfig(%v): %v", tt.args, err)
			}
			tt.check(t, cfg)
		})
	}
}

func TestParseConfig_Errors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		args []string
	}{
		{"negative workers", []string{"-t", "-2"}},
		{"unknown partition", []string{"--partition", "round-robin"}},
		{"unknown sink", []string{"--sink", "file"}},
		{"unknown log level", []string{"--log-level", "loud"}},
		{"unknown flag", []string{"--algo", "fast"}},
		{"positional argument", []string{"extra"}},
		{"missing config file", []string{"--config", "/nonexistent/montyhall.yaml"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := ParseConfig("montyhall", tt.args, io.Discard)
			var ce apperrors.ConfigError
			if !errors.As(err, &ce) {
				t.Fatalf("expected ConfigError, got %v", err)
			}
		})
	}
}

func TestParseConfig_Help(t *testing.T) {
	t.Parallel()
	var usage strings.Builder
	_, err := ParseConfig("montyhall", []string{"-h"}, &usage)
	if !errors.Is(err, flag.ErrHelp) {
		t.Fatalf("expected flag.ErrHelp, got %v", err)
	}
	for _, want := range []string{"-rounds", "MONTYHALL_", "-metrics-addr", "stops once the report is printed"} {
		if !strings.Contains(usage.String(), want) {
			t.Errorf("usage text missing %q", want)
		}
	}
}

func TestParseConfig_EnvOverrides(t *testing.T) {
	t.Setenv(EnvPrefix+"ROUNDS", "2500")
	t.Setenv(EnvPrefix+"WORKERS", "2")
	t.Setenv(EnvPrefix+"SEED", "99")
	t.Setenv(EnvPrefix+"PARTITION", "STATIC")
	t.Setenv(EnvPrefix+"OUTPUT", "yes")

	cfg, err := ParseConfig("montyhall", []string{"-t", "6"}, io.Discard)
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	if cfg.Trials != 2500 {
		t.Errorf("Trials = %d, want 2500 from env", cfg.Trials)
	}
	if cfg.Workers != 6 {
		t.Errorf("Workers = %d, flag must win over env", cfg.Workers)
	}
	if !cfg.Seeded || cfg.Seed != 99 {
		t.Errorf("Seed = %d Seeded = %v", cfg.Seed, cfg.Seeded)
	}
	if cfg.Partition != "static" {
		t.Errorf("Partition = %q", cfg.Partition)
	}
	if !cfg.Verbose {
		t.Error("Verbose should come from env")
	}
}

func TestParseConfig_InvalidEnv(t *testing.T) {
	t.Setenv(EnvPrefix+"ROUNDS", "lots")
	_, err := ParseConfig("montyhall", nil, io.Discard)
	var ce apperrors.ConfigError
	if !errors.As(err, &ce) {
		t.Fatalf("expected ConfigError, got %v", err)
	}
}

func TestParseConfig_FilePrecedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "montyhall.yaml")
	content := "rounds: 777\nworkers: 5\nsink: locked\nseed: 3\nlog_level: info\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvPrefix+"WORKERS", "4")

	cfg, err := ParseConfig("montyhall", []string{"--config", path, "--sink", "channel"}, io.Discard)
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	if cfg.Trials != 777 {
		t.Errorf("Trials = %d, want 777 from file", cfg.Trials)
	}
	if cfg.Workers != 4 {
		t.Errorf("Workers = %d, env must win over file", cfg.Workers)
	}
	if cfg.Sink != "channel" {
		t.Errorf("Sink = %q, flag must win over file", cfg.Sink)
	}
	if !cfg.Seeded || cfg.Seed != 3 {
		t.Errorf("Seed = %d Seeded = %v", cfg.Seed, cfg.Seeded)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q", cfg.LogLevel)
	}
}

func TestParseConfig_ConfigFromEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	if err := os.WriteFile(path, []byte("details: true\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvPrefix+"CONFIG", path)

	cfg, err := ParseConfig("montyhall", nil, io.Discard)
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	if !cfg.Details || cfg.ConfigFile != path {
		t.Errorf("got Details=%v ConfigFile=%q", cfg.Details, cfg.ConfigFile)
	}
}

func TestLoadFile_Malformed(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("rounds: [1, 2\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(path); err == nil {
		t.Fatal("expected a parse error")
	}
}

func TestToRunConfig(t *testing.T) {
	t.Parallel()
	c := AppConfig{Trials: 10, Workers: 2, Verbose: true, Seed: 5, Seeded: true, Partition: "static", Chunk: 3, Sink: "locked"}
	rc := c.ToRunConfig()
	want := orchestration.RunConfig{
		Trials: 10, Workers: 2, Verbose: true, Seed: 5, Seeded: true,
		Partition: orchestration.PartitionStatic, Chunk: 3, Sink: orchestration.SinkLocked,
	}
	if rc != want {
		t.Errorf("ToRunConfig() = %+v, want %+v", rc, want)
	}
	if err := rc.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestParseBoolEnv(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   string
		def  bool
		want bool
	}{
		{"true", false, true},
		{"YES", false, true},
		{"1", false, true},
		{"no", true, false},
		{"0", true, false},
		{"maybe", true, true},
		{"maybe", false, false},
	}
	for _, tt := range tests {
		if got := parseBoolEnv(tt.in, tt.def); got != tt.want {
			t.Errorf("parseBoolEnv(%q, %v) = %v, want %v", tt.in, tt.def, got, tt.want)
		}
	}
}

// Every level accepted on the command line must select that zerolog level
// rather than the warn fallback.
func TestParseConfig_LogLevelsMatchLogger(t *testing.T) {
	t.Parallel()
	for _, lvl := range []string{"trace", "debug", "info", "warn", "error", "fatal", "panic", "disabled"} {
		cfg, err := ParseConfig("montyhall", []string{"--log-level", lvl}, io.Discard)
		if err != nil {
			t.Errorf("--log-level %s: %v", lvl, err)
			continue
		}
		if got := logging.ParseLevel(cfg.LogLevel).String(); got != lvl {
			t.Errorf("ParseLevel(%q) = %s", cfg.LogLevel, got)
		}
	}
}
