package config

import "github.com/agbru/montyhall/internal/orchestration"

// Default resolution chain (highest priority first):
//   1. CLI flags (--workers, --chunk, ...)
//   2. Environment variables (MONTYHALL_WORKERS, ...)
//   3. YAML file (--config)
//   4. Adaptive hardware estimation (this file)

// ApplyAdaptiveDefaults clamps zero trial and worker counts up to one and
// resolves an adaptive chunk size when none was given, so the effective
// values can be displayed before the run starts.
func ApplyAdaptiveDefaults(cfg AppConfig) AppConfig {
	if cfg.Trials == 0 {
		cfg.Trials = 1
	}
	if cfg.Workers == 0 {
		cfg.Workers = 1
	}
	if cfg.Chunk == 0 && cfg.Workers > 0 {
		cfg.Chunk = orchestration.AdaptiveChunk(cfg.Trials, cfg.Workers)
	}
	return cfg
}
