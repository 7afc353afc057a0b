package orchestration

import (
	apperrors "github.com/agbru/montyhall/internal/errors"
)

// PartitionMode selects how trial indices are handed out to workers.
type PartitionMode string

const (
	// PartitionStatic gives every worker one contiguous block up front.
	PartitionStatic PartitionMode = "static"
	// PartitionDynamic lets workers claim chunks from a shared counter.
	PartitionDynamic PartitionMode = "dynamic"
)

// SinkMode selects the diagnostic sink implementation.
type SinkMode string

const (
	// SinkChannel funnels lines through a channel to a single writer goroutine.
	SinkChannel SinkMode = "channel"
	// SinkLocked serializes format-and-write under a mutex.
	SinkLocked SinkMode = "locked"
)

const (
	// MaxChunk bounds the adaptive chunk size of the dynamic partitioner.
	MaxChunk = 4096
	// chunksPerWorker is the number of claims each worker should make on
	// average, which keeps the tail of the run balanced.
	chunksPerWorker = 64
)

// RunConfig describes a single simulation run. It is not modified once the
// run starts.
type RunConfig struct {
	// Trials is the number of independent trials N, indexed 1..N.
	Trials uint64
	// Workers is the number of concurrent workers W.
	Workers int
	// Verbose enables one diagnostic line per trial.
	Verbose bool
	// Seed keys every trial's draws when Seeded is true. Otherwise a fresh
	// seed is drawn and reported.
	Seed   uint64
	Seeded bool
	// Partition defaults to PartitionDynamic.
	Partition PartitionMode
	// Chunk is the claim size; 0 selects AdaptiveChunk.
	Chunk uint64
	// Sink defaults to SinkChannel.
	Sink SinkMode
}

// Validate reports the first configuration problem as an apperrors.ConfigError.
func (c RunConfig) Validate() error {
	if c.Trials < 1 {
		return apperrors.NewConfigError("trials must be at least 1, got %d", c.Trials)
	}
	if c.Workers < 1 {
		return apperrors.NewConfigError("workers must be at least 1, got %d", c.Workers)
	}
	switch c.Partition {
	case "", PartitionStatic, PartitionDynamic:
	default:
		return apperrors.NewConfigError("unknown partition strategy %q (want static or dynamic)", c.Partition)
	}
	switch c.Sink {
	case "", SinkChannel, SinkLocked:
	default:
		return apperrors.NewConfigError("unknown sink %q (want channel or locked)", c.Sink)
	}
	return nil
}

// withDefaults fills the zero-valued knobs.
func (c RunConfig) withDefaults() RunConfig {
	if c.Partition == "" {
		c.Partition = PartitionDynamic
	}
	if c.Sink == "" {
		c.Sink = SinkChannel
	}
	if c.Chunk == 0 {
		c.Chunk = AdaptiveChunk(c.Trials, c.Workers)
	}
	return c
}

// AdaptiveChunk picks a claim size giving each worker about 64 claims,
// clamped to [1, MaxChunk].
func AdaptiveChunk(trials uint64, workers int) uint64 {
	if workers < 1 {
		workers = 1
	}
	chunk := trials / (uint64(workers) * chunksPerWorker)
	if chunk < 1 {
		return 1
	}
	if chunk > MaxChunk {
		return MaxChunk
	}
	return chunk
}
