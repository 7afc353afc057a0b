package orchestration

import (
	"fmt"
	"sync/atomic"

	"golang.org/x/sys/cpu"
)

// Range is an inclusive span of trial indices.
type Range struct {
	First, Last uint64
}

// Len returns the number of indices in r.
func (r Range) Len() uint64 { return r.Last - r.First + 1 }

// Partitioner hands out disjoint ranges of trial indices. Across all
// workers and claims every index in [1, N] is returned exactly once.
type Partitioner interface {
	// Claim returns the next range for worker, or false when the worker
	// has nothing left to do.
	Claim(worker int) (Range, bool)
}

// NewPartitioner builds the partitioner selected by mode.
func NewPartitioner(mode PartitionMode, trials uint64, workers int, chunk uint64) (Partitioner, error) {
	switch mode {
	case PartitionStatic:
		return NewStaticPartitioner(trials, workers, chunk), nil
	case PartitionDynamic, "":
		return NewDynamicPartitioner(trials, chunk), nil
	default:
		return nil, fmt.Errorf("unknown partition strategy %q", mode)
	}
}

// staticCursor is written only by its owning worker. The padding keeps
// neighbouring cursors on separate cache lines.
type staticCursor struct {
	_     cpu.CacheLinePad
	first uint64
	next  uint64
	last  uint64
	done  bool
	_     cpu.CacheLinePad
}

// StaticPartitioner splits [1, N] into W contiguous blocks whose sizes differ
// by at most one. Each worker walks its own block chunk by chunk; no state
// is shared between workers.
type StaticPartitioner struct {
	cursors []staticCursor
	chunk   uint64
}

// NewStaticPartitioner precomputes the per-worker blocks. Workers beyond N
// get an empty block.
func NewStaticPartitioner(trials uint64, workers int, chunk uint64) *StaticPartitioner {
	if workers < 1 {
		workers = 1
	}
	if chunk < 1 {
		chunk = 1
	}
	p := &StaticPartitioner{
		cursors: make([]staticCursor, workers),
		chunk:   chunk,
	}
	w := uint64(workers)
	base, rem := trials/w, trials%w
	var first uint64 = 1
	for i := range p.cursors {
		size := base
		if uint64(i) < rem {
			size++
		}
		c := &p.cursors[i]
		if size == 0 {
			c.done = true
			continue
		}
		c.first = first
		c.next = first
		c.last = first + size - 1
		first += size
	}
	return p
}

// Block returns the whole range assigned to worker, false if it is empty.
func (p *StaticPartitioner) Block(worker int) (Range, bool) {
	if worker < 0 || worker >= len(p.cursors) {
		return Range{}, false
	}
	c := &p.cursors[worker]
	if c.first == 0 {
		return Range{}, false
	}
	return Range{First: c.first, Last: c.last}, true
}

// Claim returns the next chunk of worker's block. It must only be called
// from that worker's goroutine.
func (p *StaticPartitioner) Claim(worker int) (Range, bool) {
	if worker < 0 || worker >= len(p.cursors) {
		return Range{}, false
	}
	c := &p.cursors[worker]
	if c.done {
		return Range{}, false
	}
	r := Range{First: c.next, Last: c.last}
	if c.last-c.next >= p.chunk {
		r.Last = c.next + p.chunk - 1
	}
	if r.Last == c.last {
		c.done = true
	} else {
		c.next = r.Last + 1
	}
	return r, true
}

// DynamicPartitioner serves chunks from a single shared atomic counter, so
// faster workers simply claim more often. With a chunk of 1 it degenerates
// to the per-index counter.
type DynamicPartitioner struct {
	_      cpu.CacheLinePad
	next   atomic.Uint64
	_      cpu.CacheLinePad
	trials uint64
	chunk  uint64
}

// NewDynamicPartitioner returns a partitioner over [1, trials].
func NewDynamicPartitioner(trials, chunk uint64) *DynamicPartitioner {
	if chunk < 1 {
		chunk = 1
	}
	return &DynamicPartitioner{trials: trials, chunk: chunk}
}

// Claim atomically reserves the next chunk. It is safe for concurrent use.
func (p *DynamicPartitioner) Claim(int) (Range, bool) {
	end := p.next.Add(p.chunk)
	first := end - p.chunk + 1
	// end < p.chunk means the counter wrapped: every index is long gone.
	if end < p.chunk || first > p.trials {
		return Range{}, false
	}
	last := end
	if last > p.trials {
		last = p.trials
	}
	return Range{First: first, Last: last}, true
}
