package metrics

import "runtime"

// MemorySnapshot holds a point-in-time memory reading.
type MemorySnapshot struct {
	HeapAlloc    uint64 // bytes in use by application
	HeapSys      uint64 // bytes obtained from OS for heap
	Sys          uint64 // total bytes obtained from OS
	NumGC        uint32 // number of completed GC cycles
	PauseTotalNs uint64 // cumulative GC pause time
	TotalAlloc   uint64 // cumulative bytes allocated
	Mallocs      uint64 // cumulative heap allocations
}

// MemoryCollector reads runtime memory statistics.
type MemoryCollector struct{}

// NewMemoryCollector creates a new memory collector.
func NewMemoryCollector() *MemoryCollector {
	return &MemoryCollector{}
}

// Snapshot reads current memory statistics.
func (mc *MemoryCollector) Snapshot() MemorySnapshot {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return MemorySnapshot{
		HeapAlloc:    m.HeapAlloc,
		HeapSys:      m.HeapSys,
		Sys:          m.Sys,
		NumGC:        m.NumGC,
		PauseTotalNs: m.PauseTotalNs,
		TotalAlloc:   m.TotalAlloc,
		Mallocs:      m.Mallocs,
	}
}

// MemoryDelta is the resource cost of a run, computed from snapshots taken
// before and after it.
type MemoryDelta struct {
	Allocated   uint64 // bytes allocated during the run
	Allocations uint64 // heap allocations during the run
	GCCycles    uint32 // GC cycles completed during the run
	PauseNs     uint64 // GC pause time during the run
	PeakSys     uint64 // bytes obtained from the OS at the end of the run
}

// Delta returns the cost accumulated between before and after.
func Delta(before, after MemorySnapshot) MemoryDelta {
	return MemoryDelta{
		Allocated:   after.TotalAlloc - before.TotalAlloc,
		Allocations: after.Mallocs - before.Mallocs,
		GCCycles:    after.NumGC - before.NumGC,
		PauseNs:     after.PauseTotalNs - before.PauseTotalNs,
		PeakSys:     after.Sys,
	}
}
