package metrics

import "runtime"

// MemorySnapshot holds a point-in-time reading of the Go runtime's memory
// statistics.
type MemorySnapshot struct {
	HeapAlloc    uint64 // bytes of live heap objects
	HeapSys      uint64 // heap bytes obtained from the OS
	Sys          uint64 // total bytes obtained from the OS
	NumGC        uint32 // completed GC cycles
	PauseTotalNs uint64 // cumulative GC pause time
}

// MemoryCollector reads runtime memory statistics.
type MemoryCollector struct{}

// NewMemoryCollector creates a new memory collector.
func NewMemoryCollector() *MemoryCollector {
	return &MemoryCollector{}
}

// Snapshot reads the current memory statistics.
func (mc *MemoryCollector) Snapshot() MemorySnapshot {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return MemorySnapshot{
		HeapAlloc:    m.HeapAlloc,
		HeapSys:      m.HeapSys,
		Sys:          m.Sys,
		NumGC:        m.NumGC,
		PauseTotalNs: m.PauseTotalNs,
	}
}

// GCDuring returns how many GC cycles ran between before and after. A
// benchmark that allocates nothing per trial should report zero.
func GCDuring(before, after MemorySnapshot) uint32 {
	if after.NumGC < before.NumGC {
		return 0
	}
	return after.NumGC - before.NumGC
}
