// Package memory controls the Go garbage collector while trials run.
package memory

import (
	"fmt"
	"math"
	"runtime"
	"runtime/debug"

	"github.com/rs/zerolog"
)

// GCMode selects how the collector is handled during a benchmark.
type GCMode string

const (
	// GCModeAuto pauses the collector only for large datasets.
	GCModeAuto GCMode = "auto"
	// GCModeAggressive always pauses the collector.
	GCModeAggressive GCMode = "aggressive"
	// GCModeDisabled leaves the collector untouched.
	GCModeDisabled GCMode = "disabled"
)

// GCAutoThreshold is the dataset length from which GCModeAuto pauses the
// collector.
const GCAutoThreshold = 10_000_000

// ParseGCMode validates a mode name.
func ParseGCMode(s string) (GCMode, error) {
	switch m := GCMode(s); m {
	case GCModeAuto, GCModeAggressive, GCModeDisabled:
		return m, nil
	default:
		return "", fmt.Errorf("unknown gc mode %q (want auto, aggressive or disabled)", s)
	}
}

// GCController pauses garbage collection for the duration of the trials so
// that collector work does not show up in the timings. The trials themselves
// allocate almost nothing; a soft memory limit bounds the heap anyway.
type GCController struct {
	mode              GCMode
	active            bool
	originalGCPercent int
	logger            zerolog.Logger
	startStats        runtime.MemStats
	endStats          runtime.MemStats
}

// GCStats holds the collector activity between Begin and End.
type GCStats struct {
	HeapAlloc    uint64
	TotalAlloc   uint64
	NumGC        uint32
	PauseTotalNs uint64
}

// NewGCController creates a controller for mode and a dataset of length
// elements. Unknown modes behave like GCModeDisabled.
func NewGCController(mode GCMode, length int) *GCController {
	gc := &GCController{mode: mode, logger: zerolog.Nop()}
	switch mode {
	case GCModeAggressive:
		gc.active = true
	case GCModeAuto:
		gc.active = length >= GCAutoThreshold
	}
	return gc
}

// SetLogger configures the logger for GC control events.
func (gc *GCController) SetLogger(l zerolog.Logger) {
	gc.logger = l
}

// Active reports whether Begin will pause the collector.
func (gc *GCController) Active() bool { return gc.active }

// Begin collects once, then pauses the collector if the controller is active.
func (gc *GCController) Begin() {
	if !gc.active {
		return
	}
	// Release the garbage left by dataset construction before timing starts.
	runtime.GC()
	runtime.ReadMemStats(&gc.startStats)
	gc.originalGCPercent = debug.SetGCPercent(-1)
	if gc.startStats.Sys > 0 {
		if limit := int64(float64(gc.startStats.Sys) * 2); limit > 0 {
			debug.SetMemoryLimit(limit)
		}
	}
	gc.logger.Debug().
		Str("mode", string(gc.mode)).
		Uint64("heap_alloc_bytes", gc.startStats.HeapAlloc).
		Msg("gc paused")
}

// End restores the collector settings captured by Begin.
func (gc *GCController) End() {
	if !gc.active {
		return
	}
	runtime.ReadMemStats(&gc.endStats)
	debug.SetGCPercent(gc.originalGCPercent)
	debug.SetMemoryLimit(math.MaxInt64)
	st := gc.Stats()
	gc.logger.Debug().
		Str("mode", string(gc.mode)).
		Uint64("heap_alloc_bytes", st.HeapAlloc).
		Uint64("total_alloc_bytes", st.TotalAlloc).
		Uint32("gc_cycles", st.NumGC).
		Msg("gc restored")
}

// Stats returns the collector activity between Begin and End. It is zero
// for an inactive controller.
func (gc *GCController) Stats() GCStats {
	return GCStats{
		HeapAlloc:    gc.endStats.HeapAlloc,
		TotalAlloc:   gc.endStats.TotalAlloc - gc.startStats.TotalAlloc,
		NumGC:        gc.endStats.NumGC - gc.startStats.NumGC,
		PauseTotalNs: gc.endStats.PauseTotalNs - gc.startStats.PauseTotalNs,
	}
}
