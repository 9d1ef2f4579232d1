// Package sysmon samples host CPU and memory state around a benchmark run
// and guards dataset allocation against exhausting physical memory.
package sysmon

import (
	"runtime"
	"strings"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
	xcpu "golang.org/x/sys/cpu"

	apperrors "github.com/agbru/sumbench/internal/errors"
)

// Stats holds a single snapshot of system-wide resource usage.
type Stats struct {
	CPUPercent     float64 // 0.0 .. 100.0
	MemPercent     float64 // 0.0 .. 100.0
	AvailableBytes uint64
}

// Sample collects a single system-wide CPU and memory snapshot.
// CPU uses interval=0 (delta since last call). Returns zero values on error.
func Sample() Stats {
	var s Stats
	if pcts, err := cpu.Percent(0, false); err == nil && len(pcts) > 0 {
		s.CPUPercent = pcts[0]
	}
	if vmem, err := mem.VirtualMemory(); err == nil && vmem != nil {
		s.MemPercent = vmem.UsedPercent
		s.AvailableBytes = vmem.Available
	}
	return s
}

// AvailableMemory returns the bytes the OS reports as available for new
// allocations.
func AvailableMemory() (uint64, error) {
	vmem, err := mem.VirtualMemory()
	if err != nil {
		return 0, apperrors.WrapError(err, "reading virtual memory")
	}
	return vmem.Available, nil
}

// CheckFits returns a MemoryError when requested exceeds available. An
// available value of zero means "unknown" and always passes.
func CheckFits(requested, available uint64) error {
	if available == 0 || requested <= available {
		return nil
	}
	return apperrors.MemoryError{Requested: requested, Available: available}
}

// EnsureAvailable checks requested against the current available memory.
// A failure to read memory statistics is not an error.
func EnsureAvailable(requested uint64) error {
	available, err := AvailableMemory()
	if err != nil {
		return nil
	}
	return CheckFits(requested, available)
}

// Host describes the machine the benchmark runs on.
type Host struct {
	Model        string
	LogicalCPUs  int
	PhysicalCPUs int
	GOARCH       string
	Features     []string
}

// DescribeHost gathers CPU model, core counts, and SIMD features. Fields that
// cannot be read are left at their zero value.
func DescribeHost() Host {
	h := Host{
		LogicalCPUs: runtime.NumCPU(),
		GOARCH:      runtime.GOARCH,
		Features:    CPUFeatures(),
	}
	if infos, err := cpu.Info(); err == nil && len(infos) > 0 {
		h.Model = strings.TrimSpace(infos[0].ModelName)
	}
	if n, err := cpu.Counts(false); err == nil {
		h.PhysicalCPUs = n
	}
	return h
}

// CPUFeatures lists the vector extensions relevant to summing int32 arrays
// that the running CPU supports.
func CPUFeatures() []string {
	var features []string
	add := func(ok bool, name string) {
		if ok {
			features = append(features, name)
		}
	}
	switch runtime.GOARCH {
	case "amd64", "386":
		add(xcpu.X86.HasSSE2, "sse2")
		add(xcpu.X86.HasSSE41, "sse4.1")
		add(xcpu.X86.HasAVX, "avx")
		add(xcpu.X86.HasAVX2, "avx2")
		add(xcpu.X86.HasAVX512F, "avx512f")
	case "arm64":
		add(xcpu.ARM64.HasASIMD, "asimd")
		add(xcpu.ARM64.HasSVE, "sve")
	}
	return features
}
