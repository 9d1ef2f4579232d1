package cli

import (
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/agbru/sumbench/internal/config"
	"github.com/agbru/sumbench/internal/dataset"
	"github.com/agbru/sumbench/internal/format"
	"github.com/agbru/sumbench/internal/memory"
	"github.com/agbru/sumbench/internal/sysmon"
	"github.com/agbru/sumbench/internal/ui"
)

// PrintExecutionConfig writes the run parameters, the dataset actually
// allocated and the host description.
func PrintExecutionConfig(cfg config.AppConfig, ds *dataset.Dataset, host sysmon.Host, out io.Writer) {
	label := func(name string) string {
		return fmt.Sprintf("%s%-12s%s", ui.ColorSecondary(), name, ui.ColorReset())
	}
	fmt.Fprintf(out, "%s--- Execution Configuration ---%s\n", ui.ColorBold(), ui.ColorReset())
	if fill, uniform := ds.Fill(); uniform {
		fmt.Fprintf(out, "%s %d elements of %d (%s)\n", label("Dataset"), ds.Len(), fill, format.FormatBytes(ds.SizeBytes()))
	} else {
		fmt.Fprintf(out, "%s %d mixed elements (%s)\n", label("Dataset"), ds.Len(), format.FormatBytes(ds.SizeBytes()))
	}
	fmt.Fprintf(out, "%s %d\n", label("Expected"), ds.ExpectedSum())
	fmt.Fprintf(out, "%s %d\n", label("Workers"), cfg.ResolveWorkers())
	fmt.Fprintf(out, "%s %d per strategy\n", label("Iterations"), cfg.Iterations)
	fmt.Fprintf(out, "%s %s\n", label("Strategies"), strings.Join(cfg.Strategies, " → "))
	fmt.Fprintf(out, "%s %s\n", label("GC"), cfg.GCMode)

	cpu := host.Model
	if cpu == "" {
		cpu = "unknown"
	}
	fmt.Fprintf(out, "%s %s, %d logical / %d physical cores\n", label("CPU"), cpu, host.LogicalCPUs, host.PhysicalCPUs)
	if len(host.Features) > 0 {
		fmt.Fprintf(out, "%s %s\n", label("Features"), strings.Join(host.Features, " "))
	}
	fmt.Fprintf(out, "%s %s %s/%s, GOMAXPROCS=%d\n", label("Runtime"), runtime.Version(), runtime.GOOS, host.GOARCH, runtime.GOMAXPROCS(0))
}

// PrintSystemSample writes a one-line host load sample.
func PrintSystemSample(when string, s sysmon.Stats, out io.Writer) {
	fmt.Fprintf(out, "%s%s: cpu %.1f%%, mem %.1f%% (%s available)%s\n",
		ui.ColorSecondary(), when, s.CPUPercent, s.MemPercent, format.FormatBytes(s.AvailableBytes), ui.ColorReset())
}

// DisplayMemoryStats shows collector activity while the trials ran.
func DisplayMemoryStats(st memory.GCStats, out io.Writer) {
	fmt.Fprintf(out, "\nMemory Stats:\n")
	fmt.Fprintf(out, "  Heap in use:     %s\n", format.FormatBytes(st.HeapAlloc))
	fmt.Fprintf(out, "  Allocated:       %s\n", format.FormatBytes(st.TotalAlloc))
	fmt.Fprintf(out, "  GC cycles:       %d\n", st.NumGC)
	if st.PauseTotalNs > 0 {
		fmt.Fprintf(out, "  GC pause total:  %.2fms\n", float64(st.PauseTotalNs)/1e6)
	} else {
		fmt.Fprintf(out, "  GC pause total:  0ms\n")
	}
}
