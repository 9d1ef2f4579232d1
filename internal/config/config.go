// Package config defines the benchmark configuration and parses it from
// command-line flags and SUMBENCH_* environment variables.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"math"
	"runtime"
	"slices"
	"strings"

	apperrors "github.com/agbru/sumbench/internal/errors"
	"github.com/agbru/sumbench/internal/memory"
)

// EnvPrefix prefixes every environment variable read by the configuration.
const EnvPrefix = "SUMBENCH_"

// Defaults reproduce the reference run: 200M elements of value 2, twelve
// workers, fifty trials, parallel before sequential.
const (
	DefaultLength     = 200_000_000
	DefaultFill       = 2
	DefaultWorkers    = 12
	DefaultIterations = 50
	DefaultStrategies = "parallel,sequential"
	DefaultGCMode     = string(memory.GCModeAuto)
	DefaultLogFormat  = LogFormatConsole
)

// Log formats accepted by --log-format.
const (
	LogFormatConsole = "console"
	LogFormatJSON    = "json"
)

// MaxLength keeps every int64 sum of int32 elements below 2^62. It is typed
// so that comparing against it compiles where int is 32 bits wide.
const MaxLength int64 = 1 << 31

// Other limits enforced by Validate.
const (
	MaxWorkers    = 4096
	MaxIterations = 1_000_000
)

// AppConfig aggregates the application's configuration parameters.
type AppConfig struct {
	// Length is the number of elements in the dataset.
	Length int
	// FillValue is the value of every element. It must fit in an int32.
	FillValue int
	// Workers is the fan-out of the parallel strategy; 0 selects the
	// logical CPU count.
	Workers int
	// Iterations is the number of timed trials per strategy.
	Iterations int
	// Strategies lists the strategies to run, in order.
	Strategies []string
	// Details prints the execution header and comparison table on stderr.
	Details bool
	// Verbose enables debug logging and per-trial timings.
	Verbose bool
	// NoColor disables colored output.
	NoColor bool
	// NoProgress disables the progress spinner.
	NoProgress bool
	// TUI replaces the spinner with the interactive dashboard on stderr.
	TUI bool
	// LogFormat selects console or JSON log lines on stderr.
	LogFormat string
	// GCMode controls the garbage collector during trials.
	GCMode string
	// MetricsFile, if set, receives a Prometheus text export at exit.
	MetricsFile string
}

// Validate checks the configuration for semantic errors.
func (c AppConfig) Validate(availableStrategies []string) error {
	switch {
	case c.Length < 0:
		return apperrors.ValidationError{Field: "length", Message: "must be non-negative"}
	case int64(c.Length) > MaxLength:
		return apperrors.ValidationError{Field: "length", Message: fmt.Sprintf("must not exceed %d", MaxLength)}
	case c.FillValue < math.MinInt32 || c.FillValue > math.MaxInt32:
		return apperrors.ValidationError{Field: "fill", Message: "must fit in a 32-bit signed integer"}
	case c.Workers < 0 || c.Workers > MaxWorkers:
		return apperrors.ValidationError{Field: "workers", Message: fmt.Sprintf("must be between 0 and %d", MaxWorkers)}
	case c.Iterations < 1 || c.Iterations > MaxIterations:
		return apperrors.ValidationError{Field: "iterations", Message: fmt.Sprintf("must be between 1 and %d", MaxIterations)}
	case len(c.Strategies) == 0:
		return apperrors.ValidationError{Field: "strategies", Message: "at least one strategy is required"}
	case c.LogFormat != LogFormatConsole && c.LogFormat != LogFormatJSON:
		return apperrors.ValidationError{Field: "log-format", Message: fmt.Sprintf("must be %s or %s, got %q", LogFormatConsole, LogFormatJSON, c.LogFormat)}
	}
	if _, err := memory.ParseGCMode(c.GCMode); err != nil {
		return apperrors.ValidationError{Field: "gc", Message: err.Error()}
	}
	seen := make(map[string]bool, len(c.Strategies))
	for _, s := range c.Strategies {
		if !slices.Contains(availableStrategies, s) {
			return apperrors.NewConfigError("unknown strategy %q (available: %s)", s, strings.Join(availableStrategies, ", "))
		}
		if seen[s] {
			return apperrors.ValidationError{Field: "strategies", Message: fmt.Sprintf("%q listed twice", s)}
		}
		seen[s] = true
	}
	return nil
}

// ResolveWorkers returns the effective worker count.
func (c AppConfig) ResolveWorkers() int {
	if c.Workers == 0 {
		return runtime.NumCPU()
	}
	return c.Workers
}

// SplitStrategies turns a comma-separated list into trimmed, non-empty names.
func SplitStrategies(list string) []string {
	var names []string
	for _, part := range strings.Split(list, ",") {
		if name := strings.TrimSpace(part); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// ParseConfig parses args into an AppConfig, applies environment overrides
// for flags not given on the command line, and validates the result.
// A --help request is returned as flag.ErrHelp, unwrapped.
func ParseConfig(programName string, args []string, errorWriter io.Writer, availableStrategies []string) (AppConfig, error) {
	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(errorWriter)

	config := AppConfig{}
	var strategies string

	fs.IntVar(&config.Length, "n", DefaultLength, "Number of elements in the dataset.")
	fs.IntVar(&config.Length, "length", DefaultLength, "Number of elements in the dataset (alias for -n).")
	fs.IntVar(&config.FillValue, "fill", DefaultFill, "Value of every element.")
	fs.IntVar(&config.Workers, "w", DefaultWorkers, "Parallel strategy worker count (0 = number of logical CPUs).")
	fs.IntVar(&config.Workers, "workers", DefaultWorkers, "Parallel strategy worker count (alias for -w).")
	fs.IntVar(&config.Iterations, "i", DefaultIterations, "Timed trials per strategy.")
	fs.IntVar(&config.Iterations, "iterations", DefaultIterations, "Timed trials per strategy (alias for -i).")
	fs.StringVar(&strategies, "s", DefaultStrategies, "Comma-separated strategies to run, in order ("+strings.Join(availableStrategies, ", ")+").")
	fs.StringVar(&strategies, "strategies", DefaultStrategies, "Strategies to run (alias for -s).")
	fs.BoolVar(&config.Details, "d", false, "Print the execution header and comparison table on stderr.")
	fs.BoolVar(&config.Details, "details", false, "Print details (alias for -d).")
	fs.BoolVar(&config.Verbose, "v", false, "Enable debug logging.")
	fs.BoolVar(&config.Verbose, "verbose", false, "Enable debug logging (alias for -v).")
	fs.BoolVar(&config.NoColor, "no-color", false, "Disable colored output (also honours NO_COLOR).")
	fs.BoolVar(&config.NoProgress, "no-progress", false, "Disable progress display. The spinner redraws while trials run; use this for clean timings.")
	fs.BoolVar(&config.TUI, "tui", false, "Show the interactive dashboard on stderr instead of the spinner (q quits).")
	fs.StringVar(&config.LogFormat, "log-format", DefaultLogFormat, "Log line format on stderr: console or json.")
	fs.StringVar(&config.GCMode, "gc", DefaultGCMode, "Garbage collector control during trials: auto, aggressive or disabled.")
	fs.StringVar(&config.MetricsFile, "metrics-file", "", "Write Prometheus metrics to this file at exit.")

	fs.Usage = func() {
		fmt.Fprintf(errorWriter, "Usage: %s [flags]\n\n", programName)
		fmt.Fprintf(errorWriter, "Benchmarks sequential and parallel summation of a large integer array.\n")
		fmt.Fprintf(errorWriter, "Prints mean ms, median ms and last sum for each strategy on stdout.\n\nFlags:\n")
		fs.PrintDefaults()
		fmt.Fprintf(errorWriter, "\nEvery flag can also be set through %s<NAME>, e.g. %sITERATIONS=10.\n", EnvPrefix, EnvPrefix)
		fmt.Fprintf(errorWriter, "Progress display shares the CPU with the timed trials; pass --no-progress for clean timings.\n")
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return AppConfig{}, err
		}
		return AppConfig{}, apperrors.NewConfigError("%v", err)
	}
	if fs.NArg() > 0 {
		return AppConfig{}, apperrors.NewConfigError("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}

	config.Strategies = SplitStrategies(strategies)
	applyEnvOverrides(&config, fs)

	if err := config.Validate(availableStrategies); err != nil {
		return AppConfig{}, err
	}
	return config, nil
}
