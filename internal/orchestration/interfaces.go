package orchestration

import (
	"io"
	"sync"
	"time"

	"github.com/agbru/sumbench/internal/bench"
)

// BenchmarkResult is the outcome of benchmarking one strategy. Exactly one of
// Report and Err is meaningful.
type BenchmarkResult struct {
	// Name is the strategy name.
	Name string
	// Report holds the statistics of a successful run.
	Report bench.Report
	// Duration is the wall time of the whole run, trials and bookkeeping.
	Duration time.Duration
	// Err is the error that aborted the run.
	Err error
}

// PresentationOptions configures what is shown besides the report lines.
type PresentationOptions struct {
	// Details enables the comparison table on the diagnostic stream.
	Details bool
	// Verbose adds the raw per-trial timings to the details table.
	Verbose bool
	// Expected is the reference sum every strategy must reproduce.
	Expected int64
}

// ProgressUpdate reports that a trial of a strategy finished.
type ProgressUpdate struct {
	// StrategyIndex is the position of the strategy in the run order.
	StrategyIndex int
	bench.Progress
}

// ProgressReporter displays trial progress. DisplayProgress runs on its own
// goroutine until updates is closed, then calls wg.Done.
type ProgressReporter interface {
	DisplayProgress(wg *sync.WaitGroup, updates <-chan ProgressUpdate, numStrategies int, out io.Writer)
}

// ProgressReporterFunc adapts a function to ProgressReporter.
type ProgressReporterFunc func(wg *sync.WaitGroup, updates <-chan ProgressUpdate, numStrategies int, out io.Writer)

// DisplayProgress calls f.
func (f ProgressReporterFunc) DisplayProgress(wg *sync.WaitGroup, updates <-chan ProgressUpdate, numStrategies int, out io.Writer) {
	f(wg, updates, numStrategies, out)
}

// NullProgressReporter drains updates without displaying anything.
type NullProgressReporter struct{}

// DisplayProgress drains the channel.
func (NullProgressReporter) DisplayProgress(wg *sync.WaitGroup, updates <-chan ProgressUpdate, _ int, _ io.Writer) {
	defer wg.Done()
	for range updates {
	}
}

// ResultPresenter renders completed benchmark results.
type ResultPresenter interface {
	// PresentReport writes the report lines of one strategy.
	PresentReport(report bench.Report, out io.Writer)
	// PresentComparison writes the optional comparison table.
	PresentComparison(results []BenchmarkResult, opts PresentationOptions, out io.Writer)
}

// ErrorHandler reports a failure and returns the process exit code.
type ErrorHandler interface {
	HandleError(err error, out io.Writer) int
}
