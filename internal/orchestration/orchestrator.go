package orchestration

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/agbru/sumbench/internal/bench"
	"github.com/agbru/sumbench/internal/config"
	"github.com/agbru/sumbench/internal/dataset"
	apperrors "github.com/agbru/sumbench/internal/errors"
	"github.com/agbru/sumbench/internal/sum"
)

// ProgressBufferMultiplier sizes the progress channel relative to the
// number of strategies. Updates are dropped rather than blocking the trial
// loop when the buffer is full.
const ProgressBufferMultiplier = 8

// ExecuteBenchmarks runs each strategy in order against ds with
// cfg.Iterations trials, using a harness built from opts. Strategies run one
// at a time so that each is measured on an otherwise idle process. The first
// failing strategy ends the sequence; its result, carrying the error, is the
// last element of the returned slice.
func ExecuteBenchmarks(ctx context.Context, strategies []sum.Strategy, ds *dataset.Dataset, cfg config.AppConfig, opts []bench.Option, reporter ProgressReporter, out io.Writer) []BenchmarkResult {
	ctx, span := otel.Tracer("github.com/agbru/sumbench/internal/orchestration").Start(ctx, "orchestration.ExecuteBenchmarks")
	defer span.End()
	span.SetAttributes(
		attribute.Int("strategies", len(strategies)),
		attribute.Int("iterations", cfg.Iterations),
		attribute.Int("dataset.length", ds.Len()),
	)

	updates := make(chan ProgressUpdate, max(len(strategies), 1)*ProgressBufferMultiplier)
	var displayWg sync.WaitGroup
	displayWg.Add(1)
	go reporter.DisplayProgress(&displayWg, updates, len(strategies), out)

	results := make([]BenchmarkResult, 0, len(strategies))
	for idx, s := range strategies {
		progress := bench.WithProgress(func(p bench.Progress) {
			select {
			case updates <- ProgressUpdate{StrategyIndex: idx, Progress: p}:
			default:
			}
		})
		harness := bench.NewHarness(append(opts[:len(opts):len(opts)], progress)...)

		start := time.Now()
		report, err := harness.Run(ctx, s, ds, cfg.Iterations)
		results = append(results, BenchmarkResult{
			Name:     s.Name(),
			Report:   report,
			Duration: time.Since(start),
			Err:      err,
		})
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			break
		}
	}

	close(updates)
	displayWg.Wait()
	return results
}

// AnalyzeResults prints the report lines of every successful result to out,
// in run order, and returns the exit code of the whole benchmark.
//
// A failed result is handed to handler. Otherwise each sum is checked
// against opts.Expected; a disagreement is reported to errOut and yields
// apperrors.ExitErrorMismatch. The comparison table, when enabled, goes to
// errOut so that out only ever carries the report lines.
func AnalyzeResults(results []BenchmarkResult, opts PresentationOptions, presenter ResultPresenter, handler ErrorHandler, out, errOut io.Writer) int {
	var failure error
	for _, res := range results {
		if res.Err != nil {
			failure = res.Err
			break
		}
		presenter.PresentReport(res.Report, out)
	}
	if failure != nil {
		return handler.HandleError(failure, errOut)
	}

	if opts.Details {
		presenter.PresentComparison(results, opts, errOut)
	}

	if err := CheckConsistency(results, opts.Expected); err != nil {
		fmt.Fprintf(errOut, "Inconsistent results: %v\n", err)
		return apperrors.ExitErrorMismatch
	}
	return apperrors.ExitSuccess
}

// CheckConsistency verifies that every successful result reproduced
// expected. All mismatches are joined into the returned error.
func CheckConsistency(results []BenchmarkResult, expected int64) error {
	var errs []error
	for _, res := range results {
		if res.Err == nil && res.Report.LastSum != expected {
			errs = append(errs, apperrors.MismatchError{Strategy: res.Name, Got: res.Report.LastSum, Want: expected})
		}
	}
	return errors.Join(errs...)
}

// GetStrategiesToRun resolves names against the factory, keeping their
// order. An empty list selects the default pair, parallel then sequential.
func GetStrategiesToRun(names []string, factory *sum.Factory) ([]sum.Strategy, error) {
	if len(names) == 0 {
		names = []string{sum.NameParallel, sum.NameSequential}
	}
	strategies := make([]sum.Strategy, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if !factory.Has(name) {
			return nil, apperrors.NewConfigError("unknown strategy %q (available: %s)", name, strings.Join(factory.List(), ", "))
		}
		strategies = append(strategies, factory.MustGet(name))
	}
	return strategies, nil
}
