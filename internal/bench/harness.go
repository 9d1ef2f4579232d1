package bench

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/agbru/sumbench/internal/dataset"
	apperrors "github.com/agbru/sumbench/internal/errors"
	"github.com/agbru/sumbench/internal/format"
	"github.com/agbru/sumbench/internal/logging"
	"github.com/agbru/sumbench/internal/sum"
)

const tracerName = "github.com/agbru/sumbench/internal/bench"

// Recorder receives per-trial observations. metrics.Recorder implements it.
type Recorder interface {
	ObserveTrial(strategy string, elapsed time.Duration)
	ObserveResult(strategy string, total int64)
	ObserveFailure(strategy string, err error)
}

// NopRecorder discards every observation.
type NopRecorder struct{}

func (NopRecorder) ObserveTrial(string, time.Duration) {}
func (NopRecorder) ObserveResult(string, int64)        {}
func (NopRecorder) ObserveFailure(string, error)       {}

// Progress describes a completed trial.
type Progress struct {
	Strategy   string
	Trial      int
	Iterations int
	Elapsed    time.Duration
}

// Fraction returns the completed share of the trial loop in [0, 1].
func (p Progress) Fraction() float64 {
	if p.Iterations <= 0 {
		return 0
	}
	return float64(p.Trial+1) / float64(p.Iterations)
}

// ProgressFunc is called after every successful trial.
type ProgressFunc func(Progress)

// Harness times repeated calls to a summation strategy.
type Harness struct {
	logger   logging.Logger
	recorder Recorder
	progress ProgressFunc
	tracer   trace.Tracer
}

// Option configures a Harness.
type Option func(*Harness)

// WithLogger sets the logger. The default discards output.
func WithLogger(l logging.Logger) Option {
	return func(h *Harness) { h.logger = l }
}

// WithRecorder sets where trial observations are reported.
func WithRecorder(r Recorder) Option {
	return func(h *Harness) { h.recorder = r }
}

// WithProgress registers a callback invoked after each trial.
func WithProgress(fn ProgressFunc) Option {
	return func(h *Harness) { h.progress = fn }
}

// WithTracerProvider overrides the global OpenTelemetry tracer provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(h *Harness) { h.tracer = tp.Tracer(tracerName) }
}

// NewHarness returns a harness configured by opts.
func NewHarness(opts ...Option) *Harness {
	h := &Harness{
		logger:   logging.Nop(),
		recorder: NopRecorder{},
		tracer:   otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Run executes iterations trials of s over ds and summarizes their timings.
//
// Each trial times exactly one call to s.Sum. Cancellation of ctx is checked
// between trials only, so an in-flight trial always completes. The first
// failing trial aborts the run and its error is returned wrapped with the
// strategy name and trial index.
func (h *Harness) Run(ctx context.Context, s sum.Strategy, ds *dataset.Dataset, iterations int) (Report, error) {
	if iterations < 1 {
		return Report{}, apperrors.ValidationError{Field: "iterations", Message: fmt.Sprintf("must be at least 1, got %d", iterations)}
	}

	ctx, span := h.tracer.Start(ctx, "bench.Run", trace.WithAttributes(
		attribute.String("strategy", s.Name()),
		attribute.Int("iterations", iterations),
		attribute.Int("dataset.length", ds.Len()),
	))
	defer span.End()

	measurements := make([]float64, iterations)
	var last int64
	loopStart := time.Now()

	for i := range iterations {
		if err := ctx.Err(); err != nil {
			span.SetStatus(codes.Error, "canceled")
			return Report{}, apperrors.WrapError(err, "strategy %q stopped before trial %d", s.Name(), i)
		}

		start := time.Now()
		v, err := s.Sum(ctx, ds)
		elapsed := time.Since(start)

		if err != nil {
			h.recorder.ObserveFailure(s.Name(), err)
			h.logger.Error("trial failed", err, logging.String("strategy", s.Name()), logging.Int("trial", i))
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return Report{}, fmt.Errorf("strategy %q trial %d: %w", s.Name(), i, err)
		}

		measurements[i] = format.Millis(elapsed)
		last = v
		h.recorder.ObserveTrial(s.Name(), elapsed)
		span.AddEvent("trial", trace.WithAttributes(
			attribute.Int("trial", i),
			attribute.Float64("elapsed_ms", measurements[i]),
		))
		h.logger.Debug("trial complete",
			logging.String("strategy", s.Name()),
			logging.Int("trial", i),
			logging.Float64("elapsed_ms", measurements[i]),
		)
		if h.progress != nil {
			h.progress(Progress{Strategy: s.Name(), Trial: i, Iterations: iterations, Elapsed: elapsed})
		}
	}

	report := Report{
		Strategy:     s.Name(),
		Description:  s.Description(),
		Iterations:   iterations,
		Measurements: measurements,
		Summary:      Summarize(measurements),
		LastSum:      last,
		Total:        time.Since(loopStart),
	}
	h.recorder.ObserveResult(s.Name(), last)
	span.SetAttributes(
		attribute.Float64("mean_ms", report.Mean),
		attribute.Float64("median_ms", report.Median),
		attribute.Int64("sum", last),
	)
	h.logger.Info("strategy complete",
		logging.String("strategy", s.Name()),
		logging.Float64("mean_ms", report.Mean),
		logging.Float64("median_ms", report.Median),
		logging.Int64("sum", last),
	)
	return report, nil
}
