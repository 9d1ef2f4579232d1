package bench

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/agbru/sumbench/internal/dataset"
	apperrors "github.com/agbru/sumbench/internal/errors"
	"github.com/agbru/sumbench/internal/sum"
)

// fakeStrategy returns scripted results, one per call.
type fakeStrategy struct {
	mu      sync.Mutex
	calls   int
	results []int64
	failAt  int
	err     error
	onCall  func(call int)
}

func (f *fakeStrategy) Name() string        { return "fake" }
func (f *fakeStrategy) Description() string { return "Fake strategy" }

func (f *fakeStrategy) Sum(_ context.Context, _ *dataset.Dataset) (int64, error) {
	f.mu.Lock()
	call := f.calls
	f.calls++
	f.mu.Unlock()
	if f.onCall != nil {
		f.onCall(call)
	}
	if f.err != nil && call == f.failAt {
		return 0, f.err
	}
	if call < len(f.results) {
		return f.results[call], nil
	}
	return 0, nil
}

type recordedTrial struct {
	strategy string
	elapsed  time.Duration
}

type fakeRecorder struct {
	trials   []recordedTrial
	results  map[string]int64
	failures []error
}

func (r *fakeRecorder) ObserveTrial(s string, d time.Duration) {
	r.trials = append(r.trials, recordedTrial{s, d})
}

func (r *fakeRecorder) ObserveResult(s string, total int64) {
	if r.results == nil {
		r.results = make(map[string]int64)
	}
	r.results[s] = total
}

func (r *fakeRecorder) ObserveFailure(_ string, err error) { r.failures = append(r.failures, err) }

func smallDataset(t *testing.T) *dataset.Dataset {
	t.Helper()
	ds, err := dataset.New(13, 1)
	if err != nil {
		t.Fatal(err)
	}
	return ds
}

func TestHarness_Run(t *testing.T) {
	t.Parallel()
	rec := &fakeRecorder{}
	var progress []Progress
	h := NewHarness(WithRecorder(rec), WithProgress(func(p Progress) { progress = append(progress, p) }))

	report, err := h.Run(context.Background(), sum.Sequential{}, smallDataset(t), 5)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if report.Strategy != sum.NameSequential || report.Iterations != 5 {
		t.Errorf("report = %+v", report)
	}
	if report.LastSum != 13 {
		t.Errorf("LastSum = %d, want 13", report.LastSum)
	}
	if len(report.Measurements) != 5 {
		t.Fatalf("got %d measurements, want 5", len(report.Measurements))
	}
	for i, m := range report.Measurements {
		if m < 0 {
			t.Errorf("measurement %d is negative: %v", i, m)
		}
	}
	if report.Min > report.Median || report.Median > report.Max {
		t.Errorf("inconsistent summary %+v", report.Summary)
	}
	if len(rec.trials) != 5 || rec.results[sum.NameSequential] != 13 {
		t.Errorf("recorder saw %d trials and result %d", len(rec.trials), rec.results[sum.NameSequential])
	}
	if len(progress) != 5 || progress[4].Fraction() != 1 {
		t.Errorf("progress callbacks = %+v", progress)
	}
}

func TestHarness_LastSumIsFinalTrial(t *testing.T) {
	t.Parallel()
	s := &fakeStrategy{results: []int64{1, 2, 3}}
	report, err := NewHarness().Run(context.Background(), s, smallDataset(t), 3)
	if err != nil {
		t.Fatal(err)
	}
	if report.LastSum != 3 {
		t.Errorf("LastSum = %d, want 3", report.LastSum)
	}
}

func TestHarness_SingleIteration(t *testing.T) {
	t.Parallel()
	report, err := NewHarness().Run(context.Background(), sum.NewParallel(12), smallDataset(t), 1)
	if err != nil {
		t.Fatal(err)
	}
	if report.Mean != report.Median || report.Mean != report.Measurements[0] {
		t.Errorf("with one trial mean, median and sample should match: %+v", report)
	}
}

func TestHarness_RejectsZeroIterations(t *testing.T) {
	t.Parallel()
	_, err := NewHarness().Run(context.Background(), sum.Sequential{}, smallDataset(t), 0)
	var vErr apperrors.ValidationError
	if !errors.As(err, &vErr) || vErr.Field != "iterations" {
		t.Errorf("expected iterations ValidationError, got %v", err)
	}
}

func TestHarness_TrialFailureAborts(t *testing.T) {
	t.Parallel()
	workerErr := apperrors.WorkerError{Worker: 4, Start: 8, End: 10, Cause: errors.New("boom")}
	s := &fakeStrategy{failAt: 2, err: workerErr}
	rec := &fakeRecorder{}

	_, err := NewHarness(WithRecorder(rec)).Run(context.Background(), s, smallDataset(t), 10)
	if err == nil {
		t.Fatal("expected an error")
	}
	if want := `strategy "fake" trial 2: worker 4 failed on chunk [8, 10): boom`; err.Error() != want {
		t.Errorf("error = %q, want %q", err.Error(), want)
	}
	if s.calls != 3 {
		t.Errorf("strategy called %d times, want 3", s.calls)
	}
	if apperrors.ExitCodeFor(err) != apperrors.ExitErrorWorker {
		t.Errorf("exit code = %d, want %d", apperrors.ExitCodeFor(err), apperrors.ExitErrorWorker)
	}
	if len(rec.failures) != 1 {
		t.Errorf("recorder saw %d failures, want 1", len(rec.failures))
	}
}

func TestHarness_CancellationBetweenTrials(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	// Cancel during the second trial; that trial must still complete.
	s := &fakeStrategy{onCall: func(call int) {
		if call == 1 {
			cancel()
		}
	}}

	_, err := NewHarness().Run(ctx, s, smallDataset(t), 10)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if s.calls != 2 {
		t.Errorf("strategy called %d times, want 2", s.calls)
	}
	if apperrors.ExitCodeFor(err) != apperrors.ExitErrorCanceled {
		t.Errorf("exit code = %d, want %d", apperrors.ExitCodeFor(err), apperrors.ExitErrorCanceled)
	}
}

func TestHarness_Span(t *testing.T) {
	t.Parallel()
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	h := NewHarness(WithTracerProvider(tp))

	if _, err := h.Run(context.Background(), sum.Sequential{}, smallDataset(t), 2); err != nil {
		t.Fatal(err)
	}
	s := &fakeStrategy{failAt: 0, err: errors.New("broken")}
	if _, err := h.Run(context.Background(), s, smallDataset(t), 2); err == nil {
		t.Fatal("expected failure")
	}

	spans := sr.Ended()
	if len(spans) != 2 {
		t.Fatalf("got %d spans, want 2", len(spans))
	}
	if spans[0].Name() != "bench.Run" || spans[0].Status().Code == codes.Error {
		t.Errorf("first span = %s with status %v", spans[0].Name(), spans[0].Status())
	}
	if spans[1].Status().Code != codes.Error {
		t.Errorf("failed run should mark its span as error, got %v", spans[1].Status())
	}
}

func TestReport_Speedup(t *testing.T) {
	t.Parallel()
	par := Report{Summary: Summary{Mean: 2}}
	seq := Report{Summary: Summary{Mean: 10}}
	if got := par.Speedup(seq); got != 5 {
		t.Errorf("Speedup = %v, want 5", got)
	}
	if got := (Report{}).Speedup(seq); got != 0 {
		t.Errorf("Speedup with zero mean = %v, want 0", got)
	}
}
