package cli

import (
	"strings"
	"sync"
	"testing"
	"unicode/utf8"

	"github.com/briandowns/spinner"
	"github.com/golang/mock/gomock"

	"github.com/agbru/sumbench/internal/bench"
	"github.com/agbru/sumbench/internal/cli/mocks"
	"github.com/agbru/sumbench/internal/orchestration"
)

// withMockSpinner swaps the spinner constructor for the duration of a test.
// Tests using it must not run in parallel.
func withMockSpinner(t *testing.T, s Spinner) {
	t.Helper()
	saved := newSpinner
	newSpinner = func(...spinner.Option) Spinner { return s }
	t.Cleanup(func() { newSpinner = saved })
}

func TestDisplayProgress_DrivesSpinner(t *testing.T) {
	ctrl := gomock.NewController(t)
	mock := mocks.NewMockSpinner(ctrl)
	withMockSpinner(t, mock)

	gomock.InOrder(
		mock.EXPECT().UpdateSuffix(" Preparing benchmark..."),
		mock.EXPECT().Start(),
		mock.EXPECT().UpdateSuffix(gomock.Any()).Times(2),
		mock.EXPECT().Stop(),
	)

	updates := make(chan orchestration.ProgressUpdate, 2)
	updates <- orchestration.ProgressUpdate{StrategyIndex: 0, Progress: bench.Progress{Strategy: "parallel", Trial: 0, Iterations: 2}}
	updates <- orchestration.ProgressUpdate{StrategyIndex: 0, Progress: bench.Progress{Strategy: "parallel", Trial: 1, Iterations: 2}}
	close(updates)

	var wg sync.WaitGroup
	wg.Add(1)
	DisplayProgress(&wg, updates, 2, &strings.Builder{})
	wg.Wait()
}

func TestDisplayProgress_NoStrategies(t *testing.T) {
	ctrl := gomock.NewController(t)
	mock := mocks.NewMockSpinner(ctrl)
	withMockSpinner(t, mock)
	// No expectations: the spinner must not be touched.

	updates := make(chan orchestration.ProgressUpdate, 1)
	updates <- orchestration.ProgressUpdate{}
	close(updates)

	var wg sync.WaitGroup
	wg.Add(1)
	DisplayProgress(&wg, updates, 0, &strings.Builder{})
	wg.Wait()
}

func TestFormatProgress(t *testing.T) {
	t.Parallel()
	u := orchestration.ProgressUpdate{
		StrategyIndex: 1,
		Progress:      bench.Progress{Strategy: "sequential", Trial: 24, Iterations: 50},
	}
	got := FormatProgress(u, 2)
	for _, want := range []string{"[2/2]", "sequential", "trial 25/50"} {
		if !strings.Contains(got, want) {
			t.Errorf("FormatProgress = %q, should contain %q", got, want)
		}
	}
}

func TestProgressBar(t *testing.T) {
	t.Parallel()
	tests := []struct {
		progress float64
		filled   int
	}{
		{0, 0},
		{0.5, 5},
		{1, 10},
		{1.7, 10},
		{-0.3, 0},
	}
	for _, tt := range tests {
		bar := progressBar(tt.progress, 10)
		if n := utf8.RuneCountInString(bar); n != 10 {
			t.Errorf("progressBar(%v) has %d runes, want 10", tt.progress, n)
		}
		if n := strings.Count(bar, "█"); n != tt.filled {
			t.Errorf("progressBar(%v) has %d filled cells, want %d", tt.progress, n, tt.filled)
		}
	}
}
