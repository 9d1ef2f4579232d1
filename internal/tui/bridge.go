package tui

import (
	"io"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/agbru/sumbench/internal/orchestration"
)

// ProgressReporter implements orchestration.ProgressReporter by running the
// dashboard as a bubbletea program for the duration of the benchmark.
type ProgressReporter struct {
	strategies []string
	stop       func()
	opts       []tea.ProgramOption
}

var _ orchestration.ProgressReporter = (*ProgressReporter)(nil)

// NewProgressReporter returns a reporter showing the given strategies. stop
// is called when the user quits the dashboard, typically a context cancel
// function. Extra program options are appended after tea.WithOutput.
func NewProgressReporter(strategies []string, stop func(), opts ...tea.ProgramOption) *ProgressReporter {
	return &ProgressReporter{strategies: strategies, stop: stop, opts: opts}
}

// DisplayProgress renders updates to out until the channel is closed and
// the program has drawn its final frame.
func (r *ProgressReporter) DisplayProgress(wg *sync.WaitGroup, updates <-chan orchestration.ProgressUpdate, numStrategies int, out io.Writer) {
	defer wg.Done()
	if numStrategies <= 0 {
		for range updates {
		}
		return
	}

	opts := append([]tea.ProgramOption{tea.WithOutput(out)}, r.opts...)
	p := tea.NewProgram(NewModel(r.strategies, r.stop), opts...)

	finished := make(chan struct{})
	go func() {
		defer close(finished)
		// A failed terminal setup only loses the display; the benchmark
		// goes on and updates keep being drained below.
		_, _ = p.Run()
	}()

	// Send returns immediately once the program has exited, so updates are
	// drained even after the user quits.
	for u := range updates {
		p.Send(TrialMsg{StrategyIndex: u.StrategyIndex, Progress: u.Progress})
	}
	p.Send(DoneMsg{})
	<-finished
}
