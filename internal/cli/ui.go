//go:generate mockgen -source=ui.go -destination=mocks/mock_ui.go -package=mocks

package cli

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/briandowns/spinner"

	"github.com/agbru/sumbench/internal/orchestration"
)

const (
	// ProgressRefreshRate is the spinner animation interval.
	ProgressRefreshRate = 200 * time.Millisecond
	// ProgressBarWidth is the width in characters of the progress bar.
	ProgressBarWidth = 30
)

// Spinner abstracts the terminal spinner so DisplayProgress can be tested
// without a terminal.
type Spinner interface {
	Start()
	Stop()
	UpdateSuffix(suffix string)
}

// realSpinner adapts spinner.Spinner to Spinner.
type realSpinner struct {
	s *spinner.Spinner
}

func (rs *realSpinner) Start()                     { rs.s.Start() }
func (rs *realSpinner) Stop()                      { rs.s.Stop() }
func (rs *realSpinner) UpdateSuffix(suffix string) { rs.s.Suffix = suffix }

var newSpinner = func(options ...spinner.Option) Spinner {
	return &realSpinner{spinner.New(spinner.CharSets[11], ProgressRefreshRate, options...)}
}

// DisplayProgress shows a spinner with the current strategy and trial until
// updates is closed, then clears it. It calls wg.Done on return.
func DisplayProgress(wg *sync.WaitGroup, updates <-chan orchestration.ProgressUpdate, numStrategies int, out io.Writer) {
	defer wg.Done()
	if numStrategies <= 0 {
		for range updates {
		}
		return
	}

	s := newSpinner(spinner.WithWriter(out), spinner.WithHiddenCursor(true))
	s.UpdateSuffix(" Preparing benchmark...")
	s.Start()
	defer s.Stop()

	for u := range updates {
		s.UpdateSuffix(FormatProgress(u, numStrategies))
	}
}

// FormatProgress renders one progress update for the spinner suffix.
func FormatProgress(u orchestration.ProgressUpdate, numStrategies int) string {
	return fmt.Sprintf(" [%d/%d] %-10s %s trial %d/%d",
		u.StrategyIndex+1, numStrategies, u.Strategy,
		progressBar(u.Fraction(), ProgressBarWidth), u.Trial+1, u.Iterations)
}

// progressBar renders progress in [0, 1] as a bar of length runes.
func progressBar(progress float64, length int) string {
	progress = min(max(progress, 0), 1)
	count := int(progress * float64(length))
	var b strings.Builder
	b.Grow(length * 3)
	for i := range length {
		if i < count {
			b.WriteRune('█')
		} else {
			b.WriteRune('░')
		}
	}
	return b.String()
}
