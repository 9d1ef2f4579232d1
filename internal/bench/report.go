package bench

import "time"

// Report is the outcome of benchmarking one strategy.
type Report struct {
	// Strategy is the name of the benchmarked strategy.
	Strategy string
	// Description is the strategy's human-readable label.
	Description string
	// Iterations is the number of completed trials.
	Iterations int
	// Measurements holds the per-trial timings in milliseconds, in trial order.
	Measurements []float64
	Summary
	// LastSum is the value returned by the final trial.
	LastSum int64
	// Total is the wall time spent in the trial loop, including bookkeeping.
	Total time.Duration
}

// Speedup returns how many times faster r is than baseline by mean, or 0 if
// either mean is not positive.
func (r Report) Speedup(baseline Report) float64 {
	if r.Mean <= 0 || baseline.Mean <= 0 {
		return 0
	}
	return baseline.Mean / r.Mean
}
