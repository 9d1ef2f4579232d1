package bench

import "slices"

// Summary holds the aggregate statistics of a set of trial timings, in
// milliseconds.
type Summary struct {
	Mean   float64
	Median float64
	Min    float64
	Max    float64
}

// Mean returns the arithmetic mean of xs, or 0 when xs is empty.
func Mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var total float64
	for _, x := range xs {
		total += x
	}
	return total / float64(len(xs))
}

// Median returns the element at index len/2 of an ascending slice. For an
// even count this is the upper of the two middle values; no averaging takes
// place. It returns 0 when sorted is empty.
func Median(sorted []float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	return sorted[len(sorted)/2]
}

// Summarize computes the summary of measurements without modifying it.
func Summarize(measurements []float64) Summary {
	if len(measurements) == 0 {
		return Summary{}
	}
	sorted := slices.Clone(measurements)
	slices.Sort(sorted)
	return Summary{
		Mean:   Mean(sorted),
		Median: Median(sorted),
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
	}
}
