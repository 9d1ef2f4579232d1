package bench

import (
	"slices"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestMedian(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		sorted []float64
		want   float64
	}{
		{"even count takes upper middle", []float64{1, 2, 3, 4}, 3},
		{"odd count", []float64{1, 2, 3}, 2},
		{"single", []float64{7.5}, 7.5},
		{"two", []float64{1, 9}, 9},
		{"empty", nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Median(tt.sorted); got != tt.want {
				t.Errorf("Median(%v) = %v, want %v", tt.sorted, got, tt.want)
			}
		})
	}
}

func TestMean(t *testing.T) {
	t.Parallel()
	if got := Mean([]float64{1, 2, 3, 4}); got != 2.5 {
		t.Errorf("Mean = %v, want 2.5", got)
	}
	if got := Mean(nil); got != 0 {
		t.Errorf("Mean(nil) = %v, want 0", got)
	}
}

func TestSummarize(t *testing.T) {
	t.Parallel()
	in := []float64{4, 1, 3, 2}
	s := Summarize(in)
	want := Summary{Mean: 2.5, Median: 3, Min: 1, Max: 4}
	if s != want {
		t.Errorf("Summarize(%v) = %+v, want %+v", in, s, want)
	}
	if !slices.Equal(in, []float64{4, 1, 3, 2}) {
		t.Errorf("Summarize must not reorder its input, got %v", in)
	}
	if (Summarize(nil) != Summary{}) {
		t.Error("Summarize(nil) should be the zero Summary")
	}
}

func TestSummarize_PropertyBased(t *testing.T) {
	properties := gopter.NewProperties(gopter.DefaultTestParameters())

	properties.Property("min <= median <= max and min <= mean <= max", prop.ForAll(
		func(xs []float64) bool {
			s := Summarize(xs)
			// Tolerate rounding in the mean.
			const eps = 1e-9
			return s.Min <= s.Median && s.Median <= s.Max &&
				s.Mean >= s.Min-eps && s.Mean <= s.Max+eps
		},
		gen.SliceOfN(50, gen.Float64Range(0, 1000)).SuchThat(func(xs []float64) bool { return len(xs) > 0 }),
	))

	properties.Property("median is an element of the input", prop.ForAll(
		func(xs []float64) bool {
			return slices.Contains(xs, Summarize(xs).Median)
		},
		gen.SliceOf(gen.Float64Range(0, 1000)).SuchThat(func(xs []float64) bool { return len(xs) > 0 }),
	))

	properties.TestingRun(t)
}
