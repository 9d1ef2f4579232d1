package sum

import (
	"context"

	"github.com/agbru/sumbench/internal/dataset"
)

// SumSlice returns the sum of values in a single pass. The accumulator is
// 64 bits wide so that summing up to 2^32 int32 values cannot overflow.
func SumSlice(values []int32) int64 {
	var total int64
	for _, v := range values {
		total += int64(v)
	}
	return total
}

// SumUnrolled returns the same value as SumSlice using four independent
// accumulators, which lets the CPU overlap the additions.
func SumUnrolled(values []int32) int64 {
	var s0, s1, s2, s3 int64
	i := 0
	for n := len(values) - len(values)%4; i < n; i += 4 {
		s0 += int64(values[i])
		s1 += int64(values[i+1])
		s2 += int64(values[i+2])
		s3 += int64(values[i+3])
	}
	for ; i < len(values); i++ {
		s0 += int64(values[i])
	}
	return s0 + s1 + s2 + s3
}

// Sequential sums the whole dataset on the calling goroutine.
type Sequential struct{}

// Name implements Strategy.
func (Sequential) Name() string { return NameSequential }

// Description implements Strategy.
func (Sequential) Description() string { return "Sequential (single pass)" }

// Sum implements Strategy. It never fails.
func (Sequential) Sum(_ context.Context, ds *dataset.Dataset) (int64, error) {
	return SumSlice(ds.Values()), nil
}

// Unrolled sums the whole dataset on the calling goroutine with four
// accumulators.
type Unrolled struct{}

// Name implements Strategy.
func (Unrolled) Name() string { return NameUnrolled }

// Description implements Strategy.
func (Unrolled) Description() string { return "Sequential (4-way unrolled)" }

// Sum implements Strategy. It never fails.
func (Unrolled) Sum(_ context.Context, ds *dataset.Dataset) (int64, error) {
	return SumUnrolled(ds.Values()), nil
}
