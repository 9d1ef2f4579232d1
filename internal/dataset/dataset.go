// Package dataset holds the immutable integer array the benchmark sums.
package dataset

import (
	"fmt"
	"unsafe"
)

// Dataset is an immutable sequence of int32 values. It is created once,
// never mutated afterwards, and may be read concurrently without
// synchronization. Slices handed out by Slice and Values alias the
// underlying array and must be treated as read-only.
type Dataset struct {
	values   []int32
	fill     int32
	uniform  bool
	expected int64
}

// New allocates a dataset of the given length with every element set to fill.
func New(length int, fill int32) (*Dataset, error) {
	if length < 0 {
		return nil, fmt.Errorf("dataset length must be non-negative, got %d", length)
	}
	values := make([]int32, length)
	if fill != 0 && length > 0 {
		// Doubling copy keeps the fill memory-bandwidth bound.
		values[0] = fill
		for filled := 1; filled < length; filled *= 2 {
			copy(values[filled:], values[:filled])
		}
	}
	return &Dataset{
		values:   values,
		fill:     fill,
		uniform:  true,
		expected: int64(length) * int64(fill),
	}, nil
}

// FromValues builds a dataset from arbitrary values. The input is copied so
// later changes to it cannot leak into the dataset.
func FromValues(values []int32) *Dataset {
	owned := make([]int32, len(values))
	copy(owned, values)
	var expected int64
	for _, v := range owned {
		expected += int64(v)
	}
	return &Dataset{values: owned, expected: expected}
}

// Len returns the number of elements.
func (d *Dataset) Len() int { return len(d.values) }

// Fill returns the constant element value, and false for datasets built
// with FromValues.
func (d *Dataset) Fill() (int32, bool) { return d.fill, d.uniform }

// Values returns a read-only view of every element.
func (d *Dataset) Values() []int32 {
	return d.values[:len(d.values):len(d.values)]
}

// Slice returns a read-only view of the half-open range [lo, hi). The
// capacity is clipped so appending to the view can never write into the
// dataset.
func (d *Dataset) Slice(lo, hi int) []int32 {
	return d.values[lo:hi:hi]
}

// ExpectedSum returns the exact sum of all elements, computed when the
// dataset was built. It is the reference every strategy is checked against.
func (d *Dataset) ExpectedSum() int64 { return d.expected }

// SizeBytes returns the memory held by the element array.
func (d *Dataset) SizeBytes() uint64 {
	return uint64(len(d.values)) * uint64(unsafe.Sizeof(int32(0)))
}

// BytesFor returns the memory a dataset of the given length would need.
func BytesFor(length int) uint64 {
	if length <= 0 {
		return 0
	}
	return uint64(length) * uint64(unsafe.Sizeof(int32(0)))
}
