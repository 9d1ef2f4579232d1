// Package sum implements the summation strategies the benchmark compares:
// a single-pass sequential loop, a 4-way unrolled variant, and a fork-join
// parallel reduction over contiguous chunks.
package sum
