// Package parallel splits index ranges into contiguous chunks for fork-join
// reductions.
package parallel

import "fmt"

// Chunk is the half-open index range [Start, End) owned by one worker.
type Chunk struct {
	Start int
	End   int
}

// Len returns the number of elements in the chunk.
func (c Chunk) Len() int { return c.End - c.Start }

// Empty reports whether the chunk holds no element.
func (c Chunk) Empty() bool { return c.End <= c.Start }

// String implements fmt.Stringer.
func (c Chunk) String() string { return fmt.Sprintf("[%d, %d)", c.Start, c.End) }

// ChunkSize returns ceil(length / workers), the size of every chunk except
// possibly the last non-empty one.
func ChunkSize(length, workers int) int {
	if length <= 0 || workers <= 0 {
		return 0
	}
	return (length + workers - 1) / workers
}

// Partition splits [0, length) into exactly workers contiguous chunks of
// ChunkSize(length, workers) elements. The last non-empty chunk may be
// shorter and trailing chunks are empty when chunkSize*(workers-1) >= length.
// The chunks cover the range without gaps or overlap.
//
// Partition panics if workers < 1.
func Partition(length, workers int) []Chunk {
	if workers < 1 {
		panic(fmt.Sprintf("parallel: worker count must be at least 1, got %d", workers))
	}
	if length < 0 {
		length = 0
	}
	size := ChunkSize(length, workers)
	chunks := make([]Chunk, workers)
	for i := range chunks {
		chunks[i] = Chunk{
			Start: min(i*size, length),
			End:   min((i+1)*size, length),
		}
	}
	return chunks
}

// NonEmpty returns the number of chunks holding at least one element.
func NonEmpty(chunks []Chunk) int {
	n := 0
	for _, c := range chunks {
		if !c.Empty() {
			n++
		}
	}
	return n
}
