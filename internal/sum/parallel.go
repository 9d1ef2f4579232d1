package sum

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/agbru/sumbench/internal/dataset"
	apperrors "github.com/agbru/sumbench/internal/errors"
	"github.com/agbru/sumbench/internal/parallel"
)

// ChunkFunc sums one chunk of the dataset on behalf of a worker.
type ChunkFunc func(values []int32) (int64, error)

// sequentialChunk is the default ChunkFunc.
func sequentialChunk(values []int32) (int64, error) {
	return SumSlice(values), nil
}

func unrolledChunk(values []int32) (int64, error) {
	return SumUnrolled(values), nil
}

// Parallel sums a dataset by splitting it into contiguous chunks and summing
// each chunk on its own goroutine (fork-join).
type Parallel struct {
	name    string
	kernel  string
	workers int
	chunkFn ChunkFunc
}

// ParallelOption configures a Parallel strategy.
type ParallelOption func(*Parallel)

// WithChunkFunc replaces the per-chunk summation.
func WithChunkFunc(fn ChunkFunc) ParallelOption {
	return func(p *Parallel) { p.chunkFn = fn }
}

// NewParallel returns a parallel strategy with the given fan-out. A worker
// count below 1 is treated as 1.
func NewParallel(workers int, opts ...ParallelOption) *Parallel {
	p := &Parallel{name: NameParallel, workers: max(workers, 1), chunkFn: sequentialChunk}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// NewParallelUnrolled returns the parallel strategy whose workers each sum
// their chunk with SumUnrolled.
func NewParallelUnrolled(workers int) *Parallel {
	p := NewParallel(workers, WithChunkFunc(unrolledChunk))
	p.name = NameParallelUnrolled
	p.kernel = "4-way unrolled"
	return p
}

// Name implements Strategy.
func (p *Parallel) Name() string { return p.name }

// Description implements Strategy.
func (p *Parallel) Description() string {
	if p.kernel != "" {
		return fmt.Sprintf("Parallel (%d workers, chunked, %s)", p.workers, p.kernel)
	}
	return fmt.Sprintf("Parallel (%d workers, chunked)", p.workers)
}

// Workers returns the configured fan-out.
func (p *Parallel) Workers() int { return p.workers }

// Sum implements Strategy.
//
// The dataset is partitioned with parallel.Partition and one goroutine is
// started per non-empty chunk. Each worker writes its partial sum to its own
// slot, so no locking is needed. Sum waits for every worker before combining.
// If any worker returns an error or panics, Sum returns the first
// apperrors.WorkerError and no partial result.
func (p *Parallel) Sum(_ context.Context, ds *dataset.Dataset) (int64, error) {
	chunks := parallel.Partition(ds.Len(), p.workers)
	partials := make([]int64, len(chunks))

	var g errgroup.Group
	for i, c := range chunks {
		if c.Empty() {
			continue
		}
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = apperrors.WorkerError{Worker: i, Start: c.Start, End: c.End, Cause: fmt.Errorf("panic: %v", r)}
				}
			}()
			s, err := p.chunkFn(ds.Slice(c.Start, c.End))
			if err != nil {
				return apperrors.WorkerError{Worker: i, Start: c.Start, End: c.End, Cause: err}
			}
			partials[i] = s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	var total int64
	for _, s := range partials {
		total += s
	}
	return total, nil
}
