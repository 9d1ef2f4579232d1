package sum

import (
	"context"

	"github.com/agbru/sumbench/internal/dataset"
)

// Strategy is one way of summing a dataset. Implementations are stateless
// with respect to the dataset: they only read it, and concurrent calls on
// the same dataset are safe.
type Strategy interface {
	// Name is the short identifier used on the command line and in reports.
	Name() string
	// Description is a human-readable label for the details table.
	Description() string
	// Sum returns the sum of every element of ds.
	Sum(ctx context.Context, ds *dataset.Dataset) (int64, error)
}

// Strategy names registered by NewDefaultFactory.
const (
	NameSequential       = "sequential"
	NameParallel         = "parallel"
	NameUnrolled         = "unrolled"
	NameParallelUnrolled = "parallel-unrolled"
)

// DefaultWorkers is the fan-out of the parallel strategy when none is configured.
const DefaultWorkers = 12
