package parallel

import (
	"slices"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func chunkLens(chunks []Chunk) []int {
	lens := make([]int, len(chunks))
	for i, c := range chunks {
		lens[i] = c.Len()
	}
	return lens
}

func TestPartition(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		length   int
		workers  int
		wantLens []int
	}{
		{"twelve elements twelve workers", 12, 12, []int{1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1}},
		{"thirteen elements twelve workers", 13, 12, []int{2, 2, 2, 2, 2, 2, 1, 0, 0, 0, 0, 0}},
		{"empty", 0, 12, []int{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}},
		{"single worker", 7, 1, []int{7}},
		{"fewer elements than workers", 3, 5, []int{1, 1, 1, 0, 0}},
		{"even split", 100, 4, []int{25, 25, 25, 25}},
		{"short last chunk", 10, 4, []int{3, 3, 3, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			chunks := Partition(tt.length, tt.workers)
			if got := chunkLens(chunks); !slices.Equal(got, tt.wantLens) {
				t.Errorf("Partition(%d, %d) lens = %v, want %v", tt.length, tt.workers, got, tt.wantLens)
			}
		})
	}
}

func TestPartitionThirteenByTwelve(t *testing.T) {
	t.Parallel()
	chunks := Partition(13, 12)
	if ChunkSize(13, 12) != 2 {
		t.Fatalf("ChunkSize(13, 12) = %d, want 2", ChunkSize(13, 12))
	}
	if n := NonEmpty(chunks); n != 7 {
		t.Errorf("NonEmpty = %d, want 7", n)
	}
	if chunks[6] != (Chunk{Start: 12, End: 13}) {
		t.Errorf("chunk 6 = %v, want [12, 13)", chunks[6])
	}
	for _, c := range chunks[7:] {
		if !c.Empty() || c.Start != 13 {
			t.Errorf("trailing chunk %v should be empty at the end of the range", c)
		}
	}
}

func TestPartitionPanicsWithoutWorkers(t *testing.T) {
	t.Parallel()
	defer func() {
		if recover() == nil {
			t.Error("Partition with 0 workers should panic")
		}
	}()
	Partition(10, 0)
}

func TestChunkString(t *testing.T) {
	t.Parallel()
	if s := (Chunk{Start: 2, End: 4}).String(); s != "[2, 4)" {
		t.Errorf("String() = %q, want %q", s, "[2, 4)")
	}
}

// TestPartition_PropertyBased verifies that, for any length and worker
// count, the chunks tile [0, length) in order with no gap or overlap, that
// exactly workers chunks are produced, that no more than workers are
// non-empty, and that every chunk is at most ChunkSize long.
func TestPartition_PropertyBased(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 500
	properties := gopter.NewProperties(parameters)

	properties.Property("chunks cover [0, length) exactly", prop.ForAll(
		func(length, workers int) bool {
			chunks := Partition(length, workers)
			if len(chunks) != workers {
				return false
			}
			next := 0
			for _, c := range chunks {
				if c.Start != next || c.End < c.Start {
					return false
				}
				next = c.End
			}
			return next == length
		},
		gen.IntRange(0, 100_000),
		gen.IntRange(1, 256),
	))

	properties.Property("non-empty chunk count never exceeds workers", prop.ForAll(
		func(length, workers int) bool {
			return NonEmpty(Partition(length, workers)) <= workers
		},
		gen.IntRange(0, 100_000),
		gen.IntRange(1, 256),
	))

	properties.Property("chunk sizes are bounded by ceil(length/workers)", prop.ForAll(
		func(length, workers int) bool {
			size := ChunkSize(length, workers)
			for _, c := range Partition(length, workers) {
				if c.Len() > size {
					return false
				}
			}
			return true
		},
		gen.IntRange(0, 100_000),
		gen.IntRange(1, 256),
	))

	properties.TestingRun(t)
}
