package sum_test

import (
	"context"
	"fmt"

	"github.com/agbru/sumbench/internal/dataset"
	"github.com/agbru/sumbench/internal/sum"
)

func ExampleParallel_Sum() {
	ds, _ := dataset.New(13, 1)
	total, err := sum.NewParallel(12).Sum(context.Background(), ds)
	fmt.Println(total, err)
	// Output: 13 <nil>
}

func ExampleSumSlice() {
	fmt.Println(sum.SumSlice([]int32{2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2}))
	// Output: 24
}

func ExampleFactory_List() {
	fmt.Println(sum.NewDefaultFactory(sum.DefaultWorkers).List())
	// Output: [parallel parallel-unrolled sequential unrolled]
}
