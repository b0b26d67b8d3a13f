package search_test

import (
	"context"
	"fmt"
	"time"

	"github.com/katalvlaran/treesearch/schemes/knapsack"
	"github.com/katalvlaran/treesearch/schemes/sequencing"
	"github.com/katalvlaran/treesearch/search"
)

// ExampleBestFirst proves the optimum of a four-item knapsack.
func ExampleBestFirst() {
	s, err := knapsack.New(knapsack.Instance{
		Capacity: 5,
		Items: []knapsack.Item{
			{Weight: 2, Value: 3},
			{Weight: 3, Value: 4},
			{Weight: 4, Value: 5},
			{Weight: 5, Value: 6},
		},
	})
	if err != nil {
		fmt.Println(err)
		return
	}

	res, err := search.BestFirst(context.Background(), s)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(res.Status(), -res.Cost, knapsack.Selected(res.Leaf))
	// Output: optimal 7 [0 1]
}

// ExampleIterativeBeamSearch shows the doubling width schedule.
func ExampleIterativeBeamSearch() {
	s, err := sequencing.New(sequencing.Random(8, 10, 20, false, 7), sequencing.WithBound(false))
	if err != nil {
		fmt.Println(err)
		return
	}

	res, err := search.IterativeBeamSearch(context.Background(), s,
		search.WithWidths(1, 16),
		search.WithTimeLimit(time.Minute),
	)
	if err != nil {
		fmt.Println(err)
		return
	}
	for _, p := range res.Stats.Passes {
		fmt.Print(p.Width, " ")
	}
	fmt.Println(res.Reason)
	// Output: 1 2 4 8 16 width-limit
}
