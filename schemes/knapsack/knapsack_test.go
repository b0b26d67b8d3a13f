package knapsack_test

import (
	"math"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/treesearch/scheme"
	"github.com/katalvlaran/treesearch/schemes/knapsack"
)

// subtreeBest returns the cheapest leaf below st and checks that every
// bound on the way is admissible.
func subtreeBest(t *testing.T, s *knapsack.Scheme, st scheme.State) scheme.Cost {
	if s.Leaf(st) {
		return s.Cost(st)
	}
	best := math.Inf(1)
	for c := range s.Children(st) {
		best = math.Min(best, subtreeBest(t, s, c))
	}
	require.LessOrEqual(t, s.Bound(st), best+1e-9, "bound must not exceed any reachable leaf")

	return best
}

func TestNew_Validation(t *testing.T) {
	_, err := knapsack.New(knapsack.Instance{Capacity: -1})
	require.ErrorIs(t, err, knapsack.ErrNegativeCapacity)

	_, err = knapsack.New(knapsack.Instance{Capacity: 3, Items: []knapsack.Item{{Weight: 0, Value: 1}}})
	require.ErrorIs(t, err, knapsack.ErrBadItem)

	_, err = knapsack.New(knapsack.Instance{
		Capacity:  3,
		Items:     []knapsack.Item{{Weight: 1, Value: 1}},
		Conflicts: [][2]int{{0, 0}},
	})
	require.ErrorIs(t, err, knapsack.ErrBadConflict)
}

func TestChildren_TakeThenSkip(t *testing.T) {
	s, err := knapsack.New(knapsack.Instance{
		Capacity: 3,
		Items:    []knapsack.Item{{Weight: 2, Value: 5}, {Weight: 2, Value: 4}},
	})
	require.NoError(t, err)

	var kids []knapsack.State
	for c := range s.Children(s.Root()) {
		kids = append(kids, c.(knapsack.State))
	}
	require.Len(t, kids, 2)
	require.True(t, kids[0].Took)
	require.Equal(t, 5, kids[0].Value)
	require.False(t, kids[1].Took)

	// Item 1 no longer fits after item 0.
	n := 0
	for c := range s.Children(kids[0]) {
		require.False(t, c.(knapsack.State).Took)
		n++
	}
	require.Equal(t, 1, n)
}

func TestBound_Admissible(t *testing.T) {
	var seed int64
	for seed = 1; seed <= 5; seed++ {
		s, err := knapsack.New(knapsack.Random(9, 15, 25, seed))
		require.NoError(t, err)
		subtreeBest(t, s, s.Root())
	}
}

func TestConflicts(t *testing.T) {
	s, err := knapsack.New(knapsack.Instance{
		Capacity:  10,
		Items:     []knapsack.Item{{Weight: 1, Value: 5}, {Weight: 1, Value: 5}, {Weight: 1, Value: 1}},
		Conflicts: [][2]int{{0, 1}},
	})
	require.NoError(t, err)
	_, ok := s.DominanceKey(s.Root())
	require.False(t, ok, "dominance is unsound with conflicts")

	var walk func(st scheme.State)
	walk = func(st scheme.State) {
		if s.Leaf(st) {
			sel := knapsack.Selected(st)
			require.False(t, len(sel) >= 2 && sel[0] == 0 && sel[1] == 1)

			return
		}
		for c := range s.Children(st) {
			walk(c)
		}
	}
	walk(s.Root())
	require.Equal(t, -6.0, subtreeBest(t, s, s.Root()))
}

func TestDominance(t *testing.T) {
	s, err := knapsack.New(knapsack.Random(4, 10, 10, 3))
	require.NoError(t, err)
	a := knapsack.State{Next: 2, Weight: 3, Value: 9}
	b := knapsack.State{Next: 2, Weight: 4, Value: 7}
	require.True(t, s.Dominates(a, b))
	require.False(t, s.Dominates(b, a))
	require.True(t, s.Dominates(a, a))

	ka, ok := s.DominanceKey(a)
	require.True(t, ok)
	kb, _ := s.DominanceKey(b)
	require.Equal(t, ka, kb)
}

func TestEqual_ComparesDecisions(t *testing.T) {
	s, err := knapsack.New(knapsack.Instance{Capacity: 2, Items: []knapsack.Item{
		{Weight: 2, Value: 3},
		{Weight: 2, Value: 3},
	}})
	require.NoError(t, err)

	var leaves []scheme.State
	var walk func(st scheme.State)
	walk = func(st scheme.State) {
		if s.Leaf(st) {
			leaves = append(leaves, st)

			return
		}
		for c := range s.Children(st) {
			walk(c)
		}
	}
	walk(s.Root())

	eq := scheme.EqualFunc(s)
	var first, second scheme.State
	for _, l := range leaves {
		switch {
		case slices.Equal(knapsack.Selected(l), []int{0}):
			first = l
		case slices.Equal(knapsack.Selected(l), []int{1}):
			second = l
		}
	}
	require.NotNil(t, first)
	require.NotNil(t, second)
	require.Equal(t, s.Cost(first), s.Cost(second))
	require.False(t, eq(first, second), "same weight and value, different items")
	require.True(t, eq(first, first))
	require.False(t, eq(first, "other"))
}

func TestFormat(t *testing.T) {
	s, err := knapsack.New(knapsack.Instance{Capacity: 5, Items: []knapsack.Item{{Weight: 2, Value: 3}}})
	require.NoError(t, err)
	var took scheme.State
	for c := range s.Children(s.Root()) {
		took = c
		break
	}
	require.Equal(t, "value=3 weight=2 items=[0]", s.Format(took))
}
