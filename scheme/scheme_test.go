package scheme_test

import (
	"iter"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/treesearch/scheme"
)

// line is a two-level scheme over int states.
type line struct{}

func (line) Root() scheme.State { return 0 }
func (line) Children(scheme.State) iter.Seq[scheme.State] {
	return func(yield func(scheme.State) bool) { yield(1) }
}
func (line) Bound(scheme.State) scheme.Cost  { return 0 }
func (line) Guide(scheme.State) float64      { return 0 }
func (line) Leaf(s scheme.State) bool        { return s.(int) == 1 }
func (line) Cost(s scheme.State) scheme.Cost { return float64(s.(int)) }

// pair carries a dominance relation keyed by the first field.
type pair struct{ line }

type twoInts struct{ k, v int }

func (pair) DominanceKey(s scheme.State) (uint64, bool) { return uint64(s.(twoInts).k), true }
func (pair) Dominates(a, b scheme.State) bool          { return a.(twoInts).v <= b.(twoInts).v }

func TestEqualFunc_Comparable(t *testing.T) {
	eq := scheme.EqualFunc(line{})
	require.True(t, eq(1, 1))
	require.False(t, eq(1, 2))
	require.False(t, eq(1, "1"), "different dynamic types")
	require.False(t, eq([]int{1}, []int{1}), "slices are not comparable")
}

func TestEqualFunc_MutualDominance(t *testing.T) {
	eq := scheme.EqualFunc(pair{})
	require.True(t, eq(twoInts{1, 5}, twoInts{1, 5}))
	require.False(t, eq(twoInts{1, 5}, twoInts{1, 6}), "one-way dominance only")
	require.False(t, eq(twoInts{1, 5}, twoInts{2, 5}), "different keys")
}

func TestPrunable(t *testing.T) {
	require.True(t, scheme.Prunable(3, 3))
	require.False(t, scheme.Prunable(2, 3))
	require.False(t, scheme.Prunable(0, scheme.Infinity))
}
