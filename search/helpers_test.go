package search_test

import (
	"iter"
	"math"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/treesearch/scheme"
	"github.com/katalvlaran/treesearch/schemes/knapsack"
	"github.com/katalvlaran/treesearch/schemes/sequencing"
)

// bruteForce enumerates every leaf reachable from the root.
func bruteForce(s scheme.Scheme) (best scheme.Cost, found bool) {
	best = math.Inf(1)
	var walk func(st scheme.State)
	walk = func(st scheme.State) {
		if s.Leaf(st) {
			found = true
			best = math.Min(best, s.Cost(st))

			return
		}
		for c := range s.Children(st) {
			walk(c)
		}
	}
	walk(s.Root())

	return best, found
}

// scenarioKnapsack is the 4-item instance whose optimum packs items 0 and 1
// for a value of 7.
func scenarioKnapsack(t testing.TB) *knapsack.Scheme {
	t.Helper()
	s, err := knapsack.New(knapsack.Instance{
		Capacity: 5,
		Items: []knapsack.Item{
			{Weight: 2, Value: 3},
			{Weight: 3, Value: 4},
			{Weight: 4, Value: 5},
			{Weight: 5, Value: 6},
		},
	})
	require.NoError(t, err)

	return s
}

func randomKnapsack(t testing.TB, n int, seed int64) *knapsack.Scheme {
	t.Helper()
	s, err := knapsack.New(knapsack.Random(n, 20, 30, seed))
	require.NoError(t, err)

	return s
}

func randomSequencing(t testing.TB, n int, closed bool, seed int64, opts ...sequencing.Option) *sequencing.Scheme {
	t.Helper()
	s, err := sequencing.New(sequencing.Random(n, 1, 100, closed, seed), opts...)
	require.NoError(t, err)

	return s
}

// deadEnd has a root with no children and no leaf anywhere.
type deadEnd struct{}

func (deadEnd) Root() scheme.State { return 0 }
func (deadEnd) Children(scheme.State) iter.Seq[scheme.State] { return func(func(scheme.State) bool) {} }
func (deadEnd) Bound(scheme.State) scheme.Cost { return 0 }
func (deadEnd) Guide(scheme.State) float64 { return 0 }
func (deadEnd) Leaf(scheme.State) bool { return false }
func (deadEnd) Cost(scheme.State) scheme.Cost { return 0 }

// tickClock advances by step on every call.
func tickClock(step time.Duration) func() time.Time {
	cur := time.Unix(0, 0)

	return func() time.Time {
		cur = cur.Add(step)

		return cur
	}
}

// frozenClock stays at the epoch for the first calls reads, then jumps an
// hour ahead.
func frozenClock(calls int) func() time.Time {
	epoch := time.Unix(0, 0)
	n := 0

	return func() time.Time {
		n++
		if n <= calls {
			return epoch
		}

		return epoch.Add(time.Hour)
	}
}

// slowScheme charges step of fake time to every expansion.
type slowScheme struct {
	scheme.Scheme
	now  time.Time
	step time.Duration
}

func (s *slowScheme) Children(st scheme.State) iter.Seq[scheme.State] {
	s.now = s.now.Add(s.step)

	return s.Scheme.Children(st)
}

func (s *slowScheme) clock() time.Time { return s.now }

// counterSum adds every sample of the named metric family.
func counterSum(t *testing.T, reg *prometheus.Registry, name string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	total := 0.0
	for _, f := range families {
		if f.GetName() != name {
			continue
		}
		for _, m := range f.GetMetric() {
			total += m.GetCounter().GetValue()
		}
	}

	return total
}
