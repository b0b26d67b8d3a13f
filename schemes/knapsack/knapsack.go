// Package knapsack is a 0/1 knapsack branching scheme with optional
// pairwise conflicts.
//
// Items are decided in index order; each node takes or skips the next item.
// The objective is maximised, so Cost returns the negated total value.
//
// Bound:
//
//	-(value + min(remaining value, free capacity * best remaining density))
//
// is admissible: no completion can add more value than all remaining items,
// nor more than the free capacity filled at the best density left.
//
// Dominance (only without conflicts): at the same depth, a state dominates
// another when it uses no more weight and carries at least as much value.
package knapsack

import (
	"errors"
	"fmt"
	"iter"
	"math"
	"math/rand"
	"slices"
	"strings"

	"github.com/katalvlaran/treesearch/scheme"
)

// Sentinel errors.
var (
	// ErrNegativeCapacity indicates Capacity < 0.
	ErrNegativeCapacity = errors.New("knapsack: capacity must be non-negative")

	// ErrBadItem indicates an item with non-positive weight or negative value.
	ErrBadItem = errors.New("knapsack: items need weight > 0 and value >= 0")

	// ErrBadConflict indicates a conflict pair referencing a missing item or itself.
	ErrBadConflict = errors.New("knapsack: conflict references an invalid item")
)

// Item is one candidate object.
type Item struct {
	Weight int `json:"weight" yaml:"weight"`
	Value  int `json:"value" yaml:"value"`
}

// Instance is a knapsack problem.
type Instance struct {
	Capacity int    `json:"capacity" yaml:"capacity"`
	Items    []Item `json:"items" yaml:"items"`
	// Conflicts lists pairs of items that cannot be packed together.
	Conflicts [][2]int `json:"conflicts,omitempty" yaml:"conflicts,omitempty"`
}

// State is a partial packing. States are immutable.
type State struct {
	Next   int    // index of the next item to decide
	Weight int    // packed weight
	Value  int    // packed value
	Took   bool   // decision that produced this state
	taken  []bool // shared with the parent unless Took
}

// Scheme implements scheme.Scheme, scheme.Dominance, scheme.Equality and
// scheme.Formatter.
type Scheme struct {
	inst       Instance
	density    []float64 // density[i] = max value/weight over items i..n-1
	restValue  []int     // restValue[i] = total value of items i..n-1
	conflicts  [][]int   // adjacency list
	dominating bool
}

// New validates inst and builds the scheme.
func New(inst Instance) (*Scheme, error) {
	if inst.Capacity < 0 {
		return nil, ErrNegativeCapacity
	}
	n := len(inst.Items)
	for i, it := range inst.Items {
		if it.Weight <= 0 || it.Value < 0 {
			return nil, fmt.Errorf("%w: item %d", ErrBadItem, i)
		}
	}
	adj := make([][]int, n)
	for _, c := range inst.Conflicts {
		if c[0] < 0 || c[1] < 0 || c[0] >= n || c[1] >= n || c[0] == c[1] {
			return nil, fmt.Errorf("%w: %v", ErrBadConflict, c)
		}
		adj[c[0]] = append(adj[c[0]], c[1])
		adj[c[1]] = append(adj[c[1]], c[0])
	}

	s := &Scheme{
		inst:       inst,
		density:    make([]float64, n+1),
		restValue:  make([]int, n+1),
		conflicts:  adj,
		dominating: len(inst.Conflicts) == 0,
	}
	var i int
	for i = n - 1; i >= 0; i-- {
		d := float64(inst.Items[i].Value) / float64(inst.Items[i].Weight)
		s.density[i] = math.Max(d, s.density[i+1])
		s.restValue[i] = s.restValue[i+1] + inst.Items[i].Value
	}

	return s, nil
}

// Instance returns the underlying instance.
func (s *Scheme) Instance() Instance { return s.inst }

// Root implements scheme.Scheme.
func (s *Scheme) Root() scheme.State {
	return State{taken: make([]bool, len(s.inst.Items))}
}

// Children implements scheme.Scheme: take the next item when it fits, then skip it.
func (s *Scheme) Children(st scheme.State) iter.Seq[scheme.State] {
	cur := st.(State)

	return func(yield func(scheme.State) bool) {
		if cur.Next >= len(s.inst.Items) {
			return
		}
		it := s.inst.Items[cur.Next]
		if cur.Weight+it.Weight <= s.inst.Capacity && !s.clashes(cur, cur.Next) {
			taken := append([]bool(nil), cur.taken...)
			taken[cur.Next] = true
			take := State{
				Next:   cur.Next + 1,
				Weight: cur.Weight + it.Weight,
				Value:  cur.Value + it.Value,
				Took:   true,
				taken:  taken,
			}
			if !yield(take) {
				return
			}
		}
		yield(State{Next: cur.Next + 1, Weight: cur.Weight, Value: cur.Value, taken: cur.taken})
	}
}

func (s *Scheme) clashes(st State, item int) bool {
	for _, other := range s.conflicts[item] {
		if st.taken[other] {
			return true
		}
	}

	return false
}

// Bound implements scheme.Scheme.
func (s *Scheme) Bound(st scheme.State) scheme.Cost {
	cur := st.(State)
	free := float64(s.inst.Capacity - cur.Weight)
	extra := math.Min(float64(s.restValue[cur.Next]), free*s.density[cur.Next])

	return -(float64(cur.Value) + extra)
}

// Guide implements scheme.Scheme; the most promising bound is explored first.
func (s *Scheme) Guide(st scheme.State) float64 { return s.Bound(st) }

// Leaf implements scheme.Scheme.
func (s *Scheme) Leaf(st scheme.State) bool {
	return st.(State).Next >= len(s.inst.Items)
}

// Cost implements scheme.Scheme.
func (s *Scheme) Cost(st scheme.State) scheme.Cost {
	return -float64(st.(State).Value)
}

// DominanceKey implements scheme.Dominance. States are compared per depth,
// and not at all when conflicts make the packed set matter.
func (s *Scheme) DominanceKey(st scheme.State) (uint64, bool) {
	if !s.dominating {
		return 0, false
	}

	return uint64(st.(State).Next), true
}

// Dominates implements scheme.Dominance.
func (s *Scheme) Dominates(a, b scheme.State) bool {
	x, y := a.(State), b.(State)

	return x.Next == y.Next && x.Weight <= y.Weight && x.Value >= y.Value
}

// Equal implements scheme.Equality: same decisions taken so far.
func (s *Scheme) Equal(a, b scheme.State) bool {
	x, y := a.(State), b.(State)
	if x.Next != y.Next || x.Weight != y.Weight || x.Value != y.Value {
		return false
	}

	return slices.Equal(Selected(x), Selected(y))
}

// Format implements scheme.Formatter.
func (s *Scheme) Format(st scheme.State) string {
	cur := st.(State)
	items := Selected(cur)
	parts := make([]string, len(items))
	for i, it := range items {
		parts[i] = fmt.Sprint(it)
	}

	return fmt.Sprintf("value=%d weight=%d items=[%s]", cur.Value, cur.Weight, strings.Join(parts, " "))
}

// Selected returns the indices of the items packed in st, ascending.
func Selected(st scheme.State) []int {
	cur := st.(State)
	out := make([]int, 0, len(cur.taken))
	for i, t := range cur.taken {
		if t {
			out = append(out, i)
		}
	}

	return out
}

// Random returns a reproducible instance of n items with weights in
// [1, maxWeight] and values in [1, maxValue]; the capacity is half the
// total weight. seed == 0 selects a fixed default seed.
func Random(n, maxWeight, maxValue int, seed int64) Instance {
	if seed == 0 {
		seed = 1
	}
	rng := rand.New(rand.NewSource(seed))
	inst := Instance{Items: make([]Item, n)}
	total := 0
	for i := range inst.Items {
		inst.Items[i] = Item{Weight: 1 + rng.Intn(maxWeight), Value: 1 + rng.Intn(maxValue)}
		total += inst.Items[i].Weight
	}
	inst.Capacity = total / 2

	return inst
}
