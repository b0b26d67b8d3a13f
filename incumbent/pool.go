package incumbent

import (
	"sort"

	"github.com/katalvlaran/treesearch/scheme"
)

// Solution is a complete solution and the decisions that led to it.
type Solution struct {
	Cost scheme.Cost
	Leaf scheme.State
	// Path holds the states from the root to Leaf inclusive.
	Path []scheme.State
}

// Equal reports whether two leaves are the same solution.
type Equal func(a, b scheme.State) bool

// Pool keeps the Size cheapest distinct solutions, cheapest first.
type Pool struct {
	size  int
	equal Equal
	items []Solution
}

// NewPool returns a pool holding at most size solutions (at least one).
// Leaves equal under equal are stored once; a nil equal keeps every leaf.
func NewPool(size int, equal Equal) *Pool {
	if size < 1 {
		size = 1
	}

	return &Pool{size: size, equal: equal, items: make([]Solution, 0, size)}
}

// Size returns the capacity.
func (p *Pool) Size() int { return p.size }

// Len returns the number of stored solutions.
func (p *Pool) Len() int { return len(p.items) }

// Full reports whether Len() == Size().
func (p *Pool) Full() bool { return len(p.items) >= p.size }

// Admits reports whether a solution of the given cost would enter the pool.
func (p *Pool) Admits(cost scheme.Cost) bool {
	return !p.Full() || cost < p.items[len(p.items)-1].Cost
}

// Contains reports whether a stored solution of the given cost equals leaf.
// Equal leaves are expected to share their cost, so only that cost is scanned.
func (p *Pool) Contains(cost scheme.Cost, leaf scheme.State) bool {
	if p.equal == nil {
		return false
	}
	i := sort.Search(len(p.items), func(i int) bool { return p.items[i].Cost >= cost })
	for ; i < len(p.items) && p.items[i].Cost == cost; i++ {
		if p.equal(p.items[i].Leaf, leaf) {
			return true
		}
	}

	return false
}

// Add inserts s if it is admitted and not already stored. Equal costs keep
// insertion order.
func (p *Pool) Add(s Solution) bool {
	if !p.Admits(s.Cost) || p.Contains(s.Cost, s.Leaf) {
		return false
	}
	i := sort.Search(len(p.items), func(i int) bool { return p.items[i].Cost > s.Cost })
	p.items = append(p.items, Solution{})
	copy(p.items[i+1:], p.items[i:])
	p.items[i] = s
	if len(p.items) > p.size {
		p.items[len(p.items)-1] = Solution{}
		p.items = p.items[:p.size]
	}

	return true
}

// Best returns the cheapest solution.
func (p *Pool) Best() (Solution, bool) {
	if len(p.items) == 0 {
		return Solution{}, false
	}

	return p.items[0], true
}

// Worst returns the cost of the most expensive stored solution, or
// scheme.Infinity while the pool is not full.
func (p *Pool) Worst() scheme.Cost {
	if !p.Full() {
		return scheme.Infinity
	}

	return p.items[len(p.items)-1].Cost
}

// Solutions returns a copy of the stored solutions, cheapest first.
func (p *Pool) Solutions() []Solution {
	return append([]Solution(nil), p.items...)
}
