package search

import (
	"github.com/katalvlaran/treesearch/node"
	"github.com/katalvlaran/treesearch/scheme"
)

// greedy performs one descent without backtracking. Leaf children met on
// the way are offered to the incumbent. The run is complete only when the
// root's children were all leaves (or there were none), since nothing else
// was left unexplored.
func (r *runner) greedy() {
	a := node.NewArena(64)
	root := r.s.Root()
	r.stats.Generated++
	if r.s.Leaf(root) {
		r.offerLeaf(a, node.None, child{state: root, leaf: true, cost: r.s.Cost(root)})
		r.complete = true

		return
	}

	cur := a.New(node.None, root, r.s.Bound(root), r.s.Guide(root))
	for depth := 0; ; depth++ {
		if r.halted(false) {
			return
		}
		n := a.MustGet(cur)
		b := r.expand([]scheme.State{n.State}, false)[0]
		r.stats.Expanded++
		r.stats.Generated += b.generated

		best := -1
		for i := range b.kids {
			if b.kids[i].leaf {
				r.offerLeaf(a, cur, b.kids[i])

				continue
			}
			if best < 0 || r.greedyBefore(&b.kids[i], &b.kids[best]) {
				best = i
			}
		}
		if best < 0 {
			r.complete = depth == 0
			r.observe(0, nil, a)

			return
		}

		c := b.kids[best]
		next := a.New(cur, c.state, c.bound, c.guide)
		a.Release(cur)
		cur = next
		r.observe(1, nil, a)
	}
}

// greedyBefore ranks x before y; on full ties the earlier child wins.
func (r *runner) greedyBefore(x, y *child) bool {
	if r.opts.GreedyRank == RankBound {
		if x.bound != y.bound {
			return x.bound < y.bound
		}

		return x.guide < y.guide
	}
	if x.guide != y.guide {
		return x.guide < y.guide
	}

	return x.bound < y.bound
}
