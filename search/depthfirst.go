package search

import (
	"slices"

	"github.com/katalvlaran/treesearch/frontier"
	"github.com/katalvlaran/treesearch/node"
	"github.com/katalvlaran/treesearch/scheme"
)

// depthFirst is depth-first branch-and-bound. Children are pushed worst
// first so the best-guided child is explored next. The history table is not
// used: depth-first order gives no guarantee that a dominating state is
// met before the states it dominates. It reports whether the stack emptied.
func (r *runner) depthFirst() bool {
	a := node.NewArena(arenaHint)
	var st frontier.Stack
	r.passMax = 0

	root := r.s.Root()
	r.stats.Generated++
	if r.s.Leaf(root) {
		r.offerLeaf(a, node.None, child{state: root, leaf: true, cost: r.s.Cost(root)})

		return true
	}
	rootID := a.New(node.None, root, r.s.Bound(root), r.s.Guide(root))
	st.Push(frontier.ItemOf(a.MustGet(rootID)))
	r.stats.Added++

	tb := r.opts.TieBreak
	for st.Len() > 0 {
		if r.halted(false) {
			break
		}
		it, _ := st.Pop()
		if scheme.Prunable(it.Bound, r.tracker.Threshold()) {
			r.stats.Pruned++
			a.Release(it.ID)

			continue
		}
		n := a.MustGet(it.ID)
		b := r.expand([]scheme.State{n.State}, true)[0]
		r.stats.Expanded++
		r.stats.Generated += b.generated
		r.stats.Pruned += b.pruned

		items := make([]frontier.Item, 0, len(b.kids))
		for _, c := range b.kids {
			if c.leaf {
				r.offerLeaf(a, n.ID, c)

				continue
			}
			if scheme.Prunable(c.bound, r.tracker.Threshold()) {
				r.stats.Pruned++

				continue
			}
			id := a.New(n.ID, c.state, c.bound, c.guide)
			items = append(items, frontier.ItemOf(a.MustGet(id)))
		}
		// Best item last, so it is popped first.
		slices.SortStableFunc(items, func(x, y frontier.Item) int {
			switch {
			case tb.Less(&y, &x):
				return -1
			case tb.Less(&x, &y):
				return 1
			default:
				return 0
			}
		})
		for i := range items {
			st.Push(items[i])
		}
		r.stats.Added += int64(len(items))
		a.Release(n.ID)
		r.observe(st.Len(), nil, a)
	}
	r.stats.Remaining = st.Len()

	return st.Len() == 0
}
