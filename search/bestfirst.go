package search

import (
	"log/slog"

	"github.com/katalvlaran/treesearch/frontier"
	"github.com/katalvlaran/treesearch/history"
	"github.com/katalvlaran/treesearch/node"
	"github.com/katalvlaran/treesearch/scheme"
)

// bestFirstPass explores the tree best-first. width == 0 selects an
// unbounded heap guarded by the MaxFrontier/MaxHistory fallback; width > 0
// caps the frontier at width nodes. It reports whether the frontier emptied.
//
// Loop:
//  1. Check the budget.
//  2. Pop up to Threads*BatchSize nodes, pruning those whose bound cannot
//     beat the incumbent.
//  3. Expand the batch (in parallel when Threads > 1).
//  4. Merge: offer leaves, prune by bound, filter by dominance, insert.
//  5. Apply the memory fallback.
func (r *runner) bestFirstPass(width int) bool {
	a := node.NewArena(arenaHint)
	var front frontier.Frontier
	if width > 0 {
		front = frontier.NewBeam(width, r.opts.TieBreak)
	} else {
		front = frontier.NewHeap(r.opts.TieBreak)
	}
	hist := r.newHistory(width > 0)
	r.discarded = false
	r.passMax = 0

	if !r.seed(a, front, hist) {
		r.stats.Remaining = 0

		return true
	}
	r.observe(front.Len(), hist, a)

	limit := r.opts.Threads * r.opts.BatchSize
	batch := make([]node.Node, 0, limit)
	states := make([]scheme.State, 0, limit)
	for front.Len() > 0 {
		if r.halted(false) {
			break
		}
		batch = r.popBatch(a, front, batch[:0], r.batchLimit())
		if len(batch) == 0 {
			continue
		}
		states = states[:0]
		for i := range batch {
			states = append(states, batch[i].State)
		}
		r.merge(a, front, hist, batch, r.expand(states, true), nil)
		if width == 0 {
			front = r.enforceMemory(a, front, hist)
		}
	}
	r.stats.Remaining = front.Len()

	return front.Len() == 0
}

// enforceMemory applies the resource-exhaustion fallback of the unbounded
// best-first pass. An oversized history switches to LRU eviction, which only
// loses pruning power. An oversized heap is replaced by a beam of
// MaxFrontier nodes; the worst nodes are dropped, so optimality is no longer
// certified.
func (r *runner) enforceMemory(a *node.Arena, front frontier.Frontier, hist *history.Table) frontier.Frontier {
	if hist != nil && r.opts.MaxHistory > 0 && hist.Capacity() == 0 && hist.Len() > r.opts.MaxHistory {
		r.releaseAll(a, hist.SetCapacity(r.opts.MaxHistory))
		r.degrade("history", r.opts.MaxHistory)
	}

	h, ok := front.(*frontier.Heap)
	if !ok || r.opts.MaxFrontier == 0 || h.Len() <= r.opts.MaxFrontier {
		return front
	}
	b := frontier.NewBeam(r.opts.MaxFrontier, r.opts.TieBreak)
	for {
		it, ok := h.PopBest()
		if !ok {
			break
		}
		if accepted, _ := b.Offer(it); accepted {
			continue
		}
		r.discard()
		if hist != nil && hist.Remove(it.ID, a.State(it.ID)) {
			a.Release(it.ID)
		}
		a.Release(it.ID)
	}
	r.degrade("frontier", r.opts.MaxFrontier)

	return b
}

func (r *runner) degrade(what string, limit int) {
	r.degraded = true
	r.logAt(verbositySummary, slog.LevelWarn, "memory bound reached, switching to bounded mode",
		slog.String("structure", what),
		slog.Int("limit", limit),
	)
}
