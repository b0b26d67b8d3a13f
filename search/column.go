package search

import (
	"github.com/katalvlaran/treesearch/frontier"
	"github.com/katalvlaran/treesearch/history"
	"github.com/katalvlaran/treesearch/node"
	"github.com/katalvlaran/treesearch/scheme"
)

// anytimeColumn runs anytime column search. Every depth keeps its own
// best-first queue and history. An iteration sweeps the depths top-down and
// expands at most column nodes per depth; unexpanded nodes stay queued for
// the next iteration, whose column is nextWidth(column) capped at MaxWidth.
// Nothing is ever discarded, so an empty set of queues proves the
// incumbent optimal. It reports whether every queue emptied.
func (r *runner) anytimeColumn() bool {
	a := node.NewArena(arenaHint)
	cols := []frontier.Frontier{frontier.NewHeap(r.opts.TieBreak)}
	hists := []*history.Table{r.newHistory(false)}
	r.discarded = false
	r.passMax = 0

	if !r.seed(a, cols[0], hists[0]) {
		r.stats.Remaining = 0

		return true
	}
	r.observe(queued(cols), hists[0], a)

	limit := r.opts.Threads * r.opts.BatchSize
	batch := make([]node.Node, 0, limit)
	states := make([]scheme.State, 0, limit)
	column := r.opts.MinWidth
	for n := 1; ; n++ {
		if queued(cols) == 0 {
			r.stats.Remaining = 0

			return true
		}
		if r.halted(true) {
			r.stats.Remaining = queued(cols)

			return false
		}
		started := r.now()
		expanded := r.stats.Expanded
		r.passMax = 0
		_, span := startPassSpan(r.ctx, n, column)

		stopped := false
	depths:
		for d := 0; d < len(cols); d++ {
			if cols[d].Len() == 0 {
				continue
			}
			if d+1 == len(cols) {
				cols = append(cols, frontier.NewHeap(r.opts.TieBreak))
				hists = append(hists, r.newHistory(false))
			}
			for taken := 0; taken < column && cols[d].Len() > 0; {
				if r.halted(false) {
					stopped = true

					break depths
				}
				batch = r.popBatch(a, cols[d], batch[:0], min(r.batchLimit(), column-taken))
				if len(batch) == 0 {
					continue
				}
				taken += len(batch)
				states = states[:0]
				for i := range batch {
					states = append(states, batch[i].State)
				}
				r.merge(a, cols[d+1], hists[d+1], batch, r.expand(states, true), nil)
			}
			r.observe(queued(cols), hists[d+1], a)
		}

		left := queued(cols)
		r.recordPass(n, span, PassStats{
			Width:       column,
			Expanded:    r.stats.Expanded - expanded,
			MaxFrontier: r.passMax,
			Exhaustive:  !stopped && left == 0,
			Elapsed:     r.now().Sub(started),
		})
		if stopped {
			r.stats.Remaining = left

			return false
		}
		column = min(nextWidth(column, r.opts.GrowthFactor), r.opts.MaxWidth)
	}
}

// queued returns the number of nodes waiting in cols.
func queued(cols []frontier.Frontier) int {
	total := 0
	for _, c := range cols {
		total += c.Len()
	}

	return total
}
