package search

import (
	"github.com/katalvlaran/treesearch/frontier"
	"github.com/katalvlaran/treesearch/history"
	"github.com/katalvlaran/treesearch/node"
	"github.com/katalvlaran/treesearch/scheme"
)

// sweepLimit caps the expansions of one breadth-first sweep.
const sweepLimit = 100_000

// nested runs nested best-first / breadth-first search. The best node of a
// global best-first frontier starts a breadth-first sweep; every child the
// sweep generates enters the global frontier (and its history) and, when
// accepted, the sweep's FIFO queue. Nodes expanded by a sweep leave the
// global frontier. A sweep ends when its queue empties or after sweepLimit
// expansions; its leftovers stay in the global frontier. The memory
// fallback of best-first search applies to the global frontier. It reports
// whether the frontier emptied.
func (r *runner) nested() bool {
	a := node.NewArena(arenaHint)
	var front frontier.Frontier = frontier.NewHeap(r.opts.TieBreak)
	hist := r.newHistory(false)
	r.discarded = false
	r.passMax = 0

	if !r.seed(a, front, hist) {
		r.stats.Remaining = 0

		return true
	}
	r.observe(front.Len(), hist, a)

	var top []node.Node
	for front.Len() > 0 {
		if r.halted(false) {
			break
		}
		top = r.popBatch(a, front, top[:0], 1)
		if len(top) == 0 {
			continue
		}
		front = r.sweep(a, front, hist, top[0])
	}
	r.stats.Remaining = front.Len()

	return front.Len() == 0
}

// sweep explores breadth-first from start, whose pin the caller hands over,
// and returns front, replaced by a beam if the memory fallback triggered.
// Queued nodes carry a pin of their own; a node that left front while
// queued (displaced, evicted) is dropped when its turn comes.
func (r *runner) sweep(a *node.Arena, front frontier.Frontier, hist *history.Table, start node.Node) frontier.Frontier {
	var queue []node.ID
	enqueue := func(id node.ID) {
		a.Retain(id)
		queue = append(queue, id)
	}

	limit := r.opts.Threads * r.opts.BatchSize
	batch := append(make([]node.Node, 0, limit), start)
	states := make([]scheme.State, 0, limit)
	expanded := 0
	for len(batch) > 0 {
		states = states[:0]
		for i := range batch {
			states = append(states, batch[i].State)
		}
		r.merge(a, front, hist, batch, r.expand(states, true), enqueue)
		front = r.enforceMemory(a, front, hist)
		expanded += len(batch)

		batch = batch[:0]
		for len(batch) == 0 && len(queue) > 0 && expanded < sweepLimit {
			if r.halted(false) {
				break
			}
			take := min(r.batchLimit(), sweepLimit-expanded)
			for len(batch) < take && len(queue) > 0 {
				id := queue[0]
				queue = queue[1:]
				if _, ok := front.Remove(id); !ok {
					a.Release(id)

					continue
				}
				// The frontier's pin goes; the queue's pin is the parent pin merge releases.
				a.Release(id)
				n := a.MustGet(id)
				if scheme.Prunable(n.Bound, r.tracker.Threshold()) {
					r.stats.Pruned++
					a.Release(id)

					continue
				}
				batch = append(batch, n)
			}
		}
	}
	r.releaseAll(a, queue)

	return front
}
