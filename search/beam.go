package search

import (
	"log/slog"

	"go.opentelemetry.io/otel/trace"

	"github.com/katalvlaran/treesearch/frontier"
	"github.com/katalvlaran/treesearch/node"
	"github.com/katalvlaran/treesearch/scheme"
)

// beamPass explores the tree level by level, keeping at most width nodes
// per level. Dominance is checked among the nodes of the same level only.
// It reports whether the pass ran to the last level.
func (r *runner) beamPass(width int) bool {
	hint := 2*width + 1
	if hint > arenaHint {
		hint = arenaHint
	}
	a := node.NewArena(hint)
	cur := frontier.NewBeam(width, r.opts.TieBreak)
	hist := r.newHistory(true)
	r.discarded = false
	r.passMax = 0

	if !r.seed(a, cur, hist) {
		r.stats.Remaining = 0

		return true
	}
	r.observe(cur.Len(), hist, a)

	limit := r.opts.Threads * r.opts.BatchSize
	batch := make([]node.Node, 0, limit)
	states := make([]scheme.State, 0, limit)
	for cur.Len() > 0 {
		next := frontier.NewBeam(width, r.opts.TieBreak)
		nextHist := r.newHistory(true)
		for cur.Len() > 0 {
			if r.halted(false) {
				r.stats.Remaining = cur.Len() + next.Len()

				return false
			}
			batch = r.popBatch(a, cur, batch[:0], r.batchLimit())
			if len(batch) == 0 {
				continue
			}
			states = states[:0]
			for i := range batch {
				states = append(states, batch[i].State)
			}
			r.merge(a, next, nextHist, batch, r.expand(states, true), nil)
		}
		r.dropHistory(a, hist)
		cur, hist = next, nextHist
	}
	r.stats.Remaining = 0

	return true
}

// iterate drives restarts of pass with a growing width:
// next = max(w+1, floor(w*GrowthFactor)). It stops on a budget, after a
// pass that discarded nothing (the incumbent is then optimal), or when the
// next width would exceed MaxWidth.
func (r *runner) iterate(pass func(width int) bool) {
	width := r.opts.MinWidth
	for n := 1; ; n++ {
		if r.halted(true) {
			return
		}
		started := r.now()
		expanded := r.stats.Expanded

		parent := r.ctx
		passCtx, span := startPassSpan(parent, n, width)
		r.ctx = passCtx
		done := pass(width)
		r.ctx = parent

		ps := PassStats{
			Width:       width,
			Expanded:    r.stats.Expanded - expanded,
			MaxFrontier: r.passMax,
			Exhaustive:  done && !r.discarded,
			Elapsed:     r.now().Sub(started),
		}
		r.recordPass(n, span, ps)

		if !done {
			return
		}
		if ps.Exhaustive {
			r.complete = true

			return
		}
		next := nextWidth(width, r.opts.GrowthFactor)
		if next > r.opts.MaxWidth {
			r.reason = ReasonWidthLimit

			return
		}
		width = next
	}
}

// recordPass ends the pass span and files ps in the run statistics.
func (r *runner) recordPass(n int, span trace.Span, ps PassStats) {
	endPassSpan(span, ps)
	r.stats.Passes = append(r.stats.Passes, ps)
	r.metrics.pass(r.algo)
	if r.opts.Verbosity < verbosityPasses {
		return
	}
	attrs := []slog.Attr{
		slog.Int("pass", n),
		slog.Int("width", ps.Width),
		slog.Int64("expanded", ps.Expanded),
		slog.Int("max_frontier", ps.MaxFrontier),
		slog.Bool("exhaustive", ps.Exhaustive),
	}
	if r.tracker.Found() {
		attrs = append(attrs, slog.Float64("cost", r.tracker.Cost()))
	}
	r.logAt(verbosityPasses, slog.LevelInfo, "pass finished", attrs...)
}
