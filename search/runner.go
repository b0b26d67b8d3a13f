package search

import (
	"context"
	"log/slog"
	"math"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/treesearch/frontier"
	"github.com/katalvlaran/treesearch/history"
	"github.com/katalvlaran/treesearch/incumbent"
	"github.com/katalvlaran/treesearch/node"
	"github.com/katalvlaran/treesearch/scheme"
)

// flushEvery is the number of budget checks between two metric flushes.
const flushEvery = 64

// arenaHint caps the initial arena allocation of wide passes.
const arenaHint = 1 << 12

// runner holds the state shared by every algorithm of one run.
type runner struct {
	// Configuration
	ctx    context.Context
	s      scheme.Scheme
	dom    scheme.Dominance // nil when dominance is disabled or unsupported
	opts   Options
	algo   string
	logger *slog.Logger
	now    func() time.Time

	// Incumbent and reporting
	tracker  *incumbent.Tracker
	reporter *incumbent.Reporter

	// Budget
	start    time.Time
	deadline time.Time
	checks   int
	stopped  bool
	reason   Reason

	// Outcome flags of the current pass / run
	discarded bool // a node left a bounded frontier for lack of room
	complete  bool // the explored space was exhausted without discards
	degraded  bool // a memory bound switched the run to bounded behaviour

	// Counters
	stats    Stats
	flushed  Stats
	passMax  int
	frontLen int

	metrics *Metrics
	span    trace.Span
}

// child is a generated state with its cached scheme values.
type child struct {
	state scheme.State
	bound scheme.Cost
	guide float64
	cost  scheme.Cost
	leaf  bool
}

// brood is the expansion output of one parent.
type brood struct {
	kids      []child
	generated int64
	pruned    int64
}

func newRunner(ctx context.Context, s scheme.Scheme, opts Options) (*runner, error) {
	if s == nil {
		return nil, ErrNilScheme
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if ctx == nil {
		ctx = context.Background()
	}

	r := &runner{
		ctx:     ctx,
		s:       s,
		opts:    opts,
		algo:    opts.Algorithm.String(),
		logger:  opts.Logger,
		now:     opts.Clock,
		metrics: opts.Metrics,
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	if r.now == nil {
		r.now = time.Now
	}
	if opts.Dominance {
		if d, ok := scheme.AsDominance(s); ok {
			r.dom = d
		}
	}

	// 1) Reporting: user sink, plus one log record per improvement at verbosity >= 2.
	var sinks []incumbent.Sink
	if opts.Sink != nil {
		sinks = append(sinks, opts.Sink)
	}
	if opts.Verbosity >= verbosityImprove {
		sinks = append(sinks, incumbent.LogSink(r.logger))
	}
	if len(sinks) > 0 {
		r.reporter = incumbent.NewReporter(fanOut(sinks), opts.ReportInterval)
	}

	// 2) Incumbent, optionally warm-started.
	r.tracker = incumbent.NewTracker(
		incumbent.WithAlgorithm(r.algo),
		incumbent.WithPoolSize(opts.PoolSize),
		incumbent.WithEqual(scheme.EqualFunc(s)),
		incumbent.WithClock(r.now),
		incumbent.WithReporter(r.reporter),
	)
	r.start = r.now()
	if opts.TimeLimit > 0 {
		r.deadline = r.start.Add(opts.TimeLimit)
	}
	if opts.Initial != nil {
		warm := *opts.Initial
		r.tracker.Offer(incumbent.Candidate{
			Cost: warm.Cost,
			Leaf: warm.Leaf,
			Path: func() []scheme.State {
				if len(warm.Path) == 0 {
					return []scheme.State{warm.Leaf}
				}

				return append([]scheme.State(nil), warm.Path...)
			},
			Comment: "initial",
		})
	}

	return r, nil
}

func fanOut(sinks []incumbent.Sink) incumbent.Sink {
	if len(sinks) == 1 {
		return sinks[0]
	}

	return incumbent.SinkFunc(func(e incumbent.Event) {
		for _, s := range sinks {
			s.Improved(e)
		}
	})
}

// halted is the budget check performed before each frontier extraction.
// Metrics are flushed every flushEvery calls, or now when force is set.
func (r *runner) halted(force bool) bool {
	if r.stopped {
		return true
	}
	select {
	case <-r.ctx.Done():
		return r.stop(ReasonCanceled)
	default:
	}
	if !math.IsInf(r.opts.Goal, -1) && r.tracker.Reached(r.opts.Goal) {
		return r.stop(ReasonGoalReached)
	}
	if r.opts.NodeLimit > 0 && r.stats.Expanded >= r.opts.NodeLimit {
		return r.stop(ReasonNodeLimit)
	}

	r.checks++
	if force || r.checks%flushEvery == 0 {
		r.flushMetrics()
	}
	if r.opts.TimeLimit > 0 && !r.now().Before(r.deadline) {
		return r.stop(ReasonTimeLimit)
	}

	return false
}

func (r *runner) stop(reason Reason) bool {
	r.stopped = true
	r.reason = reason

	return true
}

// expand generates the children of every parent. With Threads > 1 the
// parents are dealt round-robin to errgroup workers; each worker only writes
// the slots of its own parents, so the merge order is the parent order.
func (r *runner) expand(parents []scheme.State, prune bool) []brood {
	out := make([]brood, len(parents))
	workers := r.opts.Threads
	if workers > len(parents) {
		workers = len(parents)
	}
	if workers <= 1 {
		for i := range parents {
			out[i] = r.expandOne(parents[i], prune)
		}

		return out
	}

	var g errgroup.Group
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			for i := w; i < len(parents); i += workers {
				out[i] = r.expandOne(parents[i], prune)
			}

			return nil
		})
	}
	_ = g.Wait() // workers never fail

	return out
}

// expandOne reads the scheme and the incumbent threshold only; it is safe to
// run concurrently. A stale threshold only misses a pruning opportunity.
func (r *runner) expandOne(st scheme.State, prune bool) brood {
	var b brood
	for c := range r.s.Children(st) {
		b.generated++
		if r.s.Leaf(c) {
			b.kids = append(b.kids, child{state: c, leaf: true, cost: r.s.Cost(c)})

			continue
		}
		bound := r.s.Bound(c)
		if prune && scheme.Prunable(bound, r.tracker.Threshold()) {
			b.pruned++

			continue
		}
		b.kids = append(b.kids, child{state: c, bound: bound, guide: r.s.Guide(c)})
	}

	return b
}

// offerLeaf hands a leaf under parent (node.None for a root leaf) to the tracker.
func (r *runner) offerLeaf(a *node.Arena, parent node.ID, c child) {
	if !r.tracker.Admits(c.cost) {
		return
	}
	display := ""
	if c.cost < r.tracker.Cost() {
		display = scheme.Format(r.s, c.state)
	}
	improved := r.tracker.Offer(incumbent.Candidate{
		Cost: c.cost,
		Leaf: c.state,
		Path: func() []scheme.State {
			if parent == node.None {
				return []scheme.State{c.state}
			}
			p, err := a.Path(parent)
			if err != nil {
				return []scheme.State{c.state}
			}

			return append(p, c.state)
		},
		Comment: "node " + strconv.FormatInt(r.stats.Expanded, 10),
		Display: display,
	})
	if improved {
		r.metrics.improved(r.algo, c.cost)
	}
}

// merge turns the broods of batch into arena nodes, offers leaves, and
// admits the surviving children into front. Each parent's pin is released
// once its children hold their own references. added, when set, is called
// with every child front accepted.
func (r *runner) merge(a *node.Arena, front frontier.Frontier, hist *history.Table, batch []node.Node, broods []brood, added func(node.ID)) {
	for i := range batch {
		p := batch[i]
		b := &broods[i]
		r.stats.Expanded++
		r.stats.Generated += b.generated
		r.stats.Pruned += b.pruned

		for _, c := range b.kids {
			if c.leaf {
				r.offerLeaf(a, p.ID, c)

				continue
			}
			// The threshold may have dropped since the worker looked.
			if scheme.Prunable(c.bound, r.tracker.Threshold()) {
				r.stats.Pruned++

				continue
			}
			id := a.New(p.ID, c.state, c.bound, c.guide)
			if r.admit(a, front, hist, id) && added != nil {
				added(id)
			}
		}
		a.Release(p.ID)
	}
	r.observe(front.Len(), hist, a)
}

// admit passes the creator pin of id to front, recording the state in hist
// first. Dominated states are dropped; states they displace leave the frontier.
// It reports whether id entered front.
func (r *runner) admit(a *node.Arena, front frontier.Frontier, hist *history.Table, id node.ID) bool {
	n := a.MustGet(id)
	recorded := false
	if hist != nil {
		out := hist.Insert(id, n.State)
		if !out.Accepted {
			r.stats.Dominated++
			a.Release(id)

			return false
		}
		recorded = out.Recorded
		if recorded {
			a.Retain(id)
		}
		for _, d := range out.Displaced {
			if _, ok := front.Remove(d); ok {
				a.Release(d)
			}
			a.Release(d)
			r.stats.Dominated++
		}
		r.releaseAll(a, out.Evicted)
	}

	accepted, evicted := front.Offer(frontier.ItemOf(n))
	if !accepted {
		r.discard()
		if recorded && hist.Remove(id, n.State) {
			a.Release(id)
		}
		a.Release(id)

		return false
	}
	r.stats.Added++
	if evicted != nil {
		r.discard()
		if hist != nil && hist.Remove(evicted.ID, a.State(evicted.ID)) {
			a.Release(evicted.ID)
		}
		a.Release(evicted.ID)
	}

	return true
}

// seed places the root into front, or offers it when the root is a leaf.
// It reports whether there is anything to explore.
func (r *runner) seed(a *node.Arena, front frontier.Frontier, hist *history.Table) bool {
	root := r.s.Root()
	r.stats.Generated++
	if r.s.Leaf(root) {
		r.offerLeaf(a, node.None, child{state: root, leaf: true, cost: r.s.Cost(root)})

		return false
	}
	id := a.New(node.None, root, r.s.Bound(root), r.s.Guide(root))
	r.admit(a, front, hist, id)

	return front.Len() > 0
}

// batchLimit is the number of nodes expanded per iteration: Threads*BatchSize,
// capped by what is left of the node budget.
func (r *runner) batchLimit() int {
	limit := r.opts.Threads * r.opts.BatchSize
	if r.opts.NodeLimit > 0 {
		if left := r.opts.NodeLimit - r.stats.Expanded; left < int64(limit) {
			limit = int(max(left, 0))
		}
	}

	return limit
}

// popBatch extracts up to limit expandable nodes. Extracted nodes whose
// bound cannot beat the incumbent are pruned on the spot.
func (r *runner) popBatch(a *node.Arena, front frontier.Frontier, batch []node.Node, limit int) []node.Node {
	for len(batch) < limit {
		it, ok := front.PopBest()
		if !ok {
			break
		}
		if scheme.Prunable(it.Bound, r.tracker.Threshold()) {
			r.stats.Pruned++
			a.Release(it.ID)

			continue
		}
		batch = append(batch, a.MustGet(it.ID))
	}

	return batch
}

// newHistory returns nil when dominance is off. Bounded passes apply
// MaxHistory as an LRU capacity from the start.
func (r *runner) newHistory(bounded bool) *history.Table {
	if r.dom == nil {
		return nil
	}
	if bounded {
		return history.New(r.dom, history.WithCapacity(r.opts.MaxHistory))
	}

	return history.New(r.dom)
}

// dropHistory releases the pins hist holds.
func (r *runner) dropHistory(a *node.Arena, hist *history.Table) {
	if hist == nil {
		return
	}
	r.releaseAll(a, hist.IDs())
	hist.Reset()
}

func (r *runner) releaseAll(a *node.Arena, ids []node.ID) {
	for _, id := range ids {
		a.Release(id)
	}
}

func (r *runner) discard() {
	r.discarded = true
	r.stats.Evicted++
}

func (r *runner) observe(frontierLen int, hist *history.Table, a *node.Arena) {
	r.frontLen = frontierLen
	if frontierLen > r.stats.MaxFrontier {
		r.stats.MaxFrontier = frontierLen
	}
	if frontierLen > r.passMax {
		r.passMax = frontierLen
	}
	if hist != nil && hist.Len() > r.stats.MaxHistory {
		r.stats.MaxHistory = hist.Len()
	}
	if a.Peak() > r.stats.PeakNodes {
		r.stats.PeakNodes = a.Peak()
	}
}

// flushMetrics pushes the counter deltas since the previous flush.
func (r *runner) flushMetrics() {
	if r.metrics == nil {
		return
	}
	d := Stats{
		Generated: r.stats.Generated - r.flushed.Generated,
		Expanded:  r.stats.Expanded - r.flushed.Expanded,
		Pruned:    r.stats.Pruned - r.flushed.Pruned,
		Dominated: r.stats.Dominated - r.flushed.Dominated,
		Evicted:   r.stats.Evicted - r.flushed.Evicted,
	}
	r.flushed = r.stats
	r.metrics.flush(r.algo, d, r.frontLen)
}

// finish assembles the Result and tears the run down.
func (r *runner) finish() Result {
	if r.reporter != nil {
		r.reporter.Close()
	}
	r.frontLen = r.stats.Remaining
	r.flushMetrics()

	best, found := r.tracker.Best()
	res := Result{
		RunID:     r.tracker.RunID(),
		Algorithm: r.opts.Algorithm,
		Reason:    r.reason,
		Found:     found,
		Complete:  r.complete && r.reason == ReasonExhausted,
		Degraded:  r.degraded,
		Cost:      r.tracker.Cost(),
		Pool:      r.tracker.Solutions(),
		Events:    r.tracker.Events(),
		Stats:     r.stats,
		Elapsed:   r.now().Sub(r.start),
	}
	if found {
		res.Leaf = best.Leaf
		res.Path = best.Path
		res.Optimal = res.Complete || r.reason == ReasonGoalReached
	}

	r.metrics.finished(r.algo, res.Reason, res.Elapsed.Seconds())
	attrs := []slog.Attr{
		slog.String("reason", res.Reason.String()),
		slog.String("status", res.Status().String()),
		slog.Int64("expanded", res.Stats.Expanded),
		slog.Int("passes", len(res.Stats.Passes)),
		slog.Bool("degraded", res.Degraded),
		slog.Duration("elapsed", res.Elapsed),
	}
	if found {
		attrs = append(attrs, slog.Float64("cost", res.Cost))
	}
	r.logAt(verbositySummary, slog.LevelInfo, "search finished", attrs...)
	if r.span != nil {
		endRunSpan(r.span, &res)
	}

	return res
}
