package search

import (
	"context"
	"log/slog"

	"github.com/katalvlaran/treesearch/scheme"
)

// Solve runs the algorithm selected by WithAlgorithm (AlgoBestFirst by default)
// on the branching scheme s.
//
// Returns:
//
//   - res: the incumbent (Cost, Leaf, Path), the solution pool, the
//     improvement events, the stop Reason and the run Stats.
//     res.Status() is Optimal, Feasible, Infeasible or Unknown.
//   - err: non-nil only for an invalid configuration; exhaustion, budgets
//     and infeasibility are Result states.
//
// Preconditions and validation (in order):
//  1. s must be non-nil (ErrNilScheme).
//  2. Options.Validate must pass (ErrUnknownAlgorithm, ErrBadWidths,
//     ErrBadGrowth, ErrBadThreads, ErrNegativeLimit, ErrBadPoolSize).
//
// A nil ctx is treated as context.Background(); cancellation stops the run
// with ReasonCanceled at the next frontier extraction.
//
// Complexity:
//
//   - Time:  O(N * (b + log F)) for N expansions of branching factor b and
//     a frontier of F nodes, plus the scheme's own cost per child.
//   - Space: O(F + H + D) for the frontier, the history table and the
//     ancestors D kept alive for path reconstruction.
//
// Example:
//
//	res, err := search.Solve(ctx, s,
//		search.WithAlgorithm(search.AlgoIterativeBeamSearch),
//		search.WithTimeLimit(10*time.Second),
//	)
func Solve(ctx context.Context, s scheme.Scheme, opts ...Option) (Result, error) {
	return run(ctx, s, buildOptions(opts))
}

// Greedy descends once from the root, following the child with the best
// guide (or bound, see WithGreedyRank) until a leaf or a dead end.
func Greedy(ctx context.Context, s scheme.Scheme, opts ...Option) (Result, error) {
	return runAs(ctx, s, AlgoGreedy, opts)
}

// BestFirst runs best-first branch-and-bound. With no budget and no memory
// fallback it returns a proven optimum, or proves infeasibility.
//
// Returns:
//
//   - res: Reason is ReasonExhausted when the frontier emptied; res.Optimal
//     then holds whenever a leaf was found. A budget stop leaves the best
//     known solution with Status Feasible.
//   - err: as for Solve.
//
// Preconditions and validation (in order):
//  1. s must be non-nil (ErrNilScheme).
//  2. Options.Validate must pass.
//
// Options customization:
//
//   - WithMaxFrontier(n): an oversized frontier becomes a beam of n nodes
//     (Degraded, optimality no longer certified).
//   - WithMaxHistory(n): an oversized history switches to LRU eviction
//     (Degraded, optimality kept).
//   - WithThreads(t), WithBatchSize(k): expand t*k nodes per iteration.
//
// Complexity:
//
//   - Time:  O(N * (b + log F)) for N expansions.
//   - Space: O(F + H), unbounded unless MaxFrontier is set.
func BestFirst(ctx context.Context, s scheme.Scheme, opts ...Option) (Result, error) {
	return runAs(ctx, s, AlgoBestFirst, opts)
}

// DepthFirst runs depth-first branch-and-bound. Memory stays proportional to
// depth times branching factor; children are tried in guide order.
func DepthFirst(ctx context.Context, s scheme.Scheme, opts ...Option) (Result, error) {
	return runAs(ctx, s, AlgoDepthFirst, opts)
}

// IterativeBeamSearch runs level-by-level beam passes of width MinWidth,
// growing the width after each pass until MaxWidth, a budget, or a pass
// that discarded nothing (which proves the incumbent optimal).
//
// Returns:
//
//   - res: one PassStats per pass in res.Stats.Passes. Reason is
//     ReasonExhausted after an exhaustive pass, ReasonWidthLimit when the
//     next width would exceed MaxWidth, or the budget that stopped the run.
//   - err: as for Solve.
//
// Preconditions and validation (in order):
//  1. s must be non-nil (ErrNilScheme).
//  2. 1 <= MinWidth <= MaxWidth (ErrBadWidths).
//  3. GrowthFactor >= 1 (ErrBadGrowth).
//  4. The remaining Options.Validate checks.
//
// Options customization:
//
//   - WithWidths(min, max): first and largest beam width.
//   - WithGrowthFactor(g): next width = max(w+1, floor(w*g)).
//   - WithMaxHistory(n): per-level dominance table capacity (LRU).
//
// Complexity:
//
//   - Time:  O(sum over passes of d * w * (b + log w)) for depth d.
//   - Space: O(w * b) per pass; passes do not share nodes.
func IterativeBeamSearch(ctx context.Context, s scheme.Scheme, opts ...Option) (Result, error) {
	return runAs(ctx, s, AlgoIterativeBeamSearch, opts)
}

// IterativeMemoryBoundedBestFirst runs best-first passes whose frontier is
// capped at the current width, growing the width like IterativeBeamSearch.
func IterativeMemoryBoundedBestFirst(ctx context.Context, s scheme.Scheme, opts ...Option) (Result, error) {
	return runAs(ctx, s, AlgoIterativeMemoryBoundedBestFirst, opts)
}

// AnytimeColumnSearch runs anytime column search: per-depth best-first
// queues, each allowed a column of MinWidth expansions in the first
// iteration and nextWidth(column) (at most MaxWidth) in the next ones.
// Emptying every queue proves the incumbent optimal.
func AnytimeColumnSearch(ctx context.Context, s scheme.Scheme, opts ...Option) (Result, error) {
	return runAs(ctx, s, AlgoAnytimeColumnSearch, opts)
}

// NestedSearch runs nested best-first / breadth-first search: the best node
// of a global frontier roots a bounded breadth-first sweep whose children
// feed both the sweep and the global frontier.
func NestedSearch(ctx context.Context, s scheme.Scheme, opts ...Option) (Result, error) {
	return runAs(ctx, s, AlgoNestedSearch, opts)
}

func runAs(ctx context.Context, s scheme.Scheme, algo Algorithm, opts []Option) (Result, error) {
	cfg := buildOptions(opts)
	cfg.Algorithm = algo

	return run(ctx, s, cfg)
}

func run(ctx context.Context, s scheme.Scheme, opts Options) (Result, error) {
	r, err := newRunner(ctx, s, opts)
	if err != nil {
		return Result{}, err
	}
	r.ctx, r.span = startRunSpan(r.ctx, r)
	r.logAt(verbositySummary, slog.LevelInfo, "search started",
		slog.Duration("time_limit", opts.TimeLimit),
		slog.Int64("node_limit", opts.NodeLimit),
		slog.Int("threads", opts.Threads),
		slog.Bool("dominance", r.dom != nil),
	)

	if opts.Bootstrap && opts.Algorithm != AlgoGreedy {
		r.tracker.SetAlgorithm(AlgoGreedy.String())
		r.greedy()
		r.tracker.SetAlgorithm(r.algo)
		r.complete = false
	}

	switch opts.Algorithm {
	case AlgoGreedy:
		r.greedy()
	case AlgoBestFirst:
		r.complete = r.bestFirstPass(0) && !r.discarded
	case AlgoDepthFirst:
		r.complete = r.depthFirst()
	case AlgoIterativeBeamSearch:
		r.iterate(r.beamPass)
	case AlgoIterativeMemoryBoundedBestFirst:
		r.iterate(r.bestFirstPass)
	case AlgoAnytimeColumnSearch:
		r.complete = r.anytimeColumn()
	case AlgoNestedSearch:
		r.complete = r.nested() && !r.discarded
	}

	return r.finish(), nil
}
