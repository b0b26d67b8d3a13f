// Package search implements the exploration algorithms of the engine on top
// of a scheme.Scheme: greedy descent, best-first and depth-first
// branch-and-bound, iterative beam search, iterative memory-bounded
// best-first search, anytime column search and nested best-first /
// breadth-first search.
//
// Overview:
//
//   - Every algorithm minimises scheme.Cost. A node is pruned as soon as its
//     bound cannot strictly beat the incumbent (bound >= best).
//   - Frontier order is guide, then bound, then insertion order (TieBreak).
//   - States are filtered through a history.Table when the scheme implements
//     scheme.Dominance and WithDominance(true) is set (the default).
//   - Nodes live in a node.Arena; the incumbent path is rebuilt from parent
//     IDs when a leaf improves the incumbent.
//
// Algorithms:
//
//   - AlgoGreedy: one descent, no backtracking. Cheap bootstrap.
//   - AlgoBestFirst: certifies optimality (or infeasibility) when the frontier
//     empties without a memory fallback having discarded nodes.
//   - AlgoDepthFirst: stack-based branch-and-bound, memory O(depth*branching).
//   - AlgoIterativeBeamSearch: level-by-level passes of width w, restarted with
//     next = max(w+1, floor(w*growth)) until MaxWidth. A pass that discarded
//     nothing for lack of room proves the incumbent optimal and ends the run.
//   - AlgoIterativeMemoryBoundedBestFirst: like IBS, but each pass is
//     best-first over a frontier capped at w nodes.
//   - AlgoAnytimeColumnSearch: one best-first queue per depth. Iteration i
//     expands up to a column of c_i nodes per depth, top-down; unexpanded
//     nodes wait for the next, wider iteration. Nothing is discarded, so
//     emptying every queue certifies the incumbent.
//   - AlgoNestedSearch: the best node of a global best-first frontier roots
//     a breadth-first sweep of at most 100 000 expansions. Swept children
//     also enter the global frontier, which certifies the incumbent once
//     empty.
//
// Budgets and termination:
//
//   - TimeLimit, NodeLimit, Goal and context cancellation are checked before
//     every frontier extraction and at the start of every restart. Batches
//     are cut to the remaining node budget.
//   - A stop is never an error: Result.Reason says why the run ended and
//     Result.Status() distinguishes optimal, feasible, infeasible and unknown.
//
// Resource exhaustion:
//
//	When the best-first (or nested) frontier grows beyond MaxFrontier it is replaced by a
//	bounded beam of that size, and when the history grows beyond MaxHistory it
//	switches to LRU eviction. Result.Degraded is set; Result.Optimal stays
//	true only if no frontier node was actually discarded.
//
// Concurrency:
//
//	With Threads > 1 each iteration pops Threads*BatchSize nodes and expands
//	them on errgroup workers. Workers only read the scheme and the atomic
//	incumbent threshold; their buffers are merged in parent order, so a run
//	is deterministic for a fixed configuration. The scheme must tolerate
//	concurrent read-only calls.
//
// Observability:
//
//   - log/slog records gated by WithVerbosity (1 summaries, 2 improvements,
//     3 passes).
//   - Prometheus collectors via NewMetrics(registerer) and WithMetrics.
//   - OpenTelemetry spans "search.Run" and "search.Pass" on the global
//     TracerProvider.
//   - Incumbent improvements delivered to an incumbent.Sink off the search
//     goroutine (WithSink, WithReportInterval).
//
// Error handling (sentinel errors):
//
//   - ErrNilScheme, ErrUnknownAlgorithm, ErrBadWidths, ErrBadGrowth,
//     ErrBadThreads, ErrNegativeLimit, ErrBadPoolSize.
//     Only invalid configurations return an error.
//
// Contract violations (an inadmissible bound, a leaf whose cost disagrees with
// its bound) are not detected; they degrade the result quality only.
package search
