// Package treesearch is a toolkit of anytime tree search algorithms for
// combinatorial optimisation.
//
// A problem is described once, as a branching scheme (package scheme):
// how to build the root, how to branch, how to bound and guide, how to
// recognise and cost a leaf. The same scheme then runs under every
// algorithm in package search:
//
//	Greedy                           one descent, no backtracking
//	BestFirst                        branch-and-bound on the guide
//	DepthFirst                       guide-ordered DFS, low memory
//	IterativeBeamSearch              beam restarts with growing width
//	IterativeMemoryBoundedBestFirst  best-first restarts with a growing queue
//	AnytimeColumnSearch              per-depth queues, growing column per depth
//	NestedSearch                     breadth-first sweeps from the best node
//
// Every run is anytime: improvements are reported while the search goes
// on, and the Result tells whether the best cost is proven optimal.
//
// Layout:
//
//	scheme/    the branching scheme contract and optional capabilities
//	node/      arena of search nodes with parent links and pinning
//	frontier/  heap, beam and stack queues with deterministic tie-breaking
//	history/   dominance table keyed by the scheme's dominance key
//	incumbent/ best solutions, improvement events and rate-limited reporting
//	search/    the algorithms, options, metrics and tracing
//	schemes/   sample problems: knapsack, sequencing (ATSP)
//	config/    YAML and environment configuration
//	internal/  flag, config and report plumbing of the command
//	cmd/       the treesearch command line tool
//
// Quick example:
//
//	s, _ := knapsack.New(knapsack.Random(40, 20, 30, 1))
//	res, _ := search.IterativeBeamSearch(ctx, s, search.WithTimeLimit(time.Second))
//	fmt.Println(res.Status(), res.Cost)
package treesearch
