// Package scheme defines the branching-scheme contract every problem must
// satisfy to be searched by the treesearch engine.
//
// Overview:
//
//   - A branching scheme describes a state space: the empty partial solution
//     (Root), how a partial solution is extended by one decision (Children),
//     an admissible lower bound on every completion (Bound), a heuristic
//     ordering value (Guide), the complete-solution test (Leaf) and the cost
//     of a complete solution (Cost).
//   - The engine never looks inside a State. Everything it knows about a
//     partial solution comes from the methods above.
//   - Dominance is an optional capability. Schemes that implement Dominance
//     let the engine discard states that cannot lead to anything better than
//     an already recorded state with the same key.
//
// Objective sense:
//
//	The engine minimises. A maximisation problem negates its objective:
//	a knapsack profit p is reported as Cost == -p and the bound becomes
//	-(upper bound on profit).
//
// Contract (undefined quality of result when violated, never detected):
//
//   - Bound(s) ≤ Cost(l) for every leaf l reachable from s (admissibility).
//   - Bound is monotone non-decreasing along any extension path.
//   - Cost is only called on states with Leaf(s) == true.
//   - Children(s) is finite; leaves yield no children.
//   - Dominates(a, b) == true only when discarding b cannot remove every
//     optimal completion (a is at least as good as b for all future search).
//
// Concurrency:
//
//	With more than one search thread the engine calls Children, Bound, Guide,
//	Leaf, Cost and the Dominance methods from several goroutines at once.
//	Implementations must treat their instance data as read-only.
package scheme
