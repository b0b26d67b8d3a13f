// Package history implements the dominance table used to discard states
// that are identical to, or dominated by, a state already generated.
//
// Buckets are keyed by scheme.Dominance.DominanceKey. Inside a bucket every
// pair of states is compared with Dominates in both directions:
//
//   - if an existing entry dominates the candidate, the candidate is rejected;
//   - otherwise the candidate is recorded and every entry it dominates is
//     removed and reported as displaced, so the caller can also drop the
//     corresponding node from its frontier.
//
// Memory:
//
//	A Table is unbounded by default, which is what branch-and-bound needs to
//	keep its pruning complete. WithCapacity (or SetCapacity at run time)
//	turns on least-recently-used eviction; evicted entries are reported to
//	the caller and the table becomes Lossy. A lossy table never causes a
//	wrong answer, it only forgets states it could have pruned against.
//
// Thread safety:
//
//	Table is not safe for concurrent use.
package history
