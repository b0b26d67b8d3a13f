// Package frontier provides the ordered multi-sets of live nodes that the
// search algorithms pull from.
//
// Ordering:
//
//	Items are ranked by Guide (smaller first), then by Bound (smaller first),
//	then by insertion sequence. The last key makes every ordering total, so
//	two runs over the same input pop nodes in the same order. TieBreakFIFO
//	prefers the older item, TieBreakLIFO the newer one (which makes best-first
//	search dive on plateaus).
//
// Structures:
//
//   - Heap: unbounded min-heap (container/heap) with removal by node ID.
//     Used by best-first branch-and-bound.
//   - Beam: size-bounded queue backed by a pair of heaps sharing entries: a
//     min-side to extract the best item and a max-side to find and evict the
//     worst one. Offer never lets the size exceed the capacity. Used by
//     iterative beam search, memory-bounded best-first search and by the
//     degraded mode of best-first search.
//   - Stack: LIFO list for depth-first search.
//
// Complexity:
//
//   - Heap.Offer, Heap.PopBest, Heap.Remove: O(log n).
//   - Beam.Offer, Beam.PopBest, Beam.Remove: O(log w).
//
// Thread safety:
//
//	None of the structures are safe for concurrent use.
package frontier
