// Package node stores search-tree nodes in an arena indexed by stable IDs.
//
// Each node wraps a scheme.State together with the engine-managed metadata
// the algorithms need: the admissible bound, the guide value, the depth, a
// monotone insertion sequence number used for deterministic tie-breaking,
// and the ID of its parent. Ancestry is a parent index, never a pointer, so
// the arena cannot hold cycles and the full decision sequence of a leaf is
// rebuilt by walking parent IDs back to the root.
//
// Lifetime:
//
//   - New returns a node carrying one pin owned by the caller. The caller
//     hands that pin to a frontier or history entry, or drops it with Release.
//   - Every live child holds a reference on its parent, so ancestry stays
//     reachable for as long as any descendant is pinned.
//   - When the last pin and the last child reference are gone the slot is
//     freed (its State is cleared for the garbage collector) and the parent
//     loses one reference, which may cascade up the tree.
//
// Complexity:
//
//   - New, Retain: O(1) amortised.
//   - Release: O(k) where k is the length of the freed ancestor chain.
//   - Path: O(depth).
//
// Thread safety:
//
//	Arena is not safe for concurrent mutation. The search algorithms only
//	touch it from their merge step, under their own lock.
package node
