package frontier

import (
	"container/heap"

	"github.com/katalvlaran/treesearch/node"
)

// Beam is a frontier holding at most Cap items. When it is full, an offered
// item enters only if it ranks strictly before the current worst item, which
// is then evicted.
type Beam struct {
	capacity int
	min      minQueue
	max      maxQueue
	pos      map[node.ID]*entry
	maxLen   int
}

var _ Frontier = (*Beam)(nil)

// NewBeam returns an empty beam of the given capacity ordered with tb.
//
// Returns:
//
//   - *Beam: a bounded frontier whose Offer, once full, either rejects the
//     new item or evicts the current worst one, so Len never exceeds capacity.
//
// Preconditions and validation (in order):
//  1. capacity < 1 yields a beam that rejects everything (no error).
//  2. tb must be TieBreakFIFO or TieBreakLIFO; other values order equal
//     items like TieBreakFIFO.
//
// Complexity:
//
//   - Time:  O(1) here; Offer, PopBest and Remove are O(log capacity).
//   - Space: O(capacity)
func NewBeam(capacity int, tb TieBreak) *Beam {
	return &Beam{
		capacity: capacity,
		min:      minQueue{tb: tb},
		max:      maxQueue{tb: tb},
		pos:      make(map[node.ID]*entry),
	}
}

// Cap returns the capacity.
func (b *Beam) Cap() int { return b.capacity }

// SetCap changes the capacity, evicting worst items if needed.
// The evicted items are returned worst first.
func (b *Beam) SetCap(capacity int) []Item {
	b.capacity = capacity
	var out []Item
	for len(b.min.xs) > 0 && len(b.min.xs) > b.capacity {
		out = append(out, b.popWorst())
	}

	return out
}

// Full reports whether the beam holds Cap items.
func (b *Beam) Full() bool { return len(b.min.xs) >= b.capacity }

// Offer inserts it when there is room or when it beats the worst item.
func (b *Beam) Offer(it Item) (bool, *Item) {
	if b.capacity < 1 {
		return false, nil
	}

	var evicted *Item
	if len(b.min.xs) >= b.capacity {
		worst := b.max.xs[0]
		if !b.min.tb.Less(&it, &worst.Item) {
			return false, nil
		}
		w := b.popWorst()
		evicted = &w
	}

	e := &entry{Item: it}
	heap.Push(&b.min, e)
	heap.Push(&b.max, e)
	b.pos[it.ID] = e
	if len(b.min.xs) > b.maxLen {
		b.maxLen = len(b.min.xs)
	}

	return true, evicted
}

// PopBest removes the best item.
func (b *Beam) PopBest() (Item, bool) {
	if len(b.min.xs) == 0 {
		return Item{}, false
	}
	e := heap.Pop(&b.min).(*entry)
	heap.Remove(&b.max, e.imax)
	delete(b.pos, e.ID)

	return e.Item, true
}

// Worst returns the worst item without removing it.
func (b *Beam) Worst() (Item, bool) {
	if len(b.max.xs) == 0 {
		return Item{}, false
	}

	return b.max.xs[0].Item, true
}

// Remove deletes the item for id.
func (b *Beam) Remove(id node.ID) (Item, bool) {
	e, ok := b.pos[id]
	if !ok {
		return Item{}, false
	}
	heap.Remove(&b.min, e.imin)
	heap.Remove(&b.max, e.imax)
	delete(b.pos, id)

	return e.Item, true
}

// Contains reports whether id is queued.
func (b *Beam) Contains(id node.ID) bool {
	_, ok := b.pos[id]

	return ok
}

// Len returns the number of queued items.
func (b *Beam) Len() int { return len(b.min.xs) }

// MaxLen returns the largest size reached.
func (b *Beam) MaxLen() int { return b.maxLen }

// Reset empties the beam and keeps its capacity.
func (b *Beam) Reset() {
	clear(b.min.xs)
	b.min.xs = b.min.xs[:0]
	clear(b.max.xs)
	b.max.xs = b.max.xs[:0]
	clear(b.pos)
	b.maxLen = 0
}

func (b *Beam) popWorst() Item {
	e := heap.Pop(&b.max).(*entry)
	heap.Remove(&b.min, e.imin)
	delete(b.pos, e.ID)

	return e.Item
}
