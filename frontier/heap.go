package frontier

import (
	"container/heap"

	"github.com/katalvlaran/treesearch/node"
)

// Heap is an unbounded best-first frontier.
type Heap struct {
	q      minQueue
	pos    map[node.ID]*entry
	maxLen int
}

var _ Frontier = (*Heap)(nil)

// NewHeap returns an empty heap ordered with tb.
func NewHeap(tb TieBreak) *Heap {
	return &Heap{
		q:   minQueue{tb: tb},
		pos: make(map[node.ID]*entry),
	}
}

// Offer always accepts it.
func (h *Heap) Offer(it Item) (bool, *Item) {
	e := &entry{Item: it}
	heap.Push(&h.q, e)
	h.pos[it.ID] = e
	if len(h.q.xs) > h.maxLen {
		h.maxLen = len(h.q.xs)
	}

	return true, nil
}

// PopBest removes the best item.
func (h *Heap) PopBest() (Item, bool) {
	if len(h.q.xs) == 0 {
		return Item{}, false
	}
	e := heap.Pop(&h.q).(*entry)
	delete(h.pos, e.ID)

	return e.Item, true
}

// Peek returns the best item without removing it.
func (h *Heap) Peek() (Item, bool) {
	if len(h.q.xs) == 0 {
		return Item{}, false
	}

	return h.q.xs[0].Item, true
}

// Remove deletes the item for id.
func (h *Heap) Remove(id node.ID) (Item, bool) {
	e, ok := h.pos[id]
	if !ok {
		return Item{}, false
	}
	heap.Remove(&h.q, e.imin)
	delete(h.pos, id)

	return e.Item, true
}

// Contains reports whether id is queued.
func (h *Heap) Contains(id node.ID) bool {
	_, ok := h.pos[id]

	return ok
}

// Len returns the number of queued items.
func (h *Heap) Len() int { return len(h.q.xs) }

// MaxLen returns the largest size reached.
func (h *Heap) MaxLen() int { return h.maxLen }

// Reset empties the heap.
func (h *Heap) Reset() {
	clear(h.q.xs)
	h.q.xs = h.q.xs[:0]
	clear(h.pos)
	h.maxLen = 0
}

// entry is shared by the heap sides; imin/imax are its positions.
type entry struct {
	Item
	imin int
	imax int
}

// minQueue keeps the best item at the root.
type minQueue struct {
	xs []*entry
	tb TieBreak
}

func (q minQueue) Len() int           { return len(q.xs) }
func (q minQueue) Less(i, j int) bool { return q.tb.Less(&q.xs[i].Item, &q.xs[j].Item) }
func (q minQueue) Swap(i, j int) {
	q.xs[i], q.xs[j] = q.xs[j], q.xs[i]
	q.xs[i].imin = i
	q.xs[j].imin = j
}

// Push is called by heap.Push; x must be *entry.
func (q *minQueue) Push(x interface{}) {
	e := x.(*entry)
	e.imin = len(q.xs)
	q.xs = append(q.xs, e)
}

// Pop is called by heap.Pop.
func (q *minQueue) Pop() interface{} {
	old := q.xs
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	q.xs = old[:n-1]

	return e
}

// maxQueue keeps the worst item at the root.
type maxQueue struct {
	xs []*entry
	tb TieBreak
}

func (q maxQueue) Len() int           { return len(q.xs) }
func (q maxQueue) Less(i, j int) bool { return q.tb.Less(&q.xs[j].Item, &q.xs[i].Item) }
func (q maxQueue) Swap(i, j int) {
	q.xs[i], q.xs[j] = q.xs[j], q.xs[i]
	q.xs[i].imax = i
	q.xs[j].imax = j
}

// Push is called by heap.Push; x must be *entry.
func (q *maxQueue) Push(x interface{}) {
	e := x.(*entry)
	e.imax = len(q.xs)
	q.xs = append(q.xs, e)
}

// Pop is called by heap.Pop.
func (q *maxQueue) Pop() interface{} {
	old := q.xs
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	q.xs = old[:n-1]

	return e
}
