package history

import (
	"container/list"

	"github.com/katalvlaran/treesearch/node"
	"github.com/katalvlaran/treesearch/scheme"
)

// Outcome describes what Insert did.
type Outcome struct {
	// Accepted is false when the candidate is dominated and must be dropped.
	Accepted bool

	// Recorded is true when the table now holds the candidate; the caller
	// owns one arena pin for it on behalf of the table.
	Recorded bool

	// Displaced lists entries the candidate dominates; they were removed.
	Displaced []node.ID

	// Evicted lists entries dropped by the LRU policy.
	Evicted []node.ID
}

// entry is one recorded state.
type entry struct {
	id    node.ID
	state scheme.State
	key   uint64
	elem  *list.Element
}

// Table is the dominance table.
type Table struct {
	dom      scheme.Dominance
	buckets  map[uint64][]*entry
	capacity int
	lru      *list.List
	size     int
	maxLen   int
	evicted  uint64
}

// Option configures a Table.
type Option func(*Table)

// WithCapacity bounds the number of recorded entries; 0 means unbounded.
func WithCapacity(n int) Option {
	return func(t *Table) {
		if n < 0 {
			n = 0
		}
		t.capacity = n
	}
}

// New returns an empty table comparing states with dom.
func New(dom scheme.Dominance, opts ...Option) *Table {
	t := &Table{
		dom:     dom,
		buckets: make(map[uint64][]*entry),
		lru:     list.New(),
	}
	var opt Option
	for _, opt = range opts {
		opt(t)
	}

	return t
}

// Insert offers the state of node id to the table.
func (t *Table) Insert(id node.ID, st scheme.State) Outcome {
	key, ok := t.dom.DominanceKey(st)
	if !ok {
		return Outcome{Accepted: true}
	}

	bucket := t.buckets[key]
	var e *entry
	for _, e = range bucket {
		if t.dom.Dominates(e.state, st) {
			t.lru.MoveToFront(e.elem)

			return Outcome{}
		}
	}

	var out Outcome
	out.Accepted = true
	out.Recorded = true

	kept := bucket[:0]
	for _, e = range bucket {
		if t.dom.Dominates(st, e.state) {
			t.lru.Remove(e.elem)
			t.size--
			out.Displaced = append(out.Displaced, e.id)

			continue
		}
		kept = append(kept, e)
	}
	clear(bucket[len(kept):])

	ne := &entry{id: id, state: st, key: key}
	ne.elem = t.lru.PushFront(ne)
	t.buckets[key] = append(kept, ne)
	t.size++
	if t.size > t.maxLen {
		t.maxLen = t.size
	}

	out.Evicted = t.shrink()

	return out
}

// Remove deletes the entry recorded for node id with state st.
func (t *Table) Remove(id node.ID, st scheme.State) bool {
	key, ok := t.dom.DominanceKey(st)
	if !ok {
		return false
	}
	bucket := t.buckets[key]
	for i, e := range bucket {
		if e.id == id {
			t.lru.Remove(e.elem)
			t.dropAt(key, i)
			t.size--

			return true
		}
	}

	return false
}

// SetCapacity changes the bound and returns the entries evicted to meet it.
func (t *Table) SetCapacity(n int) []node.ID {
	if n < 0 {
		n = 0
	}
	t.capacity = n

	return t.shrink()
}

// Capacity returns the current bound (0 = unbounded).
func (t *Table) Capacity() int { return t.capacity }

// Len returns the number of recorded entries.
func (t *Table) Len() int { return t.size }

// MaxLen returns the largest size reached.
func (t *Table) MaxLen() int { return t.maxLen }

// Evicted returns how many entries the LRU policy dropped.
func (t *Table) Evicted() uint64 { return t.evicted }

// Lossy reports whether any entry was ever evicted.
func (t *Table) Lossy() bool { return t.evicted > 0 }

// IDs returns the node IDs currently recorded, in unspecified order.
func (t *Table) IDs() []node.ID {
	out := make([]node.ID, 0, t.size)
	for el := t.lru.Front(); el != nil; el = el.Next() {
		out = append(out, el.Value.(*entry).id)
	}

	return out
}

// Reset empties the table. Capacity is kept.
func (t *Table) Reset() {
	clear(t.buckets)
	t.lru.Init()
	t.size = 0
}

func (t *Table) shrink() []node.ID {
	if t.capacity == 0 {
		return nil
	}
	var out []node.ID
	for t.size > t.capacity {
		el := t.lru.Back()
		e := el.Value.(*entry)
		t.lru.Remove(el)
		bucket := t.buckets[e.key]
		for i, x := range bucket {
			if x == e {
				t.dropAt(e.key, i)

				break
			}
		}
		t.size--
		t.evicted++
		out = append(out, e.id)
	}

	return out
}

func (t *Table) dropAt(key uint64, i int) {
	bucket := t.buckets[key]
	last := len(bucket) - 1
	bucket[i] = bucket[last]
	bucket[last] = nil
	bucket = bucket[:last]
	if len(bucket) == 0 {
		delete(t.buckets, key)

		return
	}
	t.buckets[key] = bucket
}
