package frontier

import (
	"github.com/katalvlaran/treesearch/node"
	"github.com/katalvlaran/treesearch/scheme"
)

// Item is a frontier entry: a node ID plus the keys it is ranked by.
// Keys are copied out of the arena so comparisons never touch it.
type Item struct {
	ID    node.ID
	Guide float64
	Bound scheme.Cost
	Seq   uint64
}

// ItemOf builds the frontier entry for n.
func ItemOf(n node.Node) Item {
	return Item{ID: n.ID, Guide: n.Guide, Bound: n.Bound, Seq: n.Seq}
}

// TieBreak selects how items with equal guide and bound are ordered.
type TieBreak int

const (
	// TieBreakFIFO prefers the item inserted first.
	TieBreakFIFO TieBreak = iota

	// TieBreakLIFO prefers the item inserted last.
	TieBreakLIFO
)

// String implements fmt.Stringer.
func (tb TieBreak) String() string {
	switch tb {
	case TieBreakFIFO:
		return "fifo"
	case TieBreakLIFO:
		return "lifo"
	default:
		return "unknown"
	}
}

// Less reports whether a ranks strictly before b.
func (tb TieBreak) Less(a, b *Item) bool {
	if a.Guide != b.Guide {
		return a.Guide < b.Guide
	}
	if a.Bound != b.Bound {
		return a.Bound < b.Bound
	}
	if tb == TieBreakLIFO {
		return a.Seq > b.Seq
	}

	return a.Seq < b.Seq
}

// Frontier is the common surface of Heap and Beam.
type Frontier interface {
	// Offer inserts it. accepted is false when a bounded frontier rejects
	// it; evicted is non-nil when another item had to leave to make room.
	Offer(it Item) (accepted bool, evicted *Item)

	// PopBest removes and returns the best-ranked item.
	PopBest() (Item, bool)

	// Remove deletes the item with the given node ID, if present.
	Remove(id node.ID) (Item, bool)

	// Len returns the current number of items.
	Len() int

	// MaxLen returns the largest size reached since creation or Reset.
	MaxLen() int

	// Reset empties the frontier.
	Reset()
}
