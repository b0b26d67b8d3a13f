package node

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/treesearch/scheme"
)

// ErrUnknownNode is returned when an ID does not reference a live node.
var ErrUnknownNode = errors.New("node: unknown or released node")

// ID identifies a node inside one Arena.
type ID int32

// None is the parent of a root node.
const None ID = -1

// Node is the engine view of a search-tree node.
type Node struct {
	ID     ID           // stable index inside the arena
	Parent ID           // None for the root
	Depth  int          // number of decisions from the root
	Bound  scheme.Cost  // admissible lower bound of the state
	Guide  float64      // exploration priority (smaller first)
	Seq    uint64       // insertion order, unique per arena
	State  scheme.State // owned state, immutable
}

// slot is the arena storage cell; refs counts pins plus live children.
type slot struct {
	Node
	refs int32
	live bool
}

// Arena owns every node of one search pass.
type Arena struct {
	slots []slot
	free  []ID
	seq   uint64
	live  int
	peak  int
	total uint64
}

// NewArena returns an empty arena with room for capacity nodes.
func NewArena(capacity int) *Arena {
	if capacity < 0 {
		capacity = 0
	}

	return &Arena{slots: make([]slot, 0, capacity)}
}

// New stores a node for state st under parent (None for a root) and returns
// its ID. The returned node carries one pin owned by the caller.
func (a *Arena) New(parent ID, st scheme.State, bound scheme.Cost, guide float64) ID {
	depth := 0
	if parent != None {
		p := &a.slots[parent]
		p.refs++
		depth = p.Depth + 1
	}

	var id ID
	if n := len(a.free); n > 0 {
		id = a.free[n-1]
		a.free = a.free[:n-1]
	} else {
		id = ID(len(a.slots))
		a.slots = append(a.slots, slot{})
	}

	a.seq++
	a.slots[id] = slot{
		Node: Node{
			ID:     id,
			Parent: parent,
			Depth:  depth,
			Bound:  bound,
			Guide:  guide,
			Seq:    a.seq,
			State:  st,
		},
		refs: 1,
		live: true,
	}

	a.total++
	a.live++
	if a.live > a.peak {
		a.peak = a.live
	}

	return id
}

// Retain adds a pin on id.
func (a *Arena) Retain(id ID) {
	a.slots[id].refs++
}

// Release drops one pin (or child reference) on id and frees every node
// that becomes unreachable as a consequence.
func (a *Arena) Release(id ID) {
	for id != None {
		s := &a.slots[id]
		s.refs--
		if s.refs > 0 {
			return
		}
		parent := s.Parent
		*s = slot{}
		a.free = append(a.free, id)
		a.live--
		id = parent
	}
}

// Get returns a copy of the node stored under id.
func (a *Arena) Get(id ID) (Node, error) {
	if id < 0 || int(id) >= len(a.slots) || !a.slots[id].live {
		return Node{}, fmt.Errorf("%w: %d", ErrUnknownNode, id)
	}

	return a.slots[id].Node, nil
}

// MustGet is Get for IDs the caller knows to be pinned.
func (a *Arena) MustGet(id ID) Node {
	n, err := a.Get(id)
	if err != nil {
		panic(err)
	}

	return n
}

// State returns the state of a live node.
func (a *Arena) State(id ID) scheme.State { return a.slots[id].State }

// Path rebuilds the sequence of states from the root to id (inclusive).
func (a *Arena) Path(id ID) ([]scheme.State, error) {
	n, err := a.Get(id)
	if err != nil {
		return nil, err
	}

	path := make([]scheme.State, n.Depth+1)
	for cur := id; cur != None; cur = a.slots[cur].Parent {
		s := &a.slots[cur]
		path[s.Depth] = s.State
	}

	return path, nil
}

// Live returns the number of nodes currently stored.
func (a *Arena) Live() int { return a.live }

// Peak returns the highest number of simultaneously stored nodes.
func (a *Arena) Peak() int { return a.peak }

// Total returns the number of nodes ever created.
func (a *Arena) Total() uint64 { return a.total }

// Reset drops every node. IDs handed out before Reset become invalid.
func (a *Arena) Reset() {
	clear(a.slots)
	a.slots = a.slots[:0]
	a.free = a.free[:0]
	a.live = 0
}
