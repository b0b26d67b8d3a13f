// Package frontier_test validates ordering, tie-breaking, removal and the
// capacity guarantee of the bounded beam.
package frontier_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/treesearch/frontier"
	"github.com/katalvlaran/treesearch/node"
)

func item(id int, guide, bound float64, seq uint64) frontier.Item {
	return frontier.Item{ID: node.ID(id), Guide: guide, Bound: bound, Seq: seq}
}

func drain(f frontier.Frontier) []node.ID {
	var out []node.ID
	for {
		it, ok := f.PopBest()
		if !ok {
			return out
		}
		out = append(out, it.ID)
	}
}

func TestTieBreak_Less(t *testing.T) {
	a := item(1, 1, 5, 1)
	b := item(2, 1, 5, 2)
	c := item(3, 1, 4, 3)
	d := item(4, 0, 9, 4)

	require.True(t, frontier.TieBreakFIFO.Less(&a, &b))
	require.False(t, frontier.TieBreakLIFO.Less(&a, &b))
	require.True(t, frontier.TieBreakFIFO.Less(&c, &a), "bound breaks guide ties")
	require.True(t, frontier.TieBreakLIFO.Less(&d, &c), "guide dominates")
	require.Equal(t, "fifo", frontier.TieBreakFIFO.String())
	require.Equal(t, "lifo", frontier.TieBreakLIFO.String())
}

func TestHeap_OrderAndRemove(t *testing.T) {
	h := frontier.NewHeap(frontier.TieBreakFIFO)
	h.Offer(item(1, 3, 0, 1))
	h.Offer(item(2, 1, 0, 2))
	h.Offer(item(3, 2, 0, 3))
	h.Offer(item(4, 1, 0, 4))

	require.True(t, h.Contains(3))
	removed, ok := h.Remove(3)
	require.True(t, ok)
	require.Equal(t, node.ID(3), removed.ID)
	require.False(t, h.Contains(3))
	_, ok = h.Remove(3)
	require.False(t, ok)

	top, ok := h.Peek()
	require.True(t, ok)
	require.Equal(t, node.ID(2), top.ID)

	require.Equal(t, []node.ID{2, 4, 1}, drain(h))
	require.Equal(t, 4, h.MaxLen())
	_, ok = h.PopBest()
	require.False(t, ok)
}

func TestHeap_LIFO(t *testing.T) {
	h := frontier.NewHeap(frontier.TieBreakLIFO)
	var i int
	for i = 1; i <= 4; i++ {
		h.Offer(item(i, 0, 0, uint64(i)))
	}
	require.Equal(t, []node.ID{4, 3, 2, 1}, drain(h))
}

func TestBeam_NeverExceedsCapacity(t *testing.T) {
	const w = 5
	b := frontier.NewBeam(w, frontier.TieBreakFIFO)
	rng := rand.New(rand.NewSource(7))

	var i int
	for i = 0; i < 200; i++ {
		b.Offer(item(i, float64(rng.Intn(50)), 0, uint64(i)))
		require.LessOrEqual(t, b.Len(), w)
	}
	require.Equal(t, w, b.MaxLen())
	require.True(t, b.Full())
}

func TestBeam_KeepsBestItems(t *testing.T) {
	b := frontier.NewBeam(3, frontier.TieBreakFIFO)
	guides := []float64{5, 1, 4, 2, 3, 0}
	var evictedIDs []node.ID
	for i, g := range guides {
		ok, ev := b.Offer(item(i, g, 0, uint64(i)))
		if ev != nil {
			evictedIDs = append(evictedIDs, ev.ID)
		}
		_ = ok
	}

	// Best three guides: 0 (id5), 1 (id1), 2 (id3).
	worst, ok := b.Worst()
	require.True(t, ok)
	require.Equal(t, node.ID(3), worst.ID)
	require.Equal(t, []node.ID{0, 2, 4}, evictedIDs)
	require.Equal(t, []node.ID{5, 1, 3}, drain(b))
}

func TestBeam_RejectsWhenNotBetterThanWorst(t *testing.T) {
	b := frontier.NewBeam(2, frontier.TieBreakFIFO)
	b.Offer(item(1, 1, 0, 1))
	b.Offer(item(2, 2, 0, 2))

	// Equal keys but later sequence ranks after the worst: rejected.
	ok, ev := b.Offer(item(3, 2, 0, 3))
	require.False(t, ok)
	require.Nil(t, ev)
	require.Equal(t, 2, b.Len())
}

func TestBeam_ZeroCapacityRejects(t *testing.T) {
	b := frontier.NewBeam(0, frontier.TieBreakFIFO)
	ok, _ := b.Offer(item(1, 0, 0, 1))
	require.False(t, ok)
	require.Equal(t, 0, b.Len())
}

func TestBeam_RemoveAndSetCap(t *testing.T) {
	b := frontier.NewBeam(4, frontier.TieBreakFIFO)
	var i int
	for i = 0; i < 4; i++ {
		b.Offer(item(i, float64(i), 0, uint64(i)))
	}
	_, ok := b.Remove(1)
	require.True(t, ok)
	require.False(t, b.Contains(1))

	evicted := b.SetCap(1)
	require.Len(t, evicted, 2)
	require.Equal(t, node.ID(3), evicted[0].ID, "worst leaves first")
	require.Equal(t, []node.ID{0}, drain(b))

	b.Reset()
	require.Equal(t, 0, b.Len())
	require.Equal(t, 1, b.Cap())
}

func TestStack_LIFO(t *testing.T) {
	var s frontier.Stack
	s.Push(item(1, 0, 0, 1))
	s.Push(item(2, 0, 0, 2))
	it, ok := s.Pop()
	require.True(t, ok)
	require.Equal(t, node.ID(2), it.ID)
	require.Equal(t, 1, s.Len())
	require.Equal(t, 2, s.MaxLen())
}
