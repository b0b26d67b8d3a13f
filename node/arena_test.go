// Package node_test covers arena bookkeeping: pins, cascading release,
// path reconstruction and slot reuse.
package node_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/treesearch/node"
)

func TestArena_NewAssignsDepthAndSeq(t *testing.T) {
	a := node.NewArena(4)
	root := a.New(node.None, "r", 0, 0)
	child := a.New(root, "c", 1, 2)

	r := a.MustGet(root)
	c := a.MustGet(child)
	require.Equal(t, 0, r.Depth)
	require.Equal(t, 1, c.Depth)
	require.Equal(t, root, c.Parent)
	require.Less(t, r.Seq, c.Seq, "sequence numbers follow insertion order")
	require.Equal(t, 2, a.Live())
}

func TestArena_PathFromRoot(t *testing.T) {
	a := node.NewArena(0)
	id := a.New(node.None, 0, 0, 0)
	var i int
	for i = 1; i <= 4; i++ {
		id = a.New(id, i, 0, 0)
	}

	path, err := a.Path(id)
	require.NoError(t, err)
	require.Equal(t, []any{0, 1, 2, 3, 4}, toAny(path))
}

func TestArena_ReleaseCascades(t *testing.T) {
	a := node.NewArena(0)
	root := a.New(node.None, "r", 0, 0)
	mid := a.New(root, "m", 0, 0)
	leaf := a.New(mid, "l", 0, 0)

	// Drop the creator pins of root and mid: leaf still keeps them alive.
	a.Release(root)
	a.Release(mid)
	require.Equal(t, 3, a.Live())

	path, err := a.Path(leaf)
	require.NoError(t, err)
	require.Len(t, path, 3)

	// Dropping the leaf frees the whole chain.
	a.Release(leaf)
	require.Equal(t, 0, a.Live())
	_, err = a.Get(root)
	require.True(t, errors.Is(err, node.ErrUnknownNode))
}

func TestArena_RetainKeepsNodeAlive(t *testing.T) {
	a := node.NewArena(0)
	root := a.New(node.None, "r", 0, 0)
	a.Retain(root)
	a.Release(root)
	require.Equal(t, 1, a.Live())
	a.Release(root)
	require.Equal(t, 0, a.Live())
}

func TestArena_ReusesFreedSlots(t *testing.T) {
	a := node.NewArena(0)
	first := a.New(node.None, "a", 0, 0)
	a.Release(first)
	second := a.New(node.None, "b", 0, 0)

	require.Equal(t, first, second, "freed slot is reused")
	require.Equal(t, "b", a.State(second))
	require.Equal(t, uint64(2), a.Total())
	require.Equal(t, 1, a.Peak())
}

func TestArena_GetOutOfRange(t *testing.T) {
	a := node.NewArena(0)
	_, err := a.Get(7)
	require.ErrorIs(t, err, node.ErrUnknownNode)
	_, err = a.Path(-3)
	require.ErrorIs(t, err, node.ErrUnknownNode)
}

func toAny[T any](xs []T) []any {
	out := make([]any, len(xs))
	for i, x := range xs {
		out[i] = x
	}

	return out
}
