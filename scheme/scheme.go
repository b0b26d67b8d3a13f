package scheme

import (
	"iter"
	"math"
	"reflect"
)

// Cost is the objective value of a (partial) solution. Lower is better.
type Cost = float64

// State is an opaque partial solution owned by the branching scheme.
// A State must not be mutated once it has been returned to the engine.
type State any

// Infinity is the cost reported when no solution is known.
var Infinity = math.Inf(1)

// Scheme is the contract a problem implements to be searched.
type Scheme interface {
	// Root returns the empty partial solution.
	Root() State

	// Children returns the states obtained from s by one more decision.
	// The sequence is lazy and finite; its order may change performance but
	// never correctness.
	Children(s State) iter.Seq[State]

	// Bound returns an admissible lower bound on the cost of any leaf
	// reachable from s.
	Bound(s State) Cost

	// Guide returns the value used to rank states for exploration. Smaller
	// guides are explored first. Guide carries no correctness obligation.
	Guide(s State) float64

	// Leaf reports whether s is a complete solution.
	Leaf(s State) bool

	// Cost returns the objective value of a leaf.
	Cost(s State) Cost
}

// Dominance is the optional capability used by the history table.
//
// Two states are only compared when DominanceKey returns the same key for
// both and ok == true for both. States reporting ok == false are never
// recorded in the history.
type Dominance interface {
	// DominanceKey returns the bucket a state belongs to.
	DominanceKey(s State) (key uint64, ok bool)

	// Dominates reports whether a is at least as good as b for every purpose
	// relevant to the remaining search, so b may be discarded.
	// Dominates(s, s) must be true.
	Dominates(a, b State) bool
}

// Equality is the optional capability used by the solution pool to keep
// distinct leaves only.
type Equality interface {
	// Equal reports whether a and b are the same solution.
	Equal(a, b State) bool
}

// Formatter is the optional capability used to render a state in logs and
// incumbent snapshots.
type Formatter interface {
	Format(s State) string
}

// AsDominance returns s as a Dominance if it implements the capability.
func AsDominance(s Scheme) (Dominance, bool) {
	d, ok := s.(Dominance)

	return d, ok
}

// EqualFunc returns the leaf equality of s, in order of preference:
//  1. s's Equality capability;
//  2. mutual dominance under the same DominanceKey;
//  3. == for comparable states of the same dynamic type.
//
// States of different dynamic types are never equal.
func EqualFunc(s Scheme) func(a, b State) bool {
	sameType := func(a, b State) bool { return reflect.TypeOf(a) == reflect.TypeOf(b) }
	if e, ok := s.(Equality); ok {
		return func(a, b State) bool { return sameType(a, b) && e.Equal(a, b) }
	}
	if d, ok := s.(Dominance); ok {
		return func(a, b State) bool {
			if !sameType(a, b) {
				return false
			}
			ka, okA := d.DominanceKey(a)
			kb, okB := d.DominanceKey(b)
			if okA && okB && ka == kb {
				return d.Dominates(a, b) && d.Dominates(b, a)
			}

			return comparableEqual(a, b)
		}
	}

	return func(a, b State) bool { return sameType(a, b) && comparableEqual(a, b) }
}

func comparableEqual(a, b State) bool {
	t := reflect.TypeOf(a)
	if t == nil || !t.Comparable() {
		return false
	}

	return a == b
}

// Format renders st with s's Formatter, or returns "" when s has none.
func Format(s Scheme, st State) string {
	if f, ok := s.(Formatter); ok {
		return f.Format(st)
	}

	return ""
}

// Prunable reports whether a node with the given bound cannot strictly
// improve an incumbent of cost best.
func Prunable(bound, best Cost) bool {
	return !(bound < best)
}
