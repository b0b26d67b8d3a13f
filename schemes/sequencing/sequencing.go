// Package sequencing is a permutation branching scheme: order n jobs so that
// the sum of sequence-dependent setup times is minimal.
//
// With Closed set, the sequence is a tour: it starts at job 0 and pays the
// setup from the last job back to job 0, which makes the scheme an
// asymmetric TSP.
//
// Bound (degree-1 relaxation): every job not yet sequenced still needs one
// incoming setup, which costs at least the cheapest setup into it; a closed
// tour also still needs the edge back into job 0. The sum of those minima
// plus the partial cost is admissible.
//
// Dominance: two partial sequences with the same set of jobs and the same
// last job have identical completions, so the cheaper one dominates.
package sequencing

import (
	"errors"
	"fmt"
	"iter"
	"math"
	"math/bits"
	"math/rand"

	"github.com/katalvlaran/treesearch/scheme"
)

// MaxJobs is the largest supported instance (the visited set is a bitmask).
const MaxJobs = 64

// Sentinel errors.
var (
	// ErrEmpty indicates an instance without jobs.
	ErrEmpty = errors.New("sequencing: no jobs")

	// ErrTooManyJobs indicates more than MaxJobs jobs.
	ErrTooManyJobs = errors.New("sequencing: too many jobs")

	// ErrNonSquare indicates a setup matrix that is not n×n, or an Initial
	// slice whose length is not n.
	ErrNonSquare = errors.New("sequencing: setup matrix must be n×n")

	// ErrBadSetup indicates a negative or NaN setup time.
	ErrBadSetup = errors.New("sequencing: setup times must be non-negative numbers")
)

// Instance is a sequencing problem.
type Instance struct {
	// Setup[i][j] is the time to switch from job i to job j. +Inf forbids it.
	Setup [][]float64 `json:"setup" yaml:"setup"`
	// Initial[j] is the setup before j when it runs first (nil: zero).
	// Ignored when Closed.
	Initial []float64 `json:"initial,omitempty" yaml:"initial,omitempty"`
	// Closed adds the setup from the last job back to job 0.
	Closed bool `json:"closed" yaml:"closed"`
}

// State is a partial sequence. States are immutable.
type State struct {
	Last    int     // last sequenced job, -1 at the open root
	Count   int     // number of sequenced jobs
	Visited uint64  // bitmask of sequenced jobs
	Partial float64 // setup time paid so far
}

// Option configures a Scheme.
type Option func(*Scheme)

// WithBound toggles the degree-1 bound. Without it Bound returns the
// partial cost, which is still admissible but prunes far less.
func WithBound(enabled bool) Option {
	return func(s *Scheme) { s.useBound = enabled }
}

// Scheme implements scheme.Scheme, scheme.Dominance and scheme.Formatter.
type Scheme struct {
	n        int
	w        []float64 // dense setup matrix, w[i*n+j]
	initial  []float64
	closed   bool
	useBound bool
	minIn    []float64 // cheapest setup into j from another job
	minFirst []float64 // cheapest way to start j: min(minIn[j], initial[j])
}

// New validates inst and builds the scheme.
func New(inst Instance, opts ...Option) (*Scheme, error) {
	n := len(inst.Setup)
	if n == 0 {
		return nil, ErrEmpty
	}
	if n > MaxJobs {
		return nil, fmt.Errorf("%w: %d > %d", ErrTooManyJobs, n, MaxJobs)
	}
	if inst.Initial != nil && len(inst.Initial) != n {
		return nil, fmt.Errorf("%w: initial has %d entries", ErrNonSquare, len(inst.Initial))
	}

	s := &Scheme{
		n:        n,
		w:        make([]float64, n*n),
		initial:  make([]float64, n),
		closed:   inst.Closed,
		useBound: true,
		minIn:    make([]float64, n),
		minFirst: make([]float64, n),
	}
	var opt Option
	for _, opt = range opts {
		opt(s)
	}

	var i, j int
	for i = 0; i < n; i++ {
		if len(inst.Setup[i]) != n {
			return nil, fmt.Errorf("%w: row %d has %d entries", ErrNonSquare, i, len(inst.Setup[i]))
		}
		for j = 0; j < n; j++ {
			v := inst.Setup[i][j]
			if math.IsNaN(v) || v < 0 {
				return nil, fmt.Errorf("%w: [%d][%d]=%v", ErrBadSetup, i, j, v)
			}
			s.w[i*n+j] = v
		}
	}
	if inst.Initial != nil {
		for j = 0; j < n; j++ {
			if math.IsNaN(inst.Initial[j]) || inst.Initial[j] < 0 {
				return nil, fmt.Errorf("%w: initial[%d]=%v", ErrBadSetup, j, inst.Initial[j])
			}
		}
		copy(s.initial, inst.Initial)
	}

	for j = 0; j < n; j++ {
		m := math.Inf(1)
		for i = 0; i < n; i++ {
			if i != j && s.at(i, j) < m {
				m = s.at(i, j)
			}
		}
		s.minIn[j] = m
		s.minFirst[j] = math.Min(m, s.initial[j])
	}

	return s, nil
}

func (s *Scheme) at(i, j int) float64 { return s.w[i*s.n+j] }

// Jobs returns the number of jobs.
func (s *Scheme) Jobs() int { return s.n }

// Root implements scheme.Scheme. A closed tour starts at job 0.
func (s *Scheme) Root() scheme.State {
	if s.closed {
		return State{Last: 0, Count: 1, Visited: 1}
	}

	return State{Last: -1}
}

// Children implements scheme.Scheme: append any unsequenced job, lowest index first.
// Forbidden (+Inf) setups produce no child.
func (s *Scheme) Children(st scheme.State) iter.Seq[scheme.State] {
	cur := st.(State)

	return func(yield func(scheme.State) bool) {
		var j int
		for j = 0; j < s.n; j++ {
			if cur.Visited&(1<<uint(j)) != 0 {
				continue
			}
			var step float64
			if cur.Last < 0 {
				step = s.initial[j]
			} else {
				step = s.at(cur.Last, j)
			}
			if math.IsInf(step, 1) {
				continue
			}
			next := State{
				Last:    j,
				Count:   cur.Count + 1,
				Visited: cur.Visited | 1<<uint(j),
				Partial: cur.Partial + step,
			}
			if !yield(next) {
				return
			}
		}
	}
}

// Bound implements scheme.Scheme.
func (s *Scheme) Bound(st scheme.State) scheme.Cost {
	cur := st.(State)
	if !s.useBound {
		return cur.Partial
	}
	extra := 0.0
	var j int
	for j = 0; j < s.n; j++ {
		if cur.Visited&(1<<uint(j)) != 0 {
			continue
		}
		if cur.Count == 0 {
			extra += s.minFirst[j]
		} else {
			extra += s.minIn[j]
		}
	}
	if s.closed {
		extra += s.minIn[0]
	}

	return cur.Partial + extra
}

// Guide implements scheme.Scheme.
func (s *Scheme) Guide(st scheme.State) float64 { return s.Bound(st) }

// Leaf implements scheme.Scheme.
func (s *Scheme) Leaf(st scheme.State) bool {
	return st.(State).Count == s.n
}

// Cost implements scheme.Scheme.
func (s *Scheme) Cost(st scheme.State) scheme.Cost {
	cur := st.(State)
	if s.closed {
		return cur.Partial + s.at(cur.Last, 0)
	}

	return cur.Partial
}

// DominanceKey implements scheme.Dominance.
func (s *Scheme) DominanceKey(st scheme.State) (uint64, bool) {
	cur := st.(State)

	return bits.RotateLeft64(cur.Visited, 7) ^ uint64(cur.Last+1)*0x9e3779b97f4a7c15, true
}

// Dominates implements scheme.Dominance.
func (s *Scheme) Dominates(a, b scheme.State) bool {
	x, y := a.(State), b.(State)

	return x.Last == y.Last && x.Visited == y.Visited && x.Partial <= y.Partial
}

// Format implements scheme.Formatter.
func (s *Scheme) Format(st scheme.State) string {
	cur := st.(State)

	return fmt.Sprintf("jobs=%d/%d last=%d partial=%g", cur.Count, s.n, cur.Last, cur.Partial)
}

// Sequence decodes a root-to-leaf path into the job order.
func Sequence(path []scheme.State) []int {
	out := make([]int, 0, len(path))
	for _, st := range path {
		if cur, ok := st.(State); ok && cur.Last >= 0 {
			out = append(out, cur.Last)
		}
	}

	return out
}

// Random returns a reproducible n-job instance with setup times drawn
// uniformly from [lo, hi]. seed == 0 selects a fixed default seed.
func Random(n int, lo, hi float64, closed bool, seed int64) Instance {
	if seed == 0 {
		seed = 1
	}
	rng := rand.New(rand.NewSource(seed))
	inst := Instance{Setup: make([][]float64, n), Closed: closed}
	var i, j int
	for i = 0; i < n; i++ {
		inst.Setup[i] = make([]float64, n)
		for j = 0; j < n; j++ {
			if i != j {
				inst.Setup[i][j] = math.Round(lo + rng.Float64()*(hi-lo))
			}
		}
	}

	return inst
}
