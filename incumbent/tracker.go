package incumbent

import (
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/katalvlaran/treesearch/scheme"
)

// Event is one incumbent improvement.
type Event struct {
	RunID     uuid.UUID     `json:"run_id"`
	Seq       int           `json:"seq"`
	Cost      scheme.Cost   `json:"cost"`
	Elapsed   time.Duration `json:"elapsed"`
	At        time.Time     `json:"at"`
	Algorithm string        `json:"algorithm"`
	Comment   string        `json:"comment,omitempty"`
	Display   string        `json:"display,omitempty"`
}

// Candidate is a leaf offered to the tracker.
type Candidate struct {
	Cost scheme.Cost
	Leaf scheme.State
	// Path rebuilds the root-to-leaf states. It is only called when the
	// candidate is kept. Nil means the path is just the leaf.
	Path func() []scheme.State
	// Comment is attached to the improvement event ("pass 3", "node 120").
	Comment string
	// Display is the scheme's rendering of the leaf, if any.
	Display string
}

// Tracker holds the incumbent of one run. Safe for concurrent use.
type Tracker struct {
	runID     uuid.UUID
	algorithm string
	now       func() time.Time
	start     time.Time
	reporter  *Reporter

	bestBits      atomic.Uint64
	thresholdBits atomic.Uint64

	poolSize int
	equal    Equal

	mu     sync.Mutex
	best   Solution
	found  bool
	pool   *Pool
	events []Event
}

// TrackerOption configures a Tracker.
type TrackerOption func(*Tracker)

// WithRunID sets the run identifier stamped on events.
func WithRunID(id uuid.UUID) TrackerOption {
	return func(t *Tracker) { t.runID = id }
}

// WithAlgorithm sets the algorithm name stamped on events.
func WithAlgorithm(name string) TrackerOption {
	return func(t *Tracker) { t.algorithm = name }
}

// WithPoolSize keeps the n best solutions instead of only the best one.
func WithPoolSize(n int) TrackerOption {
	return func(t *Tracker) { t.poolSize = n }
}

// WithEqual makes the pool keep distinct leaves only.
func WithEqual(eq Equal) TrackerOption {
	return func(t *Tracker) { t.equal = eq }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) TrackerOption {
	return func(t *Tracker) {
		if now != nil {
			t.now = now
		}
	}
}

// WithReporter publishes every improvement through r.
func WithReporter(r *Reporter) TrackerOption {
	return func(t *Tracker) { t.reporter = r }
}

// NewTracker returns an empty tracker. The run clock starts now.
func NewTracker(opts ...TrackerOption) *Tracker {
	t := &Tracker{
		runID:    uuid.New(),
		now:      time.Now,
		poolSize: 1,
	}
	var opt TrackerOption
	for _, opt = range opts {
		opt(t)
	}
	t.pool = NewPool(t.poolSize, t.equal)
	t.start = t.now()
	t.best.Cost = scheme.Infinity
	t.bestBits.Store(math.Float64bits(scheme.Infinity))
	t.thresholdBits.Store(math.Float64bits(scheme.Infinity))

	return t
}

// SetAlgorithm changes the algorithm name stamped on later events.
func (t *Tracker) SetAlgorithm(name string) {
	t.mu.Lock()
	t.algorithm = name
	t.mu.Unlock()
}

// Offer records c and reports whether it improved the best solution.
// A leaf already held by the pool is ignored.
func (t *Tracker) Offer(c Candidate) bool {
	t.mu.Lock()
	improved := c.Cost < t.best.Cost
	if !improved && (!t.pool.Admits(c.Cost) || t.pool.Contains(c.Cost, c.Leaf)) {
		t.mu.Unlock()

		return false
	}

	var path []scheme.State
	if c.Path != nil {
		path = c.Path()
	} else {
		path = []scheme.State{c.Leaf}
	}
	sol := Solution{Cost: c.Cost, Leaf: c.Leaf, Path: path}
	t.pool.Add(sol)
	t.thresholdBits.Store(math.Float64bits(t.pool.Worst()))

	if !improved {
		t.mu.Unlock()

		return false
	}

	t.best = sol
	t.found = true
	t.bestBits.Store(math.Float64bits(sol.Cost))
	at := t.now()
	ev := Event{
		RunID:     t.runID,
		Seq:       len(t.events) + 1,
		Cost:      sol.Cost,
		Elapsed:   at.Sub(t.start),
		At:        at,
		Algorithm: t.algorithm,
		Comment:   c.Comment,
		Display:   c.Display,
	}
	t.events = append(t.events, ev)
	t.mu.Unlock()

	if t.reporter != nil {
		t.reporter.Publish(ev)
	}

	return true
}

// Cost returns the best known cost, scheme.Infinity when none. Lock-free.
func (t *Tracker) Cost() scheme.Cost {
	return math.Float64frombits(t.bestBits.Load())
}

// Threshold returns the cost nodes are pruned against. Lock-free.
func (t *Tracker) Threshold() scheme.Cost {
	return math.Float64frombits(t.thresholdBits.Load())
}

// Admits reports whether a leaf of the given cost would be kept, either as
// the new best or in the pool. Lock-free; a stale answer is only ever "true".
func (t *Tracker) Admits(cost scheme.Cost) bool {
	return cost < t.Threshold()
}

// Best returns the incumbent.
func (t *Tracker) Best() (Solution, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.best, t.found
}

// Found reports whether any leaf has been recorded.
func (t *Tracker) Found() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.found
}

// Reached reports whether the incumbent cost is at or below goal.
func (t *Tracker) Reached(goal scheme.Cost) bool {
	return t.Cost() <= goal
}

// Events returns a copy of the improvement events.
func (t *Tracker) Events() []Event {
	t.mu.Lock()
	defer t.mu.Unlock()

	return append([]Event(nil), t.events...)
}

// Solutions returns the pool content, cheapest first.
func (t *Tracker) Solutions() []Solution {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.pool.Solutions()
}

// RunID returns the run identifier.
func (t *Tracker) RunID() uuid.UUID { return t.runID }
