package search

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/katalvlaran/treesearch/incumbent"
	"github.com/katalvlaran/treesearch/scheme"
)

// Sentinel errors. Only invalid configurations produce errors; every
// ordinary search outcome is reported through Result.
var (
	// ErrNilScheme indicates that a nil branching scheme was passed.
	ErrNilScheme = errors.New("search: scheme is nil")

	// ErrUnknownAlgorithm indicates an Algorithm value or name that is not supported.
	ErrUnknownAlgorithm = errors.New("search: unknown algorithm")

	// ErrBadWidths indicates MinWidth < 1 or MaxWidth < MinWidth.
	ErrBadWidths = errors.New("search: queue widths must satisfy 1 <= min <= max")

	// ErrBadGrowth indicates a growth factor below 1 (or NaN).
	ErrBadGrowth = errors.New("search: growth factor must be >= 1")

	// ErrBadThreads indicates Threads < 1 or BatchSize < 1.
	ErrBadThreads = errors.New("search: threads and batch size must be >= 1")

	// ErrNegativeLimit indicates a negative time, node, frontier or history limit.
	ErrNegativeLimit = errors.New("search: limits must be non-negative")

	// ErrBadPoolSize indicates PoolSize < 1.
	ErrBadPoolSize = errors.New("search: solution pool size must be >= 1")
)

// Algorithm selects the exploration strategy.
type Algorithm int

const (
	// AlgoGreedy descends once from the root, always following the best child.
	AlgoGreedy Algorithm = iota

	// AlgoBestFirst is best-first branch-and-bound; optimal when it exhausts.
	AlgoBestFirst

	// AlgoDepthFirst is depth-first branch-and-bound with guide-ordered children.
	AlgoDepthFirst

	// AlgoIterativeBeamSearch repeats level-by-level beam passes of growing width.
	AlgoIterativeBeamSearch

	// AlgoIterativeMemoryBoundedBestFirst repeats best-first passes with a
	// growing cap on the frontier size.
	AlgoIterativeMemoryBoundedBestFirst

	// AlgoAnytimeColumnSearch keeps one best-first queue per depth and
	// expands a growing column of nodes per depth on every iteration.
	AlgoAnytimeColumnSearch

	// AlgoNestedSearch runs breadth-first sweeps rooted at the best node of
	// a global best-first frontier.
	AlgoNestedSearch
)

var algorithmNames = map[Algorithm]string{
	AlgoGreedy:                          "greedy",
	AlgoBestFirst:                       "best-first",
	AlgoDepthFirst:                      "depth-first",
	AlgoIterativeBeamSearch:             "iterative-beam-search",
	AlgoIterativeMemoryBoundedBestFirst: "iterative-memory-bounded-best-first",
	AlgoAnytimeColumnSearch:             "anytime-column-search",
	AlgoNestedSearch:                    "nested-best-first-breadth-first",
}

var algorithmAliases = map[string]Algorithm{
	"greedy":                              AlgoGreedy,
	"best-first":                          AlgoBestFirst,
	"bfs":                                 AlgoBestFirst,
	"astar":                               AlgoBestFirst,
	"a*":                                  AlgoBestFirst,
	"branch-and-bound":                    AlgoBestFirst,
	"bnb":                                 AlgoBestFirst,
	"depth-first":                         AlgoDepthFirst,
	"dfs":                                 AlgoDepthFirst,
	"iterative-beam-search":               AlgoIterativeBeamSearch,
	"ibs":                                 AlgoIterativeBeamSearch,
	"beam":                                AlgoIterativeBeamSearch,
	"iterative-memory-bounded-best-first": AlgoIterativeMemoryBoundedBestFirst,
	"imbbfs":                              AlgoIterativeMemoryBoundedBestFirst,
	"anytime-column-search":               AlgoAnytimeColumnSearch,
	"acs":                                 AlgoAnytimeColumnSearch,
	"column":                              AlgoAnytimeColumnSearch,
	"nested-best-first-breadth-first":     AlgoNestedSearch,
	"nested":                              AlgoNestedSearch,
	"nbfbrfs":                             AlgoNestedSearch,
}

// String implements fmt.Stringer.
func (a Algorithm) String() string {
	if s, ok := algorithmNames[a]; ok {
		return s
	}

	return fmt.Sprintf("algorithm(%d)", int(a))
}

// ParseAlgorithm maps a name or alias ("ibs", "bnb", ...) to an Algorithm.
func ParseAlgorithm(name string) (Algorithm, error) {
	a, ok := algorithmAliases[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, name)
	}

	return a, nil
}

// Reason tells why a run stopped.
type Reason int

const (
	// ReasonExhausted: nothing left to explore.
	ReasonExhausted Reason = iota

	// ReasonTimeLimit: the wall-clock budget expired.
	ReasonTimeLimit

	// ReasonNodeLimit: the expansion budget was used up.
	ReasonNodeLimit

	// ReasonGoalReached: the incumbent met the configured goal (known lower bound).
	ReasonGoalReached

	// ReasonWidthLimit: the next restart would exceed the maximum queue size.
	ReasonWidthLimit

	// ReasonCanceled: the context was canceled.
	ReasonCanceled
)

// String implements fmt.Stringer.
func (r Reason) String() string {
	switch r {
	case ReasonExhausted:
		return "exhausted"
	case ReasonTimeLimit:
		return "time-limit"
	case ReasonNodeLimit:
		return "node-limit"
	case ReasonGoalReached:
		return "goal-reached"
	case ReasonWidthLimit:
		return "width-limit"
	case ReasonCanceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// Budget reports whether the run was cut short by a resource budget.
func (r Reason) Budget() bool {
	return r == ReasonTimeLimit || r == ReasonNodeLimit || r == ReasonCanceled
}

// Status is the coarse outcome of a run.
type Status int

const (
	// StatusUnknown: no solution found and the space was not fully explored.
	StatusUnknown Status = iota

	// StatusInfeasible: the whole space was explored and holds no leaf.
	StatusInfeasible

	// StatusFeasible: a solution was found; optimality is not proven.
	StatusFeasible

	// StatusOptimal: a solution was found and proven optimal.
	StatusOptimal
)

// String implements fmt.Stringer.
func (s Status) String() string {
	switch s {
	case StatusInfeasible:
		return "infeasible"
	case StatusFeasible:
		return "feasible"
	case StatusOptimal:
		return "optimal"
	default:
		return "unknown"
	}
}

// PassStats describes one restart of an iterative algorithm.
type PassStats struct {
	Width       int           `json:"width"`
	Expanded    int64         `json:"expanded"`
	MaxFrontier int           `json:"max_frontier"`
	Exhaustive  bool          `json:"exhaustive"`
	Elapsed     time.Duration `json:"elapsed"`
}

// Stats are the run counters.
type Stats struct {
	Generated   int64       `json:"generated"`
	Added       int64       `json:"added"`
	Expanded    int64       `json:"expanded"`
	Pruned      int64       `json:"pruned"`
	Dominated   int64       `json:"dominated"`
	Evicted     int64       `json:"evicted"`
	MaxFrontier int         `json:"max_frontier"`
	MaxHistory  int         `json:"max_history"`
	PeakNodes   int         `json:"peak_nodes"`
	Remaining   int         `json:"remaining"`
	Passes      []PassStats `json:"passes,omitempty"`
}

// Result is the outcome of a run.
type Result struct {
	RunID     uuid.UUID
	Algorithm Algorithm
	Reason    Reason

	// Found is true when at least one leaf was recorded.
	Found bool
	// Optimal is true when Cost is proven optimal.
	Optimal bool
	// Complete is true when the search space was explored without any
	// heuristic discard (width or memory eviction).
	Complete bool
	// Degraded is true when a memory bound forced a fallback to bounded behaviour.
	Degraded bool

	Cost scheme.Cost
	Leaf scheme.State
	// Path holds the states from the root to Leaf inclusive.
	Path []scheme.State

	// Pool holds the best solutions found, cheapest first.
	Pool []incumbent.Solution
	// Events are the timestamped incumbent improvements.
	Events []incumbent.Event

	Stats   Stats
	Elapsed time.Duration
}

// Status classifies the result.
func (r Result) Status() Status {
	switch {
	case r.Found && r.Optimal:
		return StatusOptimal
	case r.Found:
		return StatusFeasible
	case r.Complete:
		return StatusInfeasible
	default:
		return StatusUnknown
	}
}
