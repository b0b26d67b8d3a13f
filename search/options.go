package search

import (
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/katalvlaran/treesearch/frontier"
	"github.com/katalvlaran/treesearch/incumbent"
	"github.com/katalvlaran/treesearch/scheme"
)

// Rank selects the value Greedy compares children by.
type Rank int

const (
	// RankGuide ranks children by Guide, then Bound.
	RankGuide Rank = iota

	// RankBound ranks children by Bound, then Guide.
	RankBound
)

// Defaults of the iterative algorithms, matching the usual doubling schedule.
const (
	DefaultMinWidth     = 1
	DefaultMaxWidth     = 100_000_000
	DefaultGrowthFactor = 2.0
)

// Options configures a run.
//
//   - Algorithm: strategy used by Solve.
//   - TimeLimit: wall-clock budget; 0 means none.
//   - NodeLimit: maximum number of expansions; 0 means none.
//   - MinWidth, MaxWidth: queue sizes of the first and the largest restart
//     (iterative algorithms), or the first and the largest column
//     (anytime column search).
//   - GrowthFactor: next width = max(w+1, floor(w*GrowthFactor)).
//   - Threads: expansion workers; 1 is sequential.
//   - BatchSize: nodes handed to each worker per iteration.
//   - TieBreak: order of items with equal guide and bound.
//   - GreedyRank: value the greedy descent follows.
//   - Dominance: use the scheme's Dominance capability when present.
//   - Goal: stop once the incumbent cost is <= Goal, a known lower bound;
//     -Inf disables it.
//   - MaxFrontier: best-first frontier size that triggers the bounded
//     fallback (best-first and nested search).
//   - MaxHistory: history size that triggers LRU eviction.
//   - PoolSize: number of best solutions kept.
//   - Bootstrap: run a greedy descent first to seed the incumbent.
//   - Initial: warm-start incumbent.
//   - Sink: receives incumbent improvements asynchronously.
//   - ReportInterval: minimum time between two Sink deliveries.
//   - Verbosity: 0 silent, 1 run summaries, 2 every improvement, 3 passes.
//   - Logger: structured logger (slog.Default when nil).
//   - Metrics: Prometheus collectors; nil disables metrics.
//   - Clock: time source (time.Now when nil).
type Options struct {
	Algorithm      Algorithm
	TimeLimit      time.Duration
	NodeLimit      int64
	MinWidth       int
	MaxWidth       int
	GrowthFactor   float64
	Threads        int
	BatchSize      int
	TieBreak       frontier.TieBreak
	GreedyRank     Rank
	Dominance      bool
	Goal           scheme.Cost
	MaxFrontier    int
	MaxHistory     int
	PoolSize       int
	Bootstrap      bool
	Initial        *incumbent.Solution
	Sink           incumbent.Sink
	ReportInterval time.Duration
	Verbosity      int
	Logger         *slog.Logger
	Metrics        *Metrics
	Clock          func() time.Time
}

// Option is a functional option for Options.
type Option func(*Options)

// DefaultOptions returns the configuration used when no option is given.
//
// Defaults:
//   - Algorithm:    AlgoBestFirst
//   - Widths:       1 .. 100 000 000, GrowthFactor 2
//   - Threads:      1, BatchSize 1
//   - TieBreak:     FIFO
//   - Dominance:    enabled
//   - Goal:         disabled (-Inf)
//   - PoolSize:     1
//   - Verbosity:    0
func DefaultOptions() Options {
	return Options{
		Algorithm:    AlgoBestFirst,
		MinWidth:     DefaultMinWidth,
		MaxWidth:     DefaultMaxWidth,
		GrowthFactor: DefaultGrowthFactor,
		Threads:      1,
		BatchSize:    1,
		TieBreak:     frontier.TieBreakFIFO,
		GreedyRank:   RankGuide,
		Dominance:    true,
		Goal:         math.Inf(-1),
		PoolSize:     1,
	}
}

// WithAlgorithm selects the algorithm used by Solve.
func WithAlgorithm(a Algorithm) Option {
	return func(o *Options) { o.Algorithm = a }
}

// WithTimeLimit sets the wall-clock budget (0 = none).
func WithTimeLimit(d time.Duration) Option {
	return func(o *Options) { o.TimeLimit = d }
}

// WithNodeLimit caps the number of expansions (0 = none). Batches are cut
// short so that Stats.Expanded never exceeds n.
func WithNodeLimit(n int64) Option {
	return func(o *Options) { o.NodeLimit = n }
}

// WithWidths sets the first and the largest queue size of iterative algorithms.
func WithWidths(minWidth, maxWidth int) Option {
	return func(o *Options) {
		o.MinWidth = minWidth
		o.MaxWidth = maxWidth
	}
}

// WithGrowthFactor sets the width multiplier between restarts.
func WithGrowthFactor(g float64) Option {
	return func(o *Options) { o.GrowthFactor = g }
}

// WithThreads sets the number of expansion workers.
func WithThreads(n int) Option {
	return func(o *Options) { o.Threads = n }
}

// WithBatchSize sets how many nodes each worker expands per iteration.
func WithBatchSize(n int) Option {
	return func(o *Options) { o.BatchSize = n }
}

// WithTieBreak sets the order among equal-guide, equal-bound nodes.
func WithTieBreak(tb frontier.TieBreak) Option {
	return func(o *Options) { o.TieBreak = tb }
}

// WithGreedyRank selects the value Greedy follows.
func WithGreedyRank(r Rank) Option {
	return func(o *Options) { o.GreedyRank = r }
}

// WithDominance enables or disables history-based pruning.
func WithDominance(enabled bool) Option {
	return func(o *Options) { o.Dominance = enabled }
}

// WithGoal stops the run once the incumbent cost reaches goal.
func WithGoal(goal scheme.Cost) Option {
	return func(o *Options) { o.Goal = goal }
}

// WithMaxFrontier sets the best-first frontier size that triggers the
// bounded fallback (0 = unbounded).
func WithMaxFrontier(n int) Option {
	return func(o *Options) { o.MaxFrontier = n }
}

// WithMaxHistory sets the history size that triggers LRU eviction (0 = unbounded).
func WithMaxHistory(n int) Option {
	return func(o *Options) { o.MaxHistory = n }
}

// WithPoolSize keeps the n best solutions.
func WithPoolSize(n int) Option {
	return func(o *Options) { o.PoolSize = n }
}

// WithBootstrap runs a greedy descent before the selected algorithm.
func WithBootstrap() Option {
	return func(o *Options) { o.Bootstrap = true }
}

// WithInitialIncumbent warm-starts the run with a known solution.
func WithInitialIncumbent(s incumbent.Solution) Option {
	return func(o *Options) { o.Initial = &s }
}

// WithSink publishes every improvement to s.
func WithSink(s incumbent.Sink) Option {
	return func(o *Options) { o.Sink = s }
}

// WithReportInterval throttles Sink deliveries.
func WithReportInterval(d time.Duration) Option {
	return func(o *Options) { o.ReportInterval = d }
}

// WithVerbosity sets the logging level of the run (0..3).
func WithVerbosity(v int) Option {
	return func(o *Options) { o.Verbosity = v }
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) { o.Logger = l }
}

// WithMetrics records run counters into m.
func WithMetrics(m *Metrics) Option {
	return func(o *Options) { o.Metrics = m }
}

// WithClock replaces time.Now (tests).
func WithClock(now func() time.Time) Option {
	return func(o *Options) { o.Clock = now }
}

// Validate checks the option set and returns the first violated sentinel,
// wrapped with the offending values.
//
// Preconditions and validation (in order):
//  1. Algorithm is a known value (ErrUnknownAlgorithm).
//  2. 1 <= MinWidth <= MaxWidth (ErrBadWidths).
//  3. GrowthFactor >= 1 and not NaN (ErrBadGrowth).
//  4. Threads >= 1 and BatchSize >= 1 (ErrBadThreads).
//  5. TimeLimit, NodeLimit, MaxFrontier, MaxHistory and ReportInterval are
//     non-negative (ErrNegativeLimit).
//  6. PoolSize >= 1 (ErrBadPoolSize).
//
// Returns:
//
//   - nil when every check passes; use errors.Is to match the sentinel.
//
// Complexity:
//
//   - Time:  O(1)
//   - Space: O(1)
func (o Options) Validate() error {
	if _, ok := algorithmNames[o.Algorithm]; !ok {
		return fmt.Errorf("%w: %d", ErrUnknownAlgorithm, int(o.Algorithm))
	}
	if o.MinWidth < 1 || o.MaxWidth < o.MinWidth {
		return fmt.Errorf("%w: min=%d max=%d", ErrBadWidths, o.MinWidth, o.MaxWidth)
	}
	if math.IsNaN(o.GrowthFactor) || o.GrowthFactor < 1 {
		return fmt.Errorf("%w: %v", ErrBadGrowth, o.GrowthFactor)
	}
	if o.Threads < 1 || o.BatchSize < 1 {
		return fmt.Errorf("%w: threads=%d batch=%d", ErrBadThreads, o.Threads, o.BatchSize)
	}
	if o.TimeLimit < 0 || o.NodeLimit < 0 || o.MaxFrontier < 0 || o.MaxHistory < 0 || o.ReportInterval < 0 {
		return ErrNegativeLimit
	}
	if o.PoolSize < 1 {
		return fmt.Errorf("%w: %d", ErrBadPoolSize, o.PoolSize)
	}

	return nil
}

// nextWidth returns the queue size of the restart following w.
func nextWidth(w int, growth float64) int {
	n := int(float64(w) * growth)
	if n < w+1 {
		n = w + 1
	}

	return n
}

func buildOptions(opts []Option) Options {
	cfg := DefaultOptions()
	var opt Option
	for _, opt = range opts {
		opt(&cfg)
	}

	return cfg
}
