package search

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics groups the Prometheus collectors updated by search runs.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	runs          *prometheus.CounterVec
	runDuration   *prometheus.HistogramVec
	passes        *prometheus.CounterVec
	generated     *prometheus.CounterVec
	expanded      *prometheus.CounterVec
	discarded     *prometheus.CounterVec
	improvements  *prometheus.CounterVec
	incumbentCost *prometheus.GaugeVec
	frontierSize  *prometheus.GaugeVec
}

// NewMetrics registers the search collectors with reg.
// Passing prometheus.DefaultRegisterer exposes them on the default /metrics.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)

	return &Metrics{
		runs: f.NewCounterVec(prometheus.CounterOpts{
			Name: "treesearch_runs_total",
			Help: "Finished search runs by algorithm and stop reason",
		}, []string{"algorithm", "reason"}),

		runDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "treesearch_run_duration_seconds",
			Help:    "Search run duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 10), // 1ms to ~4min
		}, []string{"algorithm"}),

		passes: f.NewCounterVec(prometheus.CounterOpts{
			Name: "treesearch_passes_total",
			Help: "Restarts of iterative algorithms",
		}, []string{"algorithm"}),

		generated: f.NewCounterVec(prometheus.CounterOpts{
			Name: "treesearch_nodes_generated_total",
			Help: "Children produced by the branching scheme",
		}, []string{"algorithm"}),

		expanded: f.NewCounterVec(prometheus.CounterOpts{
			Name: "treesearch_nodes_expanded_total",
			Help: "Nodes whose children were generated",
		}, []string{"algorithm"}),

		discarded: f.NewCounterVec(prometheus.CounterOpts{
			Name: "treesearch_nodes_discarded_total",
			Help: "Nodes dropped by cause (bound, dominated, evicted)",
		}, []string{"algorithm", "cause"}),

		improvements: f.NewCounterVec(prometheus.CounterOpts{
			Name: "treesearch_incumbent_improvements_total",
			Help: "Strict improvements of the incumbent",
		}, []string{"algorithm"}),

		incumbentCost: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "treesearch_incumbent_cost",
			Help: "Cost of the latest incumbent",
		}, []string{"algorithm"}),

		frontierSize: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "treesearch_frontier_size",
			Help: "Number of nodes waiting in the frontier",
		}, []string{"algorithm"}),
	}
}

// flush adds the counter deltas accumulated since the previous flush.
func (m *Metrics) flush(algo string, d Stats, frontier int) {
	if m == nil {
		return
	}
	m.generated.WithLabelValues(algo).Add(float64(d.Generated))
	m.expanded.WithLabelValues(algo).Add(float64(d.Expanded))
	m.discarded.WithLabelValues(algo, "bound").Add(float64(d.Pruned))
	m.discarded.WithLabelValues(algo, "dominated").Add(float64(d.Dominated))
	m.discarded.WithLabelValues(algo, "evicted").Add(float64(d.Evicted))
	m.frontierSize.WithLabelValues(algo).Set(float64(frontier))
}

func (m *Metrics) improved(algo string, cost float64) {
	if m == nil {
		return
	}
	m.improvements.WithLabelValues(algo).Inc()
	m.incumbentCost.WithLabelValues(algo).Set(cost)
}

func (m *Metrics) pass(algo string) {
	if m == nil {
		return
	}
	m.passes.WithLabelValues(algo).Inc()
}

func (m *Metrics) finished(algo string, reason Reason, seconds float64) {
	if m == nil {
		return
	}
	m.runs.WithLabelValues(algo, reason.String()).Inc()
	m.runDuration.WithLabelValues(algo).Observe(seconds)
	m.frontierSize.WithLabelValues(algo).Set(0)
}
