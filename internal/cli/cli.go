// Package cli holds the plumbing shared by the treesearch commands: flag
// binding, configuration, running a scheme and printing a JSON report.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"os/signal"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/treesearch/config"
	"github.com/katalvlaran/treesearch/incumbent"
	"github.com/katalvlaran/treesearch/scheme"
	"github.com/katalvlaran/treesearch/search"
)

// Flags are the persistent flags of the root command. Flags left unset
// keep the value from the configuration file or the environment.
type Flags struct {
	Config    string
	Algorithm string
	TimeLimit time.Duration
	NodeLimit int64
	Threads   int
	Verbosity int
	Metrics   bool
	Events    bool
}

// Bind registers f on cmd as persistent flags.
func (f *Flags) Bind(cmd *cobra.Command) {
	fs := cmd.PersistentFlags()
	fs.StringVarP(&f.Config, "config", "c", "", "YAML configuration file")
	fs.StringVarP(&f.Algorithm, "algorithm", "a", "", "greedy, best-first, depth-first, iterative-beam-search, iterative-memory-bounded-best-first, anytime-column-search or nested-best-first-breadth-first")
	fs.DurationVarP(&f.TimeLimit, "time-limit", "t", 0, "wall-clock budget (0 = none)")
	fs.Int64Var(&f.NodeLimit, "node-limit", 0, "expansion budget (0 = none)")
	fs.IntVarP(&f.Threads, "threads", "j", 1, "parallel expansion workers")
	fs.IntVarP(&f.Verbosity, "verbosity", "v", 0, "0 silent, 1 summaries, 2 improvements, 3 passes")
	fs.BoolVar(&f.Metrics, "metrics", false, "include collected metrics in the report")
	fs.BoolVar(&f.Events, "events", false, "include improvement events in the report")
}

// Load reads the configuration and applies the flags the user set.
func (f *Flags) Load(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(f.Config)
	if err != nil {
		return cfg, err
	}
	changed := cmd.Flags().Changed
	if changed("algorithm") {
		cfg.Search.Algorithm = f.Algorithm
	}
	if changed("time-limit") {
		cfg.Limits.TimeLimit = f.TimeLimit
	}
	if changed("node-limit") {
		cfg.Limits.NodeLimit = f.NodeLimit
	}
	if changed("threads") {
		cfg.Search.Threads = f.Threads
	}
	if changed("verbosity") {
		cfg.Observability.Verbosity = f.Verbosity
	}
	if changed("metrics") {
		cfg.Observability.Metrics = f.Metrics
	}
	if err = cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid flags: %w", err)
	}

	return cfg, nil
}

// Report is the JSON document printed after a run.
type Report struct {
	RunID     string             `json:"run_id"`
	Algorithm string             `json:"algorithm"`
	Status    string             `json:"status"`
	Reason    string             `json:"reason"`
	Cost      *float64           `json:"cost,omitempty"`
	Degraded  bool               `json:"degraded,omitempty"`
	Elapsed   string             `json:"elapsed"`
	Solution  any                `json:"solution,omitempty"`
	Stats     search.Stats       `json:"stats"`
	Events    []incumbent.Event  `json:"events,omitempty"`
	Metrics   map[string]float64 `json:"metrics,omitempty"`
}

// Run solves s with the configured options and prints the report to the
// command's output. decode turns a result with a solution into its
// problem-specific form.
func (f *Flags) Run(cmd *cobra.Command, s scheme.Scheme, decode func(search.Result) any) error {
	cfg, err := f.Load(cmd)
	if err != nil {
		return err
	}
	logger, err := cfg.Observability.NewLogger(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	opts, err := cfg.Options()
	if err != nil {
		return err
	}
	opts = append(opts, search.WithLogger(logger))

	var reg *prometheus.Registry
	if cfg.Observability.Metrics {
		reg = prometheus.NewRegistry()
		opts = append(opts, search.WithMetrics(search.NewMetrics(reg)))
	}

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt)
	defer stop()

	res, err := search.Solve(ctx, s, opts...)
	if err != nil {
		return err
	}

	rep := Report{
		RunID:     res.RunID.String(),
		Algorithm: res.Algorithm.String(),
		Status:    res.Status().String(),
		Reason:    res.Reason.String(),
		Degraded:  res.Degraded,
		Elapsed:   res.Elapsed.String(),
		Stats:     res.Stats,
	}
	if res.Found && !math.IsInf(res.Cost, 0) {
		cost := res.Cost
		rep.Cost = &cost
		if decode != nil {
			rep.Solution = decode(res)
		}
	}
	if f.Events {
		rep.Events = res.Events
	}
	if reg != nil {
		if rep.Metrics, err = gatherTotals(reg); err != nil {
			return err
		}
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")

	return enc.Encode(rep)
}

// gatherTotals sums every sample per metric family; histograms contribute
// their observation count.
func gatherTotals(reg prometheus.Gatherer) (map[string]float64, error) {
	families, err := reg.Gather()
	if err != nil {
		return nil, fmt.Errorf("gather metrics: %w", err)
	}
	out := make(map[string]float64, len(families))
	for _, fam := range families {
		total := 0.0
		for _, m := range fam.GetMetric() {
			total += m.GetCounter().GetValue()
			total += m.GetGauge().GetValue()
			total += float64(m.GetHistogram().GetSampleCount())
		}
		out[fam.GetName()] = total
	}

	return out, nil
}

// ReadInstance decodes a YAML (or JSON) instance file into out.
func ReadInstance(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read instance: %w", err)
	}
	if err = yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse instance %s: %w", path, err)
	}

	return nil
}

// commandContext is the context used when a command runs outside Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}

	return context.Background()
}
