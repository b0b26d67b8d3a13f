package config_test

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/treesearch/config"
	"github.com/katalvlaran/treesearch/frontier"
	"github.com/katalvlaran/treesearch/search"
)

// apply folds opts over the search defaults.
func apply(t *testing.T, cfg config.Config) search.Options {
	t.Helper()
	opts, err := cfg.Options()
	require.NoError(t, err)
	o := search.DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	return o
}

func TestDefault_MatchesSearchDefaults(t *testing.T) {
	cfg := config.Default()
	require.NoError(t, cfg.Validate())

	got := apply(t, cfg)
	want := search.DefaultOptions()
	require.Equal(t, want.Algorithm, got.Algorithm)
	require.Equal(t, want.MinWidth, got.MinWidth)
	require.Equal(t, want.MaxWidth, got.MaxWidth)
	require.Equal(t, want.GrowthFactor, got.GrowthFactor)
	require.Equal(t, want.TieBreak, got.TieBreak)
	require.Equal(t, want.Dominance, got.Dominance)
	require.True(t, math.IsInf(got.Goal, -1))
	require.False(t, got.Bootstrap)
}

func TestParse_Overrides(t *testing.T) {
	cfg, err := config.Parse([]byte(`
search:
  algorithm: ibs
  threads: 4
  batch_size: 8
  tie_break: lifo
  greedy_rank: bound
  dominance: false
  bootstrap: true
  pool_size: 3
  goal: -100
limits:
  time_limit: 1m30s
  node_limit: 5000
beam:
  min_width: 2
  max_width: 64
  growth_factor: 1.5
memory:
  max_frontier: 1000
  max_history: 2000
observability:
  verbosity: 2
  report_interval: 250ms
  log_format: json
`))
	require.NoError(t, err)

	o := apply(t, cfg)
	require.Equal(t, search.AlgoIterativeBeamSearch, o.Algorithm)
	require.Equal(t, 4, o.Threads)
	require.Equal(t, 8, o.BatchSize)
	require.Equal(t, frontier.TieBreakLIFO, o.TieBreak)
	require.Equal(t, search.RankBound, o.GreedyRank)
	require.False(t, o.Dominance)
	require.True(t, o.Bootstrap)
	require.Equal(t, 3, o.PoolSize)
	require.Equal(t, -100.0, o.Goal)
	require.Equal(t, 90*time.Second, o.TimeLimit)
	require.Equal(t, int64(5000), o.NodeLimit)
	require.Equal(t, 2, o.MinWidth)
	require.Equal(t, 64, o.MaxWidth)
	require.Equal(t, 1.5, o.GrowthFactor)
	require.Equal(t, 1000, o.MaxFrontier)
	require.Equal(t, 2000, o.MaxHistory)
	require.Equal(t, 2, o.Verbosity)
	require.Equal(t, 250*time.Millisecond, o.ReportInterval)
}

func TestParse_Empty(t *testing.T) {
	cfg, err := config.Parse(nil)
	require.NoError(t, err)
	require.Equal(t, config.Default(), cfg)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want error
	}{
		{"unknown algorithm", "search: {algorithm: simplex}", search.ErrUnknownAlgorithm},
		{"unknown tie break", "search: {tie_break: random}", config.ErrUnknownTieBreak},
		{"unknown rank", "search: {greedy_rank: depth}", config.ErrUnknownRank},
		{"zero threads", "search: {threads: 0}", search.ErrBadThreads},
		{"zero pool", "search: {pool_size: 0}", search.ErrBadPoolSize},
		{"inverted widths", "beam: {min_width: 8, max_width: 4}", search.ErrBadWidths},
		{"shrinking growth", "beam: {growth_factor: 0.5}", search.ErrBadGrowth},
		{"negative limit", "limits: {node_limit: -1}", search.ErrNegativeLimit},
		{"unknown log format", "observability: {log_format: xml}", config.ErrUnknownLogFormat},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := config.Parse([]byte(tc.yaml))
			require.ErrorIs(t, err, tc.want)
		})
	}
}

func TestParse_RejectsUnknownKeys(t *testing.T) {
	_, err := config.Parse([]byte("search:\n  algoritm: dfs\n"))
	require.Error(t, err)
}

func TestParse_InfiniteGoal(t *testing.T) {
	cfg, err := config.Parse([]byte("search: {goal: -.inf}"))
	require.NoError(t, err)
	require.True(t, math.IsInf(cfg.Search.Goal, -1))
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte("search:\n  algorithm: dfs\n  threads: 2\n"), 0o644))

	t.Setenv(config.EnvThreads, "6")
	t.Setenv(config.EnvTimeLimit, "2s")

	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, "dfs", cfg.Search.Algorithm)
	require.Equal(t, 6, cfg.Search.Threads, "environment wins over the file")
	require.Equal(t, 2*time.Second, cfg.Limits.TimeLimit)
}

func TestLoad_NoPath(t *testing.T) {
	t.Setenv(config.EnvAlgorithm, "greedy")
	t.Setenv(config.EnvVerbosity, "1")

	cfg, err := config.Load("")
	require.NoError(t, err)
	require.Equal(t, "greedy", cfg.Search.Algorithm)
	require.Equal(t, 1, cfg.Observability.Verbosity)
}

func TestLoad_Errors(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)

	big := filepath.Join(t.TempDir(), "big.yaml")
	require.NoError(t, os.WriteFile(big, bytes.Repeat([]byte("#"), config.MaxFileSize+1), 0o644))
	_, err = config.Load(big)
	require.ErrorIs(t, err, config.ErrFileTooLarge)

	t.Setenv(config.EnvNodeLimit, "lots")
	_, err = config.Load("")
	require.ErrorIs(t, err, config.ErrBadEnv)
}

func TestObservability_NewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := config.ObservabilityConfig{LogLevel: "warn", LogFormat: "json"}.NewLogger(&buf)
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("shown", "k", 1)
	out := buf.String()
	require.NotContains(t, out, "hidden")
	require.True(t, strings.HasPrefix(out, "{"), out)
	require.Contains(t, out, `"k":1`)

	_, err = config.ObservabilityConfig{LogLevel: "loud"}.NewLogger(&buf)
	require.Error(t, err)
}
