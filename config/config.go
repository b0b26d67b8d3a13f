// Package config loads search settings from YAML files and the environment
// and turns them into search options.
//
// Priority is environment > file > defaults. Durations use Go syntax
// ("250ms", "1m30s"); the goal accepts ".inf"/"-.inf".
//
//	search:
//	  algorithm: iterative-beam-search
//	  threads: 4
//	limits:
//	  time_limit: 10s
//	beam:
//	  min_width: 1
//	  max_width: 4096
//	  growth_factor: 2
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/treesearch/frontier"
	"github.com/katalvlaran/treesearch/search"
)

// MaxFileSize bounds the size of a configuration file (1 MiB).
const MaxFileSize = 1 << 20

// Environment variables read by Load.
const (
	EnvAlgorithm = "TREESEARCH_ALGORITHM"
	EnvTimeLimit = "TREESEARCH_TIME_LIMIT"
	EnvNodeLimit = "TREESEARCH_NODE_LIMIT"
	EnvThreads   = "TREESEARCH_THREADS"
	EnvVerbosity = "TREESEARCH_VERBOSITY"
)

// Sentinel errors.
var (
	// ErrFileTooLarge indicates a configuration file above MaxFileSize.
	ErrFileTooLarge = errors.New("config: file too large")

	// ErrUnknownTieBreak indicates a tie_break other than "fifo" or "lifo".
	ErrUnknownTieBreak = errors.New("config: unknown tie_break")

	// ErrUnknownRank indicates a greedy_rank other than "guide" or "bound".
	ErrUnknownRank = errors.New("config: unknown greedy_rank")

	// ErrUnknownLogFormat indicates a log_format other than "text" or "json".
	ErrUnknownLogFormat = errors.New("config: unknown log_format")

	// ErrBadEnv indicates an environment override that does not parse.
	ErrBadEnv = errors.New("config: bad environment value")
)

// Config is the file layout.
type Config struct {
	Search        SearchConfig        `json:"search" yaml:"search"`
	Limits        LimitsConfig        `json:"limits" yaml:"limits"`
	Beam          BeamConfig          `json:"beam" yaml:"beam"`
	Memory        MemoryConfig        `json:"memory" yaml:"memory"`
	Observability ObservabilityConfig `json:"observability" yaml:"observability"`
}

// SearchConfig selects the algorithm and its knobs.
type SearchConfig struct {
	Algorithm  string  `json:"algorithm" yaml:"algorithm"`
	Threads    int     `json:"threads" yaml:"threads"`
	BatchSize  int     `json:"batch_size" yaml:"batch_size"`
	TieBreak   string  `json:"tie_break" yaml:"tie_break"`
	GreedyRank string  `json:"greedy_rank" yaml:"greedy_rank"`
	Dominance  bool    `json:"dominance" yaml:"dominance"`
	Bootstrap  bool    `json:"bootstrap" yaml:"bootstrap"`
	PoolSize   int     `json:"pool_size" yaml:"pool_size"`
	Goal       float64 `json:"goal" yaml:"goal"`
}

// LimitsConfig holds the run budgets; zero means none.
type LimitsConfig struct {
	TimeLimit time.Duration `json:"time_limit" yaml:"time_limit"`
	NodeLimit int64         `json:"node_limit" yaml:"node_limit"`
}

// BeamConfig holds the restart schedule of iterative algorithms.
type BeamConfig struct {
	MinWidth     int     `json:"min_width" yaml:"min_width"`
	MaxWidth     int     `json:"max_width" yaml:"max_width"`
	GrowthFactor float64 `json:"growth_factor" yaml:"growth_factor"`
}

// MemoryConfig holds the soft memory caps; zero means unbounded.
type MemoryConfig struct {
	MaxFrontier int `json:"max_frontier" yaml:"max_frontier"`
	MaxHistory  int `json:"max_history" yaml:"max_history"`
}

// ObservabilityConfig controls logging and progress reporting.
type ObservabilityConfig struct {
	Verbosity      int           `json:"verbosity" yaml:"verbosity"`
	ReportInterval time.Duration `json:"report_interval" yaml:"report_interval"`
	LogLevel       string        `json:"log_level" yaml:"log_level"`
	LogFormat      string        `json:"log_format" yaml:"log_format"`
	Metrics        bool          `json:"metrics" yaml:"metrics"`
}

// Default returns the configuration matching search.DefaultOptions.
func Default() Config {
	o := search.DefaultOptions()

	return Config{
		Search: SearchConfig{
			Algorithm:  o.Algorithm.String(),
			Threads:    o.Threads,
			BatchSize:  o.BatchSize,
			TieBreak:   o.TieBreak.String(),
			GreedyRank: "guide",
			Dominance:  o.Dominance,
			PoolSize:   o.PoolSize,
			Goal:       o.Goal,
		},
		Beam: BeamConfig{
			MinWidth:     o.MinWidth,
			MaxWidth:     o.MaxWidth,
			GrowthFactor: o.GrowthFactor,
		},
		Observability: ObservabilityConfig{
			LogLevel:  "info",
			LogFormat: "text",
		},
	}
}

// Load reads path (empty: defaults only), applies environment overrides
// and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := readFile(path)
		if err != nil {
			return cfg, fmt.Errorf("load config file: %w", err)
		}
		if err = decode(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}
	if err := applyEnv(&cfg, os.LookupEnv); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Parse decodes YAML over the defaults and validates the result. The
// environment is not consulted.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := decode(data, &cfg); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func readFile(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.Size() > MaxFileSize {
		return nil, fmt.Errorf("%w: %d bytes (max %d)", ErrFileTooLarge, info.Size(), MaxFileSize)
	}

	return os.ReadFile(path)
}

// decode rejects unknown keys so that typos do not pass silently.
func decode(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}

	return nil
}

func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvAlgorithm); ok && v != "" {
		cfg.Search.Algorithm = v
	}
	if v, ok := lookup(EnvTimeLimit); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q", ErrBadEnv, EnvTimeLimit, v)
		}
		cfg.Limits.TimeLimit = d
	}
	if v, ok := lookup(EnvNodeLimit); ok && v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%w: %s=%q", ErrBadEnv, EnvNodeLimit, v)
		}
		cfg.Limits.NodeLimit = n
	}
	if v, ok := lookup(EnvThreads); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q", ErrBadEnv, EnvThreads, v)
		}
		cfg.Search.Threads = n
	}
	if v, ok := lookup(EnvVerbosity); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q", ErrBadEnv, EnvVerbosity, v)
		}
		cfg.Observability.Verbosity = n
	}

	return nil
}

// Validate checks the enumerations and the resulting search options.
func (c Config) Validate() error {
	opts, err := c.Options()
	if err != nil {
		return err
	}
	o := search.DefaultOptions()
	var opt search.Option
	for _, opt = range opts {
		opt(&o)
	}
	if err = o.Validate(); err != nil {
		return err
	}
	if _, err = c.Observability.Level(); err != nil {
		return err
	}
	switch strings.ToLower(c.Observability.LogFormat) {
	case "", "text", "json":
	default:
		return fmt.Errorf("%w: %q", ErrUnknownLogFormat, c.Observability.LogFormat)
	}

	return nil
}

// Options converts the configuration into search options. Logger, metrics
// and sinks are left to the caller.
func (c Config) Options() ([]search.Option, error) {
	algo, err := search.ParseAlgorithm(c.Search.Algorithm)
	if err != nil {
		return nil, err
	}
	tb, err := parseTieBreak(c.Search.TieBreak)
	if err != nil {
		return nil, err
	}
	rank, err := parseRank(c.Search.GreedyRank)
	if err != nil {
		return nil, err
	}

	opts := []search.Option{
		search.WithAlgorithm(algo),
		search.WithTimeLimit(c.Limits.TimeLimit),
		search.WithNodeLimit(c.Limits.NodeLimit),
		search.WithWidths(c.Beam.MinWidth, c.Beam.MaxWidth),
		search.WithGrowthFactor(c.Beam.GrowthFactor),
		search.WithThreads(c.Search.Threads),
		search.WithBatchSize(c.Search.BatchSize),
		search.WithTieBreak(tb),
		search.WithGreedyRank(rank),
		search.WithDominance(c.Search.Dominance),
		search.WithGoal(c.Search.Goal),
		search.WithMaxFrontier(c.Memory.MaxFrontier),
		search.WithMaxHistory(c.Memory.MaxHistory),
		search.WithPoolSize(c.Search.PoolSize),
		search.WithVerbosity(c.Observability.Verbosity),
		search.WithReportInterval(c.Observability.ReportInterval),
	}
	if c.Search.Bootstrap {
		opts = append(opts, search.WithBootstrap())
	}

	return opts, nil
}

// Level maps LogLevel onto slog; empty means info.
func (o ObservabilityConfig) Level() (slog.Level, error) {
	var lvl slog.Level
	if o.LogLevel == "" {
		return slog.LevelInfo, nil
	}
	if err := lvl.UnmarshalText([]byte(o.LogLevel)); err != nil {
		return lvl, fmt.Errorf("config: log_level: %w", err)
	}

	return lvl, nil
}

// NewLogger builds a slog.Logger writing to w in the configured format.
func (o ObservabilityConfig) NewLogger(w io.Writer) (*slog.Logger, error) {
	lvl, err := o.Level()
	if err != nil {
		return nil, err
	}
	hopts := &slog.HandlerOptions{Level: lvl}
	switch strings.ToLower(o.LogFormat) {
	case "", "text":
		return slog.New(slog.NewTextHandler(w, hopts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, hopts)), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownLogFormat, o.LogFormat)
	}
}

func parseTieBreak(s string) (frontier.TieBreak, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "fifo":
		return frontier.TieBreakFIFO, nil
	case "lifo":
		return frontier.TieBreakLIFO, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownTieBreak, s)
	}
}

func parseRank(s string) (search.Rank, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "guide":
		return search.RankGuide, nil
	case "bound":
		return search.RankBound, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownRank, s)
	}
}
