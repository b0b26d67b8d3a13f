package search

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// tracer is a no-op until the application installs a TracerProvider.
var tracer = otel.Tracer("treesearch.search")

// Verbosity levels.
const (
	verbositySummary = 1
	verbosityImprove = 2
	verbosityPasses  = 3
)

func startRunSpan(ctx context.Context, r *runner) (context.Context, trace.Span) {
	return tracer.Start(ctx, "search.Run",
		trace.WithAttributes(
			attribute.String("search.algorithm", r.opts.Algorithm.String()),
			attribute.String("search.run_id", r.tracker.RunID().String()),
			attribute.Int("search.threads", r.opts.Threads),
			attribute.Int64("search.time_limit_ms", r.opts.TimeLimit.Milliseconds()),
		),
	)
}

func startPassSpan(ctx context.Context, pass, width int) (context.Context, trace.Span) {
	return tracer.Start(ctx, "search.Pass",
		trace.WithAttributes(
			attribute.Int("search.pass", pass),
			attribute.Int("search.width", width),
		),
	)
}

func endPassSpan(span trace.Span, ps PassStats) {
	span.SetAttributes(
		attribute.Int64("search.expanded", ps.Expanded),
		attribute.Int("search.max_frontier", ps.MaxFrontier),
		attribute.Bool("search.exhaustive", ps.Exhaustive),
	)
	span.End()
}

func endRunSpan(span trace.Span, res *Result) {
	span.SetAttributes(
		attribute.String("search.reason", res.Reason.String()),
		attribute.String("search.status", res.Status().String()),
		attribute.Bool("search.degraded", res.Degraded),
		attribute.Int64("search.expanded", res.Stats.Expanded),
	)
	if res.Found {
		span.SetAttributes(attribute.Float64("search.cost", res.Cost))
	}
	span.SetStatus(codes.Ok, "")
	span.End()
}

// logAt writes msg when the run verbosity is at least level.
func (r *runner) logAt(level int, slevel slog.Level, msg string, attrs ...slog.Attr) {
	if r.opts.Verbosity < level {
		return
	}
	attrs = append(attrs,
		slog.String("run_id", r.tracker.RunID().String()),
		slog.String("algorithm", r.opts.Algorithm.String()),
	)
	r.logger.LogAttrs(r.ctx, slevel, msg, attrs...)
}
