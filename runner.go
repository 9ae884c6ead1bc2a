package callgraph

import (
	"context"
	"log/slog"

	"github.com/anthony-arnold/callgraph/internal/metrics"
	"github.com/anthony-arnold/callgraph/internal/runner"
)

// Runner executes a single Graph, potentially many times in sequence. The
// zero value is not usable; construct one with NewRunner.
type Runner struct {
	r *runner.Runner
}

// Option configures a Runner at construction time.
type Option = runner.Option

// WithWorkers overrides the minimum worker count. The Runner still ensures
// at least Graph.Depth() workers at Execute time regardless of this setting.
func WithWorkers(n int) Option { return runner.WithWorkers(n) }

// WithLogger overrides the logger threaded through node invocations.
func WithLogger(logger *slog.Logger) Option { return runner.WithLogger(logger) }

// WithMetrics registers a Sink to receive node and run events.
func WithMetrics(sink Sink) Option { return runner.WithMetrics(sink) }

// NewRunner constructs a Runner bound to g.
func NewRunner(g *Graph, opts ...Option) *Runner {
	return &Runner{r: runner.New(g.g, opts...)}
}

// Execute resets every node, schedules the root, and returns immediately
// with a Completion that resolves once every reachable node has run or a
// node has failed. A Runner may Execute the same Graph multiple times in
// sequence; the caller must await one run's Completion before starting the
// next.
func (r *Runner) Execute(ctx context.Context) *Completion {
	return r.r.Execute(ctx)
}

// Completion is the handle returned by Execute: a one-shot signal that
// resolves once a run finishes, successfully or not.
type Completion = runner.Completion

// Sink receives node and run events from a Runner configured with
// WithMetrics.
type Sink = metrics.Sink

// NoopSink discards every event; it is the default Sink.
type NoopSink = metrics.NoopSink

// OTelSink reports node and run events as OpenTelemetry metrics.
type OTelSink = metrics.OTelSink

// NewOTelSink returns a Sink that records to the global OpenTelemetry
// MeterProvider.
func NewOTelSink(logger *slog.Logger) *OTelSink { return metrics.NewOTelSink(logger) }
