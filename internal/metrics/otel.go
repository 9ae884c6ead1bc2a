package metrics

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var meter = otel.Meter("callgraph.runner")

// OTelSink reports node and run events as OpenTelemetry metrics: a
// duration histogram and success/failure counters per node, plus an
// overall run-duration histogram. Instrument registration is lazy and
// happens once, the first time an OTelSink is asked to record anything, so
// constructing one before a global MeterProvider is installed is safe.
type OTelSink struct {
	logger *slog.Logger

	initOnce      sync.Once
	nodeDuration  metric.Float64Histogram
	nodeSuccesses metric.Int64Counter
	nodeFailures  metric.Int64Counter
	runDuration   metric.Float64Histogram
}

// NewOTelSink returns a Sink that records to the global OpenTelemetry
// MeterProvider. If logger is nil, slog.Default() is used to report
// instrument-registration failures, which are non-fatal: a Runner keeps
// running with degraded observability rather than failing a call graph
// execution over a metrics backend problem.
func NewOTelSink(logger *slog.Logger) *OTelSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &OTelSink{logger: logger}
}

func (s *OTelSink) init() {
	s.initOnce.Do(func() {
		var errs []string

		var err error
		s.nodeDuration, err = meter.Float64Histogram("callgraph_node_duration_seconds",
			metric.WithDescription("Time spent invoking a single unit"),
			metric.WithUnit("s"),
		)
		if err != nil {
			errs = append(errs, "node_duration: "+err.Error())
		}

		s.nodeSuccesses, err = meter.Int64Counter("callgraph_node_success_total",
			metric.WithDescription("Number of units invoked successfully"),
		)
		if err != nil {
			errs = append(errs, "node_successes: "+err.Error())
		}

		s.nodeFailures, err = meter.Int64Counter("callgraph_node_failure_total",
			metric.WithDescription("Number of units that returned an error"),
		)
		if err != nil {
			errs = append(errs, "node_failures: "+err.Error())
		}

		s.runDuration, err = meter.Float64Histogram("callgraph_run_duration_seconds",
			metric.WithDescription("Total time from Execute to completion"),
			metric.WithUnit("s"),
		)
		if err != nil {
			errs = append(errs, "run_duration: "+err.Error())
		}

		if len(errs) > 0 {
			s.logger.Error("failed to initialize some callgraph metrics (observability degraded)",
				slog.Int("failed_count", len(errs)),
				slog.Any("errors", errs),
			)
		}
	})
}

func (s *OTelSink) NodeStarted(runID, node string) {
	s.init()
}

func (s *OTelSink) NodeCompleted(runID, node string, d time.Duration) {
	s.init()
	attrs := metric.WithAttributes(attribute.String("run_id", runID), attribute.String("node", node))
	if s.nodeDuration != nil {
		s.nodeDuration.Record(context.Background(), d.Seconds(), attrs)
	}
	if s.nodeSuccesses != nil {
		s.nodeSuccesses.Add(context.Background(), 1, attrs)
	}
}

func (s *OTelSink) NodeFailed(runID, node string, d time.Duration, err error) {
	s.init()
	attrs := metric.WithAttributes(attribute.String("run_id", runID), attribute.String("node", node))
	if s.nodeDuration != nil {
		s.nodeDuration.Record(context.Background(), d.Seconds(), attrs)
	}
	if s.nodeFailures != nil {
		s.nodeFailures.Add(context.Background(), 1, attrs)
	}
}

func (s *OTelSink) RunCompleted(runID string, d time.Duration, err error) {
	s.init()
	if s.runDuration == nil {
		return
	}
	s.runDuration.Record(context.Background(), d.Seconds(), metric.WithAttributes(attribute.String("run_id", runID)))
}

var _ Sink = (*OTelSink)(nil)
