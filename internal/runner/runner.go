// Package runner executes a graph.Graph: a worker pool pulls ready nodes
// off a queue, invokes each at most once, and fans its completion out to
// successors, until every leaf has run or a node fails.
package runner

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/anthony-arnold/callgraph/internal/ctxlog"
	"github.com/anthony-arnold/callgraph/internal/graph"
	"github.com/anthony-arnold/callgraph/internal/graphnode"
	"github.com/anthony-arnold/callgraph/internal/metrics"
)

type config struct {
	workers int
	logger  *slog.Logger
	sink    metrics.Sink
}

// Option configures a Runner at construction time.
type Option func(*config)

// WithWorkers overrides the minimum worker count. The Runner still ensures
// at least graph.Depth() workers at Execute time regardless of this
// setting, since Depth grows with the graph's root-to-leaf path count and
// so gives a reasonable floor on how much concurrency a wide or deep graph
// can actually use.
func WithWorkers(n int) Option {
	return func(c *config) { c.workers = n }
}

// WithLogger overrides the logger threaded through node invocations via
// ctxlog. If unset, the logger already present in the context passed to
// Execute is used.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// WithMetrics registers a Sink to receive node and run events. If unset,
// events are discarded.
func WithMetrics(sink metrics.Sink) Option {
	return func(c *config) { c.sink = sink }
}

// Runner executes a single Graph, potentially many times in sequence. A
// Runner is not safe for concurrent Execute calls against the same
// instance; the caller must await one run's Completion before starting the
// next.
type Runner struct {
	graph *graph.Graph
	cfg   config
}

// New constructs a Runner bound to g.
func New(g *graph.Graph, opts ...Option) *Runner {
	cfg := config{
		workers: runtime.GOMAXPROCS(0),
		sink:    metrics.NoopSink{},
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Runner{graph: g, cfg: cfg}
}

// Execute resets every node, schedules the root, and returns immediately
// with a Completion that resolves once every reachable node has run or a
// node has failed. It does not block; call Completion.Wait or
// Completion.WaitContext to observe the outcome.
func (r *Runner) Execute(ctx context.Context) *Completion {
	comp := newCompletion()

	if !r.graph.Valid() {
		comp.fulfill(fmt.Errorf("runner: graph has unbound parameter slots"))
		return comp
	}

	r.graph.ResetAll()

	runID := uuid.NewString()
	logger := r.cfg.logger
	if logger == nil {
		logger = ctxlog.FromContext(ctx)
	}
	logger = logger.With("run_id", runID)
	runCtx := ctxlog.WithLogger(ctx, logger)

	workers := r.cfg.workers
	if d := r.graph.Depth(); d > workers {
		workers = d
	}

	ready := make(chan *graphnode.Node, r.graph.NodeCount())
	var stopOnce sync.Once

	// queueMu serializes every send against the close in stop, so a send
	// can never race a close of the same channel.
	var queueMu sync.Mutex
	queueClosed := false

	groupCtx, cancel := context.WithCancel(runCtx)

	var leavesRemaining atomic.Int64
	leavesRemaining.Store(int64(r.graph.Leaves()))

	var errMu sync.Mutex
	var nodeErrs []*graph.NodeError

	stop := func(failed bool) {
		stopOnce.Do(func() {
			if failed {
				cancel()
			}
			queueMu.Lock()
			queueClosed = true
			close(ready)
			queueMu.Unlock()
		})
	}

	enqueue := func(n *graphnode.Node) {
		if !n.TryLatch() {
			return
		}
		queueMu.Lock()
		defer queueMu.Unlock()
		if queueClosed {
			return
		}
		ready <- n
	}

	enqueue(r.graph.RootNode())

	// A single dispatcher drains the ready queue and fans each node out to
	// its own errgroup goroutine, gated by a semaphore sized to workers.
	// This bounds concurrent invocations without pinning that many
	// goroutines for the whole run when fewer nodes are ready.
	sem := semaphore.NewWeighted(int64(workers))
	eg, egCtx := errgroup.WithContext(groupCtx)

	eg.Go(func() error {
		for {
			select {
			case <-egCtx.Done():
				return nil
			case n, ok := <-ready:
				if !ok {
					return nil
				}
				if err := sem.Acquire(egCtx, 1); err != nil {
					return nil
				}
				eg.Go(func() error {
					defer sem.Release(1)
					r.runNode(runCtx, runID, n, stop, enqueue, &leavesRemaining, &errMu, &nodeErrs)
					return nil
				})
			}
		}
	})

	start := time.Now()
	go func() {
		eg.Wait()
		cancel()

		var runErr error
		errMu.Lock()
		if len(nodeErrs) > 0 {
			runErr = &graph.RunError{Errs: nodeErrs}
		}
		errMu.Unlock()

		r.cfg.sink.RunCompleted(runID, time.Since(start), runErr)
		comp.fulfill(runErr)
	}()

	return comp
}

// runNode invokes a single node, records its outcome, and enqueues any
// successor whose dependency count has just reached zero.
func (r *Runner) runNode(
	ctx context.Context,
	runID string,
	n *graphnode.Node,
	stop func(failed bool),
	enqueue func(*graphnode.Node),
	leavesRemaining *atomic.Int64,
	errMu *sync.Mutex,
	nodeErrs *[]*graph.NodeError,
) {
	key := n.Key.String()
	r.cfg.sink.NodeStarted(runID, key)
	start := time.Now()

	err := invokeSafely(ctx, n)
	d := time.Since(start)

	if err != nil {
		r.cfg.sink.NodeFailed(runID, key, d, err)
		errMu.Lock()
		*nodeErrs = append(*nodeErrs, &graph.NodeError{Key: key, Err: err})
		errMu.Unlock()
		stop(true)
		return
	}
	r.cfg.sink.NodeCompleted(runID, key, d)

	if n.IsLeaf() {
		if leavesRemaining.Add(-1) == 0 {
			stop(false)
			return
		}
	}
	for _, succ := range n.Successors() {
		if succ.Arrive() {
			enqueue(succ)
		}
	}
}

// invokeSafely calls n.Invoke, converting a panic inside the unit's
// callable into an error rather than taking down the worker goroutine.
func invokeSafely(ctx context.Context, n *graphnode.Node) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic invoking node: %v", p)
		}
	}()
	return n.Invoke(ctx)
}
