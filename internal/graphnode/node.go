// Package graphnode implements the Graph Node: a unit placed in the graph,
// carrying its static successor/predecessor edges and the per-run state a
// Runner needs to schedule it exactly once.
package graphnode

import (
	"context"
	"sync/atomic"

	"github.com/anthony-arnold/callgraph/internal/callable"
	"github.com/anthony-arnold/callgraph/internal/unit"
)

// Node is one vertex of the graph: a Unit plus its wiring to neighbors.
// Successor and predecessor sets are populated at build time (by the graph
// package, as edges are connected) and are never mutated once a run starts;
// only depCount and latched change per run.
type Node struct {
	Key  callable.Key
	Unit *unit.Unit

	successors   map[callable.Key]*Node
	predecessors map[callable.Key]*Node

	// depCount counts distinct predecessors not yet completed in the
	// current run. A predecessor decrements it exactly once, on its own
	// completion, regardless of how many parameter slots it feeds.
	depCount atomic.Int32

	// latched guards against a node being invoked more than once in a run;
	// it is the one-shot gate a Runner checks with TryLatch before queuing
	// this node's invocation.
	latched atomic.Bool
}

// New wraps u into a fresh, edge-less Node identified by key.
func New(key callable.Key, u *unit.Unit) *Node {
	return &Node{
		Key:          key,
		Unit:         u,
		successors:   make(map[callable.Key]*Node),
		predecessors: make(map[callable.Key]*Node),
	}
}

// AddSuccessor records that n's completion should notify succ. It is
// idempotent: wiring the same successor twice (because two parameter slots
// of succ are both fed by n) has no additional effect on scheduling.
func (n *Node) AddSuccessor(succ *Node) {
	if _, ok := n.successors[succ.Key]; ok {
		return
	}
	n.successors[succ.Key] = succ
	succ.predecessors[n.Key] = n
}

// RemoveSuccessor drops the edge n -> succ, used by transitive reduction to
// prune redundant direct edges. It is a no-op if the edge doesn't exist.
func (n *Node) RemoveSuccessor(succ *Node) {
	if _, ok := n.successors[succ.Key]; !ok {
		return
	}
	delete(n.successors, succ.Key)
	delete(succ.predecessors, n.Key)
}

// Successors returns the set of nodes that should be considered for
// scheduling once n completes.
func (n *Node) Successors() map[callable.Key]*Node { return n.successors }

// Predecessors returns the set of nodes n depends on.
func (n *Node) Predecessors() map[callable.Key]*Node { return n.predecessors }

// IsLeaf reports whether n has no successors, i.e. nothing downstream of it
// remains to run.
func (n *Node) IsLeaf() bool { return len(n.successors) == 0 }

// Reset re-arms the node for a new run: the latch is cleared, depCount is
// recomputed from the (static) predecessor set, and the wrapped unit's
// result cell is emptied.
func (n *Node) Reset() {
	n.latched.Store(false)
	n.depCount.Store(int32(len(n.predecessors)))
	n.Unit.Reset()
}

// Arrive decrements the dependency counter on behalf of a completed
// predecessor and reports whether n has just become ready to run (depCount
// reached zero). It is safe to call concurrently from multiple predecessor
// goroutines; exactly one caller observes the zero transition.
func (n *Node) Arrive() bool {
	return n.depCount.Add(-1) == 0
}

// TryLatch attempts to claim n for invocation, returning true exactly once
// per run. A Runner must call this before invoking n and must only invoke
// it if TryLatch returned true, which is what prevents a node reachable
// through more than one path from running twice.
func (n *Node) TryLatch() bool {
	return n.latched.CompareAndSwap(false, true)
}

// Invoke runs the wrapped unit's callable.
func (n *Node) Invoke(ctx context.Context) error {
	return n.Unit.Invoke(ctx)
}
