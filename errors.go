package callgraph

import (
	"github.com/anthony-arnold/callgraph/internal/cell"
	"github.com/anthony-arnold/callgraph/internal/graph"
)

// ErrCycle is returned by a connect operation that would introduce a cycle.
var ErrCycle = graph.ErrCycle

// ErrSourceNotFound is returned when the named source vertex is not
// present in the graph.
var ErrSourceNotFound = graph.ErrSourceNotFound

// ErrParameterMissing is returned when reading a slot whose binding was
// never installed. It should not occur for any node reachable from a graph
// that passed Valid() before a run started.
var ErrParameterMissing = graph.ErrParameterMissing

// ErrDoubleSet is returned when a unit's result cell is filled more than
// once in the same run, which should not occur under the one-shot latch a
// Graph Node enforces.
var ErrDoubleSet = cell.ErrDoubleSet

// NodeError wraps an error raised while invoking a specific node.
type NodeError = graph.NodeError

// RunError aggregates every NodeError raised during a single Execute call.
type RunError = graph.RunError
