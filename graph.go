package callgraph

import (
	"io"

	"github.com/anthony-arnold/callgraph/internal/graph"
)

// Graph is a call graph under construction: a set of typed callable units
// wired together by Parameter Bindings, rooted at a synthetic trigger node.
// The zero value is not usable; construct one with New.
type Graph struct {
	g *graph.Graph
}

// New returns an empty Graph.
func New() *Graph {
	return &Graph{g: graph.New()}
}

// Vertex is an opaque reference to a node in a Graph, returned by Insert
// and every Connect* call. It names the source or destination of a later
// connection; it carries no data of its own.
type Vertex struct {
	v graph.Vertex
}

// Root returns a Vertex naming g's synthetic root, usable as the implicit
// source for a top-level connection instead of calling Insert.
func (g *Graph) Root() Vertex {
	return Vertex{v: g.g.Root()}
}

// Insert attaches fn, a zero-argument callable, to g as a child of the
// root. Inserting the same callable more than once returns the same Vertex
// without adding a second edge.
func Insert(g *Graph, fn any) (Vertex, error) {
	v, err := graph.Insert(g.g, fn)
	return Vertex{v: v}, err
}

// Connect wires source's completion as a zero-argument trigger for
// destination, a callable that declares no bindable parameters.
func Connect(g *Graph, source Vertex, destination any) (Vertex, error) {
	v, err := graph.Connect(g.g, source.v, destination)
	return Vertex{v: v}, err
}

// ConnectTo wires the whole of source's result into parameter slot `to` of
// destination.
func ConnectTo(g *Graph, source Vertex, destination any, to int) (Vertex, error) {
	v, err := graph.ConnectTo(g.g, source.v, destination, to)
	return Vertex{v: v}, err
}

// ConnectFromTo wires element `from` of the tuple-like value produced by
// source into parameter slot `to` of destination. source's result type
// must satisfy the tuple-element protocol (tuple.Indexable, or a fixed-size
// Go array) at index from.
func ConnectFromTo(g *Graph, source Vertex, from int, destination any, to int) (Vertex, error) {
	v, err := graph.ConnectFromTo(g.g, source.v, from, destination, to)
	return Vertex{v: v}, err
}

// Valid reports whether every node except the root has every declared
// parameter slot bound. A Runner refuses to execute a graph that isn't.
func (g *Graph) Valid() bool { return g.g.Valid() }

// Depth returns the sum, over each node's direct successors, of that
// successor's own depth, with a leafless node counting as 1. Reduce
// strictly decreases Depth whenever it removes an edge, even though the
// longest root-to-leaf path is unchanged. An empty graph has depth 1.
func (g *Graph) Depth() int { return g.g.Depth() }

// Leaves returns the count of nodes with no successors.
func (g *Graph) Leaves() int { return g.g.Leaves() }

// NodeCount returns the total number of nodes, including the root.
func (g *Graph) NodeCount() int { return g.g.NodeCount() }

// Reduce performs a transitive reduction in place, removing any direct
// edge that is already implied by a longer path. It changes only the
// scheduling shape, never what runs or what any Parameter Binding observes.
func (g *Graph) Reduce() { g.g.Reduce() }

// DebugDump writes every edge in the graph to w, one "from -> to" line per
// edge, for test failure output and manual debugging.
func (g *Graph) DebugDump(w io.Writer) { g.g.DebugDump(w) }

// String renders the same edge listing as DebugDump into a single string.
func (g *Graph) String() string { return g.g.String() }
