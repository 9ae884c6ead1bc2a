package graph

import (
	"fmt"
	"io"
	"reflect"
	"sort"
	"strings"

	"github.com/anthony-arnold/callgraph/internal/binding"
	"github.com/anthony-arnold/callgraph/internal/callable"
	"github.com/anthony-arnold/callgraph/internal/graphnode"
	"github.com/anthony-arnold/callgraph/internal/unit"
)

// Graph is a keyed collection of Graph Nodes rooted at a synthetic,
// argument-less trigger node. It is not safe for concurrent use during
// construction (Insert/Connect*); a Runner only reads it, concurrently,
// once construction is complete.
type Graph struct {
	root  *graphnode.Node
	nodes map[callable.Key]*graphnode.Node
}

// New returns an empty Graph containing only its root trigger node.
func New() *Graph {
	rootFn := reflect.ValueOf(func() {})
	rootKey := callable.OfFunc(rootFn)
	rootUnit, err := unit.New(rootKey, rootFn)
	if err != nil {
		// unit.New cannot fail for func(){}; a failure here would be a bug
		// in this package, not in caller input.
		panic(fmt.Sprintf("graph: building root unit: %v", err))
	}

	root := graphnode.New(rootKey, rootUnit)
	return &Graph{
		root:  root,
		nodes: map[callable.Key]*graphnode.Node{rootKey: root},
	}
}

// Root returns a Vertex naming the graph's synthetic root, usable as the
// implicit source for a top-level connection.
func (g *Graph) Root() Vertex { return Vertex{key: g.root.Key} }

// RootNode returns the underlying root Graph Node, for use by a Runner.
func (g *Graph) RootNode() *graphnode.Node { return g.root }

// ensureNode returns the existing node for key, wrapping fn into a new unit
// and node if none exists yet. Unlike Insert, ensureNode never wires a root
// edge: it exists purely so Connect* can name a
// destination that hasn't been inserted yet, leaving the caller's requested
// binding as the only edge installed.
func (g *Graph) ensureNode(key callable.Key, fn reflect.Value) (*graphnode.Node, error) {
	if n, ok := g.nodes[key]; ok {
		return n, nil
	}
	u, err := unit.New(key, fn)
	if err != nil {
		return nil, err
	}
	n := graphnode.New(key, u)
	g.nodes[key] = n
	return n, nil
}

// Insert attaches fn to the graph as a child of the root: if this is the
// first time fn's identity has been seen, fn is recorded as a root
// successor (fn must declare zero bindable parameters, since it has no
// predecessor result to bind). Insert is idempotent: inserting the same
// callable again returns the same Vertex without creating a new edge.
func Insert(g *Graph, fn any) (Vertex, error) {
	fv := reflect.ValueOf(fn)
	key := callable.OfFunc(fv)

	if _, ok := g.nodes[key]; ok {
		return Vertex{key: key}, nil
	}

	n, err := g.ensureNode(key, fv)
	if err != nil {
		return Vertex{}, err
	}
	if n.Unit.Arity() != 0 {
		delete(g.nodes, key)
		return Vertex{}, fmt.Errorf("graph: Insert requires a zero-argument callable, got arity %d", n.Unit.Arity())
	}
	g.root.AddSuccessor(n)
	return Vertex{key: key}, nil
}

// Connect wires source's completion as a zero-argument trigger for
// destination: destination's callable must declare no bindable parameters.
// If destination has not been seen before, its node is created here exactly
// as Insert would, but without the root edge Insert installs.
func Connect(g *Graph, source Vertex, destination any) (Vertex, error) {
	src, err := g.resolveSource(source)
	if err != nil {
		return Vertex{}, err
	}

	dfv := reflect.ValueOf(destination)
	dstKey := callable.OfFunc(dfv)
	_, existed := g.nodes[dstKey]
	dst, err := g.ensureNode(dstKey, dfv)
	if err != nil {
		return Vertex{}, err
	}
	if dst.Unit.Arity() != 0 {
		if !existed {
			delete(g.nodes, dstKey)
		}
		return Vertex{}, fmt.Errorf("graph: Connect requires a zero-argument destination, got arity %d", dst.Unit.Arity())
	}

	if err := g.checkCycle(src, dst); err != nil {
		return Vertex{}, err
	}
	src.AddSuccessor(dst)
	return Vertex{key: dstKey}, nil
}

// ConnectTo wires the whole of source's result into slot `to` of
// destination.
func ConnectTo(g *Graph, source Vertex, destination any, to int) (_ Vertex, err error) {
	src, err := g.resolveSource(source)
	if err != nil {
		return Vertex{}, err
	}

	dfv := reflect.ValueOf(destination)
	dstKey := callable.OfFunc(dfv)
	_, existed := g.nodes[dstKey]
	dst, err := g.ensureNode(dstKey, dfv)
	if err != nil {
		return Vertex{}, err
	}
	defer func() {
		if err != nil && !existed {
			delete(g.nodes, dstKey)
		}
	}()

	if err := g.checkCycle(src, dst); err != nil {
		return Vertex{}, err
	}

	paramType, err := dst.Unit.ParamType(to)
	if err != nil {
		return Vertex{}, err
	}
	srcResultType := src.Unit.ResultType()
	if srcResultType == nil || !srcResultType.AssignableTo(paramType) {
		return Vertex{}, fmt.Errorf("graph: result type %v is not assignable to parameter %d of type %v", srcResultType, to, paramType)
	}

	if err := dst.Unit.Connect(to, binding.Whole(src.Unit.Result())); err != nil {
		return Vertex{}, err
	}
	src.AddSuccessor(dst)
	return Vertex{key: dstKey}, nil
}

// ConnectFromTo wires the projection of element `from` of source's result
// into slot `to` of destination.
func ConnectFromTo(g *Graph, source Vertex, from int, destination any, to int) (_ Vertex, err error) {
	src, err := g.resolveSource(source)
	if err != nil {
		return Vertex{}, err
	}

	dfv := reflect.ValueOf(destination)
	dstKey := callable.OfFunc(dfv)
	_, existed := g.nodes[dstKey]
	dst, err := g.ensureNode(dstKey, dfv)
	if err != nil {
		return Vertex{}, err
	}
	defer func() {
		if err != nil && !existed {
			delete(g.nodes, dstKey)
		}
	}()

	if err := g.checkCycle(src, dst); err != nil {
		return Vertex{}, err
	}

	paramType, err := dst.Unit.ParamType(to)
	if err != nil {
		return Vertex{}, err
	}

	b, err := binding.Projected(src.Unit.Result(), src.Unit.ResultType(), from)
	if err != nil {
		return Vertex{}, err
	}
	if elemType := b.ElemType(src.Unit.ResultType()); elemType == nil || !elemType.AssignableTo(paramType) {
		return Vertex{}, fmt.Errorf("graph: projected type %v is not assignable to parameter %d of type %v", elemType, to, paramType)
	}

	if err := dst.Unit.Connect(to, b); err != nil {
		return Vertex{}, err
	}
	src.AddSuccessor(dst)
	return Vertex{key: dstKey}, nil
}

// resolveSource resolves a Vertex naming an already-known source, including
// the graph's own root.
func (g *Graph) resolveSource(source Vertex) (*graphnode.Node, error) {
	n, ok := g.nodes[source.key]
	if !ok {
		return nil, ErrSourceNotFound
	}
	return n, nil
}

// checkCycle rejects a proposed src -> dst edge that would make dst an
// ancestor of itself: either src and dst are the same node, or dst can
// already reach src via existing successor edges.
func (g *Graph) checkCycle(src, dst *graphnode.Node) error {
	if src.Key == dst.Key {
		return ErrCycle
	}
	if g.reaches(dst, src) {
		return ErrCycle
	}
	return nil
}

// reaches reports whether to is reachable from from, following successor
// edges, via plain DFS.
func (g *Graph) reaches(from, to *graphnode.Node) bool {
	visited := make(map[callable.Key]bool)
	var visit func(n *graphnode.Node) bool
	visit = func(n *graphnode.Node) bool {
		if n.Key == to.Key {
			return true
		}
		if visited[n.Key] {
			return false
		}
		visited[n.Key] = true
		for _, s := range n.Successors() {
			if visit(s) {
				return true
			}
		}
		return false
	}
	return visit(from)
}

// Valid reports whether every node except the root has every parameter
// slot bound.
func (g *Graph) Valid() bool {
	for key, n := range g.nodes {
		if key == g.root.Key {
			continue
		}
		if !n.Unit.Valid() {
			return false
		}
	}
	return true
}

// Depth returns the sum, over every direct successor of a node, of that
// successor's own depth, taken from the root; a node with no successors has
// depth 1. This counts root-to-leaf paths rather than the longest one, so
// Reduce (which removes redundant edges without touching reachability) can
// strictly decrease it: a diamond with every shortcut edge present has one
// depth value, and the same diamond reduced to its transitive skeleton has
// a much smaller one, even though the longest path is unchanged by Reduce.
func (g *Graph) Depth() int {
	memo := make(map[callable.Key]int)
	var depth func(n *graphnode.Node) int
	depth = func(n *graphnode.Node) int {
		if v, ok := memo[n.Key]; ok {
			return v
		}
		sum := 0
		for _, s := range n.Successors() {
			sum += depth(s)
		}
		if sum == 0 {
			sum = 1
		}
		memo[n.Key] = sum
		return sum
	}
	return depth(g.root)
}

// Leaves returns the count of nodes whose successor set is empty.
func (g *Graph) Leaves() int {
	count := 0
	for _, n := range g.nodes {
		if n.IsLeaf() {
			count++
		}
	}
	return count
}

// NodeCount returns the total number of nodes in the graph, including the
// root.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// ResetAll re-arms every node's one-shot latch, recomputes every node's
// dependency count from its static predecessor set, and empties every
// unit's result cell, readying the graph for another Runner.Execute call.
func (g *Graph) ResetAll() {
	for _, n := range g.nodes {
		n.Reset()
	}
}

// Reduce performs a transitive reduction in place: for every node n and
// every direct successor c of n, the direct edge (n, c) is removed if some
// other direct successor of n can also reach c. Removing such an edge
// changes only the scheduling shape (how many hops a notification takes to
// reach c), never what runs or what Parameter Bindings fire, since c's
// bindings are wired to specific source cells, not to "the" predecessor
// edge.
func (g *Graph) Reduce() {
	for _, n := range g.nodes {
		for _, c := range directSuccessors(n) {
			if g.reachableViaOtherSuccessor(n, c) {
				n.RemoveSuccessor(c)
			}
		}
	}
}

func directSuccessors(n *graphnode.Node) []*graphnode.Node {
	out := make([]*graphnode.Node, 0, len(n.Successors()))
	for _, s := range n.Successors() {
		out = append(out, s)
	}
	return out
}

// reachableViaOtherSuccessor reports whether c is reachable from n through
// some direct successor other than c itself.
func (g *Graph) reachableViaOtherSuccessor(n, c *graphnode.Node) bool {
	for _, m := range n.Successors() {
		if m.Key == c.Key {
			continue
		}
		if g.reaches(m, c) {
			return true
		}
	}
	return false
}

// allNodes returns every node sorted by a deterministic key, for use by
// String/DebugDump where iteration order must be stable across runs.
func (g *Graph) allNodes() []*graphnode.Node {
	out := make([]*graphnode.Node, 0, len(g.nodes))
	for _, n := range g.nodes {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Key.String() < out[j].Key.String()
	})
	return out
}

// DebugDump writes every edge in the graph to w, one "from -> to" line per
// edge, sorted by source then destination key, for use in test failure
// output and manual debugging.
func (g *Graph) DebugDump(w io.Writer) {
	for _, n := range g.allNodes() {
		succs := directSuccessors(n)
		sort.Slice(succs, func(i, j int) bool {
			return succs[i].Key.String() < succs[j].Key.String()
		})
		for _, s := range succs {
			fmt.Fprintf(w, "%s -> %s\n", n.Key, s.Key)
		}
	}
}

// String renders the same edge listing as DebugDump into a single string.
func (g *Graph) String() string {
	var b strings.Builder
	g.DebugDump(&b)
	return b.String()
}
