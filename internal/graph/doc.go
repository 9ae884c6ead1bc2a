// Package graph builds and holds the call graph: a keyed map of Graph
// Nodes reachable from a synthetic root, wired together by Parameter
// Bindings, with cycle rejection, transitive reduction, and the depth/leaf
// counts a Runner needs to size its worker pool and detect completion.
//
// # Construction
//
// A Graph starts out holding only its root, a zero-argument trigger node
// with no callable significance of its own. Insert attaches a top-level
// callable as a child of the root; Connect, ConnectTo, and ConnectFromTo
// wire a callable already in the graph (or the graph's own root, via
// Graph.Root) to another callable's trigger slot, whole-value slot, or
// projected slot respectively. Every Connect* call accepts a destination
// that hasn't been seen before and creates its node on the fly, exactly as
// Insert would, but without Insert's root edge.
//
// # Validation
//
// Valid reports whether every non-root node has every declared parameter
// slot bound; a Runner should refuse to execute a graph that doesn't.
// Connect* calls reject, at call time, any edge that would introduce a
// cycle (ErrCycle) or that names an unknown source (ErrSourceNotFound).
//
// # Scheduling shape
//
// Depth and Leaves describe the graph's shape rather than its semantics: a
// Runner uses Depth to size its worker pool and Leaves to know how many
// completions to wait for. Reduce collapses redundant direct edges without
// changing what runs or what any Parameter Binding observes.
package graph
