package graph

import "github.com/anthony-arnold/callgraph/internal/callable"

// Vertex is an opaque reference to a node in a Graph: the result of Insert
// or of any Connect* call, and the only way to name a node as the source or
// destination of a later connection. Its zero value names no node; the only
// way to obtain a valid Vertex is from Graph.Root or from a successful
// Insert/Connect* call. Equality is the wrapped callable's identity, so two
// Vertex values obtained from the same underlying function or function
// object compare equal.
type Vertex struct {
	key callable.Key
}
