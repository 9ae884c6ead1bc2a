package callgraph

import "github.com/anthony-arnold/callgraph/internal/tuple"

// Pair is a built-in two-element tuple, usable as the result type of a unit
// whose completion feeds a ConnectFromTo projection.
type Pair[A, B any] = tuple.Pair[A, B]

// Triple is a built-in three-element tuple.
type Triple[A, B, C any] = tuple.Triple[A, B, C]

// Indexable is the extension point for a user-defined tuple-like result
// type: implementing it lets ConnectFromTo project an element out of a
// type this package doesn't know about.
type Indexable = tuple.Indexable
