// Package dsl offers a left-to-right chaining wrapper over the core
// Connect/ConnectTo/ConnectFromTo functions, for call sites that would
// otherwise have to name the graph twice per connection. It holds no state
// beyond a *Graph, a source Vertex and an optional projection index, and
// adds no behavior of its own.
package dsl

import "github.com/anthony-arnold/callgraph"

// Builder is the source half of a chained connection, produced by From.
type Builder struct {
	g      *callgraph.Graph
	source callgraph.Vertex
	from   int
	hasIdx bool
}

// From starts a chain wiring the completion of source, a Vertex already
// obtained from Insert or a prior Connect* call.
func From(g *callgraph.Graph, source callgraph.Vertex) *Builder {
	return &Builder{g: g, source: source}
}

// Index selects element k of the source's tuple-like result for the
// projection that ToSlot will install, turning the eventual connection into
// a ConnectFromTo instead of a whole-value ConnectTo.
func (b *Builder) Index(k int) *Builder {
	b.from = k
	b.hasIdx = true
	return b
}

// To completes the chain as a bare trigger: destination must declare no
// bindable parameters.
func (b *Builder) To(destination any) (callgraph.Vertex, error) {
	return callgraph.Connect(b.g, b.source, destination)
}

// ToSlot completes the chain by binding destination's parameter slot `to`
// to the source's whole result, or to the element selected by a prior call
// to Index.
func (b *Builder) ToSlot(destination any, to int) (callgraph.Vertex, error) {
	if b.hasIdx {
		return callgraph.ConnectFromTo(b.g, b.source, b.from, destination, to)
	}
	return callgraph.ConnectTo(b.g, b.source, destination, to)
}
