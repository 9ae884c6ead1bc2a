// Package binding implements the Parameter Binding: the adapter wired into
// one slot of a unit's argument list, resolving at invoke time to either the
// whole value produced by an upstream unit or one projected element of it.
package binding

import (
	"context"
	"fmt"
	"reflect"

	"github.com/anthony-arnold/callgraph/internal/cell"
	"github.com/anthony-arnold/callgraph/internal/tuple"
)

// Binding resolves a single argument of a unit's callable from an upstream
// Value Cell, optionally projecting a tuple element out of it first.
type Binding struct {
	source cell.Source
	index  int // -1 for a whole-value binding
	elemOf reflect.Type
}

// Whole constructs a Parameter Binding that resolves to the entire value
// produced by source.
func Whole(source cell.Source) *Binding {
	return &Binding{source: source, index: -1}
}

// Projected constructs a Parameter Binding that resolves to the k-th element
// of the tuple-like value produced by source. srcType is the static result
// type of the upstream unit, used once here to validate that index k exists
// and to record the projected element's type for the caller's static
// signature check.
func Projected(source cell.Source, srcType reflect.Type, index int) (*Binding, error) {
	elemType, err := tuple.ElemType(srcType, index)
	if err != nil {
		return nil, err
	}
	return &Binding{source: source, index: index, elemOf: elemType}, nil
}

// ElemType reports the static type this binding resolves to: the upstream
// unit's full result type for a whole-value binding, or the projected
// element's type for an indexed one. It is used by the owning unit to
// perform the Connect-time signature check against the declared parameter
// type.
func (b *Binding) ElemType(wholeType reflect.Type) reflect.Type {
	if b.index < 0 {
		return wholeType
	}
	return b.elemOf
}

// Get resolves the bound argument, blocking until the upstream cell is
// filled.
func (b *Binding) Get(ctx context.Context) (any, error) {
	v, err := b.source.Get(ctx)
	if err != nil {
		return nil, err
	}
	if b.index < 0 {
		return v, nil
	}
	elem, err := tuple.ElemValue(v, b.index)
	if err != nil {
		return nil, fmt.Errorf("binding: %w", err)
	}
	return elem, nil
}
