// Package tuple implements the tuple-element protocol used by indexed
// Parameter Bindings: given an upstream result that is "tuple-like" (a
// fixed-size array, a Pair, a Triple, or a user type exposing At), extract
// its k-th element, both as a static type (for the type check that happens
// once, at connect-time) and as a runtime value (for the projection that
// happens on every read).
package tuple

import (
	"fmt"
	"reflect"
)

// Indexable is the user-extension point for the tuple-element protocol.
// Any type implementing it participates in indexed Parameter Bindings
// without built-in support from this package.
type Indexable interface {
	// At returns the k-th element. It panics if k is out of range, matching
	// the built-in behavior of Go's array indexing.
	At(k int) any
	// Len reports the number of elements, used by ElemValue to bounds-check
	// k before calling At.
	Len() int
}

// Pair is the built-in two-element tuple.
type Pair[A, B any] struct {
	First  A
	Second B
}

// At implements Indexable.
func (p Pair[A, B]) At(k int) any {
	switch k {
	case 0:
		return p.First
	case 1:
		return p.Second
	default:
		panic(fmt.Sprintf("tuple: index %d out of range for Pair", k))
	}
}

// Len implements Indexable.
func (p Pair[A, B]) Len() int { return 2 }

// Triple is the built-in three-element tuple.
type Triple[A, B, C any] struct {
	First  A
	Second B
	Third  C
}

// At implements Indexable.
func (t Triple[A, B, C]) At(k int) any {
	switch k {
	case 0:
		return t.First
	case 1:
		return t.Second
	case 2:
		return t.Third
	default:
		panic(fmt.Sprintf("tuple: index %d out of range for Triple", k))
	}
}

// Len implements Indexable.
func (t Triple[A, B, C]) Len() int { return 3 }

var indexableType = reflect.TypeOf((*Indexable)(nil)).Elem()

// ElemType returns the static type of the k-th element of t, where t is the
// static result type of an upstream unit. Supported shapes are fixed-size
// Go arrays and struct types implementing Indexable (Pair, Triple, and user
// extensions), whose k-th field is taken as the element type so reflection
// can inspect it without constructing a value. An Indexable that is not a
// struct is rejected, since its element type cannot be read statically.
//
// ElemType is called once per Connect, never on the hot path of a run.
func ElemType(t reflect.Type, k int) (reflect.Type, error) {
	if t == nil {
		return nil, fmt.Errorf("tuple: cannot project index %d of a void result", k)
	}

	switch {
	case t.Kind() == reflect.Array:
		if k < 0 || k >= t.Len() {
			return nil, fmt.Errorf("tuple: index %d out of range for array of length %d", k, t.Len())
		}
		return t.Elem(), nil

	case t.Implements(indexableType) || reflect.PointerTo(t).Implements(indexableType):
		if t.Kind() == reflect.Struct && k >= 0 && k < t.NumField() {
			return t.Field(k).Type, nil
		}
		return nil, fmt.Errorf("tuple: cannot statically determine element type %d of %s", k, t)

	default:
		return nil, fmt.Errorf("tuple: type %s is not indexable (implement tuple.Indexable)", t)
	}
}

// ElemValue extracts the k-th element of v at runtime, mirroring ElemType's
// notion of which shapes are tuple-like.
func ElemValue(v any, k int) (any, error) {
	if v == nil {
		return nil, fmt.Errorf("tuple: cannot project index %d of a nil result", k)
	}

	if idx, ok := v.(Indexable); ok {
		if k < 0 || k >= idx.Len() {
			return nil, fmt.Errorf("tuple: index %d out of range (len %d)", k, idx.Len())
		}
		return idx.At(k), nil
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Array {
		if k < 0 || k >= rv.Len() {
			return nil, fmt.Errorf("tuple: index %d out of range for array of length %d", k, rv.Len())
		}
		return rv.Index(k).Interface(), nil
	}

	return nil, fmt.Errorf("tuple: value of type %T is not indexable", v)
}
