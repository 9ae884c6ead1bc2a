// Package unit wraps a caller-supplied function or function-object into a
// Unit: a fixed-arity callable whose parameter slots are filled by Parameter
// Bindings and whose result is published to a Value Cell for downstream
// units to consume.
package unit

import (
	"context"
	"fmt"
	"reflect"

	"github.com/anthony-arnold/callgraph/internal/binding"
	"github.com/anthony-arnold/callgraph/internal/callable"
	"github.com/anthony-arnold/callgraph/internal/cell"
)

var (
	errorType   = reflect.TypeOf((*error)(nil)).Elem()
	contextType = reflect.TypeOf((*context.Context)(nil)).Elem()
)

// Unit is a wrapped callable, fixed at construction to a declared arity and
// result type. Every parameter slot must be bound (via Connect) before the
// graph will consider the unit invokable.
type Unit struct {
	key    callable.Key
	fn     reflect.Value
	fnType reflect.Type

	takesContext bool
	returnsError bool
	hasResult    bool
	resultType   reflect.Type

	bindings []*binding.Binding // len == Arity(); nil entries are unbound

	result cell.Source
	set    func(ctx context.Context, v any) error
	reset  func()
}

// New wraps fn, a func value, into a Unit. fn's signature may optionally
// lead with a context.Context parameter and may optionally trail with an
// error return in addition to at most one result value. key is the
// callable's identity, computed by the caller via the callable package so
// that the same function produces the same Unit across repeated Insert
// calls.
func New(key callable.Key, fn reflect.Value) (*Unit, error) {
	if fn.Kind() != reflect.Func {
		return nil, fmt.Errorf("unit: value of kind %s is not a function", fn.Kind())
	}
	t := fn.Type()
	if t.IsVariadic() {
		return nil, fmt.Errorf("unit: variadic functions are not supported")
	}

	u := &Unit{key: key, fn: fn, fnType: t}

	numIn := t.NumIn()
	if numIn > 0 && t.In(0) == contextType {
		u.takesContext = true
		numIn--
	}
	u.bindings = make([]*binding.Binding, numIn)

	switch t.NumOut() {
	case 0:
		u.attachVoidResult()
	case 1:
		if t.Out(0) == errorType {
			u.returnsError = true
			u.attachVoidResult()
		} else {
			u.hasResult = true
			u.resultType = t.Out(0)
			u.attachTypedResult(u.resultType)
		}
	case 2:
		if t.Out(1) != errorType {
			return nil, fmt.Errorf("unit: second return value must be error, got %s", t.Out(1))
		}
		u.hasResult = true
		u.returnsError = true
		u.resultType = t.Out(0)
		u.attachTypedResult(u.resultType)
	default:
		return nil, fmt.Errorf("unit: at most (result, error) may be returned, got %d values", t.NumOut())
	}

	return u, nil
}

// attachVoidResult wires the unit's completion to a Cell[cell.Void],
// exercised by units with no meaningful result value (the graph root among
// them) so that trigger bindings still have a rendezvous point.
func (u *Unit) attachVoidResult() {
	c := cell.New[cell.Void]()
	u.result = c.AsSource()
	u.set = func(_ context.Context, _ any) error { return c.Set(cell.Void{}) }
	u.reset = c.Reset
}

// attachTypedResult wires the unit's completion to a Cell[any]: T is only
// known at runtime here, so the cell is instantiated over the interface
// type and the unit's declared ResultType is what callers use to validate
// static compatibility, not the cell's own type parameter.
func (u *Unit) attachTypedResult(t reflect.Type) {
	c := cell.New[any]()
	u.result = c.AsSource()
	u.set = func(_ context.Context, v any) error { return c.Set(v) }
	u.reset = c.Reset
}

// Key returns the unit's callable identity.
func (u *Unit) Key() callable.Key { return u.key }

// Arity returns the number of bindable parameter slots, excluding a leading
// context.Context parameter if present.
func (u *Unit) Arity() int { return len(u.bindings) }

// ResultType returns the static type a caller would observe from Result,
// or nil if the unit's callable returns no value.
func (u *Unit) ResultType() reflect.Type {
	if !u.hasResult {
		return nil
	}
	return u.resultType
}

// ParamType returns the static type declared for parameter slot i, used by
// the graph to validate a Parameter Binding's element type before wiring it.
func (u *Unit) ParamType(slot int) (reflect.Type, error) {
	if slot < 0 || slot >= len(u.bindings) {
		return nil, fmt.Errorf("unit: slot %d out of range (arity %d)", slot, len(u.bindings))
	}
	offset := 0
	if u.takesContext {
		offset = 1
	}
	return u.fnType.In(slot + offset), nil
}

// Connect installs binding b into parameter slot. It replaces any binding
// previously installed in the same slot, matching the Parameter Binding
// default of silent replacement on double-bind.
func (u *Unit) Connect(slot int, b *binding.Binding) error {
	if slot < 0 || slot >= len(u.bindings) {
		return fmt.Errorf("unit: slot %d out of range (arity %d)", slot, len(u.bindings))
	}
	u.bindings[slot] = b
	return nil
}

// Valid reports whether every parameter slot has a binding installed.
func (u *Unit) Valid() bool {
	for _, b := range u.bindings {
		if b == nil {
			return false
		}
	}
	return true
}

// Result returns the type-erased Value Cell this unit publishes its
// completion to.
func (u *Unit) Result() cell.Source { return u.result }

// Reset returns the unit's result cell to empty, readying it for the next
// run. It does not touch the installed bindings, which are static once the
// graph is built.
func (u *Unit) Reset() { u.reset() }

// Invoke resolves every parameter slot's binding, calls the wrapped
// function, and publishes its result. It blocks until every upstream
// binding resolves or ctx is done.
func (u *Unit) Invoke(ctx context.Context) error {
	args := make([]reflect.Value, 0, len(u.bindings)+1)
	if u.takesContext {
		args = append(args, reflect.ValueOf(ctx))
	}
	for i, b := range u.bindings {
		v, err := b.Get(ctx)
		if err != nil {
			return fmt.Errorf("unit: resolving argument %d: %w", i, err)
		}
		args = append(args, coerce(v, u.fnType.In(i+boolToInt(u.takesContext))))
	}

	out := u.fn.Call(args)

	var result any
	var callErr error
	idx := 0
	if u.hasResult {
		result = out[idx].Interface()
		idx++
	}
	if u.returnsError {
		if e, ok := out[idx].Interface().(error); ok && e != nil {
			callErr = e
		}
	}
	if callErr != nil {
		return callErr
	}
	return u.set(ctx, result)
}

// coerce adapts a projected or whole value (boxed as any by the binding
// layer) back to the reflect.Value the target parameter declares, covering
// the case where v is untyped nil for an interface-typed parameter.
func coerce(v any, target reflect.Type) reflect.Value {
	if v == nil {
		return reflect.Zero(target)
	}
	rv := reflect.ValueOf(v)
	if rv.Type().AssignableTo(target) {
		return rv
	}
	if rv.Type().ConvertibleTo(target) {
		return rv.Convert(target)
	}
	return rv
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
