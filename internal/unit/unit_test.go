package unit

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anthony-arnold/callgraph/internal/binding"
	"github.com/anthony-arnold/callgraph/internal/callable"
	"github.com/anthony-arnold/callgraph/internal/cell"
)

func newUnit(t *testing.T, fn any) *Unit {
	t.Helper()
	fv := reflect.ValueOf(fn)
	u, err := New(callable.OfFunc(fv), fv)
	require.NoError(t, err)
	return u
}

func TestNew_ZeroArityVoidResult(t *testing.T) {
	called := false
	u := newUnit(t, func() { called = true })

	assert.Equal(t, 0, u.Arity())
	assert.True(t, u.Valid())

	require.NoError(t, u.Invoke(context.Background()))
	assert.True(t, called)
}

func TestNew_ResultOnly(t *testing.T) {
	u := newUnit(t, func() int { return 7 })
	assert.Equal(t, reflect.TypeOf(0), u.ResultType())

	require.NoError(t, u.Invoke(context.Background()))
	v, err := u.Result().Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, v)
}

func TestNew_ResultAndError(t *testing.T) {
	u := newUnit(t, func() (int, error) { return 0, errors.New("boom") })
	err := u.Invoke(context.Background())
	assert.Error(t, err)
}

func TestNew_ErrorOnly(t *testing.T) {
	boom := errors.New("boom")
	u := newUnit(t, func() error { return boom })
	err := u.Invoke(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestNew_RejectsTooManyReturns(t *testing.T) {
	_, err := New(callable.Key{}, reflect.ValueOf(func() (int, int, error) { return 0, 0, nil }))
	assert.Error(t, err)
}

func TestNew_RejectsVariadic(t *testing.T) {
	_, err := New(callable.Key{}, reflect.ValueOf(func(xs ...int) {}))
	assert.Error(t, err)
}

func TestConnect_BindsParameterSlot(t *testing.T) {
	var got int
	u := newUnit(t, func(i int) { got = i })
	assert.False(t, u.Valid())

	src := cell.New[int]()
	require.NoError(t, src.Set(99))
	require.NoError(t, u.Connect(0, binding.Whole(src.AsSource())))
	assert.True(t, u.Valid())

	require.NoError(t, u.Invoke(context.Background()))
	assert.Equal(t, 99, got)
}

func TestConnect_SilentlyReplacesExistingBinding(t *testing.T) {
	var got int
	u := newUnit(t, func(i int) { got = i })

	first := cell.New[int]()
	require.NoError(t, first.Set(1))
	require.NoError(t, u.Connect(0, binding.Whole(first.AsSource())))

	second := cell.New[int]()
	require.NoError(t, second.Set(2))
	require.NoError(t, u.Connect(0, binding.Whole(second.AsSource())))

	require.NoError(t, u.Invoke(context.Background()))
	assert.Equal(t, 2, got)
}

func TestTakesContext(t *testing.T) {
	var seen context.Context
	u := newUnit(t, func(ctx context.Context) { seen = ctx })

	type ctxKey struct{}
	ctx := context.WithValue(context.Background(), ctxKey{}, "v")
	require.NoError(t, u.Invoke(ctx))
	assert.Equal(t, ctx, seen)
	assert.Equal(t, 0, u.Arity())
}

func TestReset_AllowsAnotherInvocation(t *testing.T) {
	n := 0
	u := newUnit(t, func() int { n++; return n })

	require.NoError(t, u.Invoke(context.Background()))
	v1, err := u.Result().Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, v1)

	u.Reset()
	require.NoError(t, u.Invoke(context.Background()))
	v2, err := u.Result().Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, v2)
}

func TestParamType(t *testing.T) {
	u := newUnit(t, func(i int, s string) {})
	pt, err := u.ParamType(1)
	require.NoError(t, err)
	assert.Equal(t, reflect.TypeOf(""), pt)

	_, err = u.ParamType(5)
	assert.Error(t, err)
}
