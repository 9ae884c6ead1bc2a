package callable

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOfFunc_SameFunctionValueIsStable(t *testing.T) {
	fn := func() {}
	k1 := OfFunc(reflect.ValueOf(fn))
	k2 := OfFunc(reflect.ValueOf(fn))
	assert.Equal(t, k1, k2)
}

func TestOfFunc_DistinctFunctionsDiffer(t *testing.T) {
	a := func() {}
	b := func() {}
	assert.NotEqual(t, OfFunc(reflect.ValueOf(a)), OfFunc(reflect.ValueOf(b)))
}

type counter struct{ n int }

func (c *counter) Call() int { c.n++; return c.n }

func TestOfObject_DistinctInstancesDiffer(t *testing.T) {
	a := &counter{}
	b := &counter{}

	ka, err := OfObject(a)
	require.NoError(t, err)
	kb, err := OfObject(b)
	require.NoError(t, err)

	assert.NotEqual(t, ka, kb)
}

func TestOfObject_SameInstanceIsStable(t *testing.T) {
	a := &counter{}

	k1, err := OfObject(a)
	require.NoError(t, err)
	k2, err := OfObject(a)
	require.NoError(t, err)

	assert.Equal(t, k1, k2)
}

func TestOfObject_RejectsNonPointer(t *testing.T) {
	_, err := OfObject(counter{})
	assert.Error(t, err)
}

func TestOfObject_RejectsNilPointer(t *testing.T) {
	var c *counter
	_, err := OfObject(c)
	assert.Error(t, err)
}

func TestKey_StringIncludesType(t *testing.T) {
	k := OfFunc(reflect.ValueOf(func() {}))
	assert.Contains(t, k.String(), "func(")
}
