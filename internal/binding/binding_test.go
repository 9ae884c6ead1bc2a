package binding

import (
	"context"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anthony-arnold/callgraph/internal/cell"
	"github.com/anthony-arnold/callgraph/internal/tuple"
)

func TestWhole_ResolvesToFullValue(t *testing.T) {
	c := cell.New[int]()
	require.NoError(t, c.Set(42))

	b := Whole(c.AsSource())
	v, err := b.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 42, v)
}

func TestProjected_ResolvesToElement(t *testing.T) {
	c := cell.New[tuple.Pair[int, string]]()
	require.NoError(t, c.Set(tuple.Pair[int, string]{First: 1, Second: "two"}))

	srcType := reflect.TypeOf(tuple.Pair[int, string]{})
	b, err := Projected(c.AsSource(), srcType, 1)
	require.NoError(t, err)

	v, err := b.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "two", v)
}

func TestProjected_RejectsBadIndex(t *testing.T) {
	srcType := reflect.TypeOf(tuple.Pair[int, string]{})
	_, err := Projected(nil, srcType, 5)
	assert.Error(t, err)
}

func TestBinding_ElemType(t *testing.T) {
	srcType := reflect.TypeOf(tuple.Pair[int, string]{})
	b, err := Projected(nil, srcType, 0)
	require.NoError(t, err)
	assert.Equal(t, reflect.TypeOf(0), b.ElemType(srcType))

	wb := Whole(nil)
	assert.Equal(t, srcType, wb.ElemType(srcType))
}

func TestGet_PropagatesUpstreamError(t *testing.T) {
	c := cell.New[int]()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	b := Whole(c.AsSource())
	_, err := b.Get(ctx)
	assert.Error(t, err)
}
