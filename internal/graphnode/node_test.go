package graphnode

import (
	"context"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anthony-arnold/callgraph/internal/callable"
	"github.com/anthony-arnold/callgraph/internal/unit"
)

func newTestNode(t *testing.T, fn any) *Node {
	t.Helper()
	fv := reflect.ValueOf(fn)
	u, err := unit.New(callable.OfFunc(fv), fv)
	require.NoError(t, err)
	return New(callable.OfFunc(fv), u)
}

func TestAddSuccessor_IsIdempotent(t *testing.T) {
	a := newTestNode(t, func() {})
	b := newTestNode(t, func() int { return 1 })

	a.AddSuccessor(b)
	a.AddSuccessor(b)

	assert.Len(t, a.Successors(), 1)
	assert.Len(t, b.Predecessors(), 1)
}

func TestRemoveSuccessor(t *testing.T) {
	a := newTestNode(t, func() {})
	b := newTestNode(t, func() int { return 1 })

	a.AddSuccessor(b)
	a.RemoveSuccessor(b)

	assert.Empty(t, a.Successors())
	assert.Empty(t, b.Predecessors())
}

func TestIsLeaf(t *testing.T) {
	a := newTestNode(t, func() {})
	assert.True(t, a.IsLeaf())

	b := newTestNode(t, func() int { return 1 })
	a.AddSuccessor(b)
	assert.False(t, a.IsLeaf())
}

func TestTryLatch_OnlyFirstCallerWins(t *testing.T) {
	n := newTestNode(t, func() {})
	assert.True(t, n.TryLatch())
	assert.False(t, n.TryLatch())
}

func TestReset_RearmsLatchAndRecomputesDepCount(t *testing.T) {
	a := newTestNode(t, func() {})
	b := newTestNode(t, func() int { return 1 })
	a.AddSuccessor(b)

	require.True(t, b.TryLatch())
	assert.False(t, b.TryLatch())

	b.Reset()
	assert.True(t, b.TryLatch())
	assert.Equal(t, int32(len(b.Predecessors())), b.depCount.Load())
}

func TestArrive_ReturnsTrueOnlyOnceCounterHitsZero(t *testing.T) {
	a := newTestNode(t, func() {})
	b := newTestNode(t, func() {})
	c := newTestNode(t, func(i, j int) {})

	a.AddSuccessor(c)
	b.AddSuccessor(c)
	c.Reset()

	assert.False(t, c.Arrive())
	assert.True(t, c.Arrive())
}

func TestInvoke_RunsUnderlyingUnit(t *testing.T) {
	called := false
	n := newTestNode(t, func() { called = true })

	require.NoError(t, n.Invoke(context.Background()))
	assert.True(t, called)
}
