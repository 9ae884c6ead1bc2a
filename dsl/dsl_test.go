package dsl_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	callgraph "github.com/anthony-arnold/callgraph"
	"github.com/anthony-arnold/callgraph/dsl"
)

func TestFrom_ToSlot_WholeValue(t *testing.T) {
	g := callgraph.New()
	a := func() int { return 0xDEADBEEF }

	var mu sync.Mutex
	var got int
	b := func(i int) { mu.Lock(); got = i; mu.Unlock() }

	va, err := callgraph.Insert(g, a)
	require.NoError(t, err)

	_, err = dsl.From(g, va).ToSlot(b, 0)
	require.NoError(t, err)

	r := callgraph.NewRunner(g)
	require.NoError(t, r.Execute(context.Background()).Wait())

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 0xDEADBEEF, got)
}

func TestFrom_Index_ToSlot_Projection(t *testing.T) {
	g := callgraph.New()
	a := func() [2]int { return [2]int{0xDEADBEEF, 0x0BADF00D} }

	var mu sync.Mutex
	var sum int
	b := func(i, j int) { mu.Lock(); sum = i + j; mu.Unlock() }

	va, err := callgraph.Insert(g, a)
	require.NoError(t, err)

	_, err = dsl.From(g, va).Index(0).ToSlot(b, 0)
	require.NoError(t, err)
	_, err = dsl.From(g, va).Index(1).ToSlot(b, 1)
	require.NoError(t, err)

	r := callgraph.NewRunner(g)
	require.NoError(t, r.Execute(context.Background()).Wait())

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 0xEA8DAEFC, sum)
}

func TestFrom_To_BareTrigger(t *testing.T) {
	g := callgraph.New()
	a := func() {}

	called := false
	b := func() { called = true }

	va, err := callgraph.Insert(g, a)
	require.NoError(t, err)

	_, err = dsl.From(g, va).To(b)
	require.NoError(t, err)

	r := callgraph.NewRunner(g)
	require.NoError(t, r.Execute(context.Background()).Wait())
	assert.True(t, called)
}
