package graph

import (
	"context"
	"testing"

	"github.com/specialistvlad/miniflow/internal/config"
	"github.com/specialistvlad/miniflow/internal/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTopologicalSort_Add(t *testing.T) {
	g := New(testRegistry())
	a := mustInput(t, g, "a")
	b := mustInput(t, g, "b")
	sum := mustNode(t, g, "add", "sum", a, b)

	order, err := g.TopologicalSort(context.Background(), Feed{a: tensor.Scalar(3), b: tensor.Scalar(4)})
	require.NoError(t, err)
	assert.Equal(t, []NodeID{a, b, sum}, order)

	v, ok := g.Value(a)
	require.True(t, ok)
	assert.True(t, tensor.Equal(tensor.Scalar(3), v))
	_, ok = g.Value(sum)
	assert.False(t, ok, "sorting must not evaluate computed nodes")
}

func TestTopologicalSort_DiamondRespectsPrecedence(t *testing.T) {
	g := New(testRegistry())
	x := mustInput(t, g, "x")
	left := mustNode(t, g, "sigmoid", "left", x)
	right := mustNode(t, g, "mul", "right", x, x)
	join := mustNode(t, g, "add", "join", left, right)
	tail := mustNode(t, g, "mul", "tail", join, x)

	order, err := g.TopologicalSort(context.Background(), Feed{x: tensor.Scalar(1)})
	require.NoError(t, err)
	require.Len(t, order, 5)
	assertTopological(t, g, order)
	assert.Equal(t, []NodeID{x, left, right, join, tail}, order)
}

func TestTopologicalSort_FIFODeterminism(t *testing.T) {
	build := func() (*Graph, Feed) {
		g := New(testRegistry())
		a := mustInput(t, g, "a")
		b := mustInput(t, g, "b")
		c := mustInput(t, g, "c")
		mustNode(t, g, "add", "bc", b, c)
		mustNode(t, g, "add", "ab", a, b)
		ab, _ := g.Lookup("ab")
		bc, _ := g.Lookup("bc")
		mustNode(t, g, "mul", "out", ab, bc)
		return g, Feed{c: tensor.Scalar(1), a: tensor.Scalar(2), b: tensor.Scalar(3)}
	}

	var first []string
	for i := 0; i < 20; i++ {
		g, feed := build()
		order, err := g.TopologicalSort(context.Background(), feed)
		require.NoError(t, err)
		got := names(g, order)
		if first == nil {
			first = got
			continue
		}
		assert.Equal(t, first, got)
	}
	// Seeds in id order, then dependents as their in-degree drops to zero.
	assert.Equal(t, []string{"a", "b", "c", "ab", "bc", "out"}, first)
}

func TestTopologicalSort_OnlyReachableNodes(t *testing.T) {
	g := New(testRegistry())
	a := mustInput(t, g, "a")
	z := mustInput(t, g, "z")
	sa := mustNode(t, g, "sigmoid", "sa", a)
	mustNode(t, g, "sigmoid", "sz", z)

	order, err := g.TopologicalSort(context.Background(), Feed{a: tensor.Scalar(0)})
	require.NoError(t, err)
	assert.Equal(t, []NodeID{a, sa}, order)
	_, ok := g.Value(z)
	assert.False(t, ok)
}

func TestTopologicalSort_EmptyFeed(t *testing.T) {
	g := New(testRegistry())
	mustInput(t, g, "a")
	order, err := g.TopologicalSort(context.Background(), Feed{})
	require.NoError(t, err)
	assert.Empty(t, order)
}

func TestTopologicalSort_InvalidSeed(t *testing.T) {
	g := New(testRegistry())
	a := mustInput(t, g, "a")
	b := mustInput(t, g, "b")
	sum := mustNode(t, g, "add", "sum", a, b)

	tests := []struct {
		name    string
		feed    Feed
		message string
	}{
		{name: "computed node", feed: Feed{a: tensor.Scalar(1), b: tensor.Scalar(1), sum: tensor.Scalar(1)}, message: "'sum' which is a add node"},
		{name: "unknown id", feed: Feed{17: tensor.Scalar(1)}, message: "unknown node 17"},
		{name: "empty value", feed: Feed{a: {}}, message: "feed value for 'a' is empty"},
		{name: "missing input", feed: Feed{a: tensor.Scalar(1)}, message: "input 'b' needed by 'sum' is missing"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := g.TopologicalSort(context.Background(), tc.feed)
			require.ErrorIs(t, err, ErrInvalidSeed)
			assert.ErrorContains(t, err, tc.message)
			_, ok := g.Value(a)
			assert.False(t, ok, "no value is assigned on failure")
		})
	}
}

func TestTopologicalSort_CycleFromModel(t *testing.T) {
	model := &config.Model{Nodes: []*config.NodeDecl{
		{Kind: config.InputKind, Name: "a"},
		{Kind: "add", Name: "n1", Inputs: []string{"a", "n2"}},
		{Kind: "sigmoid", Name: "n2", Inputs: []string{"n1"}},
	}}
	g, err := Build(context.Background(), model, testRegistry())
	require.NoError(t, err)
	a, _ := g.Lookup("a")

	order, err := g.TopologicalSort(context.Background(), Feed{a: tensor.Scalar(1)})
	require.ErrorIs(t, err, ErrCycleDetected)
	assert.Nil(t, order)
	assert.ErrorContains(t, err, "cycle: n1 -> n2 -> n1")
	_, ok := g.Value(a)
	assert.False(t, ok)
}

func TestTopologicalSort_CycleDownstreamOfValidNodes(t *testing.T) {
	g := New(testRegistry())
	x := mustInput(t, g, "x")
	s := mustNode(t, g, "sigmoid", "s", x)
	p, err := g.declare("add", "p")
	require.NoError(t, err)
	q, err := g.declare("add", "q")
	require.NoError(t, err)
	r, err := g.declare("add", "r")
	require.NoError(t, err)
	g.link(p, []NodeID{s, r})
	g.link(q, []NodeID{p})
	g.link(r, []NodeID{q})

	_, err = g.TopologicalSort(context.Background(), Feed{x: tensor.Scalar(1)})
	require.ErrorIs(t, err, ErrCycleDetected)
	assert.ErrorContains(t, err, "p -> q -> r -> p")
}

func TestTopologicalSort_RepeatedDependencyCountsOnce(t *testing.T) {
	g := New(testRegistry())
	a := mustInput(t, g, "a")
	sq := mustNode(t, g, "mul", "sq", a, a)

	order, err := g.TopologicalSort(context.Background(), Feed{a: tensor.Scalar(3)})
	require.NoError(t, err)
	assert.Equal(t, []NodeID{a, sq}, order)
}

func TestTopologicalSort_DoesNotMutateTopology(t *testing.T) {
	g := New(testRegistry())
	a := mustInput(t, g, "a")
	b := mustInput(t, g, "b")
	sum := mustNode(t, g, "add", "sum", a, b)

	for i := 0; i < 2; i++ {
		_, err := g.TopologicalSort(context.Background(), Feed{a: tensor.Scalar(1), b: tensor.Scalar(2)})
		require.NoError(t, err)
	}
	assert.Equal(t, []NodeID{sum}, g.Dependents(a))
	assert.Equal(t, []NodeID{a, b}, g.Dependencies(sum))
}
