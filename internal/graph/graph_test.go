package graph_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tmaxmax/ndex-exporters/internal/graph"
)

func int64p(v int64) *int64 { return &v }

func TestAddNode(t *testing.T) {
	g := graph.New()

	n, err := g.AddNode(1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n.ID)

	_, err = g.AddNode(1)
	assert.ErrorIs(t, err, graph.ErrDuplicateNode)

	got, ok := g.Node(1)
	require.True(t, ok)
	assert.Same(t, n, got)

	_, ok = g.Node(2)
	assert.False(t, ok)
}

func TestAddEdge(t *testing.T) {
	g := graph.New()
	for _, id := range []int64{1, 2, 3} {
		_, err := g.AddNode(id)
		require.NoError(t, err)
	}

	e, err := g.AddEdge(int64p(10), 1, 2)
	require.NoError(t, err)
	assert.True(t, e.HasID)
	assert.Equal(t, int64(10), e.ID)

	// Parallel edges and self loops are kept.
	_, err = g.AddEdge(nil, 1, 2)
	require.NoError(t, err)
	_, err = g.AddEdge(int64p(11), 3, 3)
	require.NoError(t, err)

	_, err = g.AddEdge(int64p(10), 2, 3)
	assert.ErrorIs(t, err, graph.ErrDuplicateEdge)

	_, err = g.AddEdge(nil, 1, 4)
	assert.ErrorIs(t, err, graph.ErrDanglingEdge)
	_, err = g.AddEdge(nil, 5, 1)
	assert.ErrorIs(t, err, graph.ErrDanglingEdge)

	require.Len(t, g.Edges(), 3)
	assert.Equal(t, int64(1), g.Edges()[1].Source)
	assert.False(t, g.Edges()[1].HasID)

	got, ok := g.Edge(11)
	require.True(t, ok)
	assert.Equal(t, int64(3), got.Target)

	assert.True(t, g.Adjacent(1, 2))
	assert.False(t, g.Adjacent(2, 1))
	assert.True(t, g.Adjacent(3, 3))
}

func TestNodesKeepInsertionOrder(t *testing.T) {
	g := graph.New()
	ids := []int64{42, 7, 19, -3}
	for _, id := range ids {
		_, err := g.AddNode(id)
		require.NoError(t, err)
	}

	var got []int64
	for _, n := range g.Nodes() {
		got = append(got, n.ID)
	}
	assert.Equal(t, ids, got)
}

func TestAttributes(t *testing.T) {
	var a graph.Attributes
	a.Set("b", graph.StringValue("1"))
	a.Set("a", graph.StringValue("2"))
	a.Set("b", graph.IntegerValue(3))

	type kv struct {
		key string
		v   graph.Value
	}
	var got []kv
	a.Each(func(key string, v graph.Value) { got = append(got, kv{key, v}) })

	assert.Equal(t, []kv{
		{"b", graph.Value{Type: graph.Int, Text: "3"}},
		{"a", graph.Value{Type: graph.String, Text: "2"}},
	}, got)
	assert.Equal(t, 2, a.Len())

	v, ok := a.Get("a")
	assert.True(t, ok)
	assert.Equal(t, "2", v.Text)
	_, ok = a.Get("c")
	assert.False(t, ok)
}

func TestIntegerValue(t *testing.T) {
	tests := []struct {
		in   int64
		want graph.Value
	}{
		{0, graph.Value{Type: graph.Int, Text: "0"}},
		{-2147483648, graph.Value{Type: graph.Int, Text: "-2147483648"}},
		{2147483648, graph.Value{Type: graph.Long, Text: "2147483648"}},
		{281474976710655, graph.Value{Type: graph.Long, Text: "281474976710655"}},
	}

	for _, test := range tests {
		assert.Equal(t, test.want, graph.IntegerValue(test.in))
	}
}
