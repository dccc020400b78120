package graph

import (
	"testing"
	"time"

	"github.com/specialistvlad/miniflow/internal/ops"
	"github.com/specialistvlad/miniflow/modules/add"
	"github.com/specialistvlad/miniflow/modules/linear"
	"github.com/specialistvlad/miniflow/modules/mse"
	"github.com/specialistvlad/miniflow/modules/mul"
	"github.com/specialistvlad/miniflow/modules/sigmoid"
	"github.com/stretchr/testify/require"
)

func testRegistry() *ops.Registry {
	return ops.NewWith(&add.Module{}, &mul.Module{}, &linear.Module{}, &sigmoid.Module{}, &mse.Module{})
}

func mustInput(t *testing.T, g *Graph, name string) NodeID {
	t.Helper()
	id, err := g.AddInput(name)
	require.NoError(t, err)
	return id
}

func mustNode(t *testing.T, g *Graph, kind, name string, deps ...NodeID) NodeID {
	t.Helper()
	id, err := g.AddNode(kind, name, deps...)
	require.NoError(t, err)
	return id
}

// assertTopological checks that every edge between two ordered nodes points
// forward in the order and that no node appears twice.
func assertTopological(t *testing.T, g *Graph, order []NodeID) {
	t.Helper()
	pos := make(map[NodeID]int, len(order))
	for i, id := range order {
		_, dup := pos[id]
		require.False(t, dup, "node %s appears twice", g.Name(id))
		pos[id] = i
	}
	for _, id := range order {
		for _, dep := range g.Dependencies(id) {
			if p, ok := pos[dep]; ok {
				require.Less(t, p, pos[id], "%s must come before %s", g.Name(dep), g.Name(id))
			}
		}
	}
}

func names(g *Graph, ids []NodeID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = g.Name(id)
	}
	return out
}

type observation struct {
	kind    string
	elapsed time.Duration
	err     error
}

type recordingObserver struct {
	seen []observation
}

func (r *recordingObserver) ObserveNode(kind string, elapsed time.Duration, err error) {
	r.seen = append(r.seen, observation{kind: kind, elapsed: elapsed, err: err})
}
