package graph

import (
	"time"

	"github.com/specialistvlad/miniflow/internal/ops"
	"github.com/specialistvlad/miniflow/internal/tensor"
)

// InputKind is the kind of nodes whose values are supplied by a Feed.
const InputKind = "input"

// NodeID addresses a node inside its Graph.
type NodeID int

// Feed maps input nodes to the values they take for one evaluation.
type Feed map[NodeID]tensor.Value

// Observer is notified after every node evaluation.
type Observer interface {
	ObserveNode(kind string, elapsed time.Duration, err error)
}

// Option configures a Graph.
type Option func(*Graph)

// WithObserver installs an Observer for forward passes.
func WithObserver(o Observer) Option {
	return func(g *Graph) {
		g.observer = o
	}
}

// Graph is an arena of nodes and the registry their kinds resolve against.
type Graph struct {
	registry *ops.Registry
	nodes    []*node
	names    map[string]NodeID
	observer Observer
}

// node is a single vertex. It is unexported so that topology can only be
// changed through the Graph API, which keeps both edge directions in sync.
type node struct {
	id   NodeID
	name string
	kind string
	// source marks input nodes.
	source bool
	// op is nil for input nodes and for kinds without a registered operation.
	op ops.Operation
	// deps is ordered and may repeat a node.
	deps []NodeID
	// dependents is deduplicated through dependentSet and keeps wiring order.
	dependents   []NodeID
	dependentSet map[NodeID]struct{}
	value        *tensor.Value
}
