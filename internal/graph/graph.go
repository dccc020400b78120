package graph

import (
	"fmt"

	"github.com/specialistvlad/miniflow/internal/ops"
	"github.com/specialistvlad/miniflow/internal/tensor"
)

// New creates an empty Graph whose node kinds resolve against reg. A nil
// registry behaves as an empty one.
func New(reg *ops.Registry, opts ...Option) *Graph {
	if reg == nil {
		reg = ops.New()
	}
	g := &Graph{
		registry: reg,
		names:    make(map[string]NodeID),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// AddInput adds an input node. An empty name is replaced by a generated one.
func (g *Graph) AddInput(name string) (NodeID, error) {
	return g.declare(InputKind, name)
}

// AddNode adds a node of the given kind that depends on deps, in order.
// Every dependency must already exist, so graphs built this way are acyclic
// by construction. A kind with no registered operation is accepted and
// fails with ErrUnimplemented when evaluated.
func (g *Graph) AddNode(kind, name string, deps ...NodeID) (NodeID, error) {
	if kind == InputKind {
		if len(deps) > 0 {
			return 0, errorf(ErrInvalidGraph, "input node '%s' cannot have dependencies", name)
		}
		return g.AddInput(name)
	}
	for _, dep := range deps {
		if !g.has(dep) {
			return 0, errorf(ErrInvalidGraph, "dependency %d of node '%s' does not exist", dep, name)
		}
	}
	if op, ok := g.registry.Lookup(kind); ok {
		if err := ops.CheckArity(op, len(deps)); err != nil {
			return 0, errorf(ErrInvalidGraph, "node '%s': %v", name, err)
		}
	}

	id, err := g.declare(kind, name)
	if err != nil {
		return 0, err
	}
	g.link(id, deps)
	return id, nil
}

// declare appends an unwired node to the arena.
func (g *Graph) declare(kind, name string) (NodeID, error) {
	id := NodeID(len(g.nodes))
	if name == "" {
		name = fmt.Sprintf("%s_%d", kind, id)
	}
	if _, exists := g.names[name]; exists {
		return 0, errorf(ErrInvalidGraph, "duplicate node name '%s'", name)
	}

	n := &node{
		id:           id,
		name:         name,
		kind:         kind,
		source:       kind == InputKind,
		deps:         []NodeID{},
		dependentSet: make(map[NodeID]struct{}),
	}
	if !n.source {
		n.op, _ = g.registry.Lookup(kind)
	}

	g.nodes = append(g.nodes, n)
	g.names[name] = id
	return id, nil
}

// link records deps on id and registers id as a dependent of each of them.
func (g *Graph) link(id NodeID, deps []NodeID) {
	n := g.nodes[id]
	n.deps = append(make([]NodeID, 0, len(deps)), deps...)
	for _, dep := range deps {
		d := g.nodes[dep]
		if _, seen := d.dependentSet[id]; seen {
			continue
		}
		d.dependentSet[id] = struct{}{}
		d.dependents = append(d.dependents, id)
	}
}

func (g *Graph) has(id NodeID) bool {
	return id >= 0 && int(id) < len(g.nodes)
}

// Len returns the number of nodes.
func (g *Graph) Len() int { return len(g.nodes) }

// Lookup returns the node with the given name.
func (g *Graph) Lookup(name string) (NodeID, bool) {
	id, ok := g.names[name]
	return id, ok
}

// Name returns the node's name, or "" for an unknown id.
func (g *Graph) Name(id NodeID) string {
	if !g.has(id) {
		return ""
	}
	return g.nodes[id].name
}

// Kind returns the node's kind, or "" for an unknown id.
func (g *Graph) Kind(id NodeID) string {
	if !g.has(id) {
		return ""
	}
	return g.nodes[id].kind
}

// IsInput reports whether id is an input node.
func (g *Graph) IsInput(id NodeID) bool {
	return g.has(id) && g.nodes[id].source
}

// Dependencies returns the ordered dependencies of id.
func (g *Graph) Dependencies(id NodeID) []NodeID {
	if !g.has(id) {
		return nil
	}
	return append([]NodeID(nil), g.nodes[id].deps...)
}

// Dependents returns the nodes that depend on id, in wiring order.
func (g *Graph) Dependents(id NodeID) []NodeID {
	if !g.has(id) {
		return nil
	}
	return append([]NodeID(nil), g.nodes[id].dependents...)
}

// Value returns the node's current value and whether it has one.
func (g *Graph) Value(id NodeID) (tensor.Value, bool) {
	if !g.has(id) || g.nodes[id].value == nil {
		return tensor.Value{}, false
	}
	return *g.nodes[id].value, true
}

// ResolveFeed turns a feed keyed by node name into one keyed by NodeID.
func (g *Graph) ResolveFeed(named map[string]tensor.Value) (Feed, error) {
	feed := make(Feed, len(named))
	for name, v := range named {
		id, ok := g.names[name]
		if !ok {
			return nil, errorf(ErrInvalidSeed, "feed names unknown node '%s'", name)
		}
		feed[id] = v
	}
	return feed, nil
}
