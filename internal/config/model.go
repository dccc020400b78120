package config

import (
	"github.com/specialistvlad/miniflow/internal/tensor"
)

// InputKind is the kind used for declarations of fed input nodes.
const InputKind = "input"

// Model is the unified representation of a graph definition, possibly
// merged from several files.
type Model struct {
	// Nodes are kept in declaration order.
	Nodes []*NodeDecl
	// Outputs names the nodes to report after a pass. Empty means the
	// terminal node of the evaluation order.
	Outputs []string
}

// NodeDecl is the format-agnostic representation of a single node.
type NodeDecl struct {
	Kind string
	Name string
	// Inputs are dependency names; their order binds operation arguments.
	Inputs []string
	// Source is the file the declaration came from, for error messages.
	Source string
}

// Feed holds input values keyed by node name.
type Feed map[string]tensor.Value

// Merge appends other's declarations and outputs to m.
func (m *Model) Merge(other *Model) {
	if other == nil {
		return
	}
	m.Nodes = append(m.Nodes, other.Nodes...)
	m.Outputs = append(m.Outputs, other.Outputs...)
}
