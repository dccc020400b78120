package graph

import (
	"context"
	"fmt"

	"github.com/specialistvlad/miniflow/internal/config"
	"github.com/specialistvlad/miniflow/internal/ctxlog"
	"github.com/specialistvlad/miniflow/internal/ops"
)

// Build constructs a graph from a config model. Declarations may refer to
// nodes declared later, so unlike AddNode a model can describe a cycle; it
// is reported when the graph is sorted.
func Build(ctx context.Context, model *config.Model, reg *ops.Registry, opts ...Option) (*Graph, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Build: Starting graph construction.", "declarations", len(model.Nodes))
	g := New(reg, opts...)

	// First pass: create every node so that references can point forward.
	ids := make([]NodeID, len(model.Nodes))
	for i, decl := range model.Nodes {
		if decl.Name == "" {
			return nil, errorf(ErrInvalidGraph, "node of kind '%s' in %s has no name", decl.Kind, decl.Source)
		}
		if decl.Kind == config.InputKind && len(decl.Inputs) > 0 {
			return nil, errorf(ErrInvalidGraph, "input '%s' in %s cannot have inputs", decl.Name, decl.Source)
		}
		id, err := g.declare(decl.Kind, decl.Name)
		if err != nil {
			return nil, fmt.Errorf("in %s: %w", decl.Source, err)
		}
		if decl.Kind != config.InputKind && g.nodes[id].op == nil {
			logger.Warn("No operation registered for node kind; evaluating it will fail.", "node", decl.Name, "kind", decl.Kind)
		}
		ids[i] = id
	}
	logger.Debug("Build: Node creation complete.", "node_count", g.Len())

	// Second pass: resolve names and wire both edge directions.
	for i, decl := range model.Nodes {
		deps := make([]NodeID, len(decl.Inputs))
		for j, name := range decl.Inputs {
			dep, ok := g.names[name]
			if !ok {
				return nil, errorf(ErrInvalidGraph, "node '%s' in %s references unknown node '%s'", decl.Name, decl.Source, name)
			}
			if dep == ids[i] {
				return nil, errorf(ErrInvalidGraph, "node '%s' in %s references itself", decl.Name, decl.Source)
			}
			deps[j] = dep
		}
		if op := g.nodes[ids[i]].op; op != nil {
			if err := ops.CheckArity(op, len(deps)); err != nil {
				return nil, errorf(ErrInvalidGraph, "node '%s' in %s: %v", decl.Name, decl.Source, err)
			}
		}
		g.link(ids[i], deps)
	}
	logger.Debug("Build: Node linking complete.")

	for _, name := range model.Outputs {
		if _, ok := g.names[name]; !ok {
			return nil, errorf(ErrInvalidGraph, "output '%s' does not name a node", name)
		}
	}

	logger.Debug("Build: Graph construction successful.")
	return g, nil
}
