package graph

import (
	"context"
	"sort"
)

// Plan is a cached evaluation order for a fixed set of fed inputs. The
// order depends only on topology, so a Plan stays valid for any feed over
// the same inputs.
type Plan struct {
	graph   *Graph
	order   []NodeID
	sources []NodeID
}

// Compile sorts the graph for feed, assigning its values, and returns the
// resulting Plan.
func (g *Graph) Compile(ctx context.Context, feed Feed) (*Plan, error) {
	order, err := g.TopologicalSort(ctx, feed)
	if err != nil {
		return nil, err
	}
	sources := make([]NodeID, 0, len(feed))
	for id := range feed {
		sources = append(sources, id)
	}
	sort.Slice(sources, func(i, j int) bool { return sources[i] < sources[j] })
	return &Plan{graph: g, order: order, sources: sources}, nil
}

// Order returns a copy of the evaluation order.
func (p *Plan) Order() []NodeID { return append([]NodeID(nil), p.order...) }

// Sources returns the fed inputs in NodeID order.
func (p *Plan) Sources() []NodeID { return append([]NodeID(nil), p.sources...) }

// Terminal returns the last node of the order, conventionally the graph's
// output.
func (p *Plan) Terminal() (NodeID, bool) {
	if len(p.order) == 0 {
		return 0, false
	}
	return p.order[len(p.order)-1], true
}

// Covers reports whether feed has exactly the Plan's inputs as keys.
func (p *Plan) Covers(feed Feed) bool {
	if len(feed) != len(p.sources) {
		return false
	}
	for _, id := range p.sources {
		if _, ok := feed[id]; !ok {
			return false
		}
	}
	return true
}

// Run assigns feed to the inputs and evaluates the cached order.
func (p *Plan) Run(ctx context.Context, feed Feed) error {
	if !p.Covers(feed) {
		return errorf(ErrInvalidSeed, "feed does not match the %d inputs the plan was compiled for", len(p.sources))
	}
	for _, id := range p.sources {
		if err := p.graph.Assign(id, feed[id]); err != nil {
			return err
		}
	}
	return p.graph.ForwardPass(ctx, p.order)
}
