package graph

import (
	"context"
	"sort"

	"github.com/specialistvlad/miniflow/internal/ctxlog"
)

// TopologicalSort returns every node reachable from the inputs in feed,
// ordered so that each node follows all of its dependencies, and assigns
// each fed input its value.
//
// The feed must only name input nodes, and every dependency of a reachable
// node must itself be reachable; otherwise ErrInvalidSeed is returned. A
// cycle among reachable nodes yields ErrCycleDetected. On error no value is
// assigned.
func (g *Graph) TopologicalSort(ctx context.Context, feed Feed) ([]NodeID, error) {
	logger := ctxlog.FromContext(ctx)

	seeds, err := g.seeds(feed)
	if err != nil {
		return nil, err
	}

	// Discover the reachable subgraph breadth first.
	discovered := make([]bool, len(g.nodes))
	queue := make([]NodeID, 0, len(seeds))
	for _, id := range seeds {
		discovered[id] = true
		queue = append(queue, id)
	}
	var reachable []NodeID
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		reachable = append(reachable, id)
		for _, dep := range g.nodes[id].dependents {
			if !discovered[dep] {
				discovered[dep] = true
				queue = append(queue, dep)
			}
		}
	}
	logger.Debug("Reachable subgraph discovered.", "seeds", len(seeds), "reachable", len(reachable))

	// Local in-degrees and a consumable copy of the out-edges, so the graph
	// itself is never mutated.
	indeg := make(map[NodeID]int, len(reachable))
	out := make(map[NodeID][]NodeID, len(reachable))
	for _, id := range reachable {
		n := g.nodes[id]
		seen := make(map[NodeID]struct{}, len(n.deps))
		for _, dep := range n.deps {
			if _, dup := seen[dep]; dup {
				continue
			}
			seen[dep] = struct{}{}
			if !discovered[dep] {
				return nil, g.unreachableDependency(n, g.nodes[dep])
			}
			indeg[id]++
		}
		out[id] = append([]NodeID(nil), n.dependents...)
	}

	order := make([]NodeID, 0, len(reachable))
	frontier := append([]NodeID(nil), seeds...)
	for len(frontier) > 0 {
		id := frontier[0]
		frontier = frontier[1:]
		order = append(order, id)

		for _, m := range out[id] {
			indeg[m]--
			if indeg[m] == 0 {
				frontier = append(frontier, m)
			}
		}
		out[id] = nil
	}

	if len(order) != len(reachable) {
		remaining := make(map[NodeID]bool)
		for _, id := range reachable {
			if indeg[id] > 0 {
				remaining[id] = true
			}
		}
		logger.Debug("Topological sort stalled.", "ordered", len(order), "remaining", len(remaining))
		return nil, errorf(ErrCycleDetected, "%s", g.cycleWitness(remaining))
	}

	for _, id := range order {
		if n := g.nodes[id]; n.source {
			v := feed[id]
			n.value = &v
		}
	}

	logger.Debug("Topological sort complete.", "order_len", len(order))
	return order, nil
}

// seeds validates the feed and returns its keys in NodeID order.
func (g *Graph) seeds(feed Feed) ([]NodeID, error) {
	ids := make([]NodeID, 0, len(feed))
	for id, v := range feed {
		if !g.has(id) {
			return nil, errorf(ErrInvalidSeed, "feed names unknown node %d", id)
		}
		n := g.nodes[id]
		if !n.source {
			return nil, errorf(ErrInvalidSeed, "feed names '%s' which is a %s node, not an input", n.name, n.kind)
		}
		if v.IsZero() {
			return nil, errorf(ErrInvalidSeed, "feed value for '%s' is empty", n.name)
		}
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (g *Graph) unreachableDependency(n, dep *node) error {
	if dep.source {
		return errorf(ErrInvalidSeed, "input '%s' needed by '%s' is missing from the feed", dep.name, n.name)
	}
	return errorf(ErrInvalidSeed, "node '%s' depends on '%s' which is not reachable from the fed inputs", n.name, dep.name)
}
