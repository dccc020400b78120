package graph

import (
	"sort"
	"strings"
)

// cycleWitness finds one cycle among the remaining nodes of a stalled sort
// and renders it as "a -> b -> a". Every remaining node either sits on a
// cycle or depends on one, so a depth-first walk along dependent edges
// restricted to the set always closes a loop.
func (g *Graph) cycleWitness(remaining map[NodeID]bool) string {
	ids := make([]NodeID, 0, len(remaining))
	for id := range remaining {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	// permanent: fully explored without closing a loop.
	// temporary: on the current recursion stack.
	permanent := make(map[NodeID]bool)
	temporary := make(map[NodeID]bool)
	var stack []NodeID

	var visit func(id NodeID) []NodeID
	visit = func(id NodeID) []NodeID {
		if permanent[id] {
			return nil
		}
		if temporary[id] {
			// Cut the stack at the first occurrence of id.
			for i, s := range stack {
				if s == id {
					return append(append([]NodeID(nil), stack[i:]...), id)
				}
			}
		}

		temporary[id] = true
		stack = append(stack, id)
		for _, next := range g.nodes[id].dependents {
			if !remaining[next] {
				continue
			}
			if cycle := visit(next); cycle != nil {
				return cycle
			}
		}
		stack = stack[:len(stack)-1]
		delete(temporary, id)
		permanent[id] = true
		return nil
	}

	for _, id := range ids {
		if cycle := visit(id); cycle != nil {
			names := make([]string, len(cycle))
			for i, c := range cycle {
				names[i] = g.nodes[c].name
			}
			return "cycle: " + strings.Join(names, " -> ")
		}
	}
	return "unresolved nodes remain"
}
