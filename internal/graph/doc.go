// Package graph is the execution core. It holds a dataflow graph of nodes in
// a flat arena, linearizes the part of the graph reachable from a set of
// seeded input nodes with Kahn's algorithm, and evaluates that order in a
// single synchronous forward pass.
//
// # Nodes and edges
//
// Nodes are addressed by NodeID, an index into the arena. Every node keeps
// its dependencies as an ordered list (the order binds positional arguments
// of the node's operation) and the reverse edges to its dependents as an
// insertion-ordered set. Both directions are wired once, at construction,
// and never change afterwards. The value slot is the only mutable state and
// is rewritten on every pass.
//
// Input nodes (kind "input") have no dependencies; their value is supplied
// from outside through a Feed. Every other node resolves its kind against an
// ops.Registry at construction time.
//
// # Ordering
//
// TopologicalSort discovers the subgraph reachable from the fed inputs by
// following dependent edges breadth first, then runs Kahn's algorithm over
// it. The frontier is a FIFO queue seeded with the fed inputs in NodeID
// order, and dependents are released in wiring order, so the same graph and
// feed always produce the same order. A discovered node that still has
// unresolved dependencies after the frontier drains sits on a cycle, which
// is reported as ErrCycleDetected rather than silently dropped.
//
// # Evaluation
//
// ForwardPass walks an order and evaluates each node exactly once. Because
// the order puts every node after its dependencies, each operation reads
// values written earlier in the same pass. The order depends only on the
// topology and the set of fed inputs, so a Plan can cache it and re-run it
// with new input values.
//
// A Graph is not safe for concurrent passes.
package graph
