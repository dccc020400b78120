package graph

import (
	"context"
	"time"

	"github.com/specialistvlad/miniflow/internal/ctxlog"
	"github.com/specialistvlad/miniflow/internal/tensor"
)

// ForwardPass evaluates every node of order, in order, each exactly once;
// an order that repeats a node is rejected. It stops at the
// first failing node and returns its error; errors raised by an operation
// are wrapped in a *NodeError and otherwise left untouched.
func (g *Graph) ForwardPass(ctx context.Context, order []NodeID) error {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Forward pass starting.", "order_len", len(order))

	seen := make(map[NodeID]struct{}, len(order))
	for _, id := range order {
		if !g.has(id) {
			return errorf(ErrInvalidGraph, "order names unknown node %d", id)
		}
		if _, dup := seen[id]; dup {
			return errorf(ErrInvalidGraph, "order names node '%s' more than once", g.nodes[id].name)
		}
		seen[id] = struct{}{}
		if err := g.evaluate(ctx, g.nodes[id]); err != nil {
			return err
		}
	}

	logger.Debug("Forward pass finished.")
	return nil
}

// Assign is the compute step of an input node called with an argument: it
// overwrites the node's value.
func (g *Graph) Assign(id NodeID, v tensor.Value) error {
	if !g.has(id) {
		return errorf(ErrInvalidSeed, "cannot assign to unknown node %d", id)
	}
	n := g.nodes[id]
	if !n.source {
		return errorf(ErrInvalidSeed, "cannot assign to '%s': it is a %s node, not an input", n.name, n.kind)
	}
	if v.IsZero() {
		return errorf(ErrInvalidSeed, "cannot assign an empty value to '%s'", n.name)
	}
	n.value = &v
	return nil
}

func (g *Graph) evaluate(ctx context.Context, n *node) error {
	start := time.Now()
	err := g.compute(n)
	if g.observer != nil {
		g.observer.ObserveNode(n.kind, time.Since(start), err)
	}
	if err != nil {
		return err
	}
	ctxlog.FromContext(ctx).Debug("Node evaluated.", "node", n.name, "kind", n.kind, "value", n.value.String())
	return nil
}

// compute writes n's value from its dependencies. Input nodes keep the
// value they were last assigned.
func (g *Graph) compute(n *node) error {
	if n.source {
		if n.value == nil {
			return errorf(ErrInvalidSeed, "input '%s' has no value", n.name)
		}
		return nil
	}
	if n.op == nil {
		return errorf(ErrUnimplemented, "node '%s': no operation registered for kind '%s'", n.name, n.kind)
	}

	args := make([]tensor.Value, len(n.deps))
	for i, dep := range n.deps {
		d := g.nodes[dep]
		if d.value == nil {
			return errorf(ErrNotEvaluated, "node '%s' reads '%s' before it has a value", n.name, d.name)
		}
		args[i] = *d.value
	}

	out, err := n.op.Forward(args)
	if err != nil {
		return &NodeError{Node: n.name, Kind: n.kind, Err: err}
	}
	n.value = &out
	return nil
}
