package graph

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidGraph reports a construction defect: unknown references,
	// duplicate names, or a dependency count the operation does not accept.
	ErrInvalidGraph = errors.New("invalid graph")
	// ErrUnimplemented is returned when a node's kind has no registered
	// operation. It signals a construction-time defect.
	ErrUnimplemented = errors.New("operation not implemented")
	// ErrInvalidSeed is returned for feeds that name non-input nodes, or
	// when an input needed by the evaluation has no value.
	ErrInvalidSeed = errors.New("invalid seed")
	// ErrCycleDetected is returned when the reachable subgraph is not acyclic.
	ErrCycleDetected = errors.New("cycle detected")
	// ErrNotEvaluated is returned when an order evaluates a node before one
	// of its dependencies.
	ErrNotEvaluated = errors.New("dependency not evaluated")
)

// GraphError carries one of the sentinel errors above plus detail.
type GraphError struct {
	Kind error
	Msg  string
}

func (e *GraphError) Error() string {
	if e == nil {
		return ""
	}
	if e.Msg == "" {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%s: %s", e.Kind.Error(), e.Msg)
}

func (e *GraphError) Unwrap() error { return e.Kind }

func errorf(kind error, format string, args ...any) error {
	return &GraphError{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// NodeError wraps an error returned by a node's operation. The original
// error is kept intact for errors.Is and errors.As.
type NodeError struct {
	Node string
	Kind string
	Err  error
}

func (e *NodeError) Error() string {
	return fmt.Sprintf("node '%s' (%s): %v", e.Node, e.Kind, e.Err)
}

func (e *NodeError) Unwrap() error { return e.Err }
