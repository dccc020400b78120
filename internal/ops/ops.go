package ops

import (
	"github.com/specialistvlad/miniflow/internal/tensor"
)

// Variadic is the Arity of operations that accept one or more arguments.
const Variadic = -1

// Operation computes a node's value from the values of its dependencies.
type Operation interface {
	// Kind is the tag nodes use to select this operation.
	Kind() string
	// Arity is the exact number of dependencies, or Variadic.
	Arity() int
	// Forward receives dependency values in declaration order.
	Forward(args []tensor.Value) (tensor.Value, error)
}

// Module is the interface that every operation module implements to be
// registered.
type Module interface {
	Register(r *Registry)
}

// Func adapts a plain function to the Operation interface.
type Func struct {
	Name string
	N    int
	Fn   func(args []tensor.Value) (tensor.Value, error)
}

func (f *Func) Kind() string { return f.Name }
func (f *Func) Arity() int   { return f.N }

func (f *Func) Forward(args []tensor.Value) (tensor.Value, error) {
	return f.Fn(args)
}
