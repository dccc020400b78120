// Package sigmoid provides the "sigmoid" activation, applied elementwise.
package sigmoid

import (
	"math"

	"github.com/specialistvlad/miniflow/internal/ops"
	"github.com/specialistvlad/miniflow/internal/tensor"
)

// Kind is the node kind handled by this module.
const Kind = "sigmoid"

// Module implements the ops.Module interface for this package.
type Module struct{}

// Sigmoid is the logistic function 1/(1+e^-x).
func Sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

// Forward applies Sigmoid to every element of its single input.
func Forward(args []tensor.Value) (tensor.Value, error) {
	return tensor.Apply(args[0], Sigmoid), nil
}

// Register registers the operation with the engine.
func (m *Module) Register(r *ops.Registry) {
	r.Register(&ops.Func{Name: Kind, N: 1, Fn: Forward})
}
