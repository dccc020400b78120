// Package mse provides the "mse" cost: the mean squared error between a
// target y and a prediction a. It is normally the terminal node of a
// network.
package mse

import (
	"github.com/specialistvlad/miniflow/internal/ops"
	"github.com/specialistvlad/miniflow/internal/tensor"
)

// Kind is the node kind handled by this module.
const Kind = "mse"

// Module implements the ops.Module interface for this package.
type Module struct{}

// Forward expects (y, a). Both are flattened to column vectors before the
// difference is taken so that a (3,) target and a (3,1) prediction do not
// broadcast into a (3,3) matrix.
func Forward(args []tensor.Value) (tensor.Value, error) {
	y, err := tensor.Reshape(args[0], -1, 1)
	if err != nil {
		return tensor.Value{}, err
	}
	a, err := tensor.Reshape(args[1], -1, 1)
	if err != nil {
		return tensor.Value{}, err
	}
	diff, err := tensor.Sub(y, a)
	if err != nil {
		return tensor.Value{}, err
	}
	return tensor.Scalar(tensor.Sum(tensor.Square(diff)) / float64(y.Len())), nil
}

// Register registers the operation with the engine.
func (m *Module) Register(r *ops.Registry) {
	r.Register(&ops.Func{Name: Kind, N: 2, Fn: Forward})
}
