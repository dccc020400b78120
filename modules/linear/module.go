// Package linear provides the "linear" operation, an affine transform of
// its first input: inputs . weights + bias.
package linear

import (
	"fmt"

	"github.com/specialistvlad/miniflow/internal/ops"
	"github.com/specialistvlad/miniflow/internal/tensor"
)

// Kind is the node kind handled by this module.
const Kind = "linear"

// Module implements the ops.Module interface for this package.
type Module struct{}

// Forward expects (X, W, b) in that order.
func Forward(args []tensor.Value) (tensor.Value, error) {
	x, w, b := args[0], args[1], args[2]
	xw, err := tensor.Dot(x, w)
	if err != nil {
		return tensor.Value{}, err
	}
	out, err := tensor.Add(xw, b)
	if err != nil {
		return tensor.Value{}, fmt.Errorf("adding bias: %w", err)
	}
	return out, nil
}

// Register registers the operation with the engine.
func (m *Module) Register(r *ops.Registry) {
	r.Register(&ops.Func{Name: Kind, N: 3, Fn: Forward})
}
