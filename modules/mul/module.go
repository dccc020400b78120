// Package mul provides the "mul" operation: the elementwise product of all
// inputs.
package mul

import (
	"github.com/specialistvlad/miniflow/internal/ops"
	"github.com/specialistvlad/miniflow/internal/tensor"
)

// Kind is the node kind handled by this module.
const Kind = "mul"

// Module implements the ops.Module interface for this package.
type Module struct{}

// Forward multiplies every argument elementwise.
func Forward(args []tensor.Value) (tensor.Value, error) {
	product := args[0]
	for _, v := range args[1:] {
		var err error
		if product, err = tensor.Mul(product, v); err != nil {
			return tensor.Value{}, err
		}
	}
	return product, nil
}

// Register registers the operation with the engine.
func (m *Module) Register(r *ops.Registry) {
	r.Register(&ops.Func{Name: Kind, N: ops.Variadic, Fn: Forward})
}
