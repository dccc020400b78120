// Package add provides the "add" operation: the sum of all inputs.
package add

import (
	"github.com/specialistvlad/miniflow/internal/ops"
	"github.com/specialistvlad/miniflow/internal/tensor"
)

// Kind is the node kind handled by this module.
const Kind = "add"

// Module implements the ops.Module interface for this package.
type Module struct{}

// Forward adds every argument, broadcasting as it goes.
func Forward(args []tensor.Value) (tensor.Value, error) {
	sum := args[0]
	for _, v := range args[1:] {
		var err error
		if sum, err = tensor.Add(sum, v); err != nil {
			return tensor.Value{}, err
		}
	}
	return sum, nil
}

// Register registers the operation with the engine.
func (m *Module) Register(r *ops.Registry) {
	r.Register(&ops.Func{Name: Kind, N: ops.Variadic, Fn: Forward})
}
