package mse

import (
	"testing"

	"github.com/specialistvlad/miniflow/internal/ops"
	"github.com/specialistvlad/miniflow/internal/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForward(t *testing.T) {
	y := tensor.Vector(1, 2, 3)
	a := tensor.Vector(1.5, 2, 2.5)

	got, err := Forward([]tensor.Value{y, a})
	require.NoError(t, err)
	f, ok := got.Float()
	require.True(t, ok)
	assert.InDelta(t, 1.0/6.0, f, 1e-12)
	assert.Equal(t, 0, got.Rank())
}

func TestForward_MixedShapes(t *testing.T) {
	// A column prediction against a flat target must not broadcast to 3x3.
	y := tensor.Vector(1, 2, 3)
	a := tensor.MustMatrix([][]float64{{1}, {2}, {4}})

	got, err := Forward([]tensor.Value{y, a})
	require.NoError(t, err)
	f, _ := got.Float()
	assert.InDelta(t, 1.0/3.0, f, 1e-12)
}

func TestForward_LengthMismatch(t *testing.T) {
	_, err := Forward([]tensor.Value{tensor.Vector(1, 2, 3), tensor.Vector(1, 2)})
	assert.ErrorIs(t, err, tensor.ErrShape)
}

func TestRegister(t *testing.T) {
	op, ok := ops.NewWith(&Module{}).Lookup(Kind)
	require.True(t, ok)
	assert.Equal(t, 2, op.Arity())
}
