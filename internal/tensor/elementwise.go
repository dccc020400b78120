package tensor

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Add returns a + b with broadcasting.
func Add(a, b Value) (Value, error) {
	return broadcast("add", a, b, func(x, y float64) float64 { return x + y })
}

// Sub returns a - b with broadcasting.
func Sub(a, b Value) (Value, error) {
	return broadcast("sub", a, b, func(x, y float64) float64 { return x - y })
}

// Mul returns the elementwise product of a and b with broadcasting.
func Mul(a, b Value) (Value, error) {
	return broadcast("mul", a, b, func(x, y float64) float64 { return x * y })
}

// Apply returns a new value with fn applied to every element of v.
func Apply(v Value, fn func(float64) float64) Value {
	if v.m == nil {
		return v
	}
	var out mat.Dense
	out.Apply(func(_, _ int, x float64) float64 { return fn(x) }, v.m)
	return fromDense(&out, v.Shape())
}

// Exp returns e raised to every element of v.
func Exp(v Value) Value { return Apply(v, math.Exp) }

// Neg returns -v.
func Neg(v Value) Value { return Apply(v, func(x float64) float64 { return -x }) }

// Square returns v with every element squared.
func Square(v Value) Value { return Apply(v, func(x float64) float64 { return x * x }) }

// broadcast applies fn elementwise over the broadcast shape of a and b.
func broadcast(op string, a, b Value, fn func(x, y float64) float64) (Value, error) {
	if a.m == nil || b.m == nil {
		return Value{}, fmt.Errorf("%s: %w", op, ErrEmpty)
	}
	ar, ac := a.m.Dims()
	br, bc := b.m.Dims()
	rows, ok := stretch(ar, br)
	if !ok {
		return Value{}, fmt.Errorf("%s: %w: operands could not be broadcast together with shapes %v %v", op, ErrShape, a.shape, b.shape)
	}
	cols, ok := stretch(ac, bc)
	if !ok {
		return Value{}, fmt.Errorf("%s: %w: operands could not be broadcast together with shapes %v %v", op, ErrShape, a.shape, b.shape)
	}

	out := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			x := a.m.At(i%ar, j%ac)
			y := b.m.At(i%br, j%bc)
			out.Set(i, j, fn(x, y))
		}
	}

	rank := max(a.Rank(), b.Rank())
	return fromDense(out, shapeFor(rank, rows, cols)), nil
}

// stretch returns the broadcast size of two dimensions.
func stretch(x, y int) (int, bool) {
	switch {
	case x == y:
		return x, true
	case x == 1:
		return y, true
	case y == 1:
		return x, true
	}
	return 0, false
}

// shapeFor maps a rows x cols backing matrix to a logical shape of the
// given rank.
func shapeFor(rank, rows, cols int) []int {
	switch rank {
	case 0:
		return []int{}
	case 1:
		return []int{cols}
	}
	return []int{rows, cols}
}
