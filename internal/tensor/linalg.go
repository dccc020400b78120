package tensor

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Dot follows numpy's dot for ranks up to 2: scalars multiply elementwise,
// two vectors give their inner product, and otherwise a vector on the left
// acts as a row and a vector on the right acts as a column, with that
// dimension dropped from the result.
func Dot(a, b Value) (Value, error) {
	if a.m == nil || b.m == nil {
		return Value{}, fmt.Errorf("dot: %w", ErrEmpty)
	}
	if a.Rank() == 0 || b.Rank() == 0 {
		return Mul(a, b)
	}

	left := mat.Matrix(a.m)
	right := mat.Matrix(b.m)
	if b.Rank() == 1 {
		right = b.m.T()
	}

	_, inner := left.Dims()
	rows, _ := right.Dims()
	if inner != rows {
		return Value{}, fmt.Errorf("dot: %w: shapes %v and %v not aligned", ErrShape, a.shape, b.shape)
	}

	var out mat.Dense
	out.Mul(left, right)
	r, c := out.Dims()

	switch {
	case a.Rank() == 1 && b.Rank() == 1:
		return fromDense(&out, []int{}), nil
	case a.Rank() == 1:
		return fromDense(&out, []int{c}), nil
	case b.Rank() == 1:
		// m x 1 column, reported as a vector of length m.
		return fromDense(mat.NewDense(1, r, mat.Col(nil, 0, &out)), []int{r}), nil
	}
	return fromDense(&out, []int{r, c}), nil
}

// Reshape returns v with a new shape of rank 0, 1 or 2. One dimension may
// be -1, in which case it is inferred from the element count.
func Reshape(v Value, shape ...int) (Value, error) {
	if v.m == nil {
		return Value{}, fmt.Errorf("reshape: %w", ErrEmpty)
	}
	if len(shape) > 2 {
		return Value{}, fmt.Errorf("reshape: %w: rank %d is not supported", ErrShape, len(shape))
	}

	size := v.Size()
	dims := make([]int, len(shape))
	copy(dims, shape)

	known, wildcard := 1, -1
	for i, d := range dims {
		switch {
		case d == -1 && wildcard == -1:
			wildcard = i
		case d <= 0:
			return Value{}, fmt.Errorf("reshape: %w: invalid dimension %d in %v", ErrShape, d, shape)
		default:
			known *= d
		}
	}
	if wildcard >= 0 {
		if size%known != 0 {
			return Value{}, fmt.Errorf("reshape: %w: cannot reshape %v into %v", ErrShape, v.shape, shape)
		}
		dims[wildcard] = size / known
		known *= dims[wildcard]
	}
	if known != size {
		return Value{}, fmt.Errorf("reshape: %w: cannot reshape %v into %v", ErrShape, v.shape, shape)
	}

	data := v.Data()
	switch len(dims) {
	case 0:
		return fromDense(mat.NewDense(1, 1, data), []int{}), nil
	case 1:
		return fromDense(mat.NewDense(1, dims[0], data), dims), nil
	}
	return fromDense(mat.NewDense(dims[0], dims[1], data), dims), nil
}

// Sum returns the sum of all elements.
func Sum(v Value) float64 {
	if v.m == nil {
		return 0
	}
	return mat.Sum(v.m)
}

// Mean returns the arithmetic mean of all elements.
func Mean(v Value) float64 {
	if v.m == nil {
		return 0
	}
	return mat.Sum(v.m) / float64(v.Size())
}
