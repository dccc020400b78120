package tensor

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"
)

var (
	// ErrShape is returned when operand shapes are incompatible.
	ErrShape = errors.New("shape mismatch")
	// ErrEmpty is returned when a value would have no elements.
	ErrEmpty = errors.New("empty value")
	// ErrType is returned when raw data cannot be turned into a Value.
	ErrType = errors.New("unsupported value type")
)

// Value is an immutable numeric array of rank 0, 1 or 2.
//
// Internally every Value is a rows x cols dense matrix: a scalar is 1x1 and
// a vector of length n is 1xn. The logical shape is kept separately so that
// results can be reported with numpy's rank rules.
type Value struct {
	shape []int
	m     *mat.Dense
}

// Scalar returns a rank-0 value.
func Scalar(f float64) Value {
	return Value{shape: []int{}, m: mat.NewDense(1, 1, []float64{f})}
}

// Vector returns a rank-1 value holding a copy of xs. It panics when xs is
// empty, matching gonum's treatment of zero-length matrices.
func Vector(xs ...float64) Value {
	if len(xs) == 0 {
		panic(ErrEmpty)
	}
	data := make([]float64, len(xs))
	copy(data, xs)
	return Value{shape: []int{len(xs)}, m: mat.NewDense(1, len(xs), data)}
}

// Matrix returns a rank-2 value built from rows. All rows must have the
// same, non-zero length.
func Matrix(rows [][]float64) (Value, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return Value{}, ErrEmpty
	}
	cols := len(rows[0])
	data := make([]float64, 0, len(rows)*cols)
	for i, row := range rows {
		if len(row) != cols {
			return Value{}, fmt.Errorf("%w: row %d has %d columns, expected %d", ErrShape, i, len(row), cols)
		}
		data = append(data, row...)
	}
	return Value{shape: []int{len(rows), cols}, m: mat.NewDense(len(rows), cols, data)}, nil
}

// MustMatrix is like Matrix but panics on error.
func MustMatrix(rows [][]float64) Value {
	v, err := Matrix(rows)
	if err != nil {
		panic(err)
	}
	return v
}

// fromDense wraps m with the given logical shape. m is not copied.
func fromDense(m *mat.Dense, shape []int) Value {
	return Value{shape: shape, m: m}
}

// IsZero reports whether v is the zero Value, which holds no data.
func (v Value) IsZero() bool { return v.m == nil }

// Rank returns the number of dimensions.
func (v Value) Rank() int { return len(v.shape) }

// Shape returns a copy of the logical shape.
func (v Value) Shape() []int {
	out := make([]int, len(v.shape))
	copy(out, v.shape)
	return out
}

// Size returns the number of elements.
func (v Value) Size() int {
	if v.m == nil {
		return 0
	}
	r, c := v.m.Dims()
	return r * c
}

// Len returns the size of the first dimension. A scalar has length 1.
func (v Value) Len() int {
	if len(v.shape) == 0 {
		if v.m == nil {
			return 0
		}
		return 1
	}
	return v.shape[0]
}

// Float returns the single element of a value holding exactly one element.
func (v Value) Float() (float64, bool) {
	if v.Size() != 1 {
		return 0, false
	}
	return v.m.At(0, 0), true
}

// Data returns the elements in row-major order.
func (v Value) Data() []float64 {
	if v.m == nil {
		return nil
	}
	r, c := v.m.Dims()
	out := make([]float64, 0, r*c)
	for i := 0; i < r; i++ {
		out = append(out, mat.Row(nil, i, v.m)...)
	}
	return out
}

// Equal reports whether a and b have the same shape and elements.
func Equal(a, b Value) bool {
	if !sameShape(a.shape, b.shape) || a.m == nil || b.m == nil {
		return a.m == nil && b.m == nil
	}
	return mat.Equal(a.m, b.m)
}

// EqualApprox is Equal with an absolute or relative tolerance of epsilon.
func EqualApprox(a, b Value, epsilon float64) bool {
	if !sameShape(a.shape, b.shape) || a.m == nil || b.m == nil {
		return a.m == nil && b.m == nil
	}
	return mat.EqualApprox(a.m, b.m, epsilon)
}

// String formats v in numpy's nested bracket notation.
func (v Value) String() string {
	if v.m == nil {
		return "<nil>"
	}
	switch len(v.shape) {
	case 0:
		return formatFloat(v.m.At(0, 0))
	case 1:
		return formatRow(mat.Row(nil, 0, v.m))
	}
	r, _ := v.m.Dims()
	rows := make([]string, r)
	for i := range rows {
		rows[i] = formatRow(mat.Row(nil, i, v.m))
	}
	return "[" + strings.Join(rows, " ") + "]"
}

func formatRow(xs []float64) string {
	parts := make([]string, len(xs))
	for i, x := range xs {
		parts[i] = formatFloat(x)
	}
	return "[" + strings.Join(parts, " ") + "]"
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func sameShape(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
