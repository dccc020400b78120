package tensor

import (
	"fmt"
)

// FromAny builds a Value from decoded configuration data. Numbers become
// scalars, flat lists become vectors and lists of lists become matrices.
// Nested lists must be rectangular.
func FromAny(raw any) (Value, error) {
	if f, ok := toFloat(raw); ok {
		return Scalar(f), nil
	}

	items, ok := toList(raw)
	if !ok {
		return Value{}, fmt.Errorf("%w: %T", ErrType, raw)
	}
	if len(items) == 0 {
		return Value{}, ErrEmpty
	}

	if _, nested := toList(items[0]); !nested {
		xs, err := toFloats(items)
		if err != nil {
			return Value{}, err
		}
		return Vector(xs...), nil
	}

	rows := make([][]float64, len(items))
	for i, item := range items {
		row, ok := toList(item)
		if !ok {
			return Value{}, fmt.Errorf("%w: row %d is %T, expected a list", ErrType, i, item)
		}
		xs, err := toFloats(row)
		if err != nil {
			return Value{}, fmt.Errorf("row %d: %w", i, err)
		}
		rows[i] = xs
	}
	return Matrix(rows)
}

func toFloats(items []any) ([]float64, error) {
	out := make([]float64, len(items))
	for i, item := range items {
		f, ok := toFloat(item)
		if !ok {
			return nil, fmt.Errorf("%w: element %d is %T, expected a number", ErrType, i, item)
		}
		out[i] = f
	}
	return out, nil
}

func toFloat(raw any) (float64, bool) {
	switch n := raw.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}

func toList(raw any) ([]any, bool) {
	switch l := raw.(type) {
	case []any:
		return l, true
	case []float64:
		out := make([]any, len(l))
		for i, f := range l {
			out[i] = f
		}
		return out, true
	case [][]float64:
		out := make([]any, len(l))
		for i, row := range l {
			out[i] = row
		}
		return out, true
	}
	return nil, false
}
