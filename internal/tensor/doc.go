// Package tensor is the numeric collaborator of the engine. It supplies the
// Value type that flows along graph edges and the array operations the
// operation plugins are written against.
//
// A Value has rank 0 (scalar), 1 (vector) or 2 (matrix) and is backed by a
// gonum dense matrix. Binary elementwise operations broadcast the way numpy
// does for these ranks: a vector behaves as a single row, and any dimension
// of size 1 stretches to match the other operand. Shape problems are
// reported as errors wrapping ErrShape; the engine never interprets them.
package tensor
