// SPDX-License-Identifier: MIT
// Package sparse - derived matrices and kernels used by the equation solvers.
//
// Determinism:
//   - Fixed row order, fixed column order within rows; results are bitwise
//     reproducible for the same inputs.

package sparse

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// ValidateVecLen checks len(v) == want and returns ErrDimensionMismatch otherwise.
func ValidateVecLen(tag string, got, want int) error {
	if got != want {
		return sparseErrorf(tag, fmt.Errorf("vector length %d, want %d: %w", got, want, ErrDimensionMismatch))
	}

	return nil
}

// MultiplyWithVector computes out = A·x row by row.
//
// Errors: ErrDimensionMismatch if len(x) != cols or len(out) != rows.
// Complexity: O(rows + nnz), no allocation.
func (m *Matrix[V]) MultiplyWithVector(x, out []V) error {
	if err := ValidateVecLen(opMultiply, len(x), m.cols); err != nil {
		return err
	}
	if err := ValidateVecLen(opMultiply, len(out), m.rows); err != nil {
		return err
	}

	var sum V
	for i := 0; i < m.rows; i++ {
		sum = 0
		for _, e := range m.Row(i) {
			sum += e.Value * x[e.Column]
		}
		out[i] = sum
	}

	return nil
}

// RowDot returns Σ_j A[row, j]·x[j] for a single row.
// Caller guarantees len(x) >= cols.
func (m *Matrix[V]) RowDot(row int, x []V) V {
	var sum V
	for _, e := range m.Row(row) {
		sum += e.Value * x[e.Column]
	}

	return sum
}

// ConvertToEquationSystem returns I − A, turning the fixed-point system
// x = Ax + b into (I − A)x = b.
// Implementation:
//   - Stage 1: require square shape and trivial grouping.
//   - Stage 2: per row, negate off-diagonal entries and merge 1 − a_ii in
//     column order; a zero diagonal result is dropped.
//
// Errors: ErrNonSquare, ErrNonTrivialGrouping.
// Complexity: O(rows + nnz).
func (m *Matrix[V]) ConvertToEquationSystem() (*Matrix[V], error) {
	if m.rows != m.cols {
		return nil, sparseErrorf(opConvert, fmt.Errorf("%dx%d: %w", m.rows, m.cols, ErrNonSquare))
	}
	if !m.trivial {
		return nil, sparseErrorf(opConvert, ErrNonTrivialGrouping)
	}

	b := NewBuilder[V](WithForceDimensions(m.rows, m.cols), WithNoValidateNaNInf())
	for i := 0; i < m.rows; i++ {
		diagDone := false
		for _, e := range m.Row(i) {
			if !diagDone && e.Column >= i {
				d := 1 - m.diagonal(i)
				if d != 0 {
					_ = b.AddEntry(i, i, d) // safe: ascending by construction
				}
				diagDone = true
				if e.Column == i {
					continue
				}
			}
			_ = b.AddEntry(i, e.Column, -e.Value)
		}
		if !diagDone {
			if d := 1 - m.diagonal(i); d != 0 {
				_ = b.AddEntry(i, i, d)
			}
		}
	}

	return b.Build()
}

// diagonal returns A[i,i] or zero.
func (m *Matrix[V]) diagonal(i int) V {
	v, _ := m.Get(i, i) // safe: i < rows == cols

	return v
}

// SelectRowsByScheduler returns the square matrix induced by a scheduler:
// row g of the result is row groupStart[g]+choices[g] of m. Choices are
// offsets local to their group.
//
// Errors: ErrDimensionMismatch if len(choices) != groups,
// ErrOutOfRange if a choice exceeds its group size.
// Complexity: O(groups + selected nnz).
func (m *Matrix[V]) SelectRowsByScheduler(choices []int) (*Matrix[V], error) {
	groups := m.RowGroupCount()
	if err := ValidateVecLen(opSelectRows, len(choices), groups); err != nil {
		return nil, err
	}

	b := NewBuilder[V](WithForceDimensions(groups, m.cols), WithNoValidateNaNInf())
	for g, c := range choices {
		if c < 0 || c >= m.RowGroupSize(g) {
			return nil, sparseErrorf(opSelectRows, fmt.Errorf("group %d choice %d of %d: %w", g, c, m.RowGroupSize(g), ErrOutOfRange))
		}
		for _, e := range m.Row(m.groupStart[g] + c) {
			_ = b.AddEntry(g, e.Column, e.Value)
		}
	}

	return b.Build()
}

// ToDense materializes the matrix as a gonum *mat.Dense (float64).
//
// Errors: ErrBadShape for a matrix without rows or columns (gonum rejects
// zero-length dense matrices).
// Complexity: O(rows*cols) memory.
func (m *Matrix[V]) ToDense() (*mat.Dense, error) {
	if m.rows == 0 || m.cols == 0 {
		return nil, sparseErrorf(opToDense, fmt.Errorf("%dx%d: %w", m.rows, m.cols, ErrBadShape))
	}
	d := mat.NewDense(m.rows, m.cols, nil)
	for i := 0; i < m.rows; i++ {
		for _, e := range m.Row(i) {
			d.Set(i, e.Column, float64(e.Value))
		}
	}

	return d, nil
}
