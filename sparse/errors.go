// SPDX-License-Identifier: MIT
// Package sparse: sentinel error set.
// All functions return these sentinels (possibly wrapped as "<Op>: <sentinel>")
// and tests check them via errors.Is.

package sparse

import (
	"errors"
	"fmt"
)

var (
	// ErrOutOfRange indicates a row, column or group index outside valid bounds.
	ErrOutOfRange = errors.New("sparse: index out of range")

	// ErrUnsortedEntry is returned when entries are not added in row-major
	// ascending order (rows non-decreasing, columns strictly increasing per row).
	ErrUnsortedEntry = errors.New("sparse: entries must be added in ascending order")

	// ErrBadRowGroup signals an invalid row grouping: first group not at row 0,
	// non-increasing group starts, or an empty group.
	ErrBadRowGroup = errors.New("sparse: invalid row grouping")

	// ErrRowGroupingDisabled is returned by NewRowGroup on a builder created
	// without WithRowGrouping.
	ErrRowGroupingDisabled = errors.New("sparse: row grouping not enabled")

	// ErrNonSquare signals that a square matrix was required.
	ErrNonSquare = errors.New("sparse: matrix is not square")

	// ErrDimensionMismatch indicates incompatible vector or matrix dimensions.
	ErrDimensionMismatch = errors.New("sparse: dimension mismatch")

	// ErrNonTrivialGrouping signals that an operation needs one row per group.
	ErrNonTrivialGrouping = errors.New("sparse: row grouping is not trivial")

	// ErrNaNInf signals a NaN or ±Inf entry value.
	ErrNaNInf = errors.New("sparse: NaN or Inf encountered")

	// ErrBadShape is returned when a conversion needs a non-empty matrix.
	ErrBadShape = errors.New("sparse: invalid shape")

	// ErrNilMatrix indicates that a nil *Matrix was used.
	ErrNilMatrix = errors.New("sparse: nil matrix")
)

// Operation tags for uniform error wrapping.
const (
	opAddEntry       = "AddEntry"
	opNewRowGroup    = "NewRowGroup"
	opBuild          = "Build"
	opGet            = "Get"
	opMultiply       = "MultiplyWithVector"
	opConvert        = "ConvertToEquationSystem"
	opSelectRows     = "SelectRowsByScheduler"
	opToDense        = "ToDense"
	opFromDense      = "FromDense"
	opRowGroupBounds = "RowGroup"
)

// sparseErrorf wraps err with an operation tag, preserving it for errors.Is.
// Use only when err != nil.
func sparseErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}
