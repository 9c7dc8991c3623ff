// SPDX-License-Identifier: MIT
// Package solver: sentinel error set.
// Errors are returned plain or wrapped as "<Op>: <sentinel>"; match with errors.Is.

package solver

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownMethod is returned for an unrecognized method name.
	ErrUnknownMethod = errors.New("solver: unknown method")

	// ErrInvalidEnvironment indicates an out-of-range numeric setting.
	ErrInvalidEnvironment = errors.New("solver: invalid environment")

	// ErrInvalidMatrix indicates a nil matrix or one with the wrong shape
	// for the requested solver flavor.
	ErrInvalidMatrix = errors.New("solver: invalid matrix")

	// ErrDimensionMismatch indicates x or b do not match the matrix.
	ErrDimensionMismatch = errors.New("solver: dimension mismatch")

	// ErrSingular is returned when a direct method meets a singular system.
	ErrSingular = errors.New("solver: singular system")

	// ErrMissingBounds is returned by sound methods solving without bounds.
	ErrMissingBounds = errors.New("solver: lower and upper bounds required")

	// ErrRequirementsUnchecked is returned when a min/max solver still has
	// a critical requirement and was never marked as checked.
	ErrRequirementsUnchecked = errors.New("solver: critical requirements not checked")

	// ErrNoScheduler is returned when scheduler choices are requested but
	// none were tracked.
	ErrNoScheduler = errors.New("solver: no scheduler available")

	// ErrInvalidScheduler indicates a scheduler of the wrong length or with
	// a choice outside its row group.
	ErrInvalidScheduler = errors.New("solver: invalid scheduler")
)

// Operation tags.
const (
	opCreate   = "Create"
	opSolve    = "SolveEquations"
	opPower    = "PowerIteration"
	opJacobi   = "Jacobi"
	opLU       = "LU"
	opInterval = "IntervalIteration"
	opValue    = "ValueIteration"
	opPolicy   = "PolicyIteration"
	opLoad     = "LoadEnvironment"
	opSched    = "SchedulerChoices"
)

// solverErrorf wraps err with an operation tag. Use only when err != nil.
func solverErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}
