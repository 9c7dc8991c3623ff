// SPDX-License-Identifier: MIT
// Package epoch: sentinel errors and the typed requirement error.

package epoch

import (
	"errors"
	"fmt"
)

var (
	// ErrPreconditionViolated indicates a defect in the calling orchestration.
	ErrPreconditionViolated = errors.New("epoch: structural precondition violated")

	// ErrInvariantViolation indicates a malformed EpochModel.
	ErrInvariantViolation = errors.New("epoch: model invariant violated")

	// ErrUncheckedRequirement is matched by every *RequirementError.
	ErrUncheckedRequirement = errors.New("epoch: solver requirements not checked")

	// ErrNilCache is returned when an analyzer is called without a cache.
	ErrNilCache = errors.New("epoch: nil solver cache")
)

// RequirementError reports the critical requirements a freshly built
// solver still has after the known bounds were applied.
type RequirementError struct {
	Requirements string // e.g. "[lower bounds (critical)]"
}

// Error implements error.
func (e *RequirementError) Error() string {
	return fmt.Sprintf("epoch: solver requirements %s not checked", e.Requirements)
}

// Unwrap lets errors.Is match ErrUncheckedRequirement.
func (e *RequirementError) Unwrap() error { return ErrUncheckedRequirement }

// Operation tags.
const (
	opValidate      = "Validate"
	opAnalyze       = "AnalyzeSingleObjective"
	opAnalyzeMinMax = "AnalyzeSingleObjectiveMinMax"
	opBuildSolver   = "BuildSolver"
)

// epochErrorf wraps err with an operation tag. Use only when err != nil.
func epochErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}
