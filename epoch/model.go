// SPDX-License-Identifier: MIT

package epoch

import (
	"fmt"

	"github.com/bits-and-blooms/bitset"

	"github.com/katalvlaran/epochcheck/numeric"
	"github.com/katalvlaran/epochcheck/solver"
	"github.com/katalvlaran/epochcheck/sparse"
	"github.com/katalvlaran/epochcheck/vector"
)

// EpochModel is one epoch of a reward-bounded unfolding, built fresh by the
// driver and consumed by a single analyzer call per objective.
//
// Indexing:
//   - rows of EpochMatrix are choices, row groups are states;
//   - ObjectiveRewards[k] and ObjectiveRewardFilter[k] are indexed by choice;
//   - EpochInStates holds state (row group) indices.
//
// The analyzers read objective 0 only.
type EpochModel[V numeric.Value] struct {
	// EpochMatrix holds the in-epoch transition weights, in the format of
	// EquationSolverProblemFormat (I − A for EquationSystem).
	EpochMatrix *sparse.Matrix[V]

	// EpochMatrixChanged is true iff EpochMatrix differs from the matrix
	// of the previous epoch seen by the same cache.
	EpochMatrixChanged bool

	// EpochInStates are the states whose result is returned, ascending.
	EpochInStates *bitset.BitSet

	// ObjectiveRewards holds one dense per-choice reward vector per objective.
	ObjectiveRewards [][]V

	// ObjectiveRewardFilter marks, per objective, the choices that carry a
	// reward. A nil filter marks none.
	ObjectiveRewardFilter []*bitset.BitSet

	// StepChoices are the choices leaving the epoch, strictly ascending.
	StepChoices []int

	// StepSolutions[i] is the already-solved contribution of StepChoices[i].
	StepSolutions []V

	// EquationSolverProblemFormat tells how EpochMatrix is to be read.
	// nil means unknown, which the deterministic path rejects.
	EquationSolverProblemFormat *solver.ProblemFormat
}

// Validate checks the structural invariants of m:
//   - EpochMatrix is set;
//   - at least one objective, with as many filters as reward vectors;
//   - every reward vector has one entry per row and every filter bit is a row;
//   - StepChoices strictly ascending rows, parallel to StepSolutions;
//   - every entry state is a row group of EpochMatrix.
//
// Errors: ErrInvariantViolation wrapping the first broken invariant.
// Complexity: O(objectives·rows + |StepChoices| + |EpochInStates|).
func (m *EpochModel[V]) Validate() error {
	if m.EpochMatrix == nil {
		return invariantf("nil epoch matrix")
	}
	rows := m.EpochMatrix.RowCount()
	groups := m.EpochMatrix.RowGroupCount()

	// Stage 1: objectives
	if len(m.ObjectiveRewards) == 0 {
		return invariantf("no objective")
	}
	if len(m.ObjectiveRewards) != len(m.ObjectiveRewardFilter) {
		return invariantf("%d reward vectors but %d filters", len(m.ObjectiveRewards), len(m.ObjectiveRewardFilter))
	}
	for k, rewards := range m.ObjectiveRewards {
		if len(rewards) != rows {
			return invariantf("objective %d: %d rewards for %d choices", k, len(rewards), rows)
		}
		if last, ok := vector.LastSet(m.ObjectiveRewardFilter[k]); ok && int(last) >= rows {
			return invariantf("objective %d: filter marks choice %d of %d", k, last, rows)
		}
	}

	// Stage 2: step choices
	if len(m.StepChoices) != len(m.StepSolutions) {
		return invariantf("%d step choices but %d step solutions", len(m.StepChoices), len(m.StepSolutions))
	}
	prev := -1
	for _, c := range m.StepChoices {
		if c <= prev {
			return invariantf("step choice %d after %d", c, prev)
		}
		if c >= rows {
			return invariantf("step choice %d of %d", c, rows)
		}
		prev = c
	}

	// Stage 3: entry states
	if last, ok := vector.LastSet(m.EpochInStates); ok && int(last) >= groups {
		return invariantf("entry state %d of %d", last, groups)
	}

	return nil
}

// DeterministicKind classifies m for the deterministic path.
//
// Errors: ErrPreconditionViolated for a nil matrix, a non-trivial row
// grouping or an unknown problem format.
func (m *EpochModel[V]) DeterministicKind() (Kind, error) {
	if m.EpochMatrix == nil {
		return 0, fmt.Errorf("nil epoch matrix: %w", ErrPreconditionViolated)
	}
	if !m.EpochMatrix.HasTrivialRowGrouping() {
		return 0, fmt.Errorf("nondeterminism on the deterministic path: %w", ErrPreconditionViolated)
	}
	if m.EquationSolverProblemFormat == nil {
		return 0, fmt.Errorf("unknown equation problem format: %w", ErrPreconditionViolated)
	}

	return ClassifyDeterministic(m.EpochMatrix, *m.EquationSolverProblemFormat), nil
}

// NonDeterministicKind classifies m for the nondeterministic path.
func (m *EpochModel[V]) NonDeterministicKind() Kind {
	return ClassifyNonDeterministic(m.EpochMatrix)
}

// rightHandSide rebuilds b for objective 0: zeros, filtered rewards, then
// step solutions added on top.
// Complexity: O(rows + |StepChoices|).
func (m *EpochModel[V]) rightHandSide(b []V) []V {
	rows := m.EpochMatrix.RowCount()
	b = vector.Assign(b, rows, 0)
	rewards := m.ObjectiveRewards[0]
	forEachSet(m.ObjectiveRewardFilter[0], func(choice int) {
		b[choice] = rewards[choice]
	})
	for i, choice := range m.StepChoices {
		b[choice] += m.StepSolutions[i]
	}

	return b
}

// invariantf builds an ErrInvariantViolation with a reason.
func invariantf(format string, args ...any) error {
	return epochErrorf(opValidate, fmt.Errorf(format+": %w", append(args, ErrInvariantViolation)...))
}

// forEachSet calls fn for every set bit of s in ascending order; nil is empty.
func forEachSet(s *bitset.BitSet, fn func(int)) {
	if s == nil {
		return
	}
	for i, ok := s.NextSet(0); ok; i, ok = s.NextSet(i + 1) {
		fn(int(i))
	}
}
