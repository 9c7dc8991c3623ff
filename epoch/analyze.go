// SPDX-License-Identifier: MIT

package epoch

import (
	"fmt"

	"github.com/katalvlaran/epochcheck/solver"
)

// AnalyzeSingleObjective solves objective 0 of a deterministic epoch and
// returns the values of EpochInStates in ascending state order.
//
// Trivial epochs are answered directly and leave cache untouched;
// non-trivial ones go through cache (see LinearCache).
//
// Errors:
//   - ErrNilCache, ErrInvariantViolation, ErrPreconditionViolated;
//   - *RequirementError (matches ErrUncheckedRequirement);
//   - solver errors, unchanged.
func (m *EpochModel[V]) AnalyzeSingleObjective(cache *LinearCache[V], opts ...BoundOption[V]) ([]V, error) {
	if cache == nil {
		return nil, epochErrorf(opAnalyze, ErrNilCache)
	}
	if err := m.Validate(); err != nil {
		return nil, epochErrorf(opAnalyze, err)
	}
	kind, err := m.DeterministicKind()
	if err != nil {
		return nil, epochErrorf(opAnalyze, err)
	}
	if kind == TrivialDeterministic {
		return m.analyzeTrivialDeterministic(), nil
	}

	bnd := gatherBounds(opts...)
	if !bnd.valid() {
		return nil, epochErrorf(opAnalyze, fmt.Errorf("lower bound above upper bound: %w", ErrPreconditionViolated))
	}
	if want := cache.ProblemFormat(); *m.EquationSolverProblemFormat != want {
		return nil, epochErrorf(opAnalyze, fmt.Errorf("epoch in %s format, solver expects %s: %w",
			*m.EquationSolverProblemFormat, want, ErrPreconditionViolated))
	}

	return m.analyzeNonTrivialDeterministic(cache, bnd)
}

// AnalyzeSingleObjectiveMinMax solves objective 0 of a nondeterministic
// epoch under dir and returns the values of EpochInStates in ascending
// state order.
//
// Trivial epochs (no matrix entries) pick the best choice per state and
// leave cache untouched; non-trivial ones go through cache (see MinMaxCache).
// A change of dir on an unchanged matrix rebuilds the solver.
//
// Errors: as AnalyzeSingleObjective.
func (m *EpochModel[V]) AnalyzeSingleObjectiveMinMax(dir solver.OptimizationDirection, cache *MinMaxCache[V], opts ...BoundOption[V]) ([]V, error) {
	if cache == nil {
		return nil, epochErrorf(opAnalyzeMinMax, ErrNilCache)
	}
	if err := m.Validate(); err != nil {
		return nil, epochErrorf(opAnalyzeMinMax, err)
	}
	if m.NonDeterministicKind() == TrivialNonDeterministic {
		return m.analyzeTrivialNonDeterministic(dir), nil
	}

	bnd := gatherBounds(opts...)
	if !bnd.valid() {
		return nil, epochErrorf(opAnalyzeMinMax, fmt.Errorf("lower bound above upper bound: %w", ErrPreconditionViolated))
	}

	return m.analyzeNonTrivialNonDeterministic(dir, cache, bnd)
}
