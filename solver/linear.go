// SPDX-License-Identifier: MIT

package solver

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/katalvlaran/epochcheck/numeric"
	"github.com/katalvlaran/epochcheck/sparse"
)

// LinearEquationSolver solves a deterministic system over a fixed matrix.
//
// SolveEquations mutates x in place and reads b. With caching enabled the
// solver keeps auxiliary data (factorizations, scratch buffers) between
// calls, and iterative methods start from the current contents of x.
type LinearEquationSolver[V numeric.Value] interface {
	SetCachingEnabled(enabled bool)
	IsCachingEnabled() bool
	ClearCache()
	Requirements() RequirementSet
	SetLowerBound(v V)
	SetUpperBound(v V)
	SolveEquations(x, b []V) error
}

// LinearFactory creates linear solvers and tells callers which matrix
// format they expect.
type LinearFactory[V numeric.Value] interface {
	Create(env Environment, m *sparse.Matrix[V]) (LinearEquationSolver[V], error)
	ProblemFormat(env Environment) ProblemFormat
	Requirements(env Environment) RequirementSet
}

// GeneralLinearFactory dispatches on Environment.LinearMethod.
type GeneralLinearFactory[V numeric.Value] struct{}

// NewGeneralLinearFactory returns the default linear factory.
func NewGeneralLinearFactory[V numeric.Value]() *GeneralLinearFactory[V] {
	return &GeneralLinearFactory[V]{}
}

// ProblemFormat returns the matrix format of env's linear method.
func (f *GeneralLinearFactory[V]) ProblemFormat(env Environment) ProblemFormat {
	switch env.LinearMethod {
	case LinearJacobi, LinearLU:
		return EquationSystem
	default:
		return FixedPointSystem
	}
}

// Requirements returns what env's linear method needs before solving.
func (f *GeneralLinearFactory[V]) Requirements(env Environment) RequirementSet {
	var req RequirementSet
	if env.LinearMethod == LinearInterval {
		req.RequireBounds(true)
	}

	return req
}

// Create builds a solver for the square, trivially grouped matrix m.
//
// Errors:
//   - ErrInvalidMatrix for nil, non-square or row-grouped matrices.
//   - ErrUnknownMethod for an unknown Environment.LinearMethod.
func (f *GeneralLinearFactory[V]) Create(env Environment, m *sparse.Matrix[V]) (LinearEquationSolver[V], error) {
	if err := validateLinearMatrix(m); err != nil {
		return nil, solverErrorf(opCreate, err)
	}
	base := newLinearBase[V](env, m, f.Requirements(env))
	switch env.LinearMethod {
	case LinearPower:
		return &powerSolver[V]{linearBase: base}, nil
	case LinearJacobi:
		return &jacobiSolver[V]{linearBase: base}, nil
	case LinearLU:
		return &luSolver[V]{linearBase: base}, nil
	case LinearInterval:
		return &intervalSolver[V]{linearBase: base}, nil
	default:
		return nil, solverErrorf(opCreate, fmt.Errorf("%q: %w", env.LinearMethod, ErrUnknownMethod))
	}
}

// validateLinearMatrix checks the deterministic-system preconditions.
func validateLinearMatrix[V numeric.Value](m *sparse.Matrix[V]) error {
	if m == nil {
		return fmt.Errorf("nil: %w", ErrInvalidMatrix)
	}
	if m.RowCount() != m.ColumnCount() {
		return fmt.Errorf("%dx%d not square: %w", m.RowCount(), m.ColumnCount(), ErrInvalidMatrix)
	}
	if !m.HasTrivialRowGrouping() {
		return fmt.Errorf("row grouping not trivial: %w", ErrInvalidMatrix)
	}

	return nil
}

// linearBase holds the state shared by every linear method.
type linearBase[V numeric.Value] struct {
	env     Environment
	log     *zap.Logger
	matrix  *sparse.Matrix[V]
	req     RequirementSet
	caching bool
	lower   *V
	upper   *V
}

func newLinearBase[V numeric.Value](env Environment, m *sparse.Matrix[V], req RequirementSet) linearBase[V] {
	return linearBase[V]{env: env, log: env.Logger(), matrix: m, req: req}
}

func (s *linearBase[V]) SetCachingEnabled(enabled bool) { s.caching = enabled }
func (s *linearBase[V]) IsCachingEnabled() bool         { return s.caching }
func (s *linearBase[V]) Requirements() RequirementSet   { return s.req }
func (s *linearBase[V]) SetLowerBound(v V)              { s.lower = &v }
func (s *linearBase[V]) SetUpperBound(v V)              { s.upper = &v }

// checkDims validates x (length n) and b (length n).
func (s *linearBase[V]) checkDims(tag string, x, b []V) error {
	n := s.matrix.RowCount()
	if len(x) != n || len(b) != n {
		return solverErrorf(tag, fmt.Errorf("x=%d b=%d n=%d: %w", len(x), len(b), n, ErrDimensionMismatch))
	}

	return nil
}

// reportNonConvergence logs a warning; the last iterate is still returned.
func (s *linearBase[V]) reportNonConvergence(method string, iterations int, diff V) {
	s.log.Warn("iterative method did not converge",
		zap.String("method", method),
		zap.Int("iterations", iterations),
		zap.Float64("maxDiff", float64(diff)),
		zap.Float64("precision", s.env.Precision))
}
