// SPDX-License-Identifier: MIT

package solver

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/katalvlaran/epochcheck/numeric"
	"github.com/katalvlaran/epochcheck/sparse"
)

// MinMaxSolver solves x_s = opt_{c ∈ group(s)} (A_c·x + b_c) over a
// row-grouped fixed-point matrix. x has one entry per row group, b one
// entry per row.
//
// Scheduler handling:
//   - With SetTrackScheduler(true), SchedulerChoices returns the choice
//     (offset within its group) attaining the optimum in the last solve.
//     Value-based methods break ties toward the lowest choice; policy
//     iteration keeps the choice it evaluated last.
//   - SetInitialScheduler hands a scheduler over to the solver: the caller
//     must not touch the slice afterwards. Passing the slice obtained from
//     SchedulerChoices moves it back without copying.
type MinMaxSolver[V numeric.Value] interface {
	SetCachingEnabled(enabled bool)
	IsCachingEnabled() bool
	ClearCache()
	SetOptimizationDirection(dir OptimizationDirection)
	SetHasUniqueSolution(unique bool)
	SetTrackScheduler(track bool)
	Requirements(dir OptimizationDirection) RequirementSet
	SetRequirementsChecked(checked bool)
	SetLowerBound(v V)
	SetUpperBound(v V)
	SchedulerChoices() ([]int, error)
	SetInitialScheduler(choices []int)
	HasInitialScheduler() bool
	SolveEquations(x, b []V) error
}

// MinMaxFactory creates min/max solvers.
type MinMaxFactory[V numeric.Value] interface {
	Create(env Environment, m *sparse.Matrix[V]) (MinMaxSolver[V], error)
}

// GeneralMinMaxFactory dispatches on Environment.MinMaxMethod.
type GeneralMinMaxFactory[V numeric.Value] struct{}

// NewGeneralMinMaxFactory returns the default min/max factory.
func NewGeneralMinMaxFactory[V numeric.Value]() *GeneralMinMaxFactory[V] {
	return &GeneralMinMaxFactory[V]{}
}

// Create builds a min/max solver for m (columns must equal row groups).
//
// Errors: ErrInvalidMatrix, ErrUnknownMethod.
func (f *GeneralMinMaxFactory[V]) Create(env Environment, m *sparse.Matrix[V]) (MinMaxSolver[V], error) {
	if m == nil {
		return nil, solverErrorf(opCreate, fmt.Errorf("nil: %w", ErrInvalidMatrix))
	}
	if m.ColumnCount() != m.RowGroupCount() {
		return nil, solverErrorf(opCreate, fmt.Errorf("%d columns for %d groups: %w", m.ColumnCount(), m.RowGroupCount(), ErrInvalidMatrix))
	}
	base := minMaxBase[V]{env: env, log: env.Logger(), matrix: m, method: env.MinMaxMethod}
	switch env.MinMaxMethod {
	case MinMaxValueIteration:
		return &valueIterationSolver[V]{minMaxBase: base}, nil
	case MinMaxPolicyIteration:
		return &policyIterationSolver[V]{minMaxBase: base}, nil
	case MinMaxIntervalIteration:
		return &intervalIterationSolver[V]{minMaxBase: base}, nil
	default:
		return nil, solverErrorf(opCreate, fmt.Errorf("%q: %w", env.MinMaxMethod, ErrUnknownMethod))
	}
}

// minMaxBase holds state shared by the min/max methods.
type minMaxBase[V numeric.Value] struct {
	env     Environment
	log     *zap.Logger
	matrix  *sparse.Matrix[V]
	method  MinMaxMethod
	dir     OptimizationDirection
	unique  bool
	track   bool
	checked bool
	caching bool
	lower   *V
	upper   *V

	scheduler []int // choices of the last solve (when tracked)
	initial   []int // handed over by SetInitialScheduler, consumed by the next solve
	rowValues []V   // A·x + b per row, scratch
}

func (s *minMaxBase[V]) SetCachingEnabled(enabled bool)                     { s.caching = enabled }
func (s *minMaxBase[V]) IsCachingEnabled() bool                             { return s.caching }
func (s *minMaxBase[V]) SetOptimizationDirection(dir OptimizationDirection) { s.dir = dir }
func (s *minMaxBase[V]) SetHasUniqueSolution(unique bool)                   { s.unique = unique }
func (s *minMaxBase[V]) SetTrackScheduler(track bool)                       { s.track = track }
func (s *minMaxBase[V]) SetRequirementsChecked(checked bool)                { s.checked = checked }
func (s *minMaxBase[V]) SetLowerBound(v V)                                  { s.lower = &v }
func (s *minMaxBase[V]) SetUpperBound(v V)                                  { s.upper = &v }
func (s *minMaxBase[V]) HasInitialScheduler() bool                          { return s.initial != nil }

// Requirements lists what the configured method needs under dir.
//   - interval iteration: both bounds (critical).
//   - policy iteration without a unique solution: a valid initial
//     scheduler when maximizing (critical), since improving from an
//     arbitrary policy may end in a spurious fixed point.
func (s *minMaxBase[V]) Requirements(dir OptimizationDirection) RequirementSet {
	var req RequirementSet
	switch s.method {
	case MinMaxIntervalIteration:
		req.RequireBounds(true)
	case MinMaxPolicyIteration:
		if !s.unique && dir == Maximize {
			req.RequireValidInitialScheduler(true)
		}
	}

	return req
}

// SchedulerChoices returns the scheduler of the last solve.
// The slice is owned by the solver until handed back via SetInitialScheduler.
//
// Errors: ErrNoScheduler if tracking is off or nothing was solved yet.
func (s *minMaxBase[V]) SchedulerChoices() ([]int, error) {
	if !s.track || s.scheduler == nil {
		return nil, solverErrorf(opSched, ErrNoScheduler)
	}

	return s.scheduler, nil
}

// SetInitialScheduler takes ownership of choices. If choices is the
// solver's own last scheduler, the solver releases it so the next solve
// writes into fresh storage.
func (s *minMaxBase[V]) SetInitialScheduler(choices []int) {
	if len(choices) > 0 && len(s.scheduler) > 0 && &choices[0] == &s.scheduler[0] {
		s.scheduler = nil
	}
	s.initial = choices
}

// ClearCache drops the shared scratch storage; schedulers are kept.
func (s *minMaxBase[V]) ClearCache() { s.rowValues = nil }

// prepare validates dimensions and the requirement guard.
func (s *minMaxBase[V]) prepare(tag string, x, b []V) error {
	if len(x) != s.matrix.RowGroupCount() || len(b) != s.matrix.RowCount() {
		return solverErrorf(tag, fmt.Errorf("x=%d (groups %d) b=%d (rows %d): %w",
			len(x), s.matrix.RowGroupCount(), len(b), s.matrix.RowCount(), ErrDimensionMismatch))
	}
	if s.checked {
		return nil
	}
	req := s.Requirements(s.dir)
	if s.lower != nil {
		req.ClearLowerBounds()
	}
	if s.upper != nil {
		req.ClearUpperBounds()
	}
	if s.initial != nil {
		req.ClearValidInitialScheduler()
	}
	if req.HasEnabledCriticalRequirement() {
		return solverErrorf(tag, fmt.Errorf("%s: %w", req, ErrRequirementsUnchecked))
	}

	return nil
}

// validateScheduler checks one in-range choice per group.
func (s *minMaxBase[V]) validateScheduler(choices []int) error {
	if len(choices) != s.matrix.RowGroupCount() {
		return fmt.Errorf("length %d for %d groups: %w", len(choices), s.matrix.RowGroupCount(), ErrInvalidScheduler)
	}
	for g, c := range choices {
		if c < 0 || c >= s.matrix.RowGroupSize(g) {
			return fmt.Errorf("group %d choice %d: %w", g, c, ErrInvalidScheduler)
		}
	}

	return nil
}

// computeRowValues fills rowValues[r] = A_r·x + b_r.
func (s *minMaxBase[V]) computeRowValues(x, b []V) []V {
	rows := s.matrix.RowCount()
	if cap(s.rowValues) < rows {
		s.rowValues = make([]V, rows)
	}
	s.rowValues = s.rowValues[:rows]
	for r := 0; r < rows; r++ {
		s.rowValues[r] = s.matrix.RowDot(r, x) + b[r]
	}

	return s.rowValues
}

// reduce writes the optimum over each group's row values into out and,
// when choices != nil, the winning local offset. The first row initializes
// the best value; later rows replace it only on strict improvement.
func (s *minMaxBase[V]) reduce(rowValues, out []V, choices []int) {
	groups := s.matrix.RowGroupCount()
	for g := 0; g < groups; g++ {
		start, end := s.matrix.RowGroupStart(g), s.matrix.RowGroupStart(g+1)
		best, bestChoice := rowValues[start], 0
		for r := start + 1; r < end; r++ {
			if Better(s.dir, rowValues[r], best) {
				best, bestChoice = rowValues[r], r-start
			}
		}
		out[g] = best
		if choices != nil {
			choices[g] = bestChoice
		}
	}
}

// finishScheduler extracts the greedy scheduler w.r.t. x when tracking.
func (s *minMaxBase[V]) finishScheduler(x, b []V) {
	if !s.track {
		return
	}
	groups := s.matrix.RowGroupCount()
	if cap(s.scheduler) < groups {
		s.scheduler = make([]int, groups)
	}
	s.scheduler = s.scheduler[:groups]
	tmp := make([]V, groups)
	s.reduce(s.computeRowValues(x, b), tmp, s.scheduler)
}

// reportNonConvergence logs a warning; the last iterate is still returned.
func (s *minMaxBase[V]) reportNonConvergence(iterations int, diff V) {
	s.log.Warn("min/max method did not converge",
		zap.String("method", string(s.method)),
		zap.String("direction", s.dir.String()),
		zap.Int("iterations", iterations),
		zap.Float64("maxDiff", float64(diff)))
}
