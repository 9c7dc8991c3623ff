package epoch_test

import (
	"testing"

	"github.com/bits-and-blooms/bitset"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/epochcheck/solver"
	"github.com/katalvlaran/epochcheck/sparse"
)

// bits returns a set with the given indices.
func bits(idx ...uint) *bitset.BitSet {
	s := bitset.New(8)
	for _, i := range idx {
		s.Set(i)
	}

	return s
}

func format(f solver.ProblemFormat) *solver.ProblemFormat { return &f }

// dense builds a matrix from rows; groups may be nil for trivial grouping.
func dense(t *testing.T, rows [][]float64, groups []int) *sparse.Matrix[float64] {
	t.Helper()
	m, err := sparse.FromDense(rows, groups)
	require.NoError(t, err)

	return m
}

// empty builds an entry-free matrix with the given shape.
func empty(t *testing.T, rows, cols int, groups []int) *sparse.Matrix[float64] {
	t.Helper()
	data := make([][]float64, rows)
	for i := range data {
		data[i] = make([]float64, cols)
	}

	return dense(t, data, groups)
}

// countingLinearFactory delegates to the general factory and records every
// Create call.
type countingLinearFactory struct {
	mock.Mock
	inner *solver.GeneralLinearFactory[float64]
}

func newCountingLinearFactory() *countingLinearFactory {
	f := &countingLinearFactory{inner: solver.NewGeneralLinearFactory[float64]()}
	f.On("Create", mock.Anything).Return()

	return f
}

func (f *countingLinearFactory) Create(env solver.Environment, m *sparse.Matrix[float64]) (solver.LinearEquationSolver[float64], error) {
	f.Called(m)

	return f.inner.Create(env, m)
}

func (f *countingLinearFactory) ProblemFormat(env solver.Environment) solver.ProblemFormat {
	return f.inner.ProblemFormat(env)
}

func (f *countingLinearFactory) Requirements(env solver.Environment) solver.RequirementSet {
	return f.inner.Requirements(env)
}

// mockMinMaxFactory hands out a preconfigured solver.
type mockMinMaxFactory struct{ mock.Mock }

func (f *mockMinMaxFactory) Create(_ solver.Environment, m *sparse.Matrix[float64]) (solver.MinMaxSolver[float64], error) {
	args := f.Called(m)
	s, _ := args.Get(0).(solver.MinMaxSolver[float64])

	return s, args.Error(1)
}

// mockMinMaxSolver records configuration in fields and routes the
// scheduler and solve calls through mock expectations.
type mockMinMaxSolver struct {
	mock.Mock
	req     solver.RequirementSet
	dir     solver.OptimizationDirection
	unique  bool
	track   bool
	checked bool
	caching bool
	lower   *float64
	upper   *float64
}

func (s *mockMinMaxSolver) SetCachingEnabled(enabled bool)                          { s.caching = enabled }
func (s *mockMinMaxSolver) IsCachingEnabled() bool                                  { return s.caching }
func (s *mockMinMaxSolver) ClearCache()                                             {}
func (s *mockMinMaxSolver) SetOptimizationDirection(d solver.OptimizationDirection) { s.dir = d }
func (s *mockMinMaxSolver) SetHasUniqueSolution(unique bool)                        { s.unique = unique }
func (s *mockMinMaxSolver) SetTrackScheduler(track bool)                            { s.track = track }
func (s *mockMinMaxSolver) SetRequirementsChecked(checked bool)                     { s.checked = checked }
func (s *mockMinMaxSolver) SetLowerBound(v float64)                                 { s.lower = &v }
func (s *mockMinMaxSolver) SetUpperBound(v float64)                                 { s.upper = &v }
func (s *mockMinMaxSolver) HasInitialScheduler() bool                               { return false }

func (s *mockMinMaxSolver) Requirements(solver.OptimizationDirection) solver.RequirementSet {
	return s.req
}

func (s *mockMinMaxSolver) SchedulerChoices() ([]int, error) {
	args := s.Called()
	choices, _ := args.Get(0).([]int)

	return choices, args.Error(1)
}

func (s *mockMinMaxSolver) SetInitialScheduler(choices []int) { s.Called(choices) }

func (s *mockMinMaxSolver) SolveEquations(x, b []float64) error {
	return s.Called(x, b).Error(0)
}
