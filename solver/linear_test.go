package solver_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/epochcheck/solver"
	"github.com/katalvlaran/epochcheck/sparse"
)

// chain is the fixed-point system x = Ax + b with solution (3, 2):
//
//	x0 = 0.5·x0 + 0.25·x1 + 1
//	x1 = 0.5·x1 + 1
func chain(t *testing.T) (*sparse.Matrix[float64], []float64) {
	t.Helper()
	a, err := sparse.FromDense([][]float64{
		{0.5, 0.25},
		{0, 0.5},
	}, nil)
	require.NoError(t, err)

	return a, []float64{1, 1}
}

// matrixFor converts the fixed-point matrix into the factory's format.
func matrixFor(t *testing.T, f solver.LinearFactory[float64], env solver.Environment, a *sparse.Matrix[float64]) *sparse.Matrix[float64] {
	t.Helper()
	if f.ProblemFormat(env) == solver.FixedPointSystem {
		return a
	}
	eq, err := a.ConvertToEquationSystem()
	require.NoError(t, err)

	return eq
}

func TestLinearMethods_Agree(t *testing.T) {
	methods := []solver.LinearMethod{solver.LinearPower, solver.LinearJacobi, solver.LinearLU, solver.LinearInterval}
	f := solver.NewGeneralLinearFactory[float64]()
	for _, m := range methods {
		t.Run(string(m), func(t *testing.T) {
			env := solver.NewEnvironment(solver.WithLinearMethod(m), solver.WithPrecision(1e-10))
			a, b := chain(t)
			s, err := f.Create(env, matrixFor(t, f, env, a))
			require.NoError(t, err)
			if m == solver.LinearInterval {
				require.True(t, s.Requirements().HasEnabledCriticalRequirement())
				s.SetLowerBound(0)
				s.SetUpperBound(10)
			}
			x := make([]float64, 2)
			require.NoError(t, s.SolveEquations(x, b))
			require.InDelta(t, 3.0, x[0], 1e-8)
			require.InDelta(t, 2.0, x[1], 1e-8)
		})
	}
}

func TestGeneralLinearFactory_ProblemFormat(t *testing.T) {
	f := solver.NewGeneralLinearFactory[float64]()
	require.Equal(t, solver.FixedPointSystem, f.ProblemFormat(solver.NewEnvironment()))
	require.Equal(t, solver.EquationSystem, f.ProblemFormat(solver.NewEnvironment(solver.WithLinearMethod(solver.LinearLU))))
	require.Equal(t, solver.EquationSystem, f.ProblemFormat(solver.NewEnvironment(solver.WithLinearMethod(solver.LinearJacobi))))
	require.Equal(t, "fixed-point-system", solver.FixedPointSystem.String())
}

func TestGeneralLinearFactory_CreateErrors(t *testing.T) {
	f := solver.NewGeneralLinearFactory[float64]()
	env := solver.NewEnvironment()

	_, err := f.Create(env, nil)
	require.ErrorIs(t, err, solver.ErrInvalidMatrix)

	rect, err := sparse.FromDense([][]float64{{1, 0, 0}}, nil)
	require.NoError(t, err)
	_, err = f.Create(env, rect)
	require.ErrorIs(t, err, solver.ErrInvalidMatrix)

	grouped, err := sparse.FromDense([][]float64{{0, 1}, {1, 0}, {0, 0}}, []int{0, 2})
	require.NoError(t, err)
	_, err = f.Create(env, grouped)
	require.ErrorIs(t, err, solver.ErrInvalidMatrix)

	env.LinearMethod = "cholesky"
	_, err = f.Create(env, sparse.Identity[float64](2))
	require.ErrorIs(t, err, solver.ErrUnknownMethod)
}

func TestLinearSolve_DimensionMismatch(t *testing.T) {
	f := solver.NewGeneralLinearFactory[float64]()
	a, _ := chain(t)
	s, err := f.Create(solver.NewEnvironment(), a)
	require.NoError(t, err)
	require.ErrorIs(t, s.SolveEquations(make([]float64, 3), []float64{1, 1}), solver.ErrDimensionMismatch)
}

func TestIntervalSolver_MissingBounds(t *testing.T) {
	f := solver.NewGeneralLinearFactory[float64]()
	a, b := chain(t)
	s, err := f.Create(solver.NewEnvironment(solver.WithLinearMethod(solver.LinearInterval)), a)
	require.NoError(t, err)
	s.SetLowerBound(0)
	require.ErrorIs(t, s.SolveEquations(make([]float64, 2), b), solver.ErrMissingBounds)
}

func TestJacobi_ZeroDiagonalIsSingular(t *testing.T) {
	m, err := sparse.FromDense([][]float64{{0, 1}, {1, 0}}, nil)
	require.NoError(t, err)
	s, err := solver.NewGeneralLinearFactory[float64]().Create(solver.NewEnvironment(solver.WithLinearMethod(solver.LinearJacobi)), m)
	require.NoError(t, err)
	require.ErrorIs(t, s.SolveEquations(make([]float64, 2), []float64{1, 1}), solver.ErrSingular)
}

func TestLU_CachedFactorizationServesNewRightHandSides(t *testing.T) {
	env := solver.NewEnvironment(solver.WithLinearMethod(solver.LinearLU))
	f := solver.NewGeneralLinearFactory[float64]()
	a, _ := chain(t)
	s, err := f.Create(env, matrixFor(t, f, env, a))
	require.NoError(t, err)
	s.SetCachingEnabled(true)
	require.True(t, s.IsCachingEnabled())

	x := make([]float64, 2)
	require.NoError(t, s.SolveEquations(x, []float64{1, 1}))
	require.InDelta(t, 3.0, x[0], 1e-12)
	require.NoError(t, s.SolveEquations(x, []float64{0, 2}))
	require.InDelta(t, 2.0, x[0], 1e-12)
	require.InDelta(t, 4.0, x[1], 1e-12)
}

func TestPower_NonConvergenceReturnsLastIterate(t *testing.T) {
	a, b := chain(t)
	s, err := solver.NewGeneralLinearFactory[float64]().Create(solver.NewEnvironment(solver.WithMaxIterations(1)), a)
	require.NoError(t, err)
	x := make([]float64, 2)
	require.NoError(t, s.SolveEquations(x, b))
	require.Equal(t, []float64{1, 1}, x)
}

func TestPower_Float32(t *testing.T) {
	a, err := sparse.FromDense([][]float32{{0.5}}, nil)
	require.NoError(t, err)
	s, err := solver.NewGeneralLinearFactory[float32]().Create(solver.NewEnvironment(), a)
	require.NoError(t, err)
	x := []float32{0}
	require.NoError(t, s.SolveEquations(x, []float32{1}))
	require.InDelta(t, 2.0, float64(x[0]), 1e-5)
}
