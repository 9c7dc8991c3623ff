package epoch_test

import (
	"errors"
	"math"
	"testing"

	"github.com/bits-and-blooms/bitset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/epochcheck/epoch"
	"github.com/katalvlaran/epochcheck/solver"
	"github.com/katalvlaran/epochcheck/sparse"
)

func TestClassify(t *testing.T) {
	id := sparse.Identity[float64](3)
	none := sparse.NewBuilder[float64](sparse.WithForceDimensions(3, 3))
	zero, err := none.Build()
	require.NoError(t, err)

	assert.Equal(t, epoch.TrivialDeterministic, epoch.ClassifyDeterministic(id, solver.EquationSystem))
	assert.Equal(t, epoch.NonTrivialDeterministic, epoch.ClassifyDeterministic(id, solver.FixedPointSystem))
	assert.Equal(t, epoch.TrivialDeterministic, epoch.ClassifyDeterministic(zero, solver.FixedPointSystem))
	assert.Equal(t, epoch.NonTrivialDeterministic, epoch.ClassifyDeterministic(zero, solver.EquationSystem))

	// the nondeterministic rule ignores the identity
	assert.Equal(t, epoch.NonTrivialNonDeterministic, epoch.ClassifyNonDeterministic(id))
	assert.Equal(t, epoch.TrivialNonDeterministic, epoch.ClassifyNonDeterministic(zero))

	assert.True(t, epoch.TrivialNonDeterministic.Trivial())
	assert.False(t, epoch.NonTrivialDeterministic.Trivial())
	assert.Equal(t, "trivial-deterministic", epoch.TrivialDeterministic.String())
}

// Scenario A: empty matrix, one entry state with a reward.
func TestAnalyze_TrivialDTMC(t *testing.T) {
	f := newCountingLinearFactory()
	cache := epoch.NewLinearCache[float64](f, solver.NewEnvironment())
	m := &epoch.EpochModel[float64]{
		EpochMatrix:                 empty(t, 3, 3, nil),
		EpochMatrixChanged:          true,
		EpochInStates:               bits(2),
		ObjectiveRewards:            [][]float64{{0, 0, 3}},
		ObjectiveRewardFilter:       []*bitset.BitSet{bits(2)},
		EquationSolverProblemFormat: format(solver.FixedPointSystem),
	}
	got, err := m.AnalyzeSingleObjective(cache)
	require.NoError(t, err)
	require.Equal(t, []float64{3.0}, got)
	f.AssertNotCalled(t, "Create", mock.Anything)
	require.Equal(t, epoch.Uninitialized, cache.State())
}

func TestAnalyze_IdentityEquationSystemIsTrivial(t *testing.T) {
	f := newCountingLinearFactory()
	env := solver.NewEnvironment(solver.WithLinearMethod(solver.LinearLU))
	cache := epoch.NewLinearCache[float64](f, env)
	require.Equal(t, solver.EquationSystem, cache.ProblemFormat())

	m := &epoch.EpochModel[float64]{
		EpochMatrix:                 sparse.Identity[float64](4),
		EpochMatrixChanged:          true,
		EpochInStates:               bits(0, 1, 2, 3),
		ObjectiveRewards:            [][]float64{{1, 2, 3, 4}},
		ObjectiveRewardFilter:       []*bitset.BitSet{bits(0, 2, 3)},
		StepChoices:                 []int{1, 2},
		StepSolutions:               []float64{0.5, 0.25},
		EquationSolverProblemFormat: format(solver.EquationSystem),
	}
	got, err := m.AnalyzeSingleObjective(cache)
	require.NoError(t, err)
	require.Equal(t, []float64{1, 0.5, 3.25, 4}, got)
	f.AssertNotCalled(t, "Create", mock.Anything)
}

func TestAnalyze_TrivialMatchesFormula(t *testing.T) {
	rows := 10
	rewards := make([]float64, rows)
	for i := range rewards {
		rewards[i] = float64(10 * i)
	}
	filter := bits(1, 2, 5, 9)
	steps := []int{0, 2, 3, 9}
	sols := []float64{1, 2, 3, 4}
	in := bits(0, 1, 2, 4, 8, 9)
	m := &epoch.EpochModel[float64]{
		EpochMatrix:                 empty(t, rows, rows, nil),
		EpochInStates:               in,
		ObjectiveRewards:            [][]float64{rewards},
		ObjectiveRewardFilter:       []*bitset.BitSet{filter},
		StepChoices:                 steps,
		StepSolutions:               sols,
		EquationSolverProblemFormat: format(solver.FixedPointSystem),
	}
	got, err := m.AnalyzeSingleObjective(epoch.NewLinearCache[float64](nil, solver.NewEnvironment()))
	require.NoError(t, err)

	var want []float64
	for s, ok := in.NextSet(0); ok; s, ok = in.NextSet(s + 1) {
		v := 0.0
		if filter.Test(s) {
			v += rewards[s]
		}
		for i, c := range steps {
			if c == int(s) {
				v += sols[i]
			}
		}
		want = append(want, v)
	}
	require.Equal(t, want, got)
}

// Scenario B: two choices for state 0, values 5 and 2.
func TestAnalyze_TrivialMDP(t *testing.T) {
	m := &epoch.EpochModel[float64]{
		EpochMatrix:           empty(t, 2, 1, []int{0}),
		EpochInStates:         bits(0),
		ObjectiveRewards:      [][]float64{{5, 2}},
		ObjectiveRewardFilter: []*bitset.BitSet{bits(0, 1)},
	}
	cache := epoch.NewMinMaxCache[float64](nil, solver.NewEnvironment())

	got, err := m.AnalyzeSingleObjectiveMinMax(solver.Minimize, cache)
	require.NoError(t, err)
	require.Equal(t, []float64{2}, got)

	got, err = m.AnalyzeSingleObjectiveMinMax(solver.Maximize, cache)
	require.NoError(t, err)
	require.Equal(t, []float64{5}, got)
	require.Equal(t, epoch.Uninitialized, cache.State())
}

func TestAnalyze_TrivialMDP_CursorAcrossStates(t *testing.T) {
	// groups: s0 = {0,1}, s1 = {2}, s2 = {3,4}
	m := &epoch.EpochModel[float64]{
		EpochMatrix:           empty(t, 5, 3, []int{0, 2, 3}),
		EpochInStates:         bits(0, 2),
		ObjectiveRewards:      [][]float64{{1, 1, 7, 2, 0}},
		ObjectiveRewardFilter: []*bitset.BitSet{bits(0, 1, 2, 3)},
		StepChoices:           []int{1, 2, 4},
		StepSolutions:         []float64{0.5, 100, 1.5},
	}
	cache := epoch.NewMinMaxCache[float64](nil, solver.NewEnvironment())

	got, err := m.AnalyzeSingleObjectiveMinMax(solver.Maximize, cache)
	require.NoError(t, err)
	require.Equal(t, []float64{1.5, 2}, got, "s0: max(1, 1.5); s2: max(2, 1.5)")

	got, err = m.AnalyzeSingleObjectiveMinMax(solver.Minimize, cache)
	require.NoError(t, err)
	require.Equal(t, []float64{1, 1.5}, got)
}

func TestAnalyze_TrivialMDP_Ties(t *testing.T) {
	// s0: choice 0 reward 4, choice 1 step 4 (tie);
	// s1: choice 2 step 4, choice 3 reward 4 + step 1.
	m := &epoch.EpochModel[float64]{
		EpochMatrix:           empty(t, 4, 2, []int{0, 2}),
		EpochInStates:         bits(0, 1),
		ObjectiveRewards:      [][]float64{{4, 9, 0, 4}},
		ObjectiveRewardFilter: []*bitset.BitSet{bits(0, 3)},
		StepChoices:           []int{1, 2, 3},
		StepSolutions:         []float64{4, 4, 1},
	}
	cache := epoch.NewMinMaxCache[float64](nil, solver.NewEnvironment())

	got, err := m.AnalyzeSingleObjectiveMinMax(solver.Minimize, cache)
	require.NoError(t, err)
	require.Equal(t, []float64{4, 4}, got)

	got, err = m.AnalyzeSingleObjectiveMinMax(solver.Maximize, cache)
	require.NoError(t, err)
	require.Equal(t, []float64{4, 5}, got, "unfiltered reward 9 never counts")
}

func TestAnalyze_NonTrivialDTMC_Idempotent(t *testing.T) {
	f := newCountingLinearFactory()
	cache := epoch.NewLinearCache[float64](f, solver.NewEnvironment(solver.WithPrecision(1e-12)))
	m := &epoch.EpochModel[float64]{
		EpochMatrix:                 dense(t, [][]float64{{0.5}}, nil),
		EpochMatrixChanged:          true,
		EpochInStates:               bits(0),
		ObjectiveRewards:            [][]float64{{1}},
		ObjectiveRewardFilter:       []*bitset.BitSet{bits(0)},
		EquationSolverProblemFormat: format(solver.FixedPointSystem),
	}
	first, err := m.AnalyzeSingleObjective(cache)
	require.NoError(t, err)
	require.InDelta(t, 2.0, first[0], 1e-9)

	m.EpochMatrixChanged = false
	second, err := m.AnalyzeSingleObjective(cache)
	require.NoError(t, err)
	require.InDelta(t, first[0], second[0], 1e-12)

	f.AssertNumberOfCalls(t, "Create", 1)
	require.Equal(t, 1, cache.Builds())
	require.Equal(t, epoch.SolverBuilt, cache.State())

	m.EpochMatrixChanged = true
	_, err = m.AnalyzeSingleObjective(cache)
	require.NoError(t, err)
	f.AssertNumberOfCalls(t, "Create", 2)
}

// Scenario C: epoch 1 solves x = 0.5x + 1; epoch 0 folds 0.5·x1 as a step.
func TestAnalyze_NonTrivialDTMC_TwoEpochs(t *testing.T) {
	cache := epoch.NewLinearCache[float64](nil, solver.NewEnvironment(solver.WithPrecision(1e-12)))
	loop := dense(t, [][]float64{{0.5}}, nil)

	epoch1 := &epoch.EpochModel[float64]{
		EpochMatrix:                 loop,
		EpochMatrixChanged:          true,
		EpochInStates:               bits(0),
		ObjectiveRewards:            [][]float64{{1}},
		ObjectiveRewardFilter:       []*bitset.BitSet{bits(0)},
		EquationSolverProblemFormat: format(solver.FixedPointSystem),
	}
	x1, err := epoch1.AnalyzeSingleObjective(cache)
	require.NoError(t, err)
	require.InDelta(t, 2.0, x1[0], 1e-9)

	epoch0 := &epoch.EpochModel[float64]{
		EpochMatrix:                 loop,
		EpochMatrixChanged:          false,
		EpochInStates:               bits(0),
		ObjectiveRewards:            [][]float64{{0}},
		ObjectiveRewardFilter:       []*bitset.BitSet{bitset.New(1)},
		StepChoices:                 []int{0},
		StepSolutions:               []float64{0.5 * x1[0]},
		EquationSolverProblemFormat: format(solver.FixedPointSystem),
	}
	x0, err := epoch0.AnalyzeSingleObjective(cache)
	require.NoError(t, err)
	require.InDelta(t, 1.0, epoch.ExportedLinearCacheRHS(cache)[0], 1e-9)
	require.InDelta(t, 2.0, x0[0], 1e-9)
	require.Equal(t, 1, cache.Builds(), "unchanged structure reuses the solver")
}

// Scenario D: a critical requirement left after the bounds aborts the epoch.
func TestAnalyze_UncheckedRequirementIsFatal(t *testing.T) {
	env := solver.NewEnvironment(solver.WithLinearMethod(solver.LinearInterval))
	cache := epoch.NewLinearCache[float64](nil, env)
	m := &epoch.EpochModel[float64]{
		EpochMatrix:                 dense(t, [][]float64{{0.5}}, nil),
		EpochMatrixChanged:          true,
		EpochInStates:               bits(0),
		ObjectiveRewards:            [][]float64{{1}},
		ObjectiveRewardFilter:       []*bitset.BitSet{bits(0)},
		EquationSolverProblemFormat: format(solver.FixedPointSystem),
	}
	_, err := m.AnalyzeSingleObjective(cache, epoch.WithLowerBound(0.0))
	require.ErrorIs(t, err, epoch.ErrUncheckedRequirement)
	var reqErr *epoch.RequirementError
	require.True(t, errors.As(err, &reqErr))
	require.Equal(t, "[upper bounds (critical)]", reqErr.Requirements)
	require.Contains(t, err.Error(), "upper bounds (critical)")
	require.Equal(t, epoch.Uninitialized, cache.State())

	got, err := m.AnalyzeSingleObjective(cache, epoch.WithLowerBound(0.0), epoch.WithUpperBound(10.0))
	require.NoError(t, err)
	require.InDelta(t, 2.0, got[0], 1e-5)
}

func TestAnalyze_Preconditions(t *testing.T) {
	m := &epoch.EpochModel[float64]{
		EpochMatrix:                 dense(t, [][]float64{{0.5}}, nil),
		EpochMatrixChanged:          true,
		EpochInStates:               bits(0),
		ObjectiveRewards:            [][]float64{{1}},
		ObjectiveRewardFilter:       []*bitset.BitSet{bits(0)},
		EquationSolverProblemFormat: format(solver.FixedPointSystem),
	}

	_, err := m.AnalyzeSingleObjective(nil)
	require.ErrorIs(t, err, epoch.ErrNilCache)

	lu := epoch.NewLinearCache[float64](nil, solver.NewEnvironment(solver.WithLinearMethod(solver.LinearLU)))
	_, err = m.AnalyzeSingleObjective(lu)
	require.ErrorIs(t, err, epoch.ErrPreconditionViolated, "format mismatch")

	power := epoch.NewLinearCache[float64](nil, solver.NewEnvironment())
	_, err = m.AnalyzeSingleObjective(power, epoch.WithLowerBound(5.0), epoch.WithUpperBound(1.0))
	require.ErrorIs(t, err, epoch.ErrPreconditionViolated, "inverted bounds")

	grouped := &epoch.EpochModel[float64]{
		EpochMatrix:                 dense(t, [][]float64{{0.5}, {1}}, []int{0}),
		EpochInStates:               bits(0),
		ObjectiveRewards:            [][]float64{{1, 1}},
		ObjectiveRewardFilter:       []*bitset.BitSet{nil},
		EquationSolverProblemFormat: format(solver.FixedPointSystem),
	}
	_, err = grouped.AnalyzeSingleObjective(power)
	require.ErrorIs(t, err, epoch.ErrPreconditionViolated, "nondeterminism")

	// unchanged matrix whose size disagrees with the cached solution
	_, err = m.AnalyzeSingleObjective(power)
	require.NoError(t, err)
	wider := &epoch.EpochModel[float64]{
		EpochMatrix:                 dense(t, [][]float64{{0.5, 0}, {0, 0.5}}, nil),
		EpochInStates:               bits(0),
		ObjectiveRewards:            [][]float64{{1, 1}},
		ObjectiveRewardFilter:       []*bitset.BitSet{nil},
		EquationSolverProblemFormat: format(solver.FixedPointSystem),
	}
	_, err = wider.AnalyzeSingleObjective(power)
	require.ErrorIs(t, err, epoch.ErrPreconditionViolated)

	require.Panics(t, func() { epoch.WithLowerBound(math.NaN()) })
	require.Panics(t, func() { epoch.WithUpperBound(math.Inf(1)) })
}

func TestAnalyze_SolverErrorsPassThrough(t *testing.T) {
	env := solver.NewEnvironment(solver.WithLinearMethod(solver.LinearJacobi))
	cache := epoch.NewLinearCache[float64](nil, env)
	m := &epoch.EpochModel[float64]{
		EpochMatrix:                 dense(t, [][]float64{{0, 1}, {1, 0}}, nil),
		EpochMatrixChanged:          true,
		EpochInStates:               bits(0, 1),
		ObjectiveRewards:            [][]float64{{1, 1}},
		ObjectiveRewardFilter:       []*bitset.BitSet{bits(0, 1)},
		EquationSolverProblemFormat: format(solver.EquationSystem),
	}
	_, err := m.AnalyzeSingleObjective(cache)
	require.ErrorIs(t, err, solver.ErrSingular)
}

// mdp is the two-state epoch: state 0 may loop (0.5, reward 1) or move to
// the absorbing state 1 (reward 3).
func mdp(t *testing.T, rewards []float64) *epoch.EpochModel[float64] {
	t.Helper()

	return &epoch.EpochModel[float64]{
		EpochMatrix:           dense(t, [][]float64{{0.5, 0}, {0, 1}, {0, 0}}, []int{0, 2}),
		EpochMatrixChanged:    true,
		EpochInStates:         bits(0, 1),
		ObjectiveRewards:      [][]float64{rewards},
		ObjectiveRewardFilter: []*bitset.BitSet{bits(0, 1, 2)},
	}
}

func TestAnalyze_NonTrivialMDP(t *testing.T) {
	env := solver.NewEnvironment(solver.WithPrecision(1e-12))
	cache := epoch.NewMinMaxCache[float64](nil, env)

	got, err := mdp(t, []float64{1, 0, 3}).AnalyzeSingleObjectiveMinMax(solver.Maximize, cache)
	require.NoError(t, err)
	require.InDelta(t, 3.0, got[0], 1e-9)
	require.InDelta(t, 3.0, got[1], 1e-9)
	require.Equal(t, []int{1, 0}, cache.Scheduler())

	next := mdp(t, []float64{4, 0, 3})
	next.EpochMatrixChanged = false
	got, err = next.AnalyzeSingleObjectiveMinMax(solver.Maximize, cache)
	require.NoError(t, err)
	require.InDelta(t, 8.0, got[0], 1e-9)
	require.Equal(t, []int{0, 0}, cache.Scheduler())
	require.Equal(t, 1, cache.Builds())

	// switching direction on the same structure rebuilds
	got, err = next.AnalyzeSingleObjectiveMinMax(solver.Minimize, cache)
	require.NoError(t, err)
	require.InDelta(t, 3.0, got[0], 1e-9)
	require.Equal(t, 2, cache.Builds())
}

func TestAnalyze_NonTrivialMDP_PolicyIterationWarmStart(t *testing.T) {
	env := solver.NewEnvironment(solver.WithMinMaxMethod(solver.MinMaxPolicyIteration))
	cache := epoch.NewMinMaxCache[float64](nil, env)

	got, err := mdp(t, []float64{1, 0, 3}).AnalyzeSingleObjectiveMinMax(solver.Maximize, cache)
	require.NoError(t, err)
	require.InDelta(t, 3.0, got[0], 1e-12)

	next := mdp(t, []float64{1, 0, 5})
	next.EpochMatrixChanged = false
	got, err = next.AnalyzeSingleObjectiveMinMax(solver.Maximize, cache)
	require.NoError(t, err)
	require.InDelta(t, 5.0, got[0], 1e-12)
	require.Equal(t, []int{1, 0}, cache.Scheduler())
}

func TestAnalyze_NonTrivialMDP_SolverLifecycle(t *testing.T) {
	m := mdp(t, []float64{1, 0, 3})
	s := &mockMinMaxSolver{}
	f := &mockMinMaxFactory{}
	f.On("Create", m.EpochMatrix).Return(s, nil).Once()
	s.On("SolveEquations", mock.Anything, mock.Anything).Return(nil).Twice()
	s.On("SchedulerChoices").Return([]int{1, 0}, nil).Once()
	s.On("SetInitialScheduler", []int{1, 0}).Return().Once()

	cache := epoch.NewMinMaxCache[float64](f, solver.NewEnvironment())
	_, err := m.AnalyzeSingleObjectiveMinMax(solver.Maximize, cache, epoch.WithUpperBound(10.0))
	require.NoError(t, err)
	require.True(t, s.unique)
	require.True(t, s.track)
	require.True(t, s.caching)
	require.True(t, s.checked)
	require.Equal(t, solver.Maximize, s.dir)
	require.Nil(t, s.lower)
	require.Equal(t, 10.0, *s.upper)
	require.Equal(t, []float64{1, 0, 3}, epoch.ExportedMinMaxCacheRHS(cache))

	m.EpochMatrixChanged = false
	_, err = m.AnalyzeSingleObjectiveMinMax(solver.Maximize, cache)
	require.NoError(t, err)

	f.AssertExpectations(t)
	s.AssertExpectations(t)
}

// Scenario D, nondeterministic flavor.
func TestAnalyze_NonTrivialMDP_UncheckedRequirement(t *testing.T) {
	m := mdp(t, []float64{1, 0, 3})
	s := &mockMinMaxSolver{}
	s.req.RequireValidInitialScheduler(true)
	s.req.RequireLowerBounds(true)
	f := &mockMinMaxFactory{}
	f.On("Create", m.EpochMatrix).Return(s, nil)

	cache := epoch.NewMinMaxCache[float64](f, solver.NewEnvironment())
	_, err := m.AnalyzeSingleObjectiveMinMax(solver.Minimize, cache, epoch.WithLowerBound(0.0))
	var reqErr *epoch.RequirementError
	require.ErrorAs(t, err, &reqErr)
	require.Equal(t, "[valid initial scheduler (critical)]", reqErr.Requirements)
	require.False(t, s.checked)
	require.Equal(t, epoch.Uninitialized, cache.State())
	s.AssertNotCalled(t, "SolveEquations", mock.Anything, mock.Anything)
}

func TestAnalyze_Float32(t *testing.T) {
	m := &epoch.EpochModel[float32]{
		EpochMatrix:           sparse.Identity[float32](2),
		EpochInStates:         bits(1),
		ObjectiveRewards:      [][]float32{{1, 2}},
		ObjectiveRewardFilter: []*bitset.BitSet{bits(1)},
		StepChoices:           []int{1},
		StepSolutions:         []float32{0.5},
	}
	eq := solver.EquationSystem
	m.EquationSolverProblemFormat = &eq
	got, err := m.AnalyzeSingleObjective(epoch.NewLinearCache[float32](nil, solver.NewEnvironment()))
	require.NoError(t, err)
	require.Equal(t, []float32{2.5}, got)
}
