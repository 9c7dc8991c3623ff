package unfolding_test

import (
	"fmt"
	"testing"

	"github.com/bits-and-blooms/bitset"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/epochcheck/epoch"
	"github.com/katalvlaran/epochcheck/solver"
	"github.com/katalvlaran/epochcheck/sparse"
	"github.com/katalvlaran/epochcheck/unfolding"
)

// bits returns a set with the given indices.
func bits(idx ...uint) *bitset.BitSet {
	s := bitset.New(8)
	for _, i := range idx {
		s.Set(i)
	}

	return s
}

func id(k int) unfolding.EpochID { return unfolding.EpochID(fmt.Sprint(k)) }

// deps lists the IDs of the given epochs.
func deps(ks ...int) []unfolding.EpochID {
	out := make([]unfolding.EpochID, len(ks))
	for i, k := range ks {
		out[i] = id(k)
	}

	return out
}

// leaf is a source without dependencies whose Build is never expected.
func leaf(key string, on ...string) *unfolding.Epoch[float64] {
	e := &unfolding.Epoch[float64]{Key: unfolding.EpochID(key)}
	for _, d := range on {
		e.Deps = append(e.Deps, unfolding.EpochID(d))
	}

	return e
}

// chainMatrix is x = 0.5·x in the given format. Every call returns a fresh
// matrix with equal values.
func chainMatrix(t testing.TB, f solver.ProblemFormat) *sparse.Matrix[float64] {
	t.Helper()
	a, err := sparse.FromDense([][]float64{{0.5}}, nil)
	require.NoError(t, err)
	if f == solver.EquationSystem {
		a, err = a.ConvertToEquationSystem()
		require.NoError(t, err)
	}

	return a
}

// linearChain returns n epochs where epoch k is x = 0.5·x + 1 + 0.5·v(k-1),
// so epoch k solves to 2(k+1). Sources are listed last-first to exercise
// ordering.
func linearChain(t testing.TB, n int, f solver.ProblemFormat) []unfolding.Source[float64] {
	t.Helper()
	sources := make([]unfolding.Source[float64], 0, n)
	for k := n - 1; k >= 0; k-- {
		k := k
		e := &unfolding.Epoch[float64]{Key: id(k)}
		if k > 0 {
			e.Deps = deps(k - 1)
		}
		e.BuildFunc = func(store *unfolding.Store[float64]) (*epoch.EpochModel[float64], error) {
			m := &epoch.EpochModel[float64]{
				EpochMatrix:                 chainMatrix(t, f),
				EpochInStates:               bits(0),
				ObjectiveRewards:            [][]float64{{1}},
				ObjectiveRewardFilter:       []*bitset.BitSet{bits(0)},
				EquationSolverProblemFormat: &f,
			}
			if k > 0 {
				step, err := store.StepSolution(0.5, id(k-1), 0)
				if err != nil {
					return nil, err
				}
				m.StepChoices = []int{0}
				m.StepSolutions = []float64{step}
			}

			return m, nil
		}
		sources = append(sources, e)
	}

	return sources
}

// mdpChain returns n one-state MDP epochs with two choices:
//
//	choice 0: stay with 0.5, reward 1     → 2
//	choice 1: leave the epoch, reward 1   → 1 + v(k-1)
//
// Maximizing, epoch 0 is worth 2 and epoch k ≥ 1 is worth k+2.
func mdpChain(t testing.TB, n int) []unfolding.Source[float64] {
	t.Helper()
	sources := make([]unfolding.Source[float64], 0, n)
	for k := 0; k < n; k++ {
		k := k
		e := &unfolding.Epoch[float64]{Key: id(k)}
		if k > 0 {
			e.Deps = deps(k - 1)
		}
		e.BuildFunc = func(store *unfolding.Store[float64]) (*epoch.EpochModel[float64], error) {
			a, err := sparse.FromDense([][]float64{{0.5}, {0}}, []int{0})
			if err != nil {
				return nil, err
			}
			m := &epoch.EpochModel[float64]{
				EpochMatrix:           a,
				EpochInStates:         bits(0),
				ObjectiveRewards:      [][]float64{{1, 1}},
				ObjectiveRewardFilter: []*bitset.BitSet{bits(0, 1)},
			}
			if k > 0 {
				step, err := store.StepSolution(1, id(k-1), 0)
				if err != nil {
					return nil, err
				}
				m.StepChoices = []int{1}
				m.StepSolutions = []float64{step}
			}

			return m, nil
		}
		sources = append(sources, e)
	}

	return sources
}

// reporting marks every epoch as changed and tells the driver so.
type reporting struct {
	unfolding.Source[float64]
}

func (r reporting) ReportsMatrixChange() bool { return true }

func (r reporting) Build(store *unfolding.Store[float64]) (*epoch.EpochModel[float64], error) {
	m, err := r.Source.Build(store)
	if err != nil {
		return nil, err
	}
	m.EpochMatrixChanged = true

	return m, nil
}
