// SPDX-License-Identifier: MIT
// Package epoch - trivial analyzers.
//
// Both analyzers walk the entry states in ascending order and merge them
// against the ascending StepChoices with one forward cursor, so a call is
// linear in |EpochInStates| + |StepChoices| (plus the choices of the entry
// states in the nondeterministic case). Neither touches a solver cache.

package epoch

import "github.com/katalvlaran/epochcheck/solver"

// stepCursor walks StepChoices/StepSolutions in lockstep.
type stepCursor[V any] struct {
	choices   []int
	solutions []V
	pos       int
}

// at advances past every step choice below choice and returns the step
// solution of choice, if it has one.
func (c *stepCursor[V]) at(choice int) (V, bool) {
	for c.pos < len(c.choices) && c.choices[c.pos] < choice {
		c.pos++
	}
	if c.pos < len(c.choices) && c.choices[c.pos] == choice {
		return c.solutions[c.pos], true
	}
	var zero V

	return zero, false
}

// choiceValue is the filtered reward of choice plus its step solution.
func (m *EpochModel[V]) choiceValue(cur *stepCursor[V], choice int) V {
	var v V
	if f := m.ObjectiveRewardFilter[0]; f != nil && f.Test(uint(choice)) {
		v += m.ObjectiveRewards[0][choice]
	}
	if step, ok := cur.at(choice); ok {
		v += step
	}

	return v
}

// analyzeTrivialDeterministic returns, per entry state, its filtered
// reward plus its step solution. Rows and states coincide under trivial
// row grouping.
func (m *EpochModel[V]) analyzeTrivialDeterministic() []V {
	cur := &stepCursor[V]{choices: m.StepChoices, solutions: m.StepSolutions}
	out := make([]V, 0, m.entryStateCount())
	forEachSet(m.EpochInStates, func(state int) {
		out = append(out, m.choiceValue(cur, state))
	})

	return out
}

// analyzeTrivialNonDeterministic returns, per entry state, the best choice
// value under dir. The first choice initializes the best value and later
// ones replace it only on strict improvement, so ties keep the earliest.
// States without choices yield zero.
func (m *EpochModel[V]) analyzeTrivialNonDeterministic(dir solver.OptimizationDirection) []V {
	cur := &stepCursor[V]{choices: m.StepChoices, solutions: m.StepSolutions}
	out := make([]V, 0, m.entryStateCount())
	forEachSet(m.EpochInStates, func(state int) {
		first, last := m.EpochMatrix.RowGroupStart(state), m.EpochMatrix.RowGroupStart(state+1)
		var best V
		for choice := first; choice < last; choice++ {
			v := m.choiceValue(cur, choice)
			if choice == first || solver.Better(dir, v, best) {
				best = v
			}
		}
		out = append(out, best)
	})

	return out
}

// entryStateCount is |EpochInStates|; nil counts as empty.
func (m *EpochModel[V]) entryStateCount() int {
	if m.EpochInStates == nil {
		return 0
	}

	return int(m.EpochInStates.Count())
}
