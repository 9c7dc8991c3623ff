// SPDX-License-Identifier: MIT
// Package solver - min/max methods.
//
// Methods:
//   - valueIterationSolver    : x ← opt(Ax + b) from the current x.
//   - policyIterationSolver   : exact evaluation of a fixed scheduler (gonum LU)
//     followed by strict improvement until the scheduler is stable.
//   - intervalIterationSolver : value iteration from both bounds until they meet.

package solver

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/katalvlaran/epochcheck/numeric"
	"github.com/katalvlaran/epochcheck/vector"
)

// valueIterationSolver implements MinMaxValueIteration.
type valueIterationSolver[V numeric.Value] struct {
	minMaxBase[V]
	scratch []V
}

// ClearCache drops scratch storage.
func (s *valueIterationSolver[V]) ClearCache() {
	s.minMaxBase.ClearCache()
	s.scratch = nil
}

// SolveEquations iterates the Bellman operator from x. A handed-over
// initial scheduler is released unused: x already carries the warm start.
// Complexity: O(k·(rows + nnz)).
func (s *valueIterationSolver[V]) SolveEquations(x, b []V) error {
	if err := s.prepare(opValue, x, b); err != nil {
		return err
	}
	s.initial = nil
	n := len(x)
	if n == 0 {
		return nil
	}
	s.scratch = vector.Assign(s.scratch, n, 0)
	iterations, diff, converged := s.iterate(x, s.scratch, b)
	if !converged {
		s.reportNonConvergence(iterations, diff)
	}
	s.log.Debug("value iteration finished", zap.Int("iterations", iterations), zap.Bool("converged", converged))
	s.finishScheduler(x, b)
	if !s.caching {
		s.ClearCache()
	}

	return nil
}

// iterate runs the Bellman operator on x until two iterates agree,
// leaving the result in x.
func (s *minMaxBase[V]) iterate(x, scratch, b []V) (int, V, bool) {
	cur, next := x, scratch
	var diff V
	for it := 1; it <= s.env.MaxIterations; it++ {
		s.reduce(s.computeRowValues(cur, b), next, nil)
		diff = vector.MaxAbsDiff(cur, next)
		done := vector.HasConverged(cur, next, s.env.Precision, s.env.Relative)
		cur, next = next, cur
		if done {
			if &cur[0] != &x[0] {
				copy(x, cur)
			}

			return it, diff, true
		}
	}
	if &cur[0] != &x[0] {
		copy(x, cur)
	}

	return s.env.MaxIterations, diff, false
}

// policyIterationSolver implements MinMaxPolicyIteration.
type policyIterationSolver[V numeric.Value] struct {
	minMaxBase[V]
	rhs []V
}

// ClearCache drops scratch storage.
func (s *policyIterationSolver[V]) ClearCache() {
	s.minMaxBase.ClearCache()
	s.rhs = nil
}

// SolveEquations starts from the handed-over scheduler (or the first choice
// of every group), evaluates it exactly and switches a group's choice only
// when another choice is better by more than the precision. The final
// scheduler is the one evaluated last; ties keep the current choice.
//
// Errors:
//   - ErrInvalidScheduler for a malformed initial scheduler.
//   - ErrSingular if a scheduler induces a singular system.
//
// Complexity: O(k·g³) for k improvement rounds over g groups.
func (s *policyIterationSolver[V]) SolveEquations(x, b []V) error {
	if err := s.prepare(opPolicy, x, b); err != nil {
		return err
	}
	groups := len(x)
	if groups == 0 {
		s.initial = nil
		return nil
	}

	// Stage 1: initial scheduler
	choices := s.initial
	s.initial = nil
	if choices == nil {
		choices = make([]int, groups)
	} else if err := s.validateScheduler(choices); err != nil {
		return solverErrorf(opPolicy, err)
	}

	// Stage 2: evaluate / improve
	rounds := 0
	for {
		rounds++
		if err := s.evaluate(choices, x, b); err != nil {
			return solverErrorf(opPolicy, err)
		}
		if !s.improve(choices, x, b) {
			break
		}
		if rounds >= s.env.MaxIterations {
			s.reportNonConvergence(rounds, 0)
			break
		}
	}
	s.log.Debug("policy iteration finished", zap.Int("rounds", rounds))

	if s.track {
		s.scheduler = choices
	}
	if !s.caching {
		s.ClearCache()
	}

	return nil
}

// evaluate solves the deterministic system induced by choices into x.
func (s *policyIterationSolver[V]) evaluate(choices []int, x, b []V) error {
	induced, err := s.matrix.SelectRowsByScheduler(choices)
	if err != nil {
		return fmt.Errorf("%v: %w", err, ErrInvalidScheduler)
	}
	eq, err := induced.ConvertToEquationSystem()
	if err != nil {
		return err
	}
	lu, err := factorize(eq.ToDense)
	if err != nil {
		return err
	}
	s.rhs = vector.Assign(s.rhs, len(choices), 0)
	for g, c := range choices {
		s.rhs[g] = b[s.matrix.RowGroupStart(g)+c]
	}
	sol, err := solveFactorized(lu, s.rhs, s.log)
	if err != nil {
		return err
	}
	for g := range x {
		x[g] = V(sol.AtVec(g))
	}

	return nil
}

// improve switches every group to a strictly better choice and reports
// whether anything changed.
func (s *policyIterationSolver[V]) improve(choices []int, x, b []V) bool {
	rowValues := s.computeRowValues(x, b)
	changed := false
	for g := range choices {
		start, end := s.matrix.RowGroupStart(g), s.matrix.RowGroupStart(g+1)
		current := rowValues[start+choices[g]]
		best, bestChoice := current, choices[g]
		for r := start; r < end; r++ {
			v := rowValues[r]
			if Better(s.dir, v, best) && !numeric.ApproxEqual(v, current, s.env.Precision, s.env.Relative) {
				best, bestChoice = v, r-start
			}
		}
		if bestChoice != choices[g] {
			choices[g] = bestChoice
			changed = true
		}
	}

	return changed
}

// intervalIterationSolver implements MinMaxIntervalIteration.
type intervalIterationSolver[V numeric.Value] struct {
	minMaxBase[V]
	lo, hi, scratch []V
}

// ClearCache drops the bound iterates.
func (s *intervalIterationSolver[V]) ClearCache() {
	s.minMaxBase.ClearCache()
	s.lo, s.hi, s.scratch = nil, nil, nil
}

// SolveEquations advances a lower and an upper Bellman sequence until they
// are within 2·precision and writes their midpoint into x.
//
// Errors: ErrMissingBounds if either bound was never set.
func (s *intervalIterationSolver[V]) SolveEquations(x, b []V) error {
	if err := s.prepare(opInterval, x, b); err != nil {
		return err
	}
	if s.lower == nil || s.upper == nil {
		return solverErrorf(opInterval, ErrMissingBounds)
	}
	s.initial = nil
	n := len(x)
	if n == 0 {
		return nil
	}

	// Stage 1: seed
	s.lo = vector.Assign(s.lo, n, *s.lower)
	s.hi = vector.Assign(s.hi, n, *s.upper)
	s.scratch = vector.Assign(s.scratch, n, 0)

	// Stage 2: squeeze
	converged := false
	for it := 1; it <= s.env.MaxIterations; it++ {
		s.reduce(s.computeRowValues(s.lo, b), s.scratch, nil)
		copy(s.lo, s.scratch)
		s.reduce(s.computeRowValues(s.hi, b), s.scratch, nil)
		copy(s.hi, s.scratch)
		if vector.HasConverged(s.lo, s.hi, 2*s.env.Precision, s.env.Relative) {
			converged = true

			break
		}
	}
	if !converged {
		s.reportNonConvergence(s.env.MaxIterations, vector.MaxAbsDiff(s.lo, s.hi))
	}

	// Stage 3: midpoint
	for i := range x {
		x[i] = (s.lo[i] + s.hi[i]) / 2
	}
	s.finishScheduler(x, b)
	if !s.caching {
		s.ClearCache()
	}

	return nil
}
