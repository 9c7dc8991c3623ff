// SPDX-License-Identifier: MIT
// Package epoch - non-trivial analyzers.
//
// Per call:
//  1. rebuild the solver if the matrix changed (or none is live yet),
//     otherwise warm-start from x (and, for min/max, the last scheduler);
//  2. rebuild b from the rewards and step solutions;
//  3. solve in place on x and return x restricted to the entry states.

package epoch

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/katalvlaran/epochcheck/solver"
	"github.com/katalvlaran/epochcheck/vector"
)

// analyzeNonTrivialDeterministic solves the epoch through c.
func (m *EpochModel[V]) analyzeNonTrivialDeterministic(c *LinearCache[V], bnd bounds[V]) ([]V, error) {
	groups := m.EpochMatrix.RowGroupCount()

	// Stage 1: solver lifecycle
	if m.EpochMatrixChanged || c.solver == nil {
		if err := c.rebuild(m, bnd); err != nil {
			return nil, err
		}
	} else if len(c.x) != groups {
		return nil, fmt.Errorf("unchanged matrix with %d states, cached solution has %d: %w", groups, len(c.x), ErrPreconditionViolated)
	}

	// Stage 2: right-hand side
	c.b = m.rightHandSide(c.b)

	// Stage 3: solve
	if err := c.solver.SolveEquations(c.x, c.b); err != nil {
		return nil, err
	}

	return vector.Filter(c.x, m.EpochInStates), nil
}

// rebuild resets x and builds a caching solver over m.EpochMatrix,
// applying the known bounds. A critical requirement left afterwards
// aborts with *RequirementError and leaves the cache Uninitialized.
func (c *LinearCache[V]) rebuild(m *EpochModel[V], bnd bounds[V]) error {
	c.solver = nil
	c.x = vector.Assign(c.x, m.EpochMatrix.RowGroupCount(), 0)
	s, err := c.factory.Create(c.env, m.EpochMatrix)
	if err != nil {
		return err
	}
	c.builds++
	s.SetCachingEnabled(true)
	req := s.Requirements()
	if bnd.lower != nil {
		s.SetLowerBound(*bnd.lower)
		req.ClearLowerBounds()
	}
	if bnd.upper != nil {
		s.SetUpperBound(*bnd.upper)
		req.ClearUpperBounds()
	}
	if req.HasEnabledCriticalRequirement() {
		return epochErrorf(opBuildSolver, &RequirementError{Requirements: req.String()})
	}
	c.solver = s
	c.log.Debug("linear solver built",
		zap.Int("builds", c.builds),
		zap.Int("rows", m.EpochMatrix.RowCount()),
		zap.Int("entries", m.EpochMatrix.EntryCount()))

	return nil
}

// analyzeNonTrivialNonDeterministic solves the epoch through c under dir.
func (m *EpochModel[V]) analyzeNonTrivialNonDeterministic(dir solver.OptimizationDirection, c *MinMaxCache[V], bnd bounds[V]) ([]V, error) {
	groups := m.EpochMatrix.RowGroupCount()

	// Stage 1: solver lifecycle
	switch {
	case m.EpochMatrixChanged || c.solver == nil || c.dir != dir:
		if err := c.rebuild(m, dir, bnd); err != nil {
			return nil, err
		}
	case len(c.x) != groups:
		return nil, fmt.Errorf("unchanged matrix with %d states, cached solution has %d: %w", groups, len(c.x), ErrPreconditionViolated)
	default:
		// hand the last scheduler back; the solver drops its own reference
		if choices, err := c.solver.SchedulerChoices(); err == nil {
			c.solver.SetInitialScheduler(choices)
			c.log.Debug("scheduler transferred", zap.Int("states", len(choices)))
		}
	}

	// Stage 2: right-hand side
	c.b = m.rightHandSide(c.b)

	// Stage 3: solve
	if err := c.solver.SolveEquations(c.x, c.b); err != nil {
		return nil, err
	}

	return vector.Filter(c.x, m.EpochInStates), nil
}

// rebuild resets x and builds a min/max solver with a unique solution,
// caching and scheduler tracking, then marks its requirements checked.
func (c *MinMaxCache[V]) rebuild(m *EpochModel[V], dir solver.OptimizationDirection, bnd bounds[V]) error {
	c.solver = nil
	c.x = vector.Assign(c.x, m.EpochMatrix.RowGroupCount(), 0)
	s, err := c.factory.Create(c.env, m.EpochMatrix)
	if err != nil {
		return err
	}
	c.builds++
	s.SetHasUniqueSolution(true)
	s.SetOptimizationDirection(dir)
	s.SetCachingEnabled(true)
	s.SetTrackScheduler(true)
	req := s.Requirements(dir)
	if bnd.lower != nil {
		s.SetLowerBound(*bnd.lower)
		req.ClearLowerBounds()
	}
	if bnd.upper != nil {
		s.SetUpperBound(*bnd.upper)
		req.ClearUpperBounds()
	}
	if req.HasEnabledCriticalRequirement() {
		return epochErrorf(opBuildSolver, &RequirementError{Requirements: req.String()})
	}
	s.SetRequirementsChecked(true)
	c.solver, c.dir = s, dir
	c.log.Debug("min/max solver built",
		zap.Int("builds", c.builds),
		zap.String("direction", dir.String()),
		zap.Int("states", m.EpochMatrix.RowGroupCount()),
		zap.Int("choices", m.EpochMatrix.RowCount()))

	return nil
}
