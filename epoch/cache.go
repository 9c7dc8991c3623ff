// SPDX-License-Identifier: MIT
// Package epoch - solver-cache contexts.
//
// A cache outlives many epochs of one traversal. It owns:
//   - x: the solution vector (one entry per state), reused as warm start;
//   - b: the right-hand side (one entry per choice), rebuilt every epoch;
//   - the live solver, rebuilt only on a structural matrix change.
//
// State machine: Uninitialized → SolverBuilt → (solve)*, re-entering the
// build transition whenever an epoch reports EpochMatrixChanged.

package epoch

import (
	"go.uber.org/zap"

	"github.com/katalvlaran/epochcheck/numeric"
	"github.com/katalvlaran/epochcheck/solver"
)

// State is the lifecycle state of a cache.
type State int

const (
	// Uninitialized: no solver has been built yet (or the cache was reset).
	Uninitialized State = iota

	// SolverBuilt: a live solver is ready for unchanged-matrix epochs.
	SolverBuilt
)

// String implements fmt.Stringer.
func (s State) String() string {
	if s == SolverBuilt {
		return "solver-built"
	}

	return "uninitialized"
}

// LinearCache is the deterministic solver-cache context.
// Not safe for concurrent use.
type LinearCache[V numeric.Value] struct {
	factory solver.LinearFactory[V]
	env     solver.Environment
	log     *zap.Logger

	x      []V
	b      []V
	solver solver.LinearEquationSolver[V]
	builds int
}

// NewLinearCache returns an empty cache building solvers with factory
// under env. A nil factory selects solver.NewGeneralLinearFactory.
func NewLinearCache[V numeric.Value](factory solver.LinearFactory[V], env solver.Environment) *LinearCache[V] {
	if factory == nil {
		factory = solver.NewGeneralLinearFactory[V]()
	}

	return &LinearCache[V]{factory: factory, env: env, log: env.Logger()}
}

// ProblemFormat is the matrix format the cache's solvers expect; epoch
// matrices must be built accordingly.
func (c *LinearCache[V]) ProblemFormat() solver.ProblemFormat { return c.factory.ProblemFormat(c.env) }

// Environment returns the numeric environment.
func (c *LinearCache[V]) Environment() solver.Environment { return c.env }

// State reports whether a solver is live.
func (c *LinearCache[V]) State() State { return stateOf(c.solver != nil) }

// Builds counts solver constructions since creation.
func (c *LinearCache[V]) Builds() int { return c.builds }

// Solution returns a copy of the full solution vector of the last solve.
func (c *LinearCache[V]) Solution() []V { return append([]V(nil), c.x...) }

// Reset drops the solver and buffers; the build counter is kept.
func (c *LinearCache[V]) Reset() { c.x, c.b, c.solver = nil, nil, nil }

// MinMaxCache is the nondeterministic solver-cache context.
// Not safe for concurrent use.
type MinMaxCache[V numeric.Value] struct {
	factory solver.MinMaxFactory[V]
	env     solver.Environment
	log     *zap.Logger

	x      []V
	b      []V
	solver solver.MinMaxSolver[V]
	dir    solver.OptimizationDirection // direction the live solver was built for
	builds int
}

// NewMinMaxCache returns an empty cache building solvers with factory
// under env. A nil factory selects solver.NewGeneralMinMaxFactory.
func NewMinMaxCache[V numeric.Value](factory solver.MinMaxFactory[V], env solver.Environment) *MinMaxCache[V] {
	if factory == nil {
		factory = solver.NewGeneralMinMaxFactory[V]()
	}

	return &MinMaxCache[V]{factory: factory, env: env, log: env.Logger()}
}

// Environment returns the numeric environment.
func (c *MinMaxCache[V]) Environment() solver.Environment { return c.env }

// State reports whether a solver is live.
func (c *MinMaxCache[V]) State() State { return stateOf(c.solver != nil) }

// Builds counts solver constructions since creation.
func (c *MinMaxCache[V]) Builds() int { return c.builds }

// Solution returns a copy of the full solution vector of the last solve.
func (c *MinMaxCache[V]) Solution() []V { return append([]V(nil), c.x...) }

// Scheduler returns a copy of the live solver's last scheduler, or nil.
func (c *MinMaxCache[V]) Scheduler() []int {
	if c.solver == nil {
		return nil
	}
	choices, err := c.solver.SchedulerChoices()
	if err != nil {
		return nil
	}

	return append([]int(nil), choices...)
}

// Reset drops the solver and buffers; the build counter is kept.
func (c *MinMaxCache[V]) Reset() { c.x, c.b, c.solver = nil, nil, nil }

func stateOf(built bool) State {
	if built {
		return SolverBuilt
	}

	return Uninitialized
}
