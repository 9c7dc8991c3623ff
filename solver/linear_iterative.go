// SPDX-License-Identifier: MIT
// Package solver - iterative linear methods.
//
// Methods:
//   - powerSolver    : x ← Ax + b on the fixed-point matrix A.
//   - intervalSolver : two power sequences from the lower and upper bound.
//   - jacobiSolver   : x_i ← (b_i − Σ_{j≠i} M_ij x_j) / M_ii on M = I − A.
//
// Non-convergence within Environment.MaxIterations is logged and the last
// iterate is returned; it is never reported as an error.

package solver

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/katalvlaran/epochcheck/numeric"
	"github.com/katalvlaran/epochcheck/vector"
)

// powerSolver implements LinearPower.
type powerSolver[V numeric.Value] struct {
	linearBase[V]
	scratch []V // second iterate buffer, kept while caching is enabled
}

// ClearCache drops the scratch buffer.
func (s *powerSolver[V]) ClearCache() { s.scratch = nil }

// SolveEquations iterates from x until two successive iterates agree.
// Complexity: O(k·(n + nnz)) for k iterations.
func (s *powerSolver[V]) SolveEquations(x, b []V) error {
	if err := s.checkDims(opPower, x, b); err != nil {
		return err
	}
	n := len(x)
	if n == 0 {
		return nil
	}
	s.scratch = vector.Assign(s.scratch, n, 0)
	row := func(i int, v []V) V { return s.matrix.RowDot(i, v) + b[i] }
	iterations, diff, converged := fixedPointIterate(row, x, s.scratch, s.env)
	if !converged {
		s.reportNonConvergence(string(LinearPower), iterations, diff)
	}
	s.log.Debug("power iteration finished", zap.Int("iterations", iterations), zap.Bool("converged", converged))
	if !s.caching {
		s.ClearCache()
	}

	return nil
}

// fixedPointIterate runs cur_i ← row(i, cur) until two successive iterates
// agree, leaving the final iterate in x. scratch must have len(x) > 0.
func fixedPointIterate[V numeric.Value](row func(int, []V) V, x, scratch []V, env Environment) (int, V, bool) {
	cur, next := x, scratch
	var diff V
	for it := 1; it <= env.MaxIterations; it++ {
		for i := range next {
			next[i] = row(i, cur)
		}
		diff = vector.MaxAbsDiff(cur, next)
		done := vector.HasConverged(cur, next, env.Precision, env.Relative)
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

	return env.MaxIterations, diff, false
}

// intervalSolver implements LinearInterval.
type intervalSolver[V numeric.Value] struct {
	linearBase[V]
	lo, hi, scratch []V
}

// ClearCache drops the bound iterates.
func (s *intervalSolver[V]) ClearCache() { s.lo, s.hi, s.scratch = nil, nil, nil }

// SolveEquations iterates a lower and an upper sequence until they are
// within 2·precision, then writes their midpoint into x.
//
// Errors: ErrMissingBounds if either bound was never set.
// Complexity: O(k·(n + nnz)).
func (s *intervalSolver[V]) SolveEquations(x, b []V) error {
	if err := s.checkDims(opInterval, x, b); err != nil {
		return err
	}
	if s.lower == nil || s.upper == nil {
		return solverErrorf(opInterval, ErrMissingBounds)
	}
	n := len(x)
	if n == 0 {
		return nil
	}

	// Stage 1: seed both sequences from the bounds
	s.lo = vector.Assign(s.lo, n, *s.lower)
	s.hi = vector.Assign(s.hi, n, *s.upper)
	s.scratch = vector.Assign(s.scratch, n, 0)

	// Stage 2: advance both until they meet
	converged := false
	for it := 1; it <= s.env.MaxIterations; it++ {
		step(s.matrix.RowDot, s.lo, s.scratch, b)
		step(s.matrix.RowDot, s.hi, s.scratch, b)
		if vector.HasConverged(s.lo, s.hi, 2*s.env.Precision, s.env.Relative) {
			converged = true

			break
		}
	}
	if !converged {
		s.reportNonConvergence(string(LinearInterval), s.env.MaxIterations, vector.MaxAbsDiff(s.lo, s.hi))
	}

	// Stage 3: midpoint
	for i := range x {
		x[i] = (s.lo[i] + s.hi[i]) / 2
	}
	if !s.caching {
		s.ClearCache()
	}

	return nil
}

// step performs v ← A·v + b using scratch as temporary storage.
func step[V numeric.Value](rowDot func(int, []V) V, v, scratch, b []V) {
	for i := range scratch {
		scratch[i] = rowDot(i, v) + b[i]
	}
	copy(v, scratch)
}

// jacobiSolver implements LinearJacobi on M = I − A.
type jacobiSolver[V numeric.Value] struct {
	linearBase[V]
	invDiag []V // 1/M_ii, kept while caching is enabled
	scratch []V
}

// ClearCache drops the diagonal split.
func (s *jacobiSolver[V]) ClearCache() { s.invDiag, s.scratch = nil, nil }

// SolveEquations runs Jacobi sweeps from x.
//
// Errors: ErrSingular if a diagonal entry of M is zero.
// Complexity: O(n + nnz) setup, O(k·(n + nnz)) iterations.
func (s *jacobiSolver[V]) SolveEquations(x, b []V) error {
	if err := s.checkDims(opJacobi, x, b); err != nil {
		return err
	}
	n := len(x)
	if n == 0 {
		return nil
	}

	// Stage 1: diagonal split (reused across calls when cached)
	if s.invDiag == nil {
		inv := make([]V, n)
		for i := 0; i < n; i++ {
			d, _ := s.matrix.Get(i, i) // safe: square, i < n
			if d == 0 {
				return solverErrorf(opJacobi, fmt.Errorf("zero diagonal at row %d: %w", i, ErrSingular))
			}
			inv[i] = 1 / d
		}
		s.invDiag = inv
	}
	s.scratch = vector.Assign(s.scratch, n, 0)

	// Stage 2: sweeps
	offDiagonal := func(i int, v []V) V {
		var sum V
		for _, e := range s.matrix.Row(i) {
			if e.Column != i {
				sum += e.Value * v[e.Column]
			}
		}

		return sum
	}
	jacobiRow := func(i int, v []V) V {
		return (b[i] - offDiagonal(i, v)) * s.invDiag[i]
	}
	iterations, diff, converged := fixedPointIterate(jacobiRow, x, s.scratch, s.env)
	if !converged {
		s.reportNonConvergence(string(LinearJacobi), iterations, diff)
	}
	s.log.Debug("jacobi finished", zap.Int("iterations", iterations), zap.Bool("converged", converged))
	if !s.caching {
		s.ClearCache()
	}

	return nil
}
