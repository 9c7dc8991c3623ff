// SPDX-License-Identifier: MIT
// Package solver - direct LU method backed by gonum.
//
// The equation-system matrix M = I − A is densified once and factorized
// with partial pivoting (gonum mat.LU). The factorization is the cached
// object: unchanged matrices across epochs reuse it for every new b.

package solver

import (
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/epochcheck/numeric"
)

// luSolver implements LinearLU.
type luSolver[V numeric.Value] struct {
	linearBase[V]
	lu *mat.LU // factorization of M, kept while caching is enabled
}

// ClearCache drops the factorization.
func (s *luSolver[V]) ClearCache() { s.lu = nil }

// SolveEquations solves Mx = b directly; x's previous contents are ignored.
//
// Errors: ErrSingular for an exactly singular M. An ill-conditioned M is
// logged and its solution returned.
// Complexity: O(n³) factorization (once while cached), O(n²) per solve.
func (s *luSolver[V]) SolveEquations(x, b []V) error {
	if err := s.checkDims(opLU, x, b); err != nil {
		return err
	}
	n := len(x)
	if n == 0 {
		return nil
	}

	// Stage 1: factorize (or reuse)
	if s.lu == nil {
		lu, err := factorize(s.matrix.ToDense)
		if err != nil {
			return solverErrorf(opLU, err)
		}
		s.lu = lu
		s.log.Debug("lu factorized", zap.Int("n", n))
	}

	// Stage 2: solve
	sol, err := solveFactorized(s.lu, b, s.log)
	if err != nil {
		return solverErrorf(opLU, err)
	}
	for i := range x {
		x[i] = V(sol.AtVec(i))
	}
	if !s.caching {
		s.ClearCache()
	}

	return nil
}

// factorize densifies a matrix through toDense and LU-factorizes it.
func factorize(toDense func() (*mat.Dense, error)) (*mat.LU, error) {
	d, err := toDense()
	if err != nil {
		return nil, err
	}
	var lu mat.LU
	lu.Factorize(d)

	return &lu, nil
}

// solveFactorized solves LU·y = b. An infinite condition number is a
// singular system; a finite but large one only warrants a warning.
func solveFactorized[V numeric.Value](lu *mat.LU, b []V, log *zap.Logger) (*mat.VecDense, error) {
	rhs := mat.NewVecDense(len(b), nil)
	for i, v := range b {
		rhs.SetVec(i, float64(v))
	}
	var sol mat.VecDense
	if err := lu.SolveVecTo(&sol, false, rhs); err != nil {
		var cond mat.Condition
		if !errors.As(err, &cond) || math.IsInf(float64(cond), 1) {
			return nil, fmt.Errorf("%v: %w", err, ErrSingular)
		}
		log.Warn("ill-conditioned system", zap.Float64("condition", float64(cond)))
	}

	return &sol, nil
}
