// SPDX-License-Identifier: MIT

// Package numeric defines the value constraint shared by every generic
// algorithm in epochcheck, together with a handful of scalar helpers.
//
// Purpose:
//   - One generic algorithm per concern instead of per-type copies.
//   - Keep the contract minimal: additive identity, +, +=, strict < and >,
//     multiplication and conversion from float64 (tolerances, bounds).
//
// Notes:
//   - Exact rational arithmetic is not covered: Go operators do not apply
//     to *big.Rat, so a rational instantiation would need a method-based API.
package numeric

import "math"

// Value is satisfied by the floating point types the solvers operate on.
// Named types (e.g. `type Probability float64`) are accepted as well.
type Value interface {
	~float32 | ~float64
}

// Zero returns the additive identity of V.
// Complexity: O(1).
func Zero[V Value]() V {
	var z V

	return z
}

// One returns the multiplicative identity of V.
// Complexity: O(1).
func One[V Value]() V {
	return V(1)
}

// Abs returns |v|.
func Abs[V Value](v V) V {
	if v < 0 {
		return -v
	}

	return v
}

// IsFinite reports whether v is neither NaN nor ±Inf.
func IsFinite[V Value](v V) bool {
	f := float64(v)

	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// ApproxEqual compares a and b within eps.
// Relative mode scales eps by |a| (falls back to absolute when a == 0).
// Complexity: O(1).
func ApproxEqual[V Value](a, b V, eps float64, relative bool) bool {
	diff := float64(Abs(a - b))
	if relative && a != 0 {
		return diff <= eps*float64(Abs(a))
	}

	return diff <= eps
}
