// SPDX-License-Identifier: MIT

package epoch

import (
	"github.com/katalvlaran/epochcheck/numeric"
	"github.com/katalvlaran/epochcheck/solver"
	"github.com/katalvlaran/epochcheck/sparse"
)

// Kind tags the strategy chosen for an epoch.
type Kind int

const (
	// TrivialDeterministic: no solve, result = filtered reward + step solution.
	TrivialDeterministic Kind = iota

	// NonTrivialDeterministic: one linear solve through a LinearCache.
	NonTrivialDeterministic

	// TrivialNonDeterministic: no solve, best choice per state.
	TrivialNonDeterministic

	// NonTrivialNonDeterministic: one min/max solve through a MinMaxCache.
	NonTrivialNonDeterministic
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case TrivialDeterministic:
		return "trivial-deterministic"
	case NonTrivialDeterministic:
		return "non-trivial-deterministic"
	case TrivialNonDeterministic:
		return "trivial-nondeterministic"
	case NonTrivialNonDeterministic:
		return "non-trivial-nondeterministic"
	default:
		return "unknown"
	}
}

// Trivial reports whether k needs no equation solve.
func (k Kind) Trivial() bool {
	return k == TrivialDeterministic || k == TrivialNonDeterministic
}

// ClassifyDeterministic applies the format-dependent rule: the epoch is
// trivial iff m is the identity in EquationSystem format (Ix = b), or has
// no entries in FixedPointSystem format (x = 0x + b).
func ClassifyDeterministic[V numeric.Value](m *sparse.Matrix[V], format solver.ProblemFormat) Kind {
	if format == solver.EquationSystem && m.IsIdentity() {
		return TrivialDeterministic
	}
	if format == solver.FixedPointSystem && m.EntryCount() == 0 {
		return TrivialDeterministic
	}

	return NonTrivialDeterministic
}

// ClassifyNonDeterministic is trivial iff m has no entries. Unlike the
// deterministic rule an identity does not qualify.
func ClassifyNonDeterministic[V numeric.Value](m *sparse.Matrix[V]) Kind {
	if m.EntryCount() == 0 {
		return TrivialNonDeterministic
	}

	return NonTrivialNonDeterministic
}
