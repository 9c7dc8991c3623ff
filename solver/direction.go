// SPDX-License-Identifier: MIT

package solver

import "github.com/katalvlaran/epochcheck/numeric"

// OptimizationDirection selects which choice value a nondeterministic
// state keeps.
type OptimizationDirection int

const (
	// Minimize keeps the smallest choice value.
	Minimize OptimizationDirection = iota

	// Maximize keeps the largest choice value.
	Maximize
)

// IsMinimize reports whether d is Minimize.
func (d OptimizationDirection) IsMinimize() bool { return d == Minimize }

// String implements fmt.Stringer.
func (d OptimizationDirection) String() string {
	if d == Minimize {
		return "minimize"
	}

	return "maximize"
}

// Better reports whether candidate strictly improves on incumbent under d.
// Ties are never an improvement, so the earliest-seen choice wins.
func Better[V numeric.Value](d OptimizationDirection, candidate, incumbent V) bool {
	if d == Minimize {
		return candidate < incumbent
	}

	return candidate > incumbent
}
