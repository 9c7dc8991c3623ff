// SPDX-License-Identifier: MIT

package epoch

// Test bridge: white-box access for package epoch_test only.

var (
	// ExportedRightHandSide exposes the b construction shared by the
	// non-trivial analyzers.
	ExportedRightHandSide = (*EpochModel[float64]).rightHandSide

	// ExportedLinearCacheRHS exposes the cached right-hand side.
	ExportedLinearCacheRHS = func(c *LinearCache[float64]) []float64 { return c.b }

	// ExportedMinMaxCacheRHS exposes the cached right-hand side.
	ExportedMinMaxCacheRHS = func(c *MinMaxCache[float64]) []float64 { return c.b }
)
