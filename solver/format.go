// SPDX-License-Identifier: MIT

package solver

// ProblemFormat tells how a deterministic system matrix is to be read.
type ProblemFormat int

const (
	// EquationSystem: the matrix stores I − A and the solver solves (I − A)x = b.
	EquationSystem ProblemFormat = iota

	// FixedPointSystem: the matrix stores A and the solver solves x = Ax + b.
	FixedPointSystem
)

// String implements fmt.Stringer.
func (f ProblemFormat) String() string {
	switch f {
	case EquationSystem:
		return "equation-system"
	case FixedPointSystem:
		return "fixed-point-system"
	default:
		return "unknown"
	}
}
