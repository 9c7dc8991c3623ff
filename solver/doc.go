// Package solver implements the equation-solver contracts consumed by the
// epoch analyzers, together with concrete numeric methods.
//
// Two flavors:
//
//	LinearEquationSolver — deterministic systems, either in equation form
//	                       (I−A)x = b or in fixed-point form x = Ax + b.
//	MinMaxSolver         — nondeterministic fixed-point systems
//	                       x_s = opt_{c ∈ group(s)} (A_c·x + b_c).
//
// Methods:
//   - linear: power iteration, Jacobi, LU (gonum), interval iteration
//   - min/max: value iteration, policy iteration, interval iteration
//
// Every solver reports a RequirementSet; callers supply what they know
// (bounds, an initial scheduler) and clear the matching requirements. A
// remaining critical requirement means the solver cannot certify its answer.
//
// Configuration lives in Environment (functional options or YAML).
// Solvers log through the *zap.Logger of their Environment.
//
// Solvers are stateful (cached factorizations, scratch buffers, schedulers)
// and NOT safe for concurrent use.
package solver
