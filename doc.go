// Package epochcheck is the per-epoch solving engine of a reward-bounded
// probabilistic model checker: it computes, for each epoch of an unfolded
// DTMC or MDP, the expected accumulated reward from every entry state.
//
// What is an epoch?
//
//	A reward bound such as "at most 3 steps" is unfolded into epochs, one
//	per remaining budget. Transitions that consume budget leave the epoch;
//	their contribution arrives as already-solved step solutions. Inside an
//	epoch the model is an ordinary DTMC (one equation system) or MDP (one
//	min/max equation system).
//
// Packages:
//
//	numeric/   — Value constraint (float32, float64) and tolerance helpers
//	sparse/    — row-grouped CSR matrix, builder, I − A, scheduler selection
//	vector/    — filter by bit set, rank lookup, convergence checks
//	solver/    — linear (power, Jacobi, LU, interval) and min/max
//	             (value, policy, interval iteration) solvers, YAML environment
//	epoch/     — EpochModel, trivial/non-trivial dispatch, solver caches
//	unfolding/ — dependency ordering of epochs, result store, run loop
//
// Quick ASCII example (one epoch, budget 1):
//
//	   0.5          0.5 (consumes budget)
//	  ┌───┐ s0 ─────────────────────────▶ s0 @ budget 0
//	  └──▶┘ reward 1
//
//	x = 0.5·x + 1 + 0.5·v(budget 0)
//
// A solver built for one epoch is reused by the next while the epoch matrix
// stays the same; only the right-hand side changes.
//
//	go get github.com/katalvlaran/epochcheck
package epochcheck
