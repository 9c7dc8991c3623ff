// Package epoch solves one epoch of a reward-bounded unfolding.
//
// An epoch is a small, self-contained numeric problem: a local matrix over
// the states that stay inside the epoch, one reward vector per objective,
// and "step" contributions from choices whose successors live in epochs
// that were already solved. EpochModel carries that data; the analyzers
// turn it into a result vector over the epoch's entry states.
//
// Four strategies:
//
//	                 trivial                 non-trivial
//	deterministic    direct merge (no solve) linear solve (LinearCache)
//	nondeterministic best choice per state   min/max solve (MinMaxCache)
//
// Dispatch is structural and evaluated once per call:
//   - deterministic: trivial iff the matrix is the identity in
//     EquationSystem format, or has no entries in FixedPointSystem format.
//   - nondeterministic: trivial iff the matrix has no entries. An identity
//     is not enough, schedulers still need their choice alternatives.
//
// Solver caches:
//
// LinearCache and MinMaxCache own the solution vector x, the right-hand
// side b and the live solver. The solver is rebuilt only when an epoch
// reports EpochMatrixChanged; otherwise it is reused with x as a warm
// start, and min/max solvers additionally receive their last scheduler
// back as the initial scheduler. A cache belongs to one sequential
// traversal and is NOT safe for concurrent use; parallel objectives need
// one cache each.
//
// Errors:
//   - ErrPreconditionViolated : caller defect (row grouping on the
//     deterministic path, unknown format, mismatched cache).
//   - ErrInvariantViolation   : malformed EpochModel (see Validate).
//   - *RequirementError       : the solver keeps a critical requirement
//     after bounds were applied; matches ErrUncheckedRequirement.
//   - solver errors are returned unchanged.
//
// Numeric non-convergence is not an error at this layer: solvers log it
// and return their last iterate.
package epoch
