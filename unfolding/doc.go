// Package unfolding drives an epoch sequence through the epoch analyzers.
//
// It sits at the boundary of the per-epoch engine: it does no reward-bound
// arithmetic and does not enumerate epochs. Callers describe each epoch as
// a Source (an ID, the IDs it steps into, and a Build function producing
// the EpochModel from already-solved results); the driver
//
//  1. orders the sources so every epoch follows the epochs it depends on
//     (DFS topological sort, cycles rejected),
//  2. builds each model against the Store of earlier results,
//  3. sets EpochMatrixChanged by comparing with the previous matrix unless
//     the source reports the flag itself (ChangeReporter),
//  4. analyzes it through one persistent solver cache and stores the
//     entry-state result.
//
// Store answers Value(id, state) lookups by bitset rank and folds
// transition weights into step solutions (StepSolution).
//
// Runs are sequential; the context is checked between epochs only.
// Each epoch is logged once at Info level through zap.
package unfolding
