// Package vector holds the dense-vector helpers shared by the solvers and
// the epoch analyzers: the ascending-index filter that extracts entry-state
// results, capacity-reusing resets for the solver buffers x and b, and
// convergence checks.
//
// Index sets are github.com/bits-and-blooms/bitset values; iteration over a
// set is always in ascending index order.
package vector
