// SPDX-License-Identifier: MIT

// Package sparse: domain types.
// Matrix is a concrete compressed-row structure; Entry is one stored
// (column, value) pair of a row.
package sparse

import "github.com/katalvlaran/epochcheck/numeric"

// Entry is a single stored element of a row.
type Entry[V numeric.Value] struct {
	Column int // column index, ascending within a row
	Value  V   // stored value (may be an explicit zero unless dropped at build)
}

// Matrix is an immutable row-grouped sparse matrix in compressed row form.
//
// Layout:
//   - rowStart has length rows+1; row i occupies entries[rowStart[i]:rowStart[i+1]].
//   - groupStart has length groups+1; group g owns rows [groupStart[g], groupStart[g+1]).
//
// Complexity: O(rows + groups + nnz) memory.
type Matrix[V numeric.Value] struct {
	rows, cols int
	rowStart   []int      // row offsets into entries
	entries    []Entry[V] // all stored entries, row-major
	groupStart []int      // row-group boundaries
	trivial    bool       // true iff every group holds exactly one row
}
