// SPDX-License-Identifier: MIT
// Package sparse - accessors and structural predicates.
//
// All accessors are O(1) unless stated otherwise and never allocate,
// except RowGroupIndices which returns a defensive copy.

package sparse

import (
	"fmt"
	"sort"
	"strings"
)

// RowCount returns the number of rows (choices).
func (m *Matrix[V]) RowCount() int { return m.rows }

// ColumnCount returns the number of columns.
func (m *Matrix[V]) ColumnCount() int { return m.cols }

// RowGroupCount returns the number of row groups (states).
func (m *Matrix[V]) RowGroupCount() int { return len(m.groupStart) - 1 }

// EntryCount returns the number of stored entries (explicit zeros included).
func (m *Matrix[V]) EntryCount() int { return len(m.entries) }

// NonzeroEntryCount counts stored entries with a non-zero value.
// Complexity: O(nnz).
func (m *Matrix[V]) NonzeroEntryCount() int {
	n := 0
	for _, e := range m.entries {
		if e.Value != 0 {
			n++
		}
	}

	return n
}

// HasTrivialRowGrouping reports whether every group holds exactly one row.
func (m *Matrix[V]) HasTrivialRowGrouping() bool { return m.trivial }

// RowGroupIndices returns a copy of the group boundaries (length groups+1):
// group g owns rows [idx[g], idx[g+1]).
// Complexity: O(groups).
func (m *Matrix[V]) RowGroupIndices() []int {
	out := make([]int, len(m.groupStart))
	copy(out, m.groupStart)

	return out
}

// RowGroupStart returns the first row of group g.
// g == RowGroupCount() is accepted and yields RowCount() (the closing bound),
// mirroring the rowGroupStart(state+1) lookup of the epoch analyzers.
// Panics on out-of-range g like a slice index would.
func (m *Matrix[V]) RowGroupStart(g int) int { return m.groupStart[g] }

// RowGroupSize returns the number of rows in group g.
func (m *Matrix[V]) RowGroupSize(g int) int { return m.groupStart[g+1] - m.groupStart[g] }

// RowGroupBounds returns [start, end) of group g or ErrOutOfRange.
func (m *Matrix[V]) RowGroupBounds(g int) (int, int, error) {
	if g < 0 || g >= m.RowGroupCount() {
		return 0, 0, sparseErrorf(opRowGroupBounds, fmt.Errorf("group %d of %d: %w", g, m.RowGroupCount(), ErrOutOfRange))
	}

	return m.groupStart[g], m.groupStart[g+1], nil
}

// Row returns the stored entries of row i in ascending column order.
// The returned slice aliases internal storage and MUST NOT be modified.
func (m *Matrix[V]) Row(i int) []Entry[V] {
	return m.entries[m.rowStart[i]:m.rowStart[i+1]]
}

// Get returns the value at (row, col); absent entries read as zero.
// Complexity: O(log deg(row)).
func (m *Matrix[V]) Get(row, col int) (V, error) {
	var zero V
	if row < 0 || row >= m.rows || col < 0 || col >= m.cols {
		return zero, sparseErrorf(opGet, fmt.Errorf("(%d,%d) in %dx%d: %w", row, col, m.rows, m.cols, ErrOutOfRange))
	}
	r := m.Row(row)
	k := sort.Search(len(r), func(i int) bool { return r[i].Column >= col })
	if k < len(r) && r[k].Column == col {
		return r[k].Value, nil
	}

	return zero, nil
}

// IsIdentity reports whether the matrix is square, each row holds a
// diagonal 1 and every other stored entry is zero.
// Complexity: O(nnz).
func (m *Matrix[V]) IsIdentity() bool {
	if m.rows != m.cols {
		return false
	}
	if m.NonzeroEntryCount() != m.rows {
		return false
	}
	for i := 0; i < m.rows; i++ {
		hasDiagonal := false
		for _, e := range m.Row(i) {
			if e.Column == i {
				if e.Value != 1 {
					return false
				}
				hasDiagonal = true
			} else if e.Value != 0 {
				return false
			}
		}
		if !hasDiagonal {
			return false
		}
	}

	return true
}

// SameStructure reports whether m and other share dimensions, row grouping
// and sparsity pattern (values are ignored). A nil operand only matches nil.
// Complexity: O(rows + groups + nnz).
func (m *Matrix[V]) SameStructure(other *Matrix[V]) bool {
	if m == nil || other == nil {
		return m == other
	}
	if m.rows != other.rows || m.cols != other.cols || len(m.entries) != len(other.entries) {
		return false
	}
	if len(m.groupStart) != len(other.groupStart) {
		return false
	}
	for i := range m.groupStart {
		if m.groupStart[i] != other.groupStart[i] {
			return false
		}
	}
	for i := range m.rowStart {
		if m.rowStart[i] != other.rowStart[i] {
			return false
		}
	}
	for i := range m.entries {
		if m.entries[i].Column != other.entries[i].Column {
			return false
		}
	}

	return true
}

// Equal reports whether m and other have the same structure and values.
// Epoch drivers use it to decide whether a cached solver (which may hold a
// factorization of the values) can be reused.
// Complexity: O(rows + groups + nnz).
func (m *Matrix[V]) Equal(other *Matrix[V]) bool {
	if m == other {
		return true
	}
	if !m.SameStructure(other) {
		return false
	}
	for i := range m.entries {
		if m.entries[i].Value != other.entries[i].Value {
			return false
		}
	}

	return true
}

// String implements fmt.Stringer for debugging: one line per row,
// groups separated by a blank marker.
func (m *Matrix[V]) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%dx%d, %d groups, %d entries\n", m.rows, m.cols, m.RowGroupCount(), len(m.entries))
	g := 0
	for i := 0; i < m.rows; i++ {
		for g < m.RowGroupCount() && m.groupStart[g] == i {
			fmt.Fprintf(&sb, "group %d:\n", g)
			g++
		}
		sb.WriteString("  [")
		for k, e := range m.Row(i) {
			if k > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "%d:%g", e.Column, float64(e.Value))
		}
		sb.WriteString("]\n")
	}

	return sb.String()
}
