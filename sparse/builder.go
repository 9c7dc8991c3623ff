// SPDX-License-Identifier: MIT
// Package sparse - incremental builder for row-grouped matrices.
//
// Purpose:
//   - Deterministic, append-only construction in row-major ascending order.
//   - Row groups are declared by their first row; the last group is closed by Build.
//
// Determinism:
//   - The built matrix depends only on the sequence of calls, never on map order.

package sparse

import (
	"fmt"

	"github.com/katalvlaran/epochcheck/numeric"
)

// Builder accumulates entries and row groups for a Matrix.
// A Builder is not safe for concurrent use.
type Builder[V numeric.Value] struct {
	opts       Options
	lastRow    int   // highest row seen so far (-1 = none)
	lastCol    int   // last column in lastRow (-1 = none)
	maxCol     int   // highest column seen (-1 = none)
	rowStart   []int // offsets of rows 0..lastRow
	entries    []Entry[V]
	groupStart []int // declared group starts (row grouping only)
}

// NewBuilder returns an empty builder configured by opts.
// Complexity: O(1).
func NewBuilder[V numeric.Value](opts ...Option) *Builder[V] {
	return &Builder[V]{
		opts:    gatherOptions(opts...),
		lastRow: -1,
		lastCol: -1,
		maxCol:  -1,
	}
}

// AddEntry appends value v at (row, col).
// Rows must be non-decreasing and columns strictly increasing within a row.
//
// Errors:
//   - ErrOutOfRange    if row or col is negative.
//   - ErrUnsortedEntry if the ascending order is violated.
//   - ErrNaNInf        if v is not finite and validation is enabled.
//
// Complexity: O(1) amortized (plus O(Δrow) to open skipped empty rows).
func (b *Builder[V]) AddEntry(row, col int, v V) error {
	// Stage 1: validate
	if row < 0 || col < 0 {
		return sparseErrorf(opAddEntry, fmt.Errorf("(%d,%d): %w", row, col, ErrOutOfRange))
	}
	if row < b.lastRow || (row == b.lastRow && col <= b.lastCol) {
		return sparseErrorf(opAddEntry, fmt.Errorf("(%d,%d) after (%d,%d): %w", row, col, b.lastRow, b.lastCol, ErrUnsortedEntry))
	}
	if b.opts.validateNaNInf && !numeric.IsFinite(v) {
		return sparseErrorf(opAddEntry, fmt.Errorf("(%d,%d): %w", row, col, ErrNaNInf))
	}

	// Stage 2: open rows up to `row` (empty rows in between are legal)
	b.openRowsThrough(row)
	if col > b.maxCol {
		b.maxCol = col
	}
	b.lastCol = col
	if b.opts.dropZeros && v == 0 {
		return nil
	}

	// Stage 3: append
	b.entries = append(b.entries, Entry[V]{Column: col, Value: v})

	return nil
}

// NewRowGroup opens a new row group whose first row is startRow.
//
// Errors:
//   - ErrRowGroupingDisabled without WithRowGrouping.
//   - ErrBadRowGroup if startRow does not exceed the previous group start,
//     or if rows at or after startRow were already opened by AddEntry.
func (b *Builder[V]) NewRowGroup(startRow int) error {
	if !b.opts.rowGrouping {
		return sparseErrorf(opNewRowGroup, ErrRowGroupingDisabled)
	}
	n := len(b.groupStart)
	if n == 0 && startRow != 0 {
		return sparseErrorf(opNewRowGroup, fmt.Errorf("first group must start at row 0, got %d: %w", startRow, ErrBadRowGroup))
	}
	if n > 0 && startRow <= b.groupStart[n-1] {
		return sparseErrorf(opNewRowGroup, fmt.Errorf("start %d after %d: %w", startRow, b.groupStart[n-1], ErrBadRowGroup))
	}
	if startRow <= b.lastRow {
		return sparseErrorf(opNewRowGroup, fmt.Errorf("start %d not after filled row %d: %w", startRow, b.lastRow, ErrBadRowGroup))
	}
	b.groupStart = append(b.groupStart, startRow)

	return nil
}

// Build freezes the accumulated data into a Matrix.
// The row count is max(forced rows, last row+1, last group start+1); the
// column count is max(forced cols, max column+1).
// Without row grouping every row forms its own group.
//
// Errors:
//   - ErrBadRowGroup if row grouping is enabled but no group was declared
//     while rows exist.
//
// Complexity: O(rows + groups).
func (b *Builder[V]) Build() (*Matrix[V], error) {
	// Stage 1: resolve dimensions
	rows := b.lastRow + 1
	if b.opts.rows > rows {
		rows = b.opts.rows
	}
	if n := len(b.groupStart); n > 0 && b.groupStart[n-1]+1 > rows {
		rows = b.groupStart[n-1] + 1
	}
	cols := b.maxCol + 1
	if b.opts.cols > cols {
		cols = b.opts.cols
	}

	// Stage 2: close the row offsets
	b.openRowsThrough(rows - 1)
	rowStart := make([]int, rows+1)
	copy(rowStart, b.rowStart)
	rowStart[rows] = len(b.entries)

	// Stage 3: row groups
	var groupStart []int
	if b.opts.rowGrouping {
		if len(b.groupStart) == 0 && rows > 0 {
			return nil, sparseErrorf(opBuild, fmt.Errorf("no row group declared for %d rows: %w", rows, ErrBadRowGroup))
		}
		groupStart = make([]int, len(b.groupStart)+1)
		copy(groupStart, b.groupStart)
		groupStart[len(b.groupStart)] = rows
	} else {
		groupStart = make([]int, rows+1)
		for i := range groupStart {
			groupStart[i] = i
		}
	}

	// Stage 4: finalize
	entries := make([]Entry[V], len(b.entries))
	copy(entries, b.entries)

	return newMatrix(rows, cols, rowStart, entries, groupStart), nil
}

// openRowsThrough records row offsets for every row up to and including row.
func (b *Builder[V]) openRowsThrough(row int) {
	for b.lastRow < row {
		b.lastRow++
		b.lastCol = -1
		b.rowStart = append(b.rowStart, len(b.entries))
	}
}

// newMatrix assembles a Matrix and derives the trivial-grouping flag.
func newMatrix[V numeric.Value](rows, cols int, rowStart []int, entries []Entry[V], groupStart []int) *Matrix[V] {
	trivial := len(groupStart)-1 == rows
	if trivial {
		for g := 0; g < rows; g++ {
			if groupStart[g] != g {
				trivial = false

				break
			}
		}
	}

	return &Matrix[V]{
		rows:       rows,
		cols:       cols,
		rowStart:   rowStart,
		entries:    entries,
		groupStart: groupStart,
		trivial:    trivial,
	}
}

// Identity returns the n×n identity matrix with trivial row grouping.
// Complexity: O(n).
func Identity[V numeric.Value](n int) *Matrix[V] {
	rowStart := make([]int, n+1)
	entries := make([]Entry[V], n)
	groupStart := make([]int, n+1)
	for i := 0; i < n; i++ {
		rowStart[i] = i
		groupStart[i] = i
		entries[i] = Entry[V]{Column: i, Value: numeric.One[V]()}
	}
	rowStart[n] = n
	groupStart[n] = n

	return newMatrix(n, n, rowStart, entries, groupStart)
}

// FromDense builds a matrix from a dense row slice, skipping zeros.
// groupStarts may be nil (trivial grouping); otherwise it lists the first
// row of each group, starting at 0.
//
// Errors: ErrDimensionMismatch for ragged input, plus builder errors.
// Complexity: O(rows*cols).
func FromDense[V numeric.Value](data [][]V, groupStarts []int) (*Matrix[V], error) {
	cols := 0
	if len(data) > 0 {
		cols = len(data[0])
	}
	opts := []Option{WithForceDimensions(len(data), cols), WithDropZeros()}
	if groupStarts != nil {
		opts = append(opts, WithRowGrouping())
	}
	b := NewBuilder[V](opts...)

	next := 0 // index into groupStarts
	for i, row := range data {
		if len(row) != cols {
			return nil, sparseErrorf(opFromDense, fmt.Errorf("row %d has %d columns, want %d: %w", i, len(row), cols, ErrDimensionMismatch))
		}
		for next < len(groupStarts) && groupStarts[next] == i {
			if err := b.NewRowGroup(i); err != nil {
				return nil, err
			}
			next++
		}
		for j, v := range row {
			if err := b.AddEntry(i, j, v); err != nil {
				return nil, err
			}
		}
	}
	if next != len(groupStarts) {
		return nil, sparseErrorf(opFromDense, fmt.Errorf("group start %d beyond %d rows: %w", groupStarts[next], len(data), ErrBadRowGroup))
	}

	return b.Build()
}
