// SPDX-License-Identifier: MIT

package vector

import (
	"errors"
	"fmt"

	"github.com/bits-and-blooms/bitset"

	"github.com/katalvlaran/epochcheck/numeric"
)

var (
	// ErrOutOfRange indicates a set bit beyond the vector length.
	ErrOutOfRange = errors.New("vector: index out of range")

	// ErrDimensionMismatch indicates vectors of different length.
	ErrDimensionMismatch = errors.New("vector: dimension mismatch")
)

// Filter returns the entries of x whose indices are set in set, in
// ascending index order. Bits at or beyond len(x) are ignored; use
// FilterChecked to reject them instead.
// Complexity: O(|set| + len(x)/64).
func Filter[V numeric.Value](x []V, set *bitset.BitSet) []V {
	if set == nil {
		return []V{}
	}
	out := make([]V, 0, set.Count())
	for i, ok := set.NextSet(0); ok && int(i) < len(x); i, ok = set.NextSet(i + 1) {
		out = append(out, x[i])
	}

	return out
}

// FilterChecked behaves like Filter but fails with ErrOutOfRange when set
// selects an index outside x.
func FilterChecked[V numeric.Value](x []V, set *bitset.BitSet) ([]V, error) {
	if set != nil && set.Count() > 0 {
		// the highest set bit decides
		last, ok := LastSet(set)
		if ok && int(last) >= len(x) {
			return nil, fmt.Errorf("Filter: index %d of %d: %w", last, len(x), ErrOutOfRange)
		}
	}

	return Filter(x, set), nil
}

// LastSet returns the highest set bit of set; false for a nil or empty set.
// Complexity: O(|set| + len/64).
func LastSet(set *bitset.BitSet) (uint, bool) {
	if set == nil {
		return 0, false
	}
	var last uint
	found := false
	for i, ok := set.NextSet(0); ok; i, ok = set.NextSet(i + 1) {
		last, found = i, true
	}

	return last, found
}

// Assign resizes dst to n entries, all equal to v, reusing the backing
// array when its capacity allows. The returned slice replaces dst.
// Complexity: O(n); allocates only when cap(dst) < n.
func Assign[V numeric.Value](dst []V, n int, v V) []V {
	if cap(dst) < n {
		dst = make([]V, n)
	} else {
		dst = dst[:n]
	}
	for i := range dst {
		dst[i] = v
	}

	return dst
}

// AddInto performs dst[i] += src[i].
// Errors: ErrDimensionMismatch on length mismatch.
func AddInto[V numeric.Value](dst, src []V) error {
	if len(dst) != len(src) {
		return fmt.Errorf("AddInto: %d vs %d: %w", len(dst), len(src), ErrDimensionMismatch)
	}
	for i := range dst {
		dst[i] += src[i]
	}

	return nil
}

// MaxAbsDiff returns max_i |a[i] − b[i]|, or 0 for empty input.
// Caller guarantees equal lengths.
func MaxAbsDiff[V numeric.Value](a, b []V) V {
	var worst V
	for i := range a {
		if d := numeric.Abs(a[i] - b[i]); d > worst {
			worst = d
		}
	}

	return worst
}

// HasConverged reports whether every pair (a[i], b[i]) agrees within
// precision, absolutely or relative to a[i].
// Complexity: O(n) with early exit.
func HasConverged[V numeric.Value](a, b []V, precision float64, relative bool) bool {
	for i := range a {
		if !numeric.ApproxEqual(a[i], b[i], precision, relative) {
			return false
		}
	}

	return true
}

// Rank returns the position of index i among the set bits of set (0-based),
// or false if i is not set.
// Complexity: O(i/64).
func Rank(set *bitset.BitSet, i int) (int, bool) {
	if set == nil || i < 0 || !set.Test(uint(i)) {
		return 0, false
	}

	return int(set.Rank(uint(i))) - 1, true
}
