// SPDX-License-Identifier: MIT

package epoch

import "github.com/katalvlaran/epochcheck/numeric"

const panicBoundNotFinite = "epoch: bound must be finite"

// BoundOption supplies an a priori bound on the solution of an epoch.
type BoundOption[V numeric.Value] func(*bounds[V])

// bounds holds the optional bounds; nil means unknown.
type bounds[V numeric.Value] struct {
	lower *V
	upper *V
}

// WithLowerBound states that every solution entry is >= v. Panics on NaN/Inf.
func WithLowerBound[V numeric.Value](v V) BoundOption[V] {
	if !numeric.IsFinite(v) {
		panic(panicBoundNotFinite)
	}

	return func(b *bounds[V]) { b.lower = &v }
}

// WithUpperBound states that every solution entry is <= v. Panics on NaN/Inf.
func WithUpperBound[V numeric.Value](v V) BoundOption[V] {
	if !numeric.IsFinite(v) {
		panic(panicBoundNotFinite)
	}

	return func(b *bounds[V]) { b.upper = &v }
}

// gatherBounds applies opts; nil options are skipped.
func gatherBounds[V numeric.Value](opts ...BoundOption[V]) bounds[V] {
	var b bounds[V]
	for _, opt := range opts {
		if opt != nil {
			opt(&b)
		}
	}

	return b
}

// valid reports whether lower <= upper when both are known.
func (b bounds[V]) valid() bool {
	return b.lower == nil || b.upper == nil || *b.lower <= *b.upper
}
