// SPDX-License-Identifier: MIT

package unfolding

import (
	"go.uber.org/zap"

	"github.com/katalvlaran/epochcheck/epoch"
	"github.com/katalvlaran/epochcheck/numeric"
)

const panicBoundsInverted = "unfolding: WithBounds: lower bound above upper bound"

// Option configures a Driver.
type Option[V numeric.Value] func(*Driver[V])

// WithLogger sets the per-epoch logger; nil keeps the no-op logger.
func WithLogger[V numeric.Value](l *zap.Logger) Option[V] {
	return func(d *Driver[V]) {
		if l != nil {
			d.log = l
		}
	}
}

// WithBounds passes a priori solution bounds to every non-trivial epoch.
// Panics if lower > upper or either bound is not finite.
func WithBounds[V numeric.Value](lower, upper V) Option[V] {
	if lower > upper {
		panic(panicBoundsInverted)
	}
	lo, hi := epoch.WithLowerBound(lower), epoch.WithUpperBound(upper)

	return func(d *Driver[V]) { d.bounds = []epoch.BoundOption[V]{lo, hi} }
}
