// SPDX-License-Identifier: MIT
// Package unfolding - dependency ordering.
//
// Order runs a three-color DFS over the "steps into" relation and records
// epochs in post-order, so every epoch comes after all epochs it depends
// on. Sources are visited in input order and dependencies in listed order,
// which makes the result deterministic.
//
// Complexity:
//   - Time:   O(E + D) for E epochs and D dependency edges
//   - Memory: O(E) (recursion stack and color map)

package unfolding

import (
	"context"
	"fmt"

	"github.com/katalvlaran/epochcheck/numeric"
)

// visit colors.
const (
	white = iota // not reached
	gray         // on the DFS stack
	black        // finished, already in the order
)

// OrderOption configures Order.
type OrderOption func(*orderOptions)

type orderOptions struct {
	ctx context.Context
}

func defaultOrderOptions() orderOptions {
	return orderOptions{ctx: context.Background()}
}

// WithCancelContext makes Order abort once ctx is done. A nil ctx has no effect.
func WithCancelContext(ctx context.Context) OrderOption {
	return func(o *orderOptions) {
		if ctx != nil {
			o.ctx = ctx
		}
	}
}

// orderer holds the traversal state of one Order call.
type orderer[V numeric.Value] struct {
	opts    orderOptions
	byID    map[EpochID]Source[V]
	color   map[EpochID]int
	ordered []Source[V]
}

// Order returns sources sorted so that dependencies precede dependents.
//
// Errors:
//   - ErrNilSource for a nil entry;
//   - ErrDuplicateEpoch when two sources share an ID;
//   - ErrUnknownEpoch for a dependency without a source;
//   - ErrCyclicDependency when epochs depend on each other (self included);
//   - the context error when cancelled.
func Order[V numeric.Value](sources []Source[V], opts ...OrderOption) ([]Source[V], error) {
	// 1. Options
	o := defaultOrderOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	// 2. Index sources by ID
	byID := make(map[EpochID]Source[V], len(sources))
	for i, src := range sources {
		if src == nil {
			return nil, unfoldingErrorf(opOrder, fmt.Errorf("source %d: %w", i, ErrNilSource))
		}
		if _, dup := byID[src.ID()]; dup {
			return nil, unfoldingErrorf(opOrder, fmt.Errorf("%q: %w", src.ID(), ErrDuplicateEpoch))
		}
		byID[src.ID()] = src
	}

	// 3. DFS from every unvisited source, in input order
	ord := &orderer[V]{
		opts:    o,
		byID:    byID,
		color:   make(map[EpochID]int, len(sources)),
		ordered: make([]Source[V], 0, len(sources)),
	}
	for _, src := range sources {
		if ord.color[src.ID()] == white {
			if err := ord.visit(src.ID()); err != nil {
				return nil, unfoldingErrorf(opOrder, err)
			}
		}
	}

	return ord.ordered, nil
}

// visit finishes every dependency of id before appending id itself.
func (o *orderer[V]) visit(id EpochID) error {
	// 1. Cancellation
	select {
	case <-o.opts.ctx.Done():
		return o.opts.ctx.Err()
	default:
	}

	// 2. Colors: gray means a back edge
	switch o.color[id] {
	case gray:
		return fmt.Errorf("at %q: %w", id, ErrCyclicDependency)
	case black:
		return nil
	}
	src, ok := o.byID[id]
	if !ok {
		return fmt.Errorf("%q: %w", id, ErrUnknownEpoch)
	}
	o.color[id] = gray

	// 3. Dependencies first
	for _, dep := range src.DependsOn() {
		if err := o.visit(dep); err != nil {
			return err
		}
	}

	// 4. Finish
	o.color[id] = black
	o.ordered = append(o.ordered, src)

	return nil
}
