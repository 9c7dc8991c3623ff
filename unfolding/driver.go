// SPDX-License-Identifier: MIT

package unfolding

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/katalvlaran/epochcheck/epoch"
	"github.com/katalvlaran/epochcheck/numeric"
	"github.com/katalvlaran/epochcheck/solver"
	"github.com/katalvlaran/epochcheck/sparse"
)

// Driver runs epoch sequences through one persistent solver cache.
// A Driver is not safe for concurrent use; independent objectives need
// independent drivers (and caches).
type Driver[V numeric.Value] struct {
	linear *epoch.LinearCache[V]
	minmax *epoch.MinMaxCache[V]
	dir    solver.OptimizationDirection
	log    *zap.Logger
	bounds []epoch.BoundOption[V]
}

// NewDeterministic returns a driver for DTMC epochs.
func NewDeterministic[V numeric.Value](cache *epoch.LinearCache[V], opts ...Option[V]) *Driver[V] {
	d := &Driver[V]{linear: cache, log: zap.NewNop()}
	d.apply(opts)

	return d
}

// NewNonDeterministic returns a driver for MDP epochs optimizing in dir.
func NewNonDeterministic[V numeric.Value](dir solver.OptimizationDirection, cache *epoch.MinMaxCache[V], opts ...Option[V]) *Driver[V] {
	d := &Driver[V]{minmax: cache, dir: dir, log: zap.NewNop()}
	d.apply(opts)

	return d
}

func (d *Driver[V]) apply(opts []Option[V]) {
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
}

// Run orders sources, then builds, analyzes and stores every epoch. On
// error the store holds the epochs solved so far. Every run gets a fresh
// ID (Store.RunID) that tags its log lines.
//
// Errors: ordering errors, ErrNilSource, ErrNilCache, Build errors,
// analyzer errors (wrapped with the epoch ID) and ctx.Err().
func (d *Driver[V]) Run(ctx context.Context, sources []Source[V]) (*Store[V], error) {
	store := NewStore[V]()
	store.runID = uuid.NewString()
	log := d.log.With(zap.String("run", store.runID))
	if d.linear == nil && d.minmax == nil {
		return store, unfoldingErrorf(opRun, ErrNilCache)
	}
	ordered, err := Order(sources, WithCancelContext(ctx))
	if err != nil {
		return store, err
	}

	var prev *sparse.Matrix[V]
	for _, src := range ordered {
		// Stage 1: cancellation between epochs
		if err := ctx.Err(); err != nil {
			return store, unfoldingErrorf(opRun, err)
		}
		start := time.Now()
		id := src.ID()

		// Stage 2: build against earlier results
		model, err := src.Build(store)
		if err != nil {
			return store, unfoldingErrorf(opRun, fmt.Errorf("epoch %q: build: %w", id, err))
		}
		if model == nil || model.EpochMatrix == nil {
			return store, unfoldingErrorf(opRun, fmt.Errorf("epoch %q: %w", id, ErrNilSource))
		}
		if cr, ok := src.(ChangeReporter); !ok || !cr.ReportsMatrixChange() {
			model.EpochMatrixChanged = !model.EpochMatrix.Equal(prev)
		}

		// Stage 3: analyze
		kind, result, err := d.analyze(model)
		if err != nil {
			log.Error("epoch failed", zap.String("epoch", string(id)), zap.Error(err))

			return store, unfoldingErrorf(opRun, fmt.Errorf("epoch %q: %w", id, err))
		}

		// Stage 4: store
		store.Put(id, result, model.EpochInStates)
		prev = model.EpochMatrix
		log.Info("epoch solved",
			zap.String("epoch", string(id)),
			zap.Stringer("kind", kind),
			zap.Bool("matrixChanged", model.EpochMatrixChanged),
			zap.Int("states", len(result)),
			zap.Duration("elapsed", time.Since(start)))
	}

	return store, nil
}

// analyze dispatches on the driver flavor.
func (d *Driver[V]) analyze(m *epoch.EpochModel[V]) (epoch.Kind, []V, error) {
	if d.linear != nil {
		res, err := m.AnalyzeSingleObjective(d.linear, d.bounds...)
		if err != nil {
			return 0, nil, err
		}
		kind, _ := m.DeterministicKind()

		return kind, res, nil
	}
	res, err := m.AnalyzeSingleObjectiveMinMax(d.dir, d.minmax, d.bounds...)

	return m.NonDeterministicKind(), res, err
}
