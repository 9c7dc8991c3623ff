// SPDX-License-Identifier: MIT

package unfolding

import (
	"github.com/katalvlaran/epochcheck/epoch"
	"github.com/katalvlaran/epochcheck/numeric"
)

// EpochID identifies an epoch, e.g. its remaining budgets rendered as "3,1".
type EpochID string

// Source describes one epoch of the sequence.
type Source[V numeric.Value] interface {
	// ID is unique within a run.
	ID() EpochID

	// DependsOn lists the epochs this one steps into; they are solved first.
	DependsOn() []EpochID

	// Build produces the epoch's model. store holds every dependency.
	Build(store *Store[V]) (*epoch.EpochModel[V], error)
}

// ChangeReporter is implemented by sources that set EpochMatrixChanged
// themselves; the driver then leaves the flag alone.
type ChangeReporter interface {
	ReportsMatrixChange() bool
}

// Epoch is a ready-made Source backed by a build function.
type Epoch[V numeric.Value] struct {
	Key       EpochID
	Deps      []EpochID
	BuildFunc func(store *Store[V]) (*epoch.EpochModel[V], error)
}

// ID implements Source.
func (e *Epoch[V]) ID() EpochID { return e.Key }

// DependsOn implements Source.
func (e *Epoch[V]) DependsOn() []EpochID { return e.Deps }

// Build implements Source.
func (e *Epoch[V]) Build(store *Store[V]) (*epoch.EpochModel[V], error) {
	if e.BuildFunc == nil {
		return nil, ErrNilSource
	}

	return e.BuildFunc(store)
}
