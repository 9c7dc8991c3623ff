// SPDX-License-Identifier: MIT

package epochfile

import (
	"fmt"
	"sort"

	"github.com/bits-and-blooms/bitset"

	"github.com/katalvlaran/epochcheck/epoch"
	"github.com/katalvlaran/epochcheck/solver"
	"github.com/katalvlaran/epochcheck/sparse"
	"github.com/katalvlaran/epochcheck/unfolding"
)

// Sources returns one unfolding source per epoch, in document order.
// DTMC matrices are produced in format; MDP matrices are always in
// fixed-point form. Each source depends on the epochs its steps target.
//
// Errors: ErrInvalidDocument if d does not validate.
func (d *Document) Sources(format solver.ProblemFormat) ([]unfolding.Source[float64], error) {
	if err := d.Validate(); err != nil {
		return nil, epochfileErrorf(opSources, err)
	}
	sources := make([]unfolding.Source[float64], 0, len(d.Epochs))
	for i := range d.Epochs {
		e := d.Epochs[i]
		b := &epochBuilder{epoch: e, mdp: d.Kind == KindMDP, format: format}
		sources = append(sources, &unfolding.Epoch[float64]{
			Key:       unfolding.EpochID(e.ID),
			Deps:      e.dependencies(),
			BuildFunc: b.build,
		})
	}

	return sources, nil
}

// dependencies lists step targets in first-appearance order.
func (e *Epoch) dependencies() []unfolding.EpochID {
	var deps []unfolding.EpochID
	seen := make(map[string]struct{})
	for _, s := range e.Steps {
		if _, ok := seen[s.Epoch]; ok {
			continue
		}
		seen[s.Epoch] = struct{}{}
		deps = append(deps, unfolding.EpochID(s.Epoch))
	}

	return deps
}

// epochBuilder turns one validated Epoch into an EpochModel.
type epochBuilder struct {
	epoch  Epoch
	mdp    bool
	format solver.ProblemFormat
}

// build assembles matrix, rewards, entry states and step solutions.
func (b *epochBuilder) build(store *unfolding.Store[float64]) (*epoch.EpochModel[float64], error) {
	e := &b.epoch
	counts := e.choiceCounts()
	rows := 0
	for _, c := range counts {
		rows += c
	}

	// Stage 1: matrix
	m, err := b.matrix(counts, rows)
	if err != nil {
		return nil, epochfileErrorf(opBuild, fmt.Errorf("epoch %q: %w", e.ID, err))
	}

	// Stage 2: rewards
	rewards := make([]float64, rows)
	filter := bitset.New(uint(rows))
	for c, r := range e.Rewards {
		rewards[c] = r
		filter.Set(uint(c))
	}
	entry := bitset.New(uint(len(counts)))
	for _, s := range e.Entry {
		entry.Set(uint(s))
	}

	// Stage 3: step solutions, summed per choice
	perChoice := make(map[int]float64)
	for _, s := range e.Steps {
		v, err := store.StepSolution(s.P, unfolding.EpochID(s.Epoch), s.State)
		if err != nil {
			return nil, epochfileErrorf(opBuild, fmt.Errorf("epoch %q: %w", e.ID, err))
		}
		perChoice[s.Choice] += v
	}
	stepChoices := make([]int, 0, len(perChoice))
	for c := range perChoice {
		stepChoices = append(stepChoices, c)
	}
	sort.Ints(stepChoices)
	stepSolutions := make([]float64, len(stepChoices))
	for i, c := range stepChoices {
		stepSolutions[i] = perChoice[c]
	}

	model := &epoch.EpochModel[float64]{
		EpochMatrix:           m,
		EpochInStates:         entry,
		ObjectiveRewards:      [][]float64{rewards},
		ObjectiveRewardFilter: []*bitset.BitSet{filter},
		StepChoices:           stepChoices,
		StepSolutions:         stepSolutions,
	}
	if !b.mdp {
		f := b.format
		model.EquationSolverProblemFormat = &f
	}

	return model, nil
}

// matrix builds the in-epoch transition matrix, merging repeated
// (choice, state) pairs.
func (b *epochBuilder) matrix(counts []int, rows int) (*sparse.Matrix[float64], error) {
	ts := append([]Transition(nil), b.epoch.Transitions...)
	sort.Slice(ts, func(i, j int) bool {
		if ts[i].Choice != ts[j].Choice {
			return ts[i].Choice < ts[j].Choice
		}

		return ts[i].To < ts[j].To
	})
	merged := ts[:0]
	for _, t := range ts {
		if n := len(merged); n > 0 && merged[n-1].Choice == t.Choice && merged[n-1].To == t.To {
			merged[n-1].P += t.P
			continue
		}
		merged = append(merged, t)
	}

	opts := []sparse.Option{sparse.WithForceDimensions(rows, len(counts))}
	if b.mdp {
		opts = append(opts, sparse.WithRowGrouping())
	}
	bld := sparse.NewBuilder[float64](opts...)
	next, start := 0, 0
	for s, c := range counts {
		if b.mdp {
			if err := bld.NewRowGroup(start); err != nil {
				return nil, err
			}
		}
		end := start + c
		for ; next < len(merged) && merged[next].Choice < end; next++ {
			if err := bld.AddEntry(merged[next].Choice, merged[next].To, merged[next].P); err != nil {
				return nil, fmt.Errorf("state %d: %w", s, err)
			}
		}
		start = end
	}
	m, err := bld.Build()
	if err != nil {
		return nil, err
	}
	if !b.mdp && b.format == solver.EquationSystem {
		return m.ConvertToEquationSystem()
	}

	return m, nil
}
