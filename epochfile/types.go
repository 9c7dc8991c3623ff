// SPDX-License-Identifier: MIT

package epochfile

import (
	"sort"

	"github.com/katalvlaran/epochcheck/solver"
)

// Model kinds.
const (
	KindDTMC = "dtmc"
	KindMDP  = "mdp"
)

// Document is the top-level YAML object.
type Document struct {
	// Kind is "dtmc" or "mdp".
	Kind string `yaml:"kind"`

	// Direction is "minimize" or "maximize"; MDP only, default maximize.
	Direction string `yaml:"direction,omitempty"`

	// LowerBound and UpperBound are optional a priori solution bounds,
	// given together or not at all.
	LowerBound *float64 `yaml:"lower_bound,omitempty"`
	UpperBound *float64 `yaml:"upper_bound,omitempty"`

	Epochs []Epoch `yaml:"epochs"`
}

// Epoch describes one epoch. Choices are numbered globally in state order:
// state s owns the Choices[s] rows following those of states 0..s-1.
type Epoch struct {
	ID string `yaml:"id"`

	// States is the state count of a DTMC epoch (one choice each).
	States int `yaml:"states,omitempty"`

	// Choices holds the choice count per state of an MDP epoch.
	Choices []int `yaml:"choices,omitempty"`

	Transitions []Transition `yaml:"transitions,omitempty"`

	// Rewards maps a choice to its reward; unlisted choices earn nothing.
	Rewards map[int]float64 `yaml:"rewards,omitempty"`

	// Entry lists the states whose values are reported.
	Entry []int `yaml:"entry"`

	Steps []Step `yaml:"steps,omitempty"`
}

// Transition is an in-epoch move of probability P from a choice to a state.
type Transition struct {
	Choice int     `yaml:"choice"`
	To     int     `yaml:"to"`
	P      float64 `yaml:"p"`
}

// Step is a move of probability P from a choice into State of epoch Epoch.
type Step struct {
	Choice int     `yaml:"choice"`
	Epoch  string  `yaml:"epoch"`
	State  int     `yaml:"state"`
	P      float64 `yaml:"p"`
}

// OptimizationDirection returns the decoded direction (maximize if unset).
func (d *Document) OptimizationDirection() solver.OptimizationDirection {
	if d.Direction == "minimize" {
		return solver.Minimize
	}

	return solver.Maximize
}

// Bounds reports the a priori bounds, if the document has them.
func (d *Document) Bounds() (lower, upper float64, ok bool) {
	if d.LowerBound == nil || d.UpperBound == nil {
		return 0, 0, false
	}

	return *d.LowerBound, *d.UpperBound, true
}

// EntryStates returns the entry states of epoch id in ascending order,
// matching the layout of its result vector.
func (d *Document) EntryStates(id string) ([]int, bool) {
	for i := range d.Epochs {
		if d.Epochs[i].ID == id {
			states := append([]int(nil), d.Epochs[i].Entry...)
			sort.Ints(states)

			return states, true
		}
	}

	return nil, false
}

// choiceCounts returns the rows per state for either model kind.
func (e *Epoch) choiceCounts() []int {
	if len(e.Choices) > 0 {
		return e.Choices
	}
	counts := make([]int, e.States)
	for i := range counts {
		counts[i] = 1
	}

	return counts
}
