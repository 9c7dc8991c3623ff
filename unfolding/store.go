// SPDX-License-Identifier: MIT

package unfolding

import (
	"fmt"

	"github.com/bits-and-blooms/bitset"

	"github.com/katalvlaran/epochcheck/numeric"
	"github.com/katalvlaran/epochcheck/vector"
)

// Store keeps the entry-state result of every solved epoch. A result vector
// lists values in ascending state order, so a state's value sits at its
// rank within the epoch's entry states.
type Store[V numeric.Value] struct {
	results  map[EpochID][]V
	inStates map[EpochID]*bitset.BitSet
	solved   []EpochID
	runID    string
}

// NewStore returns an empty store.
func NewStore[V numeric.Value]() *Store[V] {
	return &Store[V]{
		results:  make(map[EpochID][]V),
		inStates: make(map[EpochID]*bitset.BitSet),
	}
}

// Put records the result of id; inStates is copied. A repeated id
// replaces the earlier result.
func (s *Store[V]) Put(id EpochID, result []V, inStates *bitset.BitSet) {
	if _, seen := s.results[id]; !seen {
		s.solved = append(s.solved, id)
	}
	s.results[id] = result
	if inStates == nil {
		inStates = bitset.New(0)
	}
	s.inStates[id] = inStates.Clone()
}

// Result returns the stored vector of id.
func (s *Store[V]) Result(id EpochID) ([]V, bool) {
	r, ok := s.results[id]

	return r, ok
}

// Solved lists the stored epochs in the order they were first put.
func (s *Store[V]) Solved() []EpochID { return append([]EpochID(nil), s.solved...) }

// RunID identifies the Driver.Run that filled the store; empty otherwise.
func (s *Store[V]) RunID() string { return s.runID }

// Len is the number of stored epochs.
func (s *Store[V]) Len() int { return len(s.results) }

// Value returns the value of state in epoch id.
//
// Errors: ErrNotSolved if id is unknown or state is not an entry state.
// Complexity: O(state/64).
func (s *Store[V]) Value(id EpochID, state int) (V, error) {
	var zero V
	res, ok := s.results[id]
	if !ok {
		return zero, unfoldingErrorf(opValue, fmt.Errorf("epoch %q: %w", id, ErrNotSolved))
	}
	pos, ok := vector.Rank(s.inStates[id], state)
	if !ok || pos >= len(res) {
		return zero, unfoldingErrorf(opValue, fmt.Errorf("epoch %q state %d: %w", id, state, ErrNotSolved))
	}

	return res[pos], nil
}

// StepSolution is weight · Value(id, state): the contribution of a choice
// that moves into state of epoch id with probability weight.
func (s *Store[V]) StepSolution(weight V, id EpochID, state int) (V, error) {
	v, err := s.Value(id, state)
	if err != nil {
		return v, err
	}

	return weight * v, nil
}
