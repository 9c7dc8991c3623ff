// SPDX-License-Identifier: MIT

package epochfile

import (
	"bytes"
	"errors"
	"io"
	"math"

	"gopkg.in/yaml.v3"
)

// probabilitySlack absorbs rounding in hand-written probabilities.
const probabilitySlack = 1e-9

// Load decodes and validates a document from r. Unknown keys are rejected.
//
// Errors: YAML syntax errors, ErrInvalidDocument.
func Load(r io.Reader) (*Document, error) {
	var doc Document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, epochfileErrorf(opParse, invalidf("empty document"))
		}

		return nil, epochfileErrorf(opParse, err)
	}
	if err := doc.Validate(); err != nil {
		return nil, epochfileErrorf(opParse, err)
	}

	return &doc, nil
}

// Parse is Load over an in-memory document.
func Parse(data []byte) (*Document, error) {
	return Load(bytes.NewReader(data))
}

// Validate checks the document shape. Dependencies between epochs (unknown
// targets, cycles) are left to unfolding.Order.
func (d *Document) Validate() error {
	// Stage 1: header
	switch d.Kind {
	case KindDTMC:
		if d.Direction != "" {
			return invalidf("direction %q on a dtmc", d.Direction)
		}
	case KindMDP:
		if d.Direction != "" && d.Direction != "minimize" && d.Direction != "maximize" {
			return invalidf("direction %q", d.Direction)
		}
	default:
		return invalidf("kind %q", d.Kind)
	}
	if (d.LowerBound != nil && !finite(*d.LowerBound)) || (d.UpperBound != nil && !finite(*d.UpperBound)) {
		return invalidf("bounds must be finite")
	}
	if (d.LowerBound == nil) != (d.UpperBound == nil) {
		return invalidf("lower_bound and upper_bound go together")
	}
	if d.LowerBound != nil && *d.LowerBound > *d.UpperBound {
		return invalidf("lower bound %g above upper bound %g", *d.LowerBound, *d.UpperBound)
	}
	if len(d.Epochs) == 0 {
		return invalidf("no epochs")
	}

	// Stage 2: epochs
	seen := make(map[string]struct{}, len(d.Epochs))
	for i := range d.Epochs {
		e := &d.Epochs[i]
		if e.ID == "" {
			return invalidf("epoch %d without id", i)
		}
		if _, dup := seen[e.ID]; dup {
			return invalidf("epoch %q declared twice", e.ID)
		}
		seen[e.ID] = struct{}{}
		if err := e.validate(d.Kind); err != nil {
			return err
		}
	}

	return nil
}

// validate checks one epoch against its own dimensions.
func (e *Epoch) validate(kind string) error {
	// 1. Shape
	switch kind {
	case KindDTMC:
		if len(e.Choices) > 0 {
			return invalidf("epoch %q: choices on a dtmc", e.ID)
		}
		if e.States <= 0 {
			return invalidf("epoch %q: states must be > 0", e.ID)
		}
	case KindMDP:
		if len(e.Choices) == 0 {
			return invalidf("epoch %q: choices required", e.ID)
		}
		if e.States != 0 && e.States != len(e.Choices) {
			return invalidf("epoch %q: %d states but %d choice counts", e.ID, e.States, len(e.Choices))
		}
		for s, c := range e.Choices {
			if c <= 0 {
				return invalidf("epoch %q: state %d has no choice", e.ID, s)
			}
		}
	}
	counts := e.choiceCounts()
	states, rows := len(counts), 0
	for _, c := range counts {
		rows += c
	}

	// 2. Outgoing mass per choice
	mass := make([]float64, rows)
	for _, t := range e.Transitions {
		if t.Choice < 0 || t.Choice >= rows || t.To < 0 || t.To >= states {
			return invalidf("epoch %q: transition %d→%d out of range", e.ID, t.Choice, t.To)
		}
		if !finite(t.P) || t.P <= 0 {
			return invalidf("epoch %q: transition %d→%d probability %g", e.ID, t.Choice, t.To, t.P)
		}
		mass[t.Choice] += t.P
	}
	for _, s := range e.Steps {
		if s.Choice < 0 || s.Choice >= rows || s.State < 0 || s.Epoch == "" {
			return invalidf("epoch %q: step from choice %d to %q/%d out of range", e.ID, s.Choice, s.Epoch, s.State)
		}
		if !finite(s.P) || s.P <= 0 {
			return invalidf("epoch %q: step from choice %d probability %g", e.ID, s.Choice, s.P)
		}
		mass[s.Choice] += s.P
	}
	for c, m := range mass {
		if m > 1+probabilitySlack {
			return invalidf("epoch %q: choice %d leaves with probability %g", e.ID, c, m)
		}
	}

	// 3. Rewards and entry states
	for c, r := range e.Rewards {
		if c < 0 || c >= rows || !finite(r) {
			return invalidf("epoch %q: reward %g on choice %d", e.ID, r, c)
		}
	}
	seen := make(map[int]struct{}, len(e.Entry))
	for _, s := range e.Entry {
		if s < 0 || s >= states {
			return invalidf("epoch %q: entry state %d out of range", e.ID, s)
		}
		if _, dup := seen[s]; dup {
			return invalidf("epoch %q: entry state %d listed twice", e.ID, s)
		}
		seen[s] = struct{}{}
	}

	return nil
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
