// Package epochfile decodes YAML descriptions of explicit epoch sequences
// and turns them into unfolding sources.
//
// A document lists every epoch with its in-epoch transitions (fixed-point
// form, one row per choice), per-choice rewards, entry states and the
// steps that leave the epoch. Steps name a target epoch and state; their
// weights are folded into step solutions from the unfolding store.
//
//	kind: mdp
//	direction: maximize
//	epochs:
//	  - id: "0"
//	    choices: [2]
//	    transitions: [{choice: 0, to: 0, p: 0.5}]
//	    rewards: {0: 1, 1: 1}
//	    entry: [0]
//	  - id: "1"
//	    choices: [2]
//	    transitions: [{choice: 0, to: 0, p: 0.5}]
//	    rewards: {0: 1, 1: 1}
//	    entry: [0]
//	    steps: [{choice: 1, epoch: "0", state: 0, p: 1}]
//
// DTMC documents give "states" instead of "choices" (one choice per state).
// Decoding never builds matrices; Sources defers that to each Build call.
package epochfile
