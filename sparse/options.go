// SPDX-License-Identifier: MIT

// Package sparse: functional configuration for Builder.
//
// Design goals:
//   - No global state; every Builder resolves its own Options.
//   - Option constructors panic only on nonsensical values (programmer error).
package sparse

// Defaults (single source of truth for zero-value behavior).
const (
	// DefaultRowGrouping: false ⇒ one row per group (deterministic model).
	DefaultRowGrouping = false

	// DefaultDropZeros: false ⇒ explicit zeros are stored as entries.
	DefaultDropZeros = false

	// DefaultValidateNaNInf rejects NaN/±Inf entries on AddEntry.
	DefaultValidateNaNInf = true
)

const (
	panicNegativeDimensions = "sparse: WithForceDimensions: rows and cols must be >= 0"
)

// Option mutates builder Options.
type Option func(*Options)

// Options stores the effective builder configuration.
type Options struct {
	rows, cols     int  // forced minimum dimensions (0 = derive from entries)
	rowGrouping    bool // custom row groups via NewRowGroup
	dropZeros      bool // skip explicit zero entries
	validateNaNInf bool // reject NaN/±Inf values
}

// WithForceDimensions fixes the minimum row and column count.
// Needed for matrices whose trailing rows have no entries (e.g. an epoch
// whose matrix is empty but still has states).
// Panics on negative values.
func WithForceDimensions(rows, cols int) Option {
	if rows < 0 || cols < 0 {
		panic(panicNegativeDimensions)
	}

	return func(o *Options) { o.rows, o.cols = rows, cols }
}

// WithRowGrouping enables custom row groups declared through NewRowGroup.
func WithRowGrouping() Option {
	return func(o *Options) { o.rowGrouping = true }
}

// WithDropZeros skips explicit zero values instead of storing them.
func WithDropZeros() Option {
	return func(o *Options) { o.dropZeros = true }
}

// WithNoValidateNaNInf disables NaN/Inf rejection (use with care).
func WithNoValidateNaNInf() Option {
	return func(o *Options) { o.validateNaNInf = false }
}

// defaultOptions returns the documented defaults.
func defaultOptions() Options {
	return Options{
		rowGrouping:    DefaultRowGrouping,
		dropZeros:      DefaultDropZeros,
		validateNaNInf: DefaultValidateNaNInf,
	}
}

// gatherOptions applies opts over the defaults in order (last write wins).
func gatherOptions(opts ...Option) Options {
	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	return o
}
