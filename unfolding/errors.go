// SPDX-License-Identifier: MIT

package unfolding

import (
	"errors"
	"fmt"
)

var (
	// ErrCyclicDependency indicates epochs that depend on each other.
	ErrCyclicDependency = errors.New("unfolding: cyclic epoch dependency")

	// ErrUnknownEpoch indicates a dependency on an epoch that has no source.
	ErrUnknownEpoch = errors.New("unfolding: unknown epoch")

	// ErrDuplicateEpoch indicates two sources sharing one ID.
	ErrDuplicateEpoch = errors.New("unfolding: duplicate epoch")

	// ErrNilSource indicates a nil Source or a Build returning no model.
	ErrNilSource = errors.New("unfolding: nil source or model")

	// ErrNotSolved indicates a lookup of an epoch or state without a result.
	ErrNotSolved = errors.New("unfolding: result not available")

	// ErrNilCache is returned by Run on a driver without a solver cache.
	ErrNilCache = errors.New("unfolding: nil solver cache")
)

// Operation tags.
const (
	opOrder = "Order"
	opRun   = "Run"
	opValue = "Value"
)

// unfoldingErrorf wraps err with an operation tag. Use only when err != nil.
func unfoldingErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}
