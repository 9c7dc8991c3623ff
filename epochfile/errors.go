// SPDX-License-Identifier: MIT

package epochfile

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidDocument indicates a document that decodes but describes
	// no valid epoch sequence.
	ErrInvalidDocument = errors.New("epochfile: invalid document")
)

// Operation tags.
const (
	opParse   = "Parse"
	opSources = "Sources"
	opBuild   = "Build"
)

func epochfileErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// invalidf formats a validation failure matching ErrInvalidDocument.
func invalidf(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrInvalidDocument)
}
