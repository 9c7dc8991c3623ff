// SPDX-License-Identifier: MIT

// Package solver: numeric environment (methods, precision, iteration cap).
// This file defines:
//   - documented defaults (constants, single source of truth),
//   - EnvOption constructors with strong validation (panic on nonsensical values),
//   - YAML loading on top of the defaults.
package solver

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// LinearMethod names a deterministic solving method.
type LinearMethod string

// Linear methods.
const (
	// LinearPower iterates x ← Ax + b (fixed-point format).
	LinearPower LinearMethod = "power"

	// LinearJacobi iterates on the diagonal split of I − A (equation format).
	LinearJacobi LinearMethod = "jacobi"

	// LinearLU factorizes I − A densely with gonum (equation format).
	LinearLU LinearMethod = "lu"

	// LinearInterval iterates from both bounds until they meet (fixed-point, sound).
	LinearInterval LinearMethod = "interval"
)

// MinMaxMethod names a nondeterministic solving method.
type MinMaxMethod string

// Min/max methods.
const (
	// MinMaxValueIteration iterates the Bellman operator.
	MinMaxValueIteration MinMaxMethod = "value-iteration"

	// MinMaxPolicyIteration alternates exact policy evaluation and strict improvement.
	MinMaxPolicyIteration MinMaxMethod = "policy-iteration"

	// MinMaxIntervalIteration iterates from both bounds (sound).
	MinMaxIntervalIteration MinMaxMethod = "interval-iteration"
)

// Defaults.
const (
	DefaultLinearMethod  = LinearPower
	DefaultMinMaxMethod  = MinMaxValueIteration
	DefaultPrecision     = 1e-6
	DefaultRelative      = false
	DefaultMaxIterations = 100000
)

const (
	panicPrecisionInvalid = "solver: WithPrecision: precision must be finite and > 0"
	panicMaxIterInvalid   = "solver: WithMaxIterations: iterations must be > 0"
	panicLinearMethod     = "solver: WithLinearMethod: unknown method"
	panicMinMaxMethod     = "solver: WithMinMaxMethod: unknown method"
)

// Environment carries the numeric configuration shared by solver factories.
// Exported fields are YAML-decodable; the logger is injected via WithLogger.
type Environment struct {
	LinearMethod  LinearMethod `yaml:"linear_method"`
	MinMaxMethod  MinMaxMethod `yaml:"minmax_method"`
	Precision     float64      `yaml:"precision"`
	Relative      bool         `yaml:"relative"`
	MaxIterations int          `yaml:"max_iterations"`

	logger *zap.Logger
}

// EnvOption mutates an Environment.
type EnvOption func(*Environment)

// DefaultEnvironment returns the documented defaults with a no-op logger.
func DefaultEnvironment() Environment {
	return Environment{
		LinearMethod:  DefaultLinearMethod,
		MinMaxMethod:  DefaultMinMaxMethod,
		Precision:     DefaultPrecision,
		Relative:      DefaultRelative,
		MaxIterations: DefaultMaxIterations,
	}
}

// NewEnvironment applies opts over DefaultEnvironment.
func NewEnvironment(opts ...EnvOption) Environment {
	env := DefaultEnvironment()
	for _, opt := range opts {
		if opt != nil {
			opt(&env)
		}
	}

	return env
}

// WithLinearMethod selects the deterministic method. Panics on unknown names.
func WithLinearMethod(m LinearMethod) EnvOption {
	if !m.valid() {
		panic(panicLinearMethod)
	}

	return func(e *Environment) { e.LinearMethod = m }
}

// WithMinMaxMethod selects the nondeterministic method. Panics on unknown names.
func WithMinMaxMethod(m MinMaxMethod) EnvOption {
	if !m.valid() {
		panic(panicMinMaxMethod)
	}

	return func(e *Environment) { e.MinMaxMethod = m }
}

// WithPrecision sets the convergence threshold. Panics unless finite and > 0.
func WithPrecision(p float64) EnvOption {
	if math.IsNaN(p) || math.IsInf(p, 0) || p <= 0 {
		panic(panicPrecisionInvalid)
	}

	return func(e *Environment) { e.Precision = p }
}

// WithRelative switches convergence checks to relative precision.
func WithRelative() EnvOption {
	return func(e *Environment) { e.Relative = true }
}

// WithMaxIterations caps iterative methods. Panics unless > 0.
func WithMaxIterations(n int) EnvOption {
	if n <= 0 {
		panic(panicMaxIterInvalid)
	}

	return func(e *Environment) { e.MaxIterations = n }
}

// WithLogger injects a structured logger; nil keeps the no-op logger.
func WithLogger(l *zap.Logger) EnvOption {
	return func(e *Environment) { e.logger = l }
}

// Logger returns the configured logger or a no-op logger.
func (e Environment) Logger() *zap.Logger {
	if e.logger == nil {
		return zap.NewNop()
	}

	return e.logger
}

// Validate checks the decoded or constructed values.
func (e Environment) Validate() error {
	if !e.LinearMethod.valid() {
		return fmt.Errorf("linear method %q: %w", e.LinearMethod, ErrUnknownMethod)
	}
	if !e.MinMaxMethod.valid() {
		return fmt.Errorf("min/max method %q: %w", e.MinMaxMethod, ErrUnknownMethod)
	}
	if math.IsNaN(e.Precision) || math.IsInf(e.Precision, 0) || e.Precision <= 0 {
		return fmt.Errorf("precision %g: %w", e.Precision, ErrInvalidEnvironment)
	}
	if e.MaxIterations <= 0 {
		return fmt.Errorf("max iterations %d: %w", e.MaxIterations, ErrInvalidEnvironment)
	}

	return nil
}

// LoadEnvironment decodes YAML from r on top of the defaults, then applies
// opts (e.g. WithLogger). Unknown keys are rejected; an empty document
// yields the defaults.
//
// Example document:
//
//	linear_method: lu
//	minmax_method: policy-iteration
//	precision: 1e-8
//	relative: true
//	max_iterations: 5000
func LoadEnvironment(r io.Reader, opts ...EnvOption) (Environment, error) {
	env := DefaultEnvironment()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&env); err != nil && !errors.Is(err, io.EOF) {
		return Environment{}, solverErrorf(opLoad, err)
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&env)
		}
	}
	if err := env.Validate(); err != nil {
		return Environment{}, solverErrorf(opLoad, err)
	}

	return env, nil
}

// ParseEnvironment is LoadEnvironment over an in-memory document.
func ParseEnvironment(data []byte, opts ...EnvOption) (Environment, error) {
	return LoadEnvironment(bytes.NewReader(data), opts...)
}

// YAML encodes the exported settings (the logger is not serialized).
func (e Environment) YAML() ([]byte, error) {
	return yaml.Marshal(e)
}

func (m LinearMethod) valid() bool {
	switch m {
	case LinearPower, LinearJacobi, LinearLU, LinearInterval:
		return true
	}

	return false
}

func (m MinMaxMethod) valid() bool {
	switch m {
	case MinMaxValueIteration, MinMaxPolicyIteration, MinMaxIntervalIteration:
		return true
	}

	return false
}
