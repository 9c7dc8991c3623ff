// SPDX-License-Identifier: MIT

package solver

import "strings"

// RequirementLevel states whether a solver needs something and how badly.
type RequirementLevel int

const (
	// Disabled: not needed.
	Disabled RequirementLevel = iota

	// Enabled: helps (speed, precision) but correctness does not depend on it.
	Enabled

	// Critical: without it the solver cannot guarantee a correct result.
	Critical
)

// RequirementSet is the list of preconditions a solver asks of its caller.
// The zero value requires nothing.
type RequirementSet struct {
	lowerBounds           RequirementLevel
	upperBounds           RequirementLevel
	validInitialScheduler RequirementLevel
}

// requireLevel maps a critical flag to a level.
func requireLevel(critical bool) RequirementLevel {
	if critical {
		return Critical
	}

	return Enabled
}

// RequireLowerBounds asks for an a priori lower bound on the solution.
func (r *RequirementSet) RequireLowerBounds(critical bool) { r.lowerBounds = requireLevel(critical) }

// RequireUpperBounds asks for an a priori upper bound on the solution.
func (r *RequirementSet) RequireUpperBounds(critical bool) { r.upperBounds = requireLevel(critical) }

// RequireBounds asks for both bounds.
func (r *RequirementSet) RequireBounds(critical bool) {
	r.RequireLowerBounds(critical)
	r.RequireUpperBounds(critical)
}

// RequireValidInitialScheduler asks for a scheduler under which the
// induced system has a unique solution.
func (r *RequirementSet) RequireValidInitialScheduler(critical bool) {
	r.validInitialScheduler = requireLevel(critical)
}

// ClearLowerBounds marks the lower-bound requirement as satisfied.
func (r *RequirementSet) ClearLowerBounds() { r.lowerBounds = Disabled }

// ClearUpperBounds marks the upper-bound requirement as satisfied.
func (r *RequirementSet) ClearUpperBounds() { r.upperBounds = Disabled }

// ClearValidInitialScheduler marks the scheduler requirement as satisfied.
func (r *RequirementSet) ClearValidInitialScheduler() { r.validInitialScheduler = Disabled }

// LowerBounds returns the lower-bound level.
func (r RequirementSet) LowerBounds() RequirementLevel { return r.lowerBounds }

// UpperBounds returns the upper-bound level.
func (r RequirementSet) UpperBounds() RequirementLevel { return r.upperBounds }

// ValidInitialScheduler returns the initial-scheduler level.
func (r RequirementSet) ValidInitialScheduler() RequirementLevel { return r.validInitialScheduler }

// HasEnabledRequirement reports whether anything is still required.
func (r RequirementSet) HasEnabledRequirement() bool {
	return r.lowerBounds != Disabled || r.upperBounds != Disabled || r.validInitialScheduler != Disabled
}

// HasEnabledCriticalRequirement reports whether a critical requirement remains.
func (r RequirementSet) HasEnabledCriticalRequirement() bool {
	return r.lowerBounds == Critical || r.upperBounds == Critical || r.validInitialScheduler == Critical
}

// String lists the enabled requirements, e.g. "[lower bounds (critical), upper bounds]".
func (r RequirementSet) String() string {
	var parts []string
	add := func(name string, level RequirementLevel) {
		switch level {
		case Critical:
			parts = append(parts, name+" (critical)")
		case Enabled:
			parts = append(parts, name)
		}
	}
	add("lower bounds", r.lowerBounds)
	add("upper bounds", r.upperBounds)
	add("valid initial scheduler", r.validInitialScheduler)

	return "[" + strings.Join(parts, ", ") + "]"
}
