package domain

import "time"

// Warning kinds. Each kind is a stable identifier: it is persisted into
// OverrideInfo.IgnoredWarningKinds when an operator overrides the warning,
// so renaming a kind is a data migration, not a refactor.
const (
	WarningOutsideWorkingHours  = "OutsideWorkingHours"
	WarningHolidayDate          = "HolidayDate"
	WarningBeyondBookingHorizon = "BeyondBookingHorizon"
)

// Suggestion kinds. Suggestions are advisory only and never persisted.
const (
	SuggestionAdjacentClientBooking = "AdjacentClientBooking"
)

// Warning is an overridable validation concern with a stable kind
type Warning struct {
	Kind    string
	Message string
}

// Suggestion is a non-blocking advisory notice
type Suggestion struct {
	Kind    string
	Message string
}

// ValidationResult is the outcome of a single validation run. It is
// transient: results are never cached past their issuing call, because
// constraints may change between calls.
//
// Hard blocks are deliberately untyped strings: they can never be
// overridden, so they need no stable identifier. Warnings carry a kind
// because that kind becomes the override ledger's vocabulary.
type ValidationResult struct {
	HardBlocks  []string
	Warnings    []Warning
	Suggestions []Suggestion
}

// IsBlocked returns true if any hard block was raised
func (r *ValidationResult) IsBlocked() bool {
	return len(r.HardBlocks) > 0
}

// HasWarnings returns true if any warning was raised
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// HasSuggestions returns true if any suggestion was raised
func (r *ValidationResult) HasSuggestions() bool {
	return len(r.Suggestions) > 0
}

// WarningKinds returns the ordered list of warning kinds
func (r *ValidationResult) WarningKinds() []string {
	kinds := make([]string, 0, len(r.Warnings))
	for _, w := range r.Warnings {
		kinds = append(kinds, w.Kind)
	}
	return kinds
}

// Stamp converts the result into the snapshot persisted on the appointment
func (r *ValidationResult) Stamp(at time.Time) *ValidationStamp {
	return &ValidationStamp{
		At:           at,
		Blocked:      r.IsBlocked(),
		WarningKinds: r.WarningKinds(),
	}
}
