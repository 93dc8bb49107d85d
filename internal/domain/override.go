package domain

import "time"

// OverrideInfo records a forced confirmation: who pushed the appointment
// through despite warnings, when, why, and exactly which warning kinds were
// knowingly ignored. Immutable once written and attached to the appointment
// for the lifetime of the record.
type OverrideInfo struct {
	At                  time.Time
	OperatorID          int64
	Justification       *string
	IgnoredWarningKinds []string
}
