package domain

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// AppointmentStatus represents the lifecycle status of an appointment
type AppointmentStatus string

const (
	StatusDraft                 AppointmentStatus = "draft"
	StatusProposed              AppointmentStatus = "proposed"
	StatusAwaitingOperator      AppointmentStatus = "awaiting_operator"
	StatusConfirmed             AppointmentStatus = "confirmed"
	StatusConfirmedWithOverride AppointmentStatus = "confirmed_with_override"
	StatusRejected              AppointmentStatus = "rejected"
	StatusCompleted             AppointmentStatus = "completed"
	StatusCancelled             AppointmentStatus = "cancelled"
)

// Appointment represents a booking moving through the lifecycle.
//
// Date and StartTime are naive wall-clock values: the date carries no time
// component and StartTime is an "HH:MM" string. They are never shifted
// through UTC; all interval arithmetic happens in this naive domain.
type Appointment struct {
	ID              string
	ClientID        int64
	OperatorID      int64
	ServiceID       int64
	Date            time.Time // date only, time component is zero
	StartTime       types.TimeString
	DurationMinutes int
	Note            *string
	Status          AppointmentStatus

	// LastValidation is the persisted snapshot of the most recent validation
	// run. The override path checks its ignored warning kinds against this
	// snapshot, so it must survive between propose and confirm calls.
	LastValidation *ValidationStamp

	// Override is set if and only if Status is StatusConfirmedWithOverride
	Override *OverrideInfo

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ValidationStamp is what the engine persists about a validation run:
// enough to gate a later override, nothing more. Full messages stay
// transient in ValidationResult.
type ValidationStamp struct {
	At           time.Time
	Blocked      bool
	WarningKinds []string
}

// EndTime returns the end of the appointment interval [start, start+duration)
func (a *Appointment) EndTime() (types.TimeString, error) {
	return a.StartTime.AddMinutes(a.DurationMinutes)
}

// IsTerminal returns true if no further transition is legal from this status
func (a *Appointment) IsTerminal() bool {
	return a.Status == StatusRejected ||
		a.Status == StatusCompleted ||
		a.Status == StatusCancelled
}

// Occupies returns true if the appointment occupies its operator's time slot.
// Rejected and cancelled appointments free their slot immediately.
func (a *Appointment) Occupies() bool {
	return a.Status != StatusRejected && a.Status != StatusCancelled
}

// CanBeCancelled returns true if the appointment can still be cancelled
func (a *Appointment) CanBeCancelled() bool {
	switch a.Status {
	case StatusDraft, StatusProposed, StatusConfirmed, StatusConfirmedWithOverride:
		return true
	default:
		return false
	}
}

// IsConfirmed returns true for both confirmation statuses
func (a *Appointment) IsConfirmed() bool {
	return a.Status == StatusConfirmed || a.Status == StatusConfirmedWithOverride
}

// IsDue reports whether the appointment interval has fully elapsed at now.
// The comparison is done in the naive wall-clock domain of the appointment.
func (a *Appointment) IsDue(now time.Time) (bool, error) {
	end, err := a.EndTime()
	if err != nil {
		return false, err
	}
	endMinutes, err := end.Minutes()
	if err != nil {
		return false, err
	}

	endInstant := time.Date(a.Date.Year(), a.Date.Month(), a.Date.Day(), 0, 0, 0, 0, now.Location()).
		Add(time.Duration(endMinutes) * time.Minute)
	return !endInstant.After(now), nil
}

// OperatorAppointmentsFilter фильтр для получения записей оператора
type OperatorAppointmentsFilter struct {
	OperatorID      int64              // Обязательный параметр
	StartDate       *time.Time         // Начало периода (опционально)
	EndDate         *time.Time         // Конец периода (опционально)
	Status          *AppointmentStatus // Фильтр по статусу (опционально)
	IncludeReleased bool               // Включать ли отклонённые и отменённые записи
}
