package lifecycle

import (
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// Event событие жизненного цикла записи
type Event string

const (
	EventPropose             Event = "propose"
	EventConfirmByClient     Event = "confirm_by_client"
	EventConfirmByOperator   Event = "confirm_by_operator"
	EventConfirmWithOverride Event = "confirm_with_override"
	EventReject              Event = "reject"
	EventCancel              Event = "cancel"
	EventComplete            Event = "complete"
)

// transitions canonical transition table. Re-proposing an already proposed
// appointment is legal and recomputes validation; everything not listed here
// is an invalid transition, including anything out of a terminal status.
var transitions = map[domain.AppointmentStatus]map[Event]domain.AppointmentStatus{
	domain.StatusDraft: {
		EventPropose: domain.StatusProposed,
		EventCancel:  domain.StatusCancelled,
	},
	domain.StatusProposed: {
		EventPropose:         domain.StatusProposed,
		EventConfirmByClient: domain.StatusAwaitingOperator,
		EventCancel:          domain.StatusCancelled,
	},
	domain.StatusAwaitingOperator: {
		EventConfirmByOperator:   domain.StatusConfirmed,
		EventConfirmWithOverride: domain.StatusConfirmedWithOverride,
		EventReject:              domain.StatusRejected,
	},
	domain.StatusConfirmed: {
		EventCancel:   domain.StatusCancelled,
		EventComplete: domain.StatusCompleted,
	},
	domain.StatusConfirmedWithOverride: {
		EventCancel:   domain.StatusCancelled,
		EventComplete: domain.StatusCompleted,
	},
	// Терминальные статусы: rejected, completed, cancelled - переходов нет
}

// Next возвращает статус, в который переводит событие из текущего статуса.
// Для любой пары, отсутствующей в таблице, возвращает ErrInvalidTransition.
func Next(from domain.AppointmentStatus, event Event) (domain.AppointmentStatus, error) {
	events, ok := transitions[from]
	if !ok {
		return "", fmt.Errorf("%w: no transitions from status %q", ErrInvalidTransition, from)
	}

	to, ok := events[event]
	if !ok {
		return "", fmt.Errorf("%w: event %q is not allowed in status %q", ErrInvalidTransition, event, from)
	}

	return to, nil
}

// Can возвращает true, если событие легально в текущем статусе
func Can(from domain.AppointmentStatus, event Event) bool {
	_, err := Next(from, event)
	return err == nil
}
