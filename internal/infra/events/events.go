package events

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// TransitionEvent доменное событие успешного перехода записи.
// На него подписываются внешние слушатели (уведомления, лояльность,
// счета) - движок их не вызывает напрямую.
type TransitionEvent struct {
	EventID       string    `json:"eventId"`
	AppointmentID string    `json:"appointmentId"`
	FromStatus    string    `json:"fromStatus"`
	ToStatus      string    `json:"toStatus"`
	At            time.Time `json:"at"`
}

// NewTransitionEvent собирает событие перехода
func NewTransitionEvent(eventID, appointmentID string, from, to domain.AppointmentStatus, at time.Time) TransitionEvent {
	return TransitionEvent{
		EventID:       eventID,
		AppointmentID: appointmentID,
		FromStatus:    string(from),
		ToStatus:      string(to),
		At:            at,
	}
}
