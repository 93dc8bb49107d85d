package create_draft

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments"
)

// CreateDraftRequest HTTP request model
type CreateDraftRequest struct {
	ClientID        int64   `json:"clientId"`
	OperatorID      int64   `json:"operatorId"`
	ServiceID       int64   `json:"serviceId"`
	Date            string  `json:"date"`      // "2026-09-15"
	StartTime       string  `json:"startTime"` // "10:00"
	DurationMinutes int     `json:"durationMinutes"`
	Note            *string `json:"note,omitempty"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *CreateDraftRequest) ToServiceRequest() (appointments.CreateDraftRequest, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return appointments.CreateDraftRequest{}, err
	}

	return appointments.CreateDraftRequest{
		ClientID:        r.ClientID,
		OperatorID:      r.OperatorID,
		ServiceID:       r.ServiceID,
		Date:            date,
		StartTime:       r.StartTime,
		DurationMinutes: r.DurationMinutes,
		Note:            r.Note,
	}, nil
}
