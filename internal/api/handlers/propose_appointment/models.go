package propose_appointment

import (
	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	proposeAppointment "github.com/m04kA/SMC-AppointmentService/internal/usecase/propose_appointment"
)

// ProposeResponse HTTP response model: запись в итоговом статусе плюс
// полный результат валидации
type ProposeResponse struct {
	Appointment *handlers.AppointmentResponse      `json:"appointment"`
	Validation  *handlers.ValidationResultResponse `json:"validation"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *proposeAppointment.Response) *ProposeResponse {
	return &ProposeResponse{
		Appointment: handlers.FromAppointment(resp.Appointment),
		Validation:  handlers.FromValidationResult(resp.Validation),
	}
}
