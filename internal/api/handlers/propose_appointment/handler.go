package propose_appointment

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/service/lifecycle"
	proposeAppointment "github.com/m04kA/SMC-AppointmentService/internal/usecase/propose_appointment"
)

const (
	msgNotFound          = "запись не найдена"
	msgInvalidTransition = "предложение недопустимо из текущего статуса записи"
)

type Handler struct {
	useCase ProposeAppointmentUseCase
	logger  Logger
}

func NewHandler(useCase ProposeAppointmentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/appointments/{appointmentId}/propose
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	appointmentID := vars["appointmentId"]

	result, err := h.useCase.Execute(r.Context(), appointmentID)
	if err != nil {
		switch {
		case errors.Is(err, proposeAppointment.ErrAppointmentNotFound):
			h.logger.Warn("POST /appointments/{id}/propose - Appointment not found: appointment_id=%s", appointmentID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, lifecycle.ErrInvalidTransition):
			h.logger.Warn("POST /appointments/{id}/propose - Invalid transition: appointment_id=%s", appointmentID)
			handlers.RespondError(w, http.StatusConflict, msgInvalidTransition)

		default:
			h.logger.Error("POST /appointments/{id}/propose - Failed: appointment_id=%s, error=%v", appointmentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	// Hard blocks не продвигают статус: клиент получает 422 с полным
	// списком причин
	status := http.StatusOK
	if result.Blocked() {
		status = http.StatusUnprocessableEntity
	}

	h.logger.Info("POST /appointments/{id}/propose - Done: appointment_id=%s, status=%s, blocked=%t",
		appointmentID, result.Appointment.Status, result.Blocked())
	handlers.RespondJSON(w, status, FromUseCaseResponse(result))
}
