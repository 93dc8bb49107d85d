package confirm_with_override

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/service/lifecycle"
	confirmWithOverride "github.com/m04kA/SMC-AppointmentService/internal/usecase/confirm_with_override"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgNotFound           = "запись не найдена"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgInvalidTransition  = "override недопустим из текущего статуса записи"
	msgOverrideViolation  = "override не опирается на зафиксированный результат валидации"
	msgInvalidInput       = "некорректные данные override"
)

type Handler struct {
	useCase ConfirmWithOverrideUseCase
	logger  Logger
}

func NewHandler(useCase ConfirmWithOverrideUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/appointments/{appointmentId}/confirm-with-override
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	appointmentID := vars["appointmentId"]

	// Оператор, выполняющий override, берётся из аутентификации,
	// не из тела запроса
	operatorID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /appointments/{id}/confirm-with-override - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req ConfirmWithOverrideRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /appointments/{id}/confirm-with-override - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	appt, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(appointmentID, operatorID))
	if err != nil {
		switch {
		case errors.Is(err, confirmWithOverride.ErrAppointmentNotFound):
			h.logger.Warn("POST /appointments/{id}/confirm-with-override - Not found: appointment_id=%s", appointmentID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, confirmWithOverride.ErrInvalidInput):
			h.logger.Warn("POST /appointments/{id}/confirm-with-override - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, lifecycle.ErrInvalidTransition):
			h.logger.Warn("POST /appointments/{id}/confirm-with-override - Invalid transition: appointment_id=%s", appointmentID)
			handlers.RespondError(w, http.StatusConflict, msgInvalidTransition)

		case errors.Is(err, confirmWithOverride.ErrOverrideViolation):
			h.logger.Warn("POST /appointments/{id}/confirm-with-override - Override violation: appointment_id=%s, error=%v",
				appointmentID, err)
			handlers.RespondError(w, http.StatusUnprocessableEntity, msgOverrideViolation)

		default:
			h.logger.Error("POST /appointments/{id}/confirm-with-override - Failed: appointment_id=%s, error=%v", appointmentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /appointments/{id}/confirm-with-override - Confirmed: appointment_id=%s, operator_id=%d",
		appointmentID, operatorID)
	handlers.RespondJSON(w, http.StatusOK, handlers.FromAppointment(appt))
}
