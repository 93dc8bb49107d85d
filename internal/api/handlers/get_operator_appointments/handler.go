package get_operator_appointments

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments"
)

const (
	msgInvalidOperatorID = "некорректный ID оператора"
	msgInvalidFilter     = "некорректные параметры фильтра"
)

type Handler struct {
	service AppointmentService
	logger  Logger
}

func NewHandler(service AppointmentService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/operators/{operatorId}/appointments
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	operatorID, err := strconv.ParseInt(vars["operatorId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /operators/{id}/appointments - Invalid operator ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidOperatorID)
		return
	}

	filter, err := parseFilter(operatorID, r.URL.Query())
	if err != nil {
		h.logger.Warn("GET /operators/{id}/appointments - Invalid filter: %v", err)
		handlers.RespondBadRequest(w, msgInvalidFilter)
		return
	}

	appts, err := h.service.ListByOperator(r.Context(), filter)
	if err != nil {
		switch {
		case errors.Is(err, appointments.ErrInvalidInput):
			h.logger.Warn("GET /operators/{id}/appointments - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidFilter)

		default:
			h.logger.Error("GET /operators/{id}/appointments - Failed: operator_id=%d, error=%v", operatorID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := AppointmentsListResponse{
		Appointments: make([]*handlers.AppointmentResponse, 0, len(appts)),
		Total:        len(appts),
	}
	for _, appt := range appts {
		response.Appointments = append(response.Appointments, handlers.FromAppointment(appt))
	}

	h.logger.Info("GET /operators/{id}/appointments - Retrieved %d appointments: operator_id=%d", len(appts), operatorID)
	handlers.RespondJSON(w, http.StatusOK, response)
}
