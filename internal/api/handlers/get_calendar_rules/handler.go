package get_calendar_rules

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
)

const msgInvalidOperatorID = "некорректный ID оператора"

type Handler struct {
	service CalendarService
	logger  Logger
}

func NewHandler(service CalendarService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/operators/{operatorId}/calendar
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	operatorID, err := strconv.ParseInt(vars["operatorId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /operators/{id}/calendar - Invalid operator ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidOperatorID)
		return
	}

	rules, err := h.service.GetRules(r.Context(), operatorID)
	if err != nil {
		h.logger.Error("GET /operators/{id}/calendar - Failed: operator_id=%d, error=%v", operatorID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /operators/{id}/calendar - Retrieved %d windows, %d holidays: operator_id=%d",
		len(rules.Windows), len(rules.Holidays), operatorID)
	handlers.RespondJSON(w, http.StatusOK, FromRules(operatorID, rules))
}
