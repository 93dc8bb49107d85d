package update_calendar_rules

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/service/calendar"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidOperatorID  = "некорректный ID оператора"
	msgInvalidHolidayID   = "некорректный ID праздника"
	msgInvalidRules       = "некорректные правила календаря"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgHolidayNotFound    = "праздник не найден"
)

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

// HandleReplaceWindows PUT /api/v1/operators/{operatorId}/calendar/windows
func (h *Handler) HandleReplaceWindows(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	operatorID, err := strconv.ParseInt(vars["operatorId"], 10, 64)
	if err != nil {
		h.logger.Warn("PUT /operators/{id}/calendar/windows - Invalid operator ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidOperatorID)
		return
	}

	var req ReplaceWindowsRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /operators/{id}/calendar/windows - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if err := h.service.ReplaceWindows(r.Context(), operatorID, req.ToDomain(operatorID)); err != nil {
		switch {
		case errors.Is(err, calendar.ErrInvalidInput):
			h.logger.Warn("PUT /operators/{id}/calendar/windows - Invalid rules: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRules)

		default:
			h.logger.Error("PUT /operators/{id}/calendar/windows - Failed: operator_id=%d, error=%v", operatorID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /operators/{id}/calendar/windows - Replaced: operator_id=%d, windows=%d",
		operatorID, len(req.Windows))
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}

// HandleAddHoliday POST /api/v1/calendar/holidays
func (h *Handler) HandleAddHoliday(w http.ResponseWriter, r *http.Request) {
	var req AddHolidayRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /calendar/holidays - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	holiday, err := req.ToDomain()
	if err != nil {
		h.logger.Warn("POST /calendar/holidays - Failed to parse date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	created, err := h.service.AddHoliday(r.Context(), holiday)
	if err != nil {
		switch {
		case errors.Is(err, calendar.ErrInvalidInput):
			h.logger.Warn("POST /calendar/holidays - Invalid holiday: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRules)

		default:
			h.logger.Error("POST /calendar/holidays - Failed: error=%v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /calendar/holidays - Added: holiday_id=%d, name=%s", created.ID, created.Name)
	handlers.RespondJSON(w, http.StatusCreated, map[string]int64{"id": created.ID})
}

// HandleDeleteHoliday DELETE /api/v1/calendar/holidays/{holidayId}
func (h *Handler) HandleDeleteHoliday(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	holidayID, err := strconv.ParseInt(vars["holidayId"], 10, 64)
	if err != nil {
		h.logger.Warn("DELETE /calendar/holidays/{id} - Invalid holiday ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidHolidayID)
		return
	}

	if err := h.service.DeleteHoliday(r.Context(), holidayID); err != nil {
		switch {
		case errors.Is(err, calendar.ErrHolidayNotFound):
			h.logger.Warn("DELETE /calendar/holidays/{id} - Not found: holiday_id=%d", holidayID)
			handlers.RespondNotFound(w, msgHolidayNotFound)

		case errors.Is(err, calendar.ErrInvalidInput):
			h.logger.Warn("DELETE /calendar/holidays/{id} - Invalid holiday ID: %v", err)
			handlers.RespondBadRequest(w, msgInvalidHolidayID)

		default:
			h.logger.Error("DELETE /calendar/holidays/{id} - Failed: holiday_id=%d, error=%v", holidayID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /calendar/holidays/{id} - Deleted: holiday_id=%d", holidayID)
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}
