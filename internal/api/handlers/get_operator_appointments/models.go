package get_operator_appointments

import (
	"fmt"
	"net/url"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// AppointmentsListResponse HTTP response model
type AppointmentsListResponse struct {
	Appointments []*handlers.AppointmentResponse `json:"appointments"`
	Total        int                             `json:"total"`
}

// parseFilter собирает фильтр из query-параметров:
// from, to (YYYY-MM-DD), status, includeReleased
func parseFilter(operatorID int64, query url.Values) (domain.OperatorAppointmentsFilter, error) {
	filter := domain.OperatorAppointmentsFilter{OperatorID: operatorID}

	if raw := query.Get("from"); raw != "" {
		from, err := time.Parse(domain.DateFormat, raw)
		if err != nil {
			return filter, fmt.Errorf("invalid from date: %w", err)
		}
		filter.StartDate = &from
	}

	if raw := query.Get("to"); raw != "" {
		to, err := time.Parse(domain.DateFormat, raw)
		if err != nil {
			return filter, fmt.Errorf("invalid to date: %w", err)
		}
		filter.EndDate = &to
	}

	if raw := query.Get("status"); raw != "" {
		status := domain.AppointmentStatus(raw)
		valid := false
		for _, s := range domain.AllStatuses {
			if s == status {
				valid = true
				break
			}
		}
		if !valid {
			return filter, fmt.Errorf("unknown status %q", raw)
		}
		filter.Status = &status
	}

	filter.IncludeReleased = query.Get("includeReleased") == "true"

	return filter, nil
}
