package get_calendar_rules

import (
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/service/calendar"
)

// WorkingWindowResponse HTTP-представление рабочего окна
type WorkingWindowResponse struct {
	ID        int64  `json:"id"`
	Weekday   int    `json:"weekday"` // 0 = воскресенье .. 6 = суббота
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// HolidayResponse HTTP-представление праздника
type HolidayResponse struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Date      *string `json:"date,omitempty"`
	Month     *int    `json:"month,omitempty"`
	Day       *int    `json:"day,omitempty"`
	Recurring bool    `json:"recurring"`
}

// RulesResponse HTTP response model
type RulesResponse struct {
	OperatorID int64                    `json:"operatorId"`
	Windows    []*WorkingWindowResponse `json:"workingWindows"`
	Holidays   []*HolidayResponse       `json:"holidays"`
}

// FromRules конвертирует правила календаря в HTTP response
func FromRules(operatorID int64, rules *calendar.Rules) *RulesResponse {
	resp := &RulesResponse{
		OperatorID: operatorID,
		Windows:    make([]*WorkingWindowResponse, 0, len(rules.Windows)),
		Holidays:   make([]*HolidayResponse, 0, len(rules.Holidays)),
	}

	for _, w := range rules.Windows {
		resp.Windows = append(resp.Windows, &WorkingWindowResponse{
			ID:        w.ID,
			Weekday:   int(w.Weekday),
			StartTime: w.StartTime.String(),
			EndTime:   w.EndTime.String(),
		})
	}

	for _, h := range rules.Holidays {
		hr := &HolidayResponse{
			ID:        h.ID,
			Name:      h.Name,
			Recurring: h.Recurring,
		}
		if h.Date != nil {
			date := h.Date.Format(domain.DateFormat)
			hr.Date = &date
		}
		if h.Recurring {
			month := int(h.Month)
			day := h.Day
			hr.Month = &month
			hr.Day = &day
		}
		resp.Holidays = append(resp.Holidays, hr)
	}

	return resp
}
