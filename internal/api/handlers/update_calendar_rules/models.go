package update_calendar_rules

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// WorkingWindowRequest одно рабочее окно в запросе замены
type WorkingWindowRequest struct {
	Weekday   int    `json:"weekday"` // 0 = воскресенье .. 6 = суббота
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// ReplaceWindowsRequest HTTP request model: полный набор рабочих окон
// оператора
type ReplaceWindowsRequest struct {
	Windows []WorkingWindowRequest `json:"workingWindows"`
}

// ToDomain конвертирует запрос в доменные рабочие окна
func (r *ReplaceWindowsRequest) ToDomain(operatorID int64) []*domain.WorkingWindow {
	windows := make([]*domain.WorkingWindow, 0, len(r.Windows))
	for _, w := range r.Windows {
		windows = append(windows, &domain.WorkingWindow{
			OperatorID: operatorID,
			Weekday:    time.Weekday(w.Weekday),
			StartTime:  types.TimeString(w.StartTime),
			EndTime:    types.TimeString(w.EndTime),
		})
	}
	return windows
}

// AddHolidayRequest HTTP request model: либо фиксированная дата, либо
// повторяющаяся пара месяц/день
type AddHolidayRequest struct {
	Name      string  `json:"name"`
	Date      *string `json:"date,omitempty"` // "2026-01-01"
	Month     *int    `json:"month,omitempty"`
	Day       *int    `json:"day,omitempty"`
	Recurring bool    `json:"recurring"`
}

// ToDomain конвертирует запрос в доменный праздник
func (r *AddHolidayRequest) ToDomain() (*domain.Holiday, error) {
	holiday := &domain.Holiday{
		Name:      r.Name,
		Recurring: r.Recurring,
	}

	if r.Date != nil {
		date, err := time.Parse(domain.DateFormat, *r.Date)
		if err != nil {
			return nil, err
		}
		holiday.Date = &date
	}
	if r.Month != nil {
		holiday.Month = time.Month(*r.Month)
	}
	if r.Day != nil {
		holiday.Day = *r.Day
	}

	return holiday, nil
}
