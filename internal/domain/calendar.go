package domain

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// WorkingWindow is a bookable time range for one operator on one weekday.
// An operator may have several windows per weekday (например, утро и вечер
// с перерывом между ними).
type WorkingWindow struct {
	ID         int64
	OperatorID int64
	Weekday    time.Weekday
	StartTime  types.TimeString
	EndTime    types.TimeString
}

// Contains reports whether the interval [start, end) lies entirely within
// the window. End may equal the window's end time (half-open intervals).
func (w *WorkingWindow) Contains(start, end types.TimeString) bool {
	return !start.IsBefore(w.StartTime) && !end.IsAfter(w.EndTime)
}

// Holiday is a calendar exclusion: either a fixed date or a yearly-recurring
// month/day pair (any year).
type Holiday struct {
	ID        int64
	Name      string
	Date      *time.Time // set for fixed holidays, date only
	Month     time.Month // set for recurring holidays
	Day       int        // set for recurring holidays
	Recurring bool
}

// Matches reports whether the holiday falls on the given date
func (h *Holiday) Matches(date time.Time) bool {
	if h.Recurring {
		return date.Month() == h.Month && date.Day() == h.Day
	}
	if h.Date == nil {
		return false
	}
	y1, m1, d1 := h.Date.Date()
	y2, m2, d2 := date.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
