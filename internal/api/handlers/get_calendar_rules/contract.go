package get_calendar_rules

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/service/calendar"
)

type CalendarService interface {
	GetRules(ctx context.Context, operatorID int64) (*calendar.Rules, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
