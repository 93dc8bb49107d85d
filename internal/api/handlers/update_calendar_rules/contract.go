package update_calendar_rules

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

type CalendarService interface {
	ReplaceWindows(ctx context.Context, operatorID int64, windows []*domain.WorkingWindow) error
	AddHoliday(ctx context.Context, holiday *domain.Holiday) (*domain.Holiday, error)
	DeleteHoliday(ctx context.Context, id int64) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
