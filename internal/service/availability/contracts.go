package availability

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByOperatorAndDate(ctx context.Context, operatorID int64, date time.Time, excludeID *string) ([]*domain.Appointment, error)
}

// CalendarRepository интерфейс репозитория правил календаря
type CalendarRepository interface {
	ListWindowsForWeekday(ctx context.Context, operatorID int64, weekday time.Weekday) ([]*domain.WorkingWindow, error)
	HolidaysForDate(ctx context.Context, date time.Time) ([]*domain.Holiday, error)
}
