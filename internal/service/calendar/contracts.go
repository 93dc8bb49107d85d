package calendar

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// CalendarRepository интерфейс репозитория правил календаря
type CalendarRepository interface {
	ListWindowsByOperator(ctx context.Context, operatorID int64) ([]*domain.WorkingWindow, error)
	ReplaceWindows(ctx context.Context, operatorID int64, windows []*domain.WorkingWindow) error
	ListHolidays(ctx context.Context) ([]*domain.Holiday, error)
	AddHoliday(ctx context.Context, holiday *domain.Holiday) (*domain.Holiday, error)
	DeleteHoliday(ctx context.Context, id int64) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Error(format string, v ...interface{})
}
