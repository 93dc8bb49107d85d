package validation

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/directoryservice"
	"github.com/m04kA/SMC-AppointmentService/internal/service/availability"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// AvailabilityChecker интерфейс чекера доступности
type AvailabilityChecker interface {
	Check(ctx context.Context, operatorID int64, date time.Time, start types.TimeString, durationMinutes int, excludeID *string) (*availability.Report, error)
}

// DirectoryClient интерфейс клиента мастер-данных
type DirectoryClient interface {
	GetClient(ctx context.Context, clientID int64) (*directoryservice.ClientInfo, error)
	GetOperator(ctx context.Context, operatorID int64) (*directoryservice.Operator, error)
	GetService(ctx context.Context, serviceID int64) (*directoryservice.Service, error)
}

// AppointmentRepository интерфейс репозитория записей
// (используется для подсказок о смежных записях клиента)
type AppointmentRepository interface {
	GetByClientAndDate(ctx context.Context, clientID int64, date time.Time, excludeID *string) ([]*domain.Appointment, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
