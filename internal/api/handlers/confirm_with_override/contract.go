package confirm_with_override

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	confirmWithOverride "github.com/m04kA/SMC-AppointmentService/internal/usecase/confirm_with_override"
)

type ConfirmWithOverrideUseCase interface {
	Execute(ctx context.Context, req *confirmWithOverride.Request) (*domain.Appointment, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
