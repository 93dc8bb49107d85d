package propose_appointment

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	apptRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-AppointmentService/internal/service/lifecycle"
)

// UseCase use case предложения записи: прогоняет запись через движок
// валидации и переводит её в proposed, только если hard blocks нет.
// Результат валидации фиксируется на записи в любом случае - он
// становится основанием для последующего override.
type UseCase struct {
	appointmentRepo AppointmentRepository
	engine          ValidationEngine
	txManager       TransactionManager
	events          EventPublisher
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	engine ValidationEngine,
	txManager TransactionManager,
	events EventPublisher,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		engine:          engine,
		txManager:       txManager,
		events:          events,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case предложения записи.
// Использует сериализуемую транзакцию: строка записи и записи оператора
// на эту дату блокируются, поэтому два конкурирующих propose на
// пересекающиеся слоты не могут пройти оба.
func (uc *UseCase) Execute(ctx context.Context, id string) (*Response, error) {
	uc.logger.Info("ProposeAppointment: id=%s", id)

	var result *Response
	var advanced bool
	var fromStatus domain.AppointmentStatus

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 1. Получаем запись с блокировкой (FOR UPDATE)
		appt, err := uc.appointmentRepo.GetByID(txCtx, id)
		if err != nil {
			if errors.Is(err, apptRepo.ErrAppointmentNotFound) {
				uc.logger.Warn("ProposeAppointment: appointment id=%s not found", id)
				return fmt.Errorf("%w: id=%s", ErrAppointmentNotFound, id)
			}
			uc.logger.Error("ProposeAppointment: failed to get appointment id=%s: %v", id, err)
			return fmt.Errorf("%w: failed to get appointment: %v", ErrInternal, err)
		}

		// 2. Переход должен быть допустим (draft или повторный propose)
		next, err := lifecycle.Next(appt.Status, lifecycle.EventPropose)
		if err != nil {
			uc.logger.Warn("ProposeAppointment: id=%s invalid transition from %s", id, appt.Status)
			return err
		}

		// 3. Полная валидация: все три прохода, без short-circuit
		validation, err := uc.engine.Validate(txCtx, appt)
		if err != nil {
			uc.logger.Error("ProposeAppointment: validation failed for id=%s: %v", id, err)
			return fmt.Errorf("%w: validation failed: %v", ErrInternal, err)
		}

		// 4. Снимок результата фиксируется на записи всегда, статус
		// продвигается только при отсутствии hard blocks
		stamp := validation.Stamp(uc.timeProvider.Now())
		status := appt.Status
		if !validation.IsBlocked() {
			status = next
		}

		if err := uc.appointmentRepo.UpdateValidation(txCtx, appt.ID, status, stamp); err != nil {
			uc.logger.Error("ProposeAppointment: failed to persist validation for id=%s: %v", id, err)
			return fmt.Errorf("%w: failed to persist validation: %v", ErrInternal, err)
		}

		fromStatus = appt.Status
		advanced = status != appt.Status
		appt.Status = status
		appt.LastValidation = stamp
		result = &Response{Appointment: appt, Validation: validation}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if advanced {
		uc.events.PublishTransition(result.Appointment.ID, fromStatus, result.Appointment.Status)
	}

	uc.logger.Info("ProposeAppointment: id=%s status=%s blocked=%t warnings=%d",
		id, result.Appointment.Status, result.Blocked(), len(result.Validation.Warnings))

	return result, nil
}
