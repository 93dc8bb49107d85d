package confirm_with_override

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	apptRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-AppointmentService/internal/service/lifecycle"
)

// UseCase use case подтверждения записи с override: оператор осознанно
// игнорирует предупреждения последней валидации. Статус и полный
// аудиторский след (кто, когда, что проигнорировал, обоснование)
// записываются одним UPDATE: запись не может оказаться в
// confirmed_with_override без следа и наоборот.
type UseCase struct {
	appointmentRepo AppointmentRepository
	txManager       TransactionManager
	events          EventPublisher
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	txManager TransactionManager,
	events EventPublisher,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		txManager:       txManager,
		events:          events,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Request данные для подтверждения с override
type Request struct {
	AppointmentID       string
	OperatorID          int64
	Justification       *string
	IgnoredWarningKinds []string
}

// Execute выполняет use case подтверждения с override.
// Игнорировать можно только те kind-ы предупреждений, которые
// зафиксированы последней валидацией; hard blocks не переопределяются
// никогда.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*domain.Appointment, error) {
	uc.logger.Info("ConfirmWithOverride: id=%s operator=%d kinds=%v",
		req.AppointmentID, req.OperatorID, req.IgnoredWarningKinds)

	if req.OperatorID <= 0 {
		return nil, fmt.Errorf("%w: operator_id must be positive", ErrInvalidInput)
	}
	if len(req.IgnoredWarningKinds) == 0 {
		return nil, fmt.Errorf("%w: ignored_warning_kinds must not be empty", ErrInvalidInput)
	}
	if req.Justification != nil && len(*req.Justification) > domain.MaxNoteLength {
		return nil, fmt.Errorf("%w: justification exceeds %d characters", ErrInvalidInput, domain.MaxNoteLength)
	}

	var result *domain.Appointment
	var fromStatus domain.AppointmentStatus

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 1. Получаем запись с блокировкой (FOR UPDATE)
		appt, err := uc.appointmentRepo.GetByID(txCtx, req.AppointmentID)
		if err != nil {
			if errors.Is(err, apptRepo.ErrAppointmentNotFound) {
				uc.logger.Warn("ConfirmWithOverride: appointment id=%s not found", req.AppointmentID)
				return fmt.Errorf("%w: id=%s", ErrAppointmentNotFound, req.AppointmentID)
			}
			uc.logger.Error("ConfirmWithOverride: failed to get appointment id=%s: %v", req.AppointmentID, err)
			return fmt.Errorf("%w: failed to get appointment: %v", ErrInternal, err)
		}

		// 2. Override допустим только из awaiting_operator
		next, err := lifecycle.Next(appt.Status, lifecycle.EventConfirmWithOverride)
		if err != nil {
			uc.logger.Warn("ConfirmWithOverride: id=%s invalid transition from %s", req.AppointmentID, appt.Status)
			return err
		}

		// 3. Основание для override - снимок последней валидации
		if err := validateOverride(appt.LastValidation, req.IgnoredWarningKinds); err != nil {
			uc.logger.Warn("ConfirmWithOverride: id=%s rejected: %v", req.AppointmentID, err)
			return err
		}

		override := &domain.OverrideInfo{
			At:                  uc.timeProvider.Now(),
			OperatorID:          req.OperatorID,
			Justification:       req.Justification,
			IgnoredWarningKinds: req.IgnoredWarningKinds,
		}

		// 4. Статус и след override - одним UPDATE
		if err := uc.appointmentRepo.ConfirmWithOverride(txCtx, appt.ID, override); err != nil {
			uc.logger.Error("ConfirmWithOverride: failed to confirm id=%s: %v", req.AppointmentID, err)
			return fmt.Errorf("%w: failed to confirm with override: %v", ErrInternal, err)
		}

		fromStatus = appt.Status
		appt.Status = next
		appt.Override = override
		result = appt
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.events.PublishTransition(result.ID, fromStatus, result.Status)
	uc.logger.Info("ConfirmWithOverride: id=%s confirmed by operator %d", result.ID, req.OperatorID)

	return result, nil
}

// validateOverride проверяет, что override опирается на зафиксированный
// результат валидации
func validateOverride(stamp *domain.ValidationStamp, ignoredKinds []string) error {
	if stamp == nil {
		return fmt.Errorf("%w: appointment has no recorded validation result", ErrOverrideViolation)
	}
	if stamp.Blocked {
		return fmt.Errorf("%w: hard blocks can not be overridden", ErrOverrideViolation)
	}

	known := make(map[string]struct{}, len(stamp.WarningKinds))
	for _, kind := range stamp.WarningKinds {
		known[kind] = struct{}{}
	}
	for _, kind := range ignoredKinds {
		if _, ok := known[kind]; !ok {
			return fmt.Errorf("%w: warning kind %q was not raised by the last validation", ErrOverrideViolation, kind)
		}
	}

	return nil
}
