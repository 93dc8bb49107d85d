package appointments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-AppointmentService/internal/service/lifecycle"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Service сервис жизненного цикла записей: создание черновиков, простые
// переходы статусов и чтение. Переходы, требующие валидации
// (propose, confirm_with_override), живут в отдельных usecase-ах.
type Service struct {
	repo         AppointmentRepository
	txManager    TransactionManager
	events       EventPublisher
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый сервис записей
func NewService(repo AppointmentRepository, txManager TransactionManager, events EventPublisher, logger Logger) *Service {
	return &Service{
		repo:         repo,
		txManager:    txManager,
		events:       events,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// CreateDraftRequest данные для создания черновика записи
type CreateDraftRequest struct {
	ClientID        int64
	OperatorID      int64
	ServiceID       int64
	Date            time.Time
	StartTime       string
	DurationMinutes int
	Note            *string
}

// CreateDraft создает черновик записи. Черновик не валидируется и не
// занимает слот: любые значения полей допустимы до первого propose.
func (s *Service) CreateDraft(ctx context.Context, req CreateDraftRequest) (*domain.Appointment, error) {
	if req.ClientID <= 0 || req.OperatorID <= 0 || req.ServiceID <= 0 {
		return nil, fmt.Errorf("%w: client_id, operator_id and service_id must be positive", ErrInvalidInput)
	}
	if req.Date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	if req.Note != nil && len(*req.Note) > domain.MaxNoteLength {
		return nil, fmt.Errorf("%w: note exceeds %d characters", ErrInvalidInput, domain.MaxNoteLength)
	}

	appt := &domain.Appointment{
		ID:              uuid.NewString(),
		ClientID:        req.ClientID,
		OperatorID:      req.OperatorID,
		ServiceID:       req.ServiceID,
		Date:            req.Date,
		StartTime:       types.TimeString(req.StartTime),
		DurationMinutes: req.DurationMinutes,
		Note:            req.Note,
		Status:          domain.StatusDraft,
	}

	created, err := s.repo.Create(ctx, appt)
	if err != nil {
		return nil, fmt.Errorf("%w: CreateDraft - failed to create appointment: %v", ErrInternal, err)
	}

	s.logger.Info("CreateDraft: created appointment %s for client %d with operator %d", created.ID, created.ClientID, created.OperatorID)

	return created, nil
}

// GetByID возвращает запись по идентификатору
func (s *Service) GetByID(ctx context.Context, id string) (*domain.Appointment, error) {
	appt, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, appointment.ErrAppointmentNotFound) {
			return nil, fmt.Errorf("%w: id=%s", ErrAppointmentNotFound, id)
		}
		return nil, fmt.Errorf("%w: GetByID - failed to get appointment: %v", ErrInternal, err)
	}
	return appt, nil
}

// ListByOperator возвращает записи оператора по фильтру.
// По умолчанию отменённые и отклонённые записи скрыты.
func (s *Service) ListByOperator(ctx context.Context, filter domain.OperatorAppointmentsFilter) ([]*domain.Appointment, error) {
	if filter.OperatorID <= 0 {
		return nil, fmt.Errorf("%w: operator_id must be positive", ErrInvalidInput)
	}

	appts, err := s.repo.ListByOperator(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByOperator - failed to list appointments: %v", ErrInternal, err)
	}
	return appts, nil
}

// ConfirmByClient переводит запись proposed -> awaiting_operator
func (s *Service) ConfirmByClient(ctx context.Context, id string) (*domain.Appointment, error) {
	return s.transition(ctx, id, lifecycle.EventConfirmByClient, nil)
}

// ConfirmByOperator переводит запись awaiting_operator -> confirmed.
// Путь без override: оператор подтверждает запись как есть.
func (s *Service) ConfirmByOperator(ctx context.Context, id string) (*domain.Appointment, error) {
	return s.transition(ctx, id, lifecycle.EventConfirmByOperator, nil)
}

// Reject отклоняет запись оператором с необязательным обоснованием.
// Слот освобождается сразу: отклонённая запись не участвует в проверках
// пересечений.
func (s *Service) Reject(ctx context.Context, id string, note *string) (*domain.Appointment, error) {
	if note != nil && len(*note) > domain.MaxNoteLength {
		return nil, fmt.Errorf("%w: note exceeds %d characters", ErrInvalidInput, domain.MaxNoteLength)
	}
	return s.transition(ctx, id, lifecycle.EventReject, func(ctx context.Context, appt *domain.Appointment) error {
		return s.repo.Reject(ctx, appt.ID, note)
	})
}

// Cancel отменяет запись. Допустимо из draft, proposed, confirmed и
// confirmed_with_override; слот освобождается сразу.
func (s *Service) Cancel(ctx context.Context, id string) (*domain.Appointment, error) {
	return s.transition(ctx, id, lifecycle.EventCancel, nil)
}

// CompleteIfDue переводит подтверждённую запись в completed, если её
// интервал уже закончился. Операция идемпотентна: повторный вызов для
// завершённой записи возвращает её без изменений и без ошибки. Если
// интервал ещё не закончился, запись также возвращается без изменений.
func (s *Service) CompleteIfDue(ctx context.Context, id string) (*domain.Appointment, error) {
	var result *domain.Appointment
	var completed bool
	var fromStatus domain.AppointmentStatus

	err := s.txManager.DoSerializable(ctx, func(ctx context.Context) error {
		appt, err := s.repo.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, appointment.ErrAppointmentNotFound) {
				return fmt.Errorf("%w: id=%s", ErrAppointmentNotFound, id)
			}
			return fmt.Errorf("%w: CompleteIfDue - failed to get appointment: %v", ErrInternal, err)
		}

		// Повторное завершение - no-op, не ошибка
		if appt.Status == domain.StatusCompleted {
			result = appt
			return nil
		}

		next, err := lifecycle.Next(appt.Status, lifecycle.EventComplete)
		if err != nil {
			return err
		}

		due, err := appt.IsDue(s.timeProvider.Now())
		if err != nil {
			return fmt.Errorf("%w: CompleteIfDue - failed to compute interval end: %v", ErrInternal, err)
		}
		if !due {
			result = appt
			return nil
		}

		if err := s.repo.UpdateStatus(ctx, appt.ID, next); err != nil {
			return fmt.Errorf("%w: CompleteIfDue - failed to update status: %v", ErrInternal, err)
		}

		fromStatus = appt.Status
		appt.Status = next
		result = appt
		completed = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	if completed {
		s.events.PublishTransition(result.ID, fromStatus, result.Status)
		s.logger.Info("CompleteIfDue: appointment %s completed", result.ID)
	}

	return result, nil
}

// CompleteDue завершает все подтверждённые записи, чей интервал уже
// закончился. Возвращает число завершённых записей. Используется
// фоновым sweep-ом.
func (s *Service) CompleteDue(ctx context.Context) (int, error) {
	due, err := s.repo.ListDue(ctx, s.timeProvider.Now())
	if err != nil {
		return 0, fmt.Errorf("%w: CompleteDue - failed to list due appointments: %v", ErrInternal, err)
	}

	completed := 0
	for _, appt := range due {
		updated, err := s.CompleteIfDue(ctx, appt.ID)
		if err != nil {
			// Запись могла измениться между ListDue и завершением
			s.logger.Warn("CompleteDue: failed to complete appointment %s: %v", appt.ID, err)
			continue
		}
		if updated.Status == domain.StatusCompleted {
			completed++
		}
	}

	if completed > 0 {
		s.logger.Info("CompleteDue: completed %d appointments", completed)
	}

	return completed, nil
}

// transition выполняет простой переход статуса в serializable-транзакции.
// apply, если задан, выполняет запись вместо UpdateStatus (например,
// сохранение обоснования при отклонении).
func (s *Service) transition(ctx context.Context, id string, event lifecycle.Event, apply func(ctx context.Context, appt *domain.Appointment) error) (*domain.Appointment, error) {
	var result *domain.Appointment
	var fromStatus domain.AppointmentStatus

	err := s.txManager.DoSerializable(ctx, func(ctx context.Context) error {
		appt, err := s.repo.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, appointment.ErrAppointmentNotFound) {
				return fmt.Errorf("%w: id=%s", ErrAppointmentNotFound, id)
			}
			return fmt.Errorf("%w: transition - failed to get appointment: %v", ErrInternal, err)
		}

		next, err := lifecycle.Next(appt.Status, event)
		if err != nil {
			return err
		}

		if apply != nil {
			if err := apply(ctx, appt); err != nil {
				if errors.Is(err, appointment.ErrAppointmentNotFound) {
					return fmt.Errorf("%w: id=%s", ErrAppointmentNotFound, id)
				}
				return fmt.Errorf("%w: transition - failed to apply %s: %v", ErrInternal, event, err)
			}
		} else {
			if err := s.repo.UpdateStatus(ctx, appt.ID, next); err != nil {
				return fmt.Errorf("%w: transition - failed to update status: %v", ErrInternal, err)
			}
		}

		fromStatus = appt.Status
		appt.Status = next
		result = appt
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.events.PublishTransition(result.ID, fromStatus, result.Status)
	s.logger.Info("transition: appointment %s %s -> %s", result.ID, fromStatus, result.Status)

	return result, nil
}
