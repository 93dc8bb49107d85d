package calendar

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	storage "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/calendar"
)

// Service административный сервис правил календаря: рабочие окна
// операторов и праздничный календарь. Для движка валидации эти правила -
// read-only справочник, все мутации идут через этот сервис.
type Service struct {
	repo      CalendarRepository
	txManager TransactionManager
	logger    Logger
}

// NewService создает новый сервис правил календаря
func NewService(repo CalendarRepository, txManager TransactionManager, logger Logger) *Service {
	return &Service{
		repo:      repo,
		txManager: txManager,
		logger:    logger,
	}
}

// Rules полный набор правил календаря для оператора
type Rules struct {
	Windows  []*domain.WorkingWindow
	Holidays []*domain.Holiday
}

// GetRules возвращает рабочие окна оператора и весь праздничный календарь
func (s *Service) GetRules(ctx context.Context, operatorID int64) (*Rules, error) {
	if operatorID <= 0 {
		return nil, fmt.Errorf("%w: operator_id must be positive", ErrInvalidInput)
	}

	windows, err := s.repo.ListWindowsByOperator(ctx, operatorID)
	if err != nil {
		return nil, fmt.Errorf("%w: GetRules - failed to list windows: %v", ErrInternal, err)
	}

	holidays, err := s.repo.ListHolidays(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: GetRules - failed to list holidays: %v", ErrInternal, err)
	}

	return &Rules{Windows: windows, Holidays: holidays}, nil
}

// ReplaceWindows заменяет все рабочие окна оператора на переданный набор.
// Выполняется атомарно: либо применяется весь набор, либо ничего.
func (s *Service) ReplaceWindows(ctx context.Context, operatorID int64, windows []*domain.WorkingWindow) error {
	if operatorID <= 0 {
		return fmt.Errorf("%w: operator_id must be positive", ErrInvalidInput)
	}

	for i, w := range windows {
		if w.Weekday < time.Sunday || w.Weekday > time.Saturday {
			return fmt.Errorf("%w: window %d: weekday must be in range 0..6", ErrInvalidInput, i)
		}
		if err := w.StartTime.Validate(); err != nil {
			return fmt.Errorf("%w: window %d: invalid start_time %q", ErrInvalidInput, i, w.StartTime)
		}
		if err := w.EndTime.Validate(); err != nil {
			return fmt.Errorf("%w: window %d: invalid end_time %q", ErrInvalidInput, i, w.EndTime)
		}
		if !w.StartTime.IsBefore(w.EndTime) {
			return fmt.Errorf("%w: window %d: start_time must be before end_time", ErrInvalidInput, i)
		}
	}

	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		return s.repo.ReplaceWindows(ctx, operatorID, windows)
	})
	if err != nil {
		return fmt.Errorf("%w: ReplaceWindows - failed to replace windows: %v", ErrInternal, err)
	}

	s.logger.Info("ReplaceWindows: operator %d now has %d working windows", operatorID, len(windows))

	return nil
}

// AddHoliday добавляет праздник: либо фиксированная дата, либо
// повторяющаяся пара месяц/день
func (s *Service) AddHoliday(ctx context.Context, holiday *domain.Holiday) (*domain.Holiday, error) {
	if holiday.Name == "" {
		return nil, fmt.Errorf("%w: holiday name is required", ErrInvalidInput)
	}

	if holiday.Recurring {
		if holiday.Month < time.January || holiday.Month > time.December {
			return nil, fmt.Errorf("%w: recurring holiday month must be in range 1..12", ErrInvalidInput)
		}
		if holiday.Day < 1 || holiday.Day > 31 {
			return nil, fmt.Errorf("%w: recurring holiday day must be in range 1..31", ErrInvalidInput)
		}
	} else if holiday.Date == nil {
		return nil, fmt.Errorf("%w: fixed holiday requires a date", ErrInvalidInput)
	}

	created, err := s.repo.AddHoliday(ctx, holiday)
	if err != nil {
		return nil, fmt.Errorf("%w: AddHoliday - failed to add holiday: %v", ErrInternal, err)
	}

	s.logger.Info("AddHoliday: added holiday %d (%s)", created.ID, created.Name)

	return created, nil
}

// DeleteHoliday удаляет праздник из календаря
func (s *Service) DeleteHoliday(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: holiday id must be positive", ErrInvalidInput)
	}

	if err := s.repo.DeleteHoliday(ctx, id); err != nil {
		if errors.Is(err, storage.ErrHolidayNotFound) {
			return fmt.Errorf("%w: id=%d", ErrHolidayNotFound, id)
		}
		return fmt.Errorf("%w: DeleteHoliday - failed to delete holiday: %v", ErrInternal, err)
	}

	s.logger.Info("DeleteHoliday: deleted holiday %d", id)

	return nil
}
