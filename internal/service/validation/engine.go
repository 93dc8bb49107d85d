package validation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/directoryservice"
	"github.com/m04kA/SMC-AppointmentService/internal/service/availability"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
)

// Engine движок валидации записи: три упорядоченных прохода
// (hard blocks, warnings, suggestions), собирающих единый ValidationResult.
//
// Все три прохода выполняются всегда, без short-circuit: вызывающая сторона
// должна видеть полную картину, прежде чем решать про override.
type Engine struct {
	checker         AvailabilityChecker
	directory       DirectoryClient
	appointmentRepo AppointmentRepository
	horizonDays     int
	timeProvider    TimeProvider
	logger          Logger
}

// NewEngine создает новый движок валидации.
// horizonDays - горизонт бронирования в днях (0 = без ограничения).
func NewEngine(
	checker AvailabilityChecker,
	directory DirectoryClient,
	appointmentRepo AppointmentRepository,
	horizonDays int,
	logger Logger,
) *Engine {
	return &Engine{
		checker:         checker,
		directory:       directory,
		appointmentRepo: appointmentRepo,
		horizonDays:     horizonDays,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Validate прогоняет запись через все три прохода и возвращает результат.
// Результат не кешируется: ограничения могли измениться с прошлого вызова,
// поэтому каждый вызов пересчитывает всё от текущих данных.
func (e *Engine) Validate(ctx context.Context, appt *domain.Appointment) (*domain.ValidationResult, error) {
	result := &domain.ValidationResult{}
	now := e.timeProvider.Now()

	intervalOK, err := e.passReferentialAndSanity(ctx, appt, now, result)
	if err != nil {
		return nil, err
	}

	// Факты о доступности существуют только для корректного интервала.
	// Отчёт считается один раз и питает и hard blocks, и warnings.
	if intervalOK {
		report, err := e.checker.Check(ctx, appt.OperatorID, appt.Date, appt.StartTime, appt.DurationMinutes, excludeID(appt))
		if err != nil {
			return nil, fmt.Errorf("%w: availability check failed: %v", ErrInternal, err)
		}

		// Проход 1 (продолжение): двойное бронирование - нарушение
		// целостности данных, никогда не переопределяется
		for _, conflictID := range report.ConflictIDs {
			result.HardBlocks = append(result.HardBlocks, fmt.Sprintf(
				"time slot conflicts with existing appointment %s for operator %d", conflictID, appt.OperatorID))
		}

		// Проход 2: переопределяемые предупреждения
		e.passWarnings(appt, now, report, result)

		// Проход 3: подсказки
		if err := e.passSuggestions(ctx, appt, result); err != nil {
			return nil, err
		}
	}

	e.logger.Info("Validate: appointment=%s blocked=%t warnings=%d suggestions=%d",
		appt.ID, result.IsBlocked(), len(result.Warnings), len(result.Suggestions))

	return result, nil
}

// passReferentialAndSanity выполняет референциальную и санитарную часть
// первого прохода. Возвращает признак корректности интервала кандидата.
func (e *Engine) passReferentialAndSanity(ctx context.Context, appt *domain.Appointment, now time.Time, result *domain.ValidationResult) (bool, error) {
	// Клиент, оператор и услуга должны существовать и быть активными
	client, err := e.directory.GetClient(ctx, appt.ClientID)
	switch {
	case errors.Is(err, directoryservice.ErrClientNotFound):
		result.HardBlocks = append(result.HardBlocks, fmt.Sprintf("client %d does not exist", appt.ClientID))
	case err != nil:
		return false, fmt.Errorf("%w: failed to get client: %v", ErrInternal, err)
	case !client.Active:
		result.HardBlocks = append(result.HardBlocks, fmt.Sprintf("client %d is not active", appt.ClientID))
	}

	operator, err := e.directory.GetOperator(ctx, appt.OperatorID)
	switch {
	case errors.Is(err, directoryservice.ErrOperatorNotFound):
		result.HardBlocks = append(result.HardBlocks, fmt.Sprintf("operator %d does not exist", appt.OperatorID))
	case err != nil:
		return false, fmt.Errorf("%w: failed to get operator: %v", ErrInternal, err)
	case !operator.Active:
		result.HardBlocks = append(result.HardBlocks, fmt.Sprintf("operator %d is not active", appt.OperatorID))
	}

	service, err := e.directory.GetService(ctx, appt.ServiceID)
	switch {
	case errors.Is(err, directoryservice.ErrServiceNotFound):
		service = nil
		result.HardBlocks = append(result.HardBlocks, fmt.Sprintf("service %d does not exist", appt.ServiceID))
	case err != nil:
		return false, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	case !service.Active:
		result.HardBlocks = append(result.HardBlocks, fmt.Sprintf("service %d is not active", appt.ServiceID))
	}

	// Санитарные проверки интервала
	intervalOK := true

	if appt.DurationMinutes < domain.MinDurationMinutes {
		result.HardBlocks = append(result.HardBlocks, "duration must be positive")
		intervalOK = false
	}

	if err := appt.StartTime.Validate(); err != nil {
		result.HardBlocks = append(result.HardBlocks, fmt.Sprintf("start time %q is not a valid HH:MM value", appt.StartTime))
		intervalOK = false
	}

	if intervalOK {
		if _, err := appt.EndTime(); err != nil {
			result.HardBlocks = append(result.HardBlocks, "appointment must end on the day it starts")
			intervalOK = false
		}
	}

	// Длительность должна соответствовать регламенту услуги (длительность +
	// технологический перерыв), если он задан
	if service != nil && service.DurationMinutes > 0 {
		expected := service.DurationMinutes + service.BufferMinutes
		if appt.DurationMinutes != expected {
			result.HardBlocks = append(result.HardBlocks, fmt.Sprintf(
				"duration %d does not match service %q: expected %d minutes (%d + %d buffer)",
				appt.DurationMinutes, service.Name, expected, service.DurationMinutes, service.BufferMinutes))
		}
	}

	// Начало не должно быть в прошлом
	if intervalOK {
		if inPast, err := startInPast(appt, now); err == nil && inPast {
			result.HardBlocks = append(result.HardBlocks, "start time is in the past")
		}
	}

	return intervalOK, nil
}

// passWarnings выполняет второй проход: переопределяемые предупреждения
// с устойчивыми kind-идентификаторами
func (e *Engine) passWarnings(appt *domain.Appointment, now time.Time, report *availability.Report, result *domain.ValidationResult) {
	if !report.InsideWorkingWindow {
		result.Warnings = append(result.Warnings, domain.Warning{
			Kind: domain.WarningOutsideWorkingHours,
			Message: fmt.Sprintf("slot %s (%d min) is outside operator %d working hours on %s",
				appt.StartTime, appt.DurationMinutes, appt.OperatorID, appt.Date.Format(domain.DateFormat)),
		})
	}

	if report.IsHoliday() {
		result.Warnings = append(result.Warnings, domain.Warning{
			Kind:    domain.WarningHolidayDate,
			Message: fmt.Sprintf("%s is a holiday (%s)", appt.Date.Format(domain.DateFormat), strings.Join(report.HolidayNames, ", ")),
		})
	}

	if e.horizonDays > 0 {
		maxDate := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).
			AddDate(0, 0, e.horizonDays)
		apptDate := time.Date(appt.Date.Year(), appt.Date.Month(), appt.Date.Day(), 0, 0, 0, 0, now.Location())
		if apptDate.After(maxDate) {
			result.Warnings = append(result.Warnings, domain.Warning{
				Kind:    domain.WarningBeyondBookingHorizon,
				Message: fmt.Sprintf("appointment is more than %d days ahead", e.horizonDays),
			})
		}
	}
}

// passSuggestions выполняет третий проход: необязательные подсказки.
// Они никогда не блокируют, не требуют override и нигде не фиксируются.
func (e *Engine) passSuggestions(ctx context.Context, appt *domain.Appointment, result *domain.ValidationResult) error {
	sameClient, err := e.appointmentRepo.GetByClientAndDate(ctx, appt.ClientID, appt.Date, excludeID(appt))
	if err != nil {
		return fmt.Errorf("%w: failed to get client appointments: %v", ErrInternal, err)
	}

	end, err := appt.EndTime()
	if err != nil {
		return nil
	}

	for _, other := range sameClient {
		otherEnd, err := other.EndTime()
		if err != nil {
			continue
		}
		if otherEnd == appt.StartTime || other.StartTime == end {
			result.Suggestions = append(result.Suggestions, domain.Suggestion{
				Kind: domain.SuggestionAdjacentClientBooking,
				Message: fmt.Sprintf("slot is directly adjacent to appointment %s for the same client - consider merging",
					other.ID),
			})
		}
	}

	return nil
}

// startInPast сравнивает наивный момент начала записи с now
func startInPast(appt *domain.Appointment, now time.Time) (bool, error) {
	startMinutes, err := appt.StartTime.Minutes()
	if err != nil {
		return false, err
	}

	startInstant := time.Date(appt.Date.Year(), appt.Date.Month(), appt.Date.Day(), 0, 0, 0, 0, now.Location()).
		Add(time.Duration(startMinutes) * time.Minute)
	return startInstant.Before(now), nil
}

// excludeID возвращает ID записи для исключения из проверок, если он задан
func excludeID(appt *domain.Appointment) *string {
	if appt.ID == "" {
		return nil
	}
	return ptr.Ptr(appt.ID)
}
