package validation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/directoryservice"
	"github.com/m04kA/SMC-AppointmentService/internal/service/availability"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

type stubChecker struct {
	report *availability.Report
	called bool
}

func (s *stubChecker) Check(_ context.Context, _ int64, _ time.Time, _ types.TimeString, _ int, _ *string) (*availability.Report, error) {
	s.called = true
	return s.report, nil
}

type stubDirectory struct {
	client   *directoryservice.ClientInfo
	operator *directoryservice.Operator
	service  *directoryservice.Service
}

func (s *stubDirectory) GetClient(_ context.Context, clientID int64) (*directoryservice.ClientInfo, error) {
	if s.client == nil {
		return nil, directoryservice.ErrClientNotFound
	}
	return s.client, nil
}

func (s *stubDirectory) GetOperator(_ context.Context, operatorID int64) (*directoryservice.Operator, error) {
	if s.operator == nil {
		return nil, directoryservice.ErrOperatorNotFound
	}
	return s.operator, nil
}

func (s *stubDirectory) GetService(_ context.Context, serviceID int64) (*directoryservice.Service, error) {
	if s.service == nil {
		return nil, directoryservice.ErrServiceNotFound
	}
	return s.service, nil
}

type stubApptRepo struct {
	sameClient []*domain.Appointment
}

func (s *stubApptRepo) GetByClientAndDate(_ context.Context, _ int64, _ time.Time, _ *string) ([]*domain.Appointment, error) {
	return s.sameClient, nil
}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

// testNow фиксированное "сейчас" для всех сценариев: 2026-09-01 08:00
var testNow = time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)

func healthyDirectory() *stubDirectory {
	return &stubDirectory{
		client:   &directoryservice.ClientInfo{ID: 1, Active: true},
		operator: &directoryservice.Operator{ID: 7, Active: true},
		service:  &directoryservice.Service{ID: 3, Name: "Стрижка", Active: true, DurationMinutes: 30, BufferMinutes: 15},
	}
}

func clearReport() *availability.Report {
	return &availability.Report{InsideWorkingWindow: true}
}

func candidate() *domain.Appointment {
	return &domain.Appointment{
		ID:              "appt-1",
		ClientID:        1,
		OperatorID:      7,
		ServiceID:       3,
		Date:            time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC),
		StartTime:       "09:00",
		DurationMinutes: 45, // 30 + 15 буфер
		Status:          domain.StatusDraft,
	}
}

func newTestEngine(checker AvailabilityChecker, directory DirectoryClient, repo AppointmentRepository, horizonDays int) *Engine {
	engine := NewEngine(checker, directory, repo, horizonDays, nopLogger{})
	engine.timeProvider = fixedTime{now: testNow}
	return engine
}

func TestEngine_Validate_AllClear(t *testing.T) {
	engine := newTestEngine(&stubChecker{report: clearReport()}, healthyDirectory(), &stubApptRepo{}, 0)

	result, err := engine.Validate(context.Background(), candidate())
	require.NoError(t, err)

	assert.False(t, result.IsBlocked())
	assert.Empty(t, result.Warnings)
	assert.Empty(t, result.Suggestions)
}

func TestEngine_Validate_ConflictIsHardBlock(t *testing.T) {
	checker := &stubChecker{report: &availability.Report{
		ConflictIDs:         []string{"other-appt"},
		InsideWorkingWindow: false,
	}}
	engine := newTestEngine(checker, healthyDirectory(), &stubApptRepo{}, 0)

	result, err := engine.Validate(context.Background(), candidate())
	require.NoError(t, err)

	require.Len(t, result.HardBlocks, 1)
	assert.Contains(t, result.HardBlocks[0], "other-appt")

	// Hard block не останавливает остальные проходы: предупреждение
	// о рабочем окне тоже должно быть собрано
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, domain.WarningOutsideWorkingHours, result.Warnings[0].Kind)
}

func TestEngine_Validate_MissingReferences(t *testing.T) {
	engine := newTestEngine(&stubChecker{report: clearReport()}, &stubDirectory{}, &stubApptRepo{}, 0)

	result, err := engine.Validate(context.Background(), candidate())
	require.NoError(t, err)

	// Клиент, оператор и услуга отсутствуют - три hard block-а
	require.Len(t, result.HardBlocks, 3)
	assert.True(t, result.IsBlocked())
}

func TestEngine_Validate_InactiveOperator(t *testing.T) {
	directory := healthyDirectory()
	directory.operator.Active = false
	engine := newTestEngine(&stubChecker{report: clearReport()}, directory, &stubApptRepo{}, 0)

	result, err := engine.Validate(context.Background(), candidate())
	require.NoError(t, err)

	require.Len(t, result.HardBlocks, 1)
	assert.Contains(t, result.HardBlocks[0], "not active")
}

func TestEngine_Validate_DurationMismatch(t *testing.T) {
	engine := newTestEngine(&stubChecker{report: clearReport()}, healthyDirectory(), &stubApptRepo{}, 0)

	appt := candidate()
	appt.DurationMinutes = 30 // регламент услуги требует 30 + 15

	result, err := engine.Validate(context.Background(), appt)
	require.NoError(t, err)

	require.Len(t, result.HardBlocks, 1)
	assert.Contains(t, result.HardBlocks[0], "does not match service")
}

func TestEngine_Validate_MidnightCrossing(t *testing.T) {
	checker := &stubChecker{report: clearReport()}
	engine := newTestEngine(checker, healthyDirectory(), &stubApptRepo{}, 0)

	appt := candidate()
	appt.StartTime = "23:30"

	result, err := engine.Validate(context.Background(), appt)
	require.NoError(t, err)

	assert.True(t, result.IsBlocked())
	// Для некорректного интервала факты доступности не вычисляются
	assert.False(t, checker.called)
}

func TestEngine_Validate_StartInPast(t *testing.T) {
	engine := newTestEngine(&stubChecker{report: clearReport()}, healthyDirectory(), &stubApptRepo{}, 0)

	appt := candidate()
	appt.Date = time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	result, err := engine.Validate(context.Background(), appt)
	require.NoError(t, err)

	require.Len(t, result.HardBlocks, 1)
	assert.Contains(t, result.HardBlocks[0], "in the past")
}

func TestEngine_Validate_Warnings(t *testing.T) {
	checker := &stubChecker{report: &availability.Report{
		InsideWorkingWindow: false,
		HolidayNames:        []string{"Новый год"},
	}}
	// Горизонт 7 дней, запись на 2026-09-15 - за горизонтом
	engine := newTestEngine(checker, healthyDirectory(), &stubApptRepo{}, 7)

	result, err := engine.Validate(context.Background(), candidate())
	require.NoError(t, err)

	assert.False(t, result.IsBlocked())
	assert.ElementsMatch(t, []string{
		domain.WarningOutsideWorkingHours,
		domain.WarningHolidayDate,
		domain.WarningBeyondBookingHorizon,
	}, result.WarningKinds())
}

func TestEngine_Validate_AdjacentClientSuggestion(t *testing.T) {
	adjacent := &domain.Appointment{
		ID:              "appt-before",
		ClientID:        1,
		StartTime:       "08:15",
		DurationMinutes: 45, // заканчивается ровно в 09:00
		Status:          domain.StatusConfirmed,
	}
	engine := newTestEngine(&stubChecker{report: clearReport()}, healthyDirectory(),
		&stubApptRepo{sameClient: []*domain.Appointment{adjacent}}, 0)

	result, err := engine.Validate(context.Background(), candidate())
	require.NoError(t, err)

	assert.False(t, result.IsBlocked())
	require.Len(t, result.Suggestions, 1)
	assert.Equal(t, domain.SuggestionAdjacentClientBooking, result.Suggestions[0].Kind)
	assert.Contains(t, result.Suggestions[0].Message, "appt-before")
}

func TestEngine_Validate_NonAdjacentClientBooking(t *testing.T) {
	other := &domain.Appointment{
		ID:              "appt-far",
		ClientID:        1,
		StartTime:       "12:00",
		DurationMinutes: 30,
		Status:          domain.StatusConfirmed,
	}
	engine := newTestEngine(&stubChecker{report: clearReport()}, healthyDirectory(),
		&stubApptRepo{sameClient: []*domain.Appointment{other}}, 0)

	result, err := engine.Validate(context.Background(), candidate())
	require.NoError(t, err)
	assert.Empty(t, result.Suggestions)
}

func TestValidationResult_Stamp(t *testing.T) {
	result := &domain.ValidationResult{
		Warnings: []domain.Warning{
			{Kind: domain.WarningHolidayDate, Message: "holiday"},
		},
	}

	stamp := result.Stamp(testNow)
	assert.Equal(t, testNow, stamp.At)
	assert.False(t, stamp.Blocked)
	assert.Equal(t, []string{domain.WarningHolidayDate}, stamp.WarningKinds)
}
