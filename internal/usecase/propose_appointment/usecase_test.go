package propose_appointment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-AppointmentService/internal/service/lifecycle"
)

type fakeRepo struct {
	appt        *domain.Appointment
	savedStatus domain.AppointmentStatus
	savedStamp  *domain.ValidationStamp
}

func (f *fakeRepo) GetByID(_ context.Context, id string) (*domain.Appointment, error) {
	if f.appt == nil || f.appt.ID != id {
		return nil, appointment.ErrAppointmentNotFound
	}
	copy := *f.appt
	return &copy, nil
}

func (f *fakeRepo) UpdateValidation(_ context.Context, _ string, status domain.AppointmentStatus, stamp *domain.ValidationStamp) error {
	f.savedStatus = status
	f.savedStamp = stamp
	return nil
}

type stubEngine struct {
	result *domain.ValidationResult
}

func (s *stubEngine) Validate(_ context.Context, _ *domain.Appointment) (*domain.ValidationResult, error) {
	return s.result, nil
}

type fakeTxManager struct{}

func (fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type eventRecorder struct {
	published int
}

func (r *eventRecorder) PublishTransition(string, domain.AppointmentStatus, domain.AppointmentStatus) {
	r.published++
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

var testNow = time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)

func draftAppointment() *domain.Appointment {
	return &domain.Appointment{
		ID:              "appt-1",
		ClientID:        1,
		OperatorID:      7,
		ServiceID:       3,
		Date:            time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC),
		StartTime:       "09:00",
		DurationMinutes: 30,
		Status:          domain.StatusDraft,
	}
}

func newTestUseCase(repo *fakeRepo, engine *stubEngine, events *eventRecorder) *UseCase {
	uc := NewUseCase(repo, engine, fakeTxManager{}, events, nopLogger{})
	uc.timeProvider = fixedTime{now: testNow}
	return uc
}

func TestUseCase_Execute_CleanValidationAdvances(t *testing.T) {
	repo := &fakeRepo{appt: draftAppointment()}
	events := &eventRecorder{}
	uc := newTestUseCase(repo, &stubEngine{result: &domain.ValidationResult{}}, events)

	result, err := uc.Execute(context.Background(), "appt-1")
	require.NoError(t, err)

	assert.False(t, result.Blocked())
	assert.Equal(t, domain.StatusProposed, result.Appointment.Status)
	assert.Equal(t, domain.StatusProposed, repo.savedStatus)
	require.NotNil(t, repo.savedStamp)
	assert.False(t, repo.savedStamp.Blocked)
	assert.Equal(t, testNow, repo.savedStamp.At)
	assert.Equal(t, 1, events.published)
}

func TestUseCase_Execute_WarningsDoNotBlock(t *testing.T) {
	repo := &fakeRepo{appt: draftAppointment()}
	uc := newTestUseCase(repo, &stubEngine{result: &domain.ValidationResult{
		Warnings: []domain.Warning{
			{Kind: domain.WarningHolidayDate, Message: "holiday"},
			{Kind: domain.WarningOutsideWorkingHours, Message: "outside"},
		},
	}}, &eventRecorder{})

	result, err := uc.Execute(context.Background(), "appt-1")
	require.NoError(t, err)

	assert.Equal(t, domain.StatusProposed, result.Appointment.Status)
	require.NotNil(t, repo.savedStamp)
	assert.Equal(t, []string{domain.WarningHolidayDate, domain.WarningOutsideWorkingHours},
		repo.savedStamp.WarningKinds)
}

func TestUseCase_Execute_HardBlockKeepsStatus(t *testing.T) {
	repo := &fakeRepo{appt: draftAppointment()}
	events := &eventRecorder{}
	uc := newTestUseCase(repo, &stubEngine{result: &domain.ValidationResult{
		HardBlocks: []string{"time slot conflicts with existing appointment"},
	}}, events)

	result, err := uc.Execute(context.Background(), "appt-1")
	require.NoError(t, err)

	assert.True(t, result.Blocked())
	assert.Equal(t, domain.StatusDraft, result.Appointment.Status)
	// Снимок фиксируется даже при блокировке
	assert.Equal(t, domain.StatusDraft, repo.savedStatus)
	require.NotNil(t, repo.savedStamp)
	assert.True(t, repo.savedStamp.Blocked)
	// Статус не изменился - события нет
	assert.Equal(t, 0, events.published)
}

func TestUseCase_Execute_Repropose(t *testing.T) {
	appt := draftAppointment()
	appt.Status = domain.StatusProposed
	repo := &fakeRepo{appt: appt}
	events := &eventRecorder{}
	uc := newTestUseCase(repo, &stubEngine{result: &domain.ValidationResult{}}, events)

	result, err := uc.Execute(context.Background(), "appt-1")
	require.NoError(t, err)

	// Повторный propose легален и пересчитывает валидацию,
	// но статус фактически не меняется - события нет
	assert.Equal(t, domain.StatusProposed, result.Appointment.Status)
	require.NotNil(t, repo.savedStamp)
	assert.Equal(t, 0, events.published)
}

func TestUseCase_Execute_InvalidStatus(t *testing.T) {
	appt := draftAppointment()
	appt.Status = domain.StatusConfirmed
	uc := newTestUseCase(&fakeRepo{appt: appt}, &stubEngine{result: &domain.ValidationResult{}}, &eventRecorder{})

	_, err := uc.Execute(context.Background(), "appt-1")
	assert.ErrorIs(t, err, lifecycle.ErrInvalidTransition)
}

func TestUseCase_Execute_NotFound(t *testing.T) {
	uc := newTestUseCase(&fakeRepo{}, &stubEngine{result: &domain.ValidationResult{}}, &eventRecorder{})

	_, err := uc.Execute(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}
