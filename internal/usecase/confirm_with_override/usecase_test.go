package confirm_with_override

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
	appt          *domain.Appointment
	savedOverride *domain.OverrideInfo
}

func (f *fakeRepo) GetByID(_ context.Context, id string) (*domain.Appointment, error) {
	if f.appt == nil || f.appt.ID != id {
		return nil, appointment.ErrAppointmentNotFound
	}
	copy := *f.appt
	return &copy, nil
}

func (f *fakeRepo) ConfirmWithOverride(_ context.Context, _ string, override *domain.OverrideInfo) error {
	f.savedOverride = override
	return nil
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

func awaitingAppointment(stamp *domain.ValidationStamp) *domain.Appointment {
	return &domain.Appointment{
		ID:              "appt-1",
		ClientID:        1,
		OperatorID:      7,
		ServiceID:       3,
		Date:            time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC),
		StartTime:       "09:00",
		DurationMinutes: 30,
		Status:          domain.StatusAwaitingOperator,
		LastValidation:  stamp,
	}
}

func warningStamp(kinds ...string) *domain.ValidationStamp {
	return &domain.ValidationStamp{
		At:           testNow.Add(-time.Hour),
		Blocked:      false,
		WarningKinds: kinds,
	}
}

func newTestUseCase(repo *fakeRepo, events *eventRecorder) *UseCase {
	uc := NewUseCase(repo, fakeTxManager{}, events, nopLogger{})
	uc.timeProvider = fixedTime{now: testNow}
	return uc
}

func request(kinds ...string) *Request {
	justification := "клиент попросил записать в праздник"
	return &Request{
		AppointmentID:       "appt-1",
		OperatorID:          7,
		Justification:       &justification,
		IgnoredWarningKinds: kinds,
	}
}

func TestUseCase_Execute_Success(t *testing.T) {
	repo := &fakeRepo{appt: awaitingAppointment(warningStamp(domain.WarningHolidayDate, domain.WarningOutsideWorkingHours))}
	events := &eventRecorder{}
	uc := newTestUseCase(repo, events)

	appt, err := uc.Execute(context.Background(), request(domain.WarningHolidayDate))
	require.NoError(t, err)

	assert.Equal(t, domain.StatusConfirmedWithOverride, appt.Status)

	// След override фиксируется вместе со сменой статуса
	require.NotNil(t, repo.savedOverride)
	assert.Equal(t, testNow, repo.savedOverride.At)
	assert.Equal(t, int64(7), repo.savedOverride.OperatorID)
	assert.Equal(t, []string{domain.WarningHolidayDate}, repo.savedOverride.IgnoredWarningKinds)
	require.NotNil(t, repo.savedOverride.Justification)

	assert.Equal(t, 1, events.published)
}

func TestUseCase_Execute_NoRecordedValidation(t *testing.T) {
	repo := &fakeRepo{appt: awaitingAppointment(nil)}
	uc := newTestUseCase(repo, &eventRecorder{})

	_, err := uc.Execute(context.Background(), request(domain.WarningHolidayDate))
	assert.ErrorIs(t, err, ErrOverrideViolation)
	assert.Nil(t, repo.savedOverride)
}

func TestUseCase_Execute_BlockedValidation(t *testing.T) {
	stamp := warningStamp(domain.WarningHolidayDate)
	stamp.Blocked = true
	repo := &fakeRepo{appt: awaitingAppointment(stamp)}
	uc := newTestUseCase(repo, &eventRecorder{})

	// Hard blocks не переопределяются никогда
	_, err := uc.Execute(context.Background(), request(domain.WarningHolidayDate))
	assert.ErrorIs(t, err, ErrOverrideViolation)
}

func TestUseCase_Execute_UnknownWarningKind(t *testing.T) {
	repo := &fakeRepo{appt: awaitingAppointment(warningStamp(domain.WarningHolidayDate))}
	uc := newTestUseCase(repo, &eventRecorder{})

	// Игнорировать можно только kind-ы, зафиксированные последней валидацией
	_, err := uc.Execute(context.Background(), request(domain.WarningBeyondBookingHorizon))
	assert.ErrorIs(t, err, ErrOverrideViolation)
}

func TestUseCase_Execute_EmptyKinds(t *testing.T) {
	uc := newTestUseCase(&fakeRepo{appt: awaitingAppointment(warningStamp(domain.WarningHolidayDate))}, &eventRecorder{})

	_, err := uc.Execute(context.Background(), request())
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUseCase_Execute_WrongStatus(t *testing.T) {
	appt := awaitingAppointment(warningStamp(domain.WarningHolidayDate))
	appt.Status = domain.StatusProposed
	uc := newTestUseCase(&fakeRepo{appt: appt}, &eventRecorder{})

	_, err := uc.Execute(context.Background(), request(domain.WarningHolidayDate))
	assert.ErrorIs(t, err, lifecycle.ErrInvalidTransition)
}

func TestUseCase_Execute_NotFound(t *testing.T) {
	uc := newTestUseCase(&fakeRepo{}, &eventRecorder{})

	req := request(domain.WarningHolidayDate)
	req.AppointmentID = "missing"
	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}
