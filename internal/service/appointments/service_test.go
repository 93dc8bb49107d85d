package appointments

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
	appointments map[string]*domain.Appointment
	rejectNotes  map[string]*string
}

func newFakeRepo(appts ...*domain.Appointment) *fakeRepo {
	repo := &fakeRepo{
		appointments: make(map[string]*domain.Appointment),
		rejectNotes:  make(map[string]*string),
	}
	for _, appt := range appts {
		repo.appointments[appt.ID] = appt
	}
	return repo
}

func (f *fakeRepo) Create(_ context.Context, appt *domain.Appointment) (*domain.Appointment, error) {
	stored := *appt
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	f.appointments[appt.ID] = &stored
	return &stored, nil
}

func (f *fakeRepo) GetByID(_ context.Context, id string) (*domain.Appointment, error) {
	appt, ok := f.appointments[id]
	if !ok {
		return nil, appointment.ErrAppointmentNotFound
	}
	copy := *appt
	return &copy, nil
}

func (f *fakeRepo) ListByOperator(_ context.Context, filter domain.OperatorAppointmentsFilter) ([]*domain.Appointment, error) {
	var result []*domain.Appointment
	for _, appt := range f.appointments {
		if appt.OperatorID == filter.OperatorID {
			result = append(result, appt)
		}
	}
	return result, nil
}

func (f *fakeRepo) ListDue(_ context.Context, _ time.Time) ([]*domain.Appointment, error) {
	var result []*domain.Appointment
	for _, appt := range f.appointments {
		if appt.IsConfirmed() {
			result = append(result, appt)
		}
	}
	return result, nil
}

func (f *fakeRepo) UpdateStatus(_ context.Context, id string, status domain.AppointmentStatus) error {
	appt, ok := f.appointments[id]
	if !ok {
		return appointment.ErrAppointmentNotFound
	}
	appt.Status = status
	return nil
}

func (f *fakeRepo) Reject(_ context.Context, id string, note *string) error {
	appt, ok := f.appointments[id]
	if !ok {
		return appointment.ErrAppointmentNotFound
	}
	appt.Status = domain.StatusRejected
	f.rejectNotes[id] = note
	return nil
}

type fakeTxManager struct{}

func (fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type recordedEvent struct {
	id       string
	from, to domain.AppointmentStatus
}

type eventRecorder struct {
	events []recordedEvent
}

func (r *eventRecorder) PublishTransition(id string, from, to domain.AppointmentStatus) {
	r.events = append(r.events, recordedEvent{id: id, from: from, to: to})
}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func newTestService(repo *fakeRepo, events *eventRecorder, now time.Time) *Service {
	svc := NewService(repo, fakeTxManager{}, events, nopLogger{})
	svc.timeProvider = fixedTime{now: now}
	return svc
}

func testAppointment(id string, status domain.AppointmentStatus) *domain.Appointment {
	return &domain.Appointment{
		ID:              id,
		ClientID:        1,
		OperatorID:      7,
		ServiceID:       3,
		Date:            time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC),
		StartTime:       "09:00",
		DurationMinutes: 30,
		Status:          status,
	}
}

func TestService_CreateDraft(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &eventRecorder{}, time.Now())

	appt, err := svc.CreateDraft(context.Background(), CreateDraftRequest{
		ClientID:        1,
		OperatorID:      7,
		ServiceID:       3,
		Date:            time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC),
		StartTime:       "09:00",
		DurationMinutes: 30,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, appt.ID)
	assert.Equal(t, domain.StatusDraft, appt.Status)
	assert.Contains(t, repo.appointments, appt.ID)
}

func TestService_CreateDraft_InvalidInput(t *testing.T) {
	svc := newTestService(newFakeRepo(), &eventRecorder{}, time.Now())

	_, err := svc.CreateDraft(context.Background(), CreateDraftRequest{
		ClientID: 0, OperatorID: 7, ServiceID: 3,
		Date: time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.CreateDraft(context.Background(), CreateDraftRequest{
		ClientID: 1, OperatorID: 7, ServiceID: 3,
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestService_ConfirmByClient(t *testing.T) {
	events := &eventRecorder{}
	repo := newFakeRepo(testAppointment("a1", domain.StatusProposed))
	svc := newTestService(repo, events, time.Now())

	appt, err := svc.ConfirmByClient(context.Background(), "a1")
	require.NoError(t, err)

	assert.Equal(t, domain.StatusAwaitingOperator, appt.Status)
	assert.Equal(t, domain.StatusAwaitingOperator, repo.appointments["a1"].Status)
	require.Len(t, events.events, 1)
	assert.Equal(t, recordedEvent{id: "a1", from: domain.StatusProposed, to: domain.StatusAwaitingOperator}, events.events[0])
}

func TestService_ConfirmByClient_InvalidTransition(t *testing.T) {
	events := &eventRecorder{}
	repo := newFakeRepo(testAppointment("a1", domain.StatusDraft))
	svc := newTestService(repo, events, time.Now())

	_, err := svc.ConfirmByClient(context.Background(), "a1")
	assert.ErrorIs(t, err, lifecycle.ErrInvalidTransition)
	assert.Equal(t, domain.StatusDraft, repo.appointments["a1"].Status)
	assert.Empty(t, events.events)
}

func TestService_Cancel_NotAllowedFromAwaitingOperator(t *testing.T) {
	repo := newFakeRepo(testAppointment("a1", domain.StatusAwaitingOperator))
	svc := newTestService(repo, &eventRecorder{}, time.Now())

	_, err := svc.Cancel(context.Background(), "a1")
	assert.ErrorIs(t, err, lifecycle.ErrInvalidTransition)
}

func TestService_Cancel_FromConfirmed(t *testing.T) {
	repo := newFakeRepo(testAppointment("a1", domain.StatusConfirmed))
	svc := newTestService(repo, &eventRecorder{}, time.Now())

	appt, err := svc.Cancel(context.Background(), "a1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, appt.Status)
}

func TestService_Reject_StoresJustification(t *testing.T) {
	repo := newFakeRepo(testAppointment("a1", domain.StatusAwaitingOperator))
	svc := newTestService(repo, &eventRecorder{}, time.Now())

	note := "мастер в отпуске"
	appt, err := svc.Reject(context.Background(), "a1", &note)
	require.NoError(t, err)

	assert.Equal(t, domain.StatusRejected, appt.Status)
	require.Contains(t, repo.rejectNotes, "a1")
	assert.Equal(t, &note, repo.rejectNotes["a1"])
}

func TestService_GetByID_NotFound(t *testing.T) {
	svc := newTestService(newFakeRepo(), &eventRecorder{}, time.Now())

	_, err := svc.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestService_CompleteIfDue(t *testing.T) {
	// Запись 2026-09-15 09:00-09:30

	t.Run("not due yet stays confirmed", func(t *testing.T) {
		events := &eventRecorder{}
		repo := newFakeRepo(testAppointment("a1", domain.StatusConfirmed))
		svc := newTestService(repo, events, time.Date(2026, 9, 15, 9, 15, 0, 0, time.UTC))

		result, err := svc.CompleteIfDue(context.Background(), "a1")
		require.NoError(t, err)
		assert.Equal(t, domain.StatusConfirmed, result.Status)
		assert.Empty(t, events.events)
	})

	t.Run("due appointment completes", func(t *testing.T) {
		events := &eventRecorder{}
		repo := newFakeRepo(testAppointment("a1", domain.StatusConfirmed))
		svc := newTestService(repo, events, time.Date(2026, 9, 15, 9, 30, 0, 0, time.UTC))

		result, err := svc.CompleteIfDue(context.Background(), "a1")
		require.NoError(t, err)
		assert.Equal(t, domain.StatusCompleted, result.Status)
		require.Len(t, events.events, 1)
		assert.Equal(t, domain.StatusConfirmed, events.events[0].from)
	})

	t.Run("already completed is a no-op", func(t *testing.T) {
		events := &eventRecorder{}
		repo := newFakeRepo(testAppointment("a1", domain.StatusCompleted))
		svc := newTestService(repo, events, time.Date(2026, 9, 16, 0, 0, 0, 0, time.UTC))

		result, err := svc.CompleteIfDue(context.Background(), "a1")
		require.NoError(t, err)
		assert.Equal(t, domain.StatusCompleted, result.Status)
		assert.Empty(t, events.events)
	})

	t.Run("draft can not be completed", func(t *testing.T) {
		repo := newFakeRepo(testAppointment("a1", domain.StatusDraft))
		svc := newTestService(repo, &eventRecorder{}, time.Date(2026, 9, 16, 0, 0, 0, 0, time.UTC))

		_, err := svc.CompleteIfDue(context.Background(), "a1")
		assert.ErrorIs(t, err, lifecycle.ErrInvalidTransition)
	})
}

func TestService_CompleteDue(t *testing.T) {
	events := &eventRecorder{}
	repo := newFakeRepo(
		testAppointment("due-1", domain.StatusConfirmed),
		testAppointment("due-2", domain.StatusConfirmedWithOverride),
	)
	svc := newTestService(repo, events, time.Date(2026, 9, 16, 0, 0, 0, 0, time.UTC))

	completed, err := svc.CompleteDue(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, completed)
	assert.Equal(t, domain.StatusCompleted, repo.appointments["due-1"].Status)
	assert.Equal(t, domain.StatusCompleted, repo.appointments["due-2"].Status)
	assert.Len(t, events.events, 2)
}
