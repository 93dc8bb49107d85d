package availability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

type stubAppointmentRepo struct {
	appointments  []*domain.Appointment
	gotExcludeID  *string
	gotOperatorID int64
}

func (s *stubAppointmentRepo) GetByOperatorAndDate(_ context.Context, operatorID int64, _ time.Time, excludeID *string) ([]*domain.Appointment, error) {
	s.gotOperatorID = operatorID
	s.gotExcludeID = excludeID
	return s.appointments, nil
}

type stubCalendarRepo struct {
	windows  []*domain.WorkingWindow
	holidays []*domain.Holiday
}

func (s *stubCalendarRepo) ListWindowsForWeekday(_ context.Context, _ int64, _ time.Weekday) ([]*domain.WorkingWindow, error) {
	return s.windows, nil
}

func (s *stubCalendarRepo) HolidaysForDate(_ context.Context, _ time.Time) ([]*domain.Holiday, error) {
	return s.holidays, nil
}

func appointmentAt(id string, start types.TimeString, duration int) *domain.Appointment {
	return &domain.Appointment{
		ID:              id,
		StartTime:       start,
		DurationMinutes: duration,
		Status:          domain.StatusConfirmed,
	}
}

func TestChecker_Check_Overlap(t *testing.T) {
	date := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name          string
		existing      *domain.Appointment
		start         types.TimeString
		duration      int
		wantConflicts []string
	}{
		{
			name:          "overlapping interval conflicts",
			existing:      appointmentAt("a1", "09:00", 30),
			start:         "09:15",
			duration:      30,
			wantConflicts: []string{"a1"},
		},
		{
			name:     "back to back is not a conflict",
			existing: appointmentAt("a1", "09:00", 30),
			start:    "09:30",
			duration: 30,
		},
		{
			name:     "candidate ending at existing start is not a conflict",
			existing: appointmentAt("a1", "10:00", 30),
			start:    "09:30",
			duration: 30,
		},
		{
			name:          "candidate inside existing conflicts",
			existing:      appointmentAt("a1", "09:00", 120),
			start:         "09:30",
			duration:      15,
			wantConflicts: []string{"a1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checker := NewChecker(
				&stubAppointmentRepo{appointments: []*domain.Appointment{tt.existing}},
				&stubCalendarRepo{},
			)

			report, err := checker.Check(context.Background(), 7, date, tt.start, tt.duration, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.wantConflicts, report.ConflictIDs)
			assert.Equal(t, len(tt.wantConflicts) > 0, report.HasConflicts())
		})
	}
}

func TestChecker_Check_ExcludeIDPassedToRepo(t *testing.T) {
	repo := &stubAppointmentRepo{}
	checker := NewChecker(repo, &stubCalendarRepo{})

	excludeID := "self-id"
	_, err := checker.Check(context.Background(), 7,
		time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC), "09:00", 30, &excludeID)
	require.NoError(t, err)

	require.NotNil(t, repo.gotExcludeID)
	assert.Equal(t, "self-id", *repo.gotExcludeID)
	assert.Equal(t, int64(7), repo.gotOperatorID)
}

func TestChecker_Check_WorkingWindow(t *testing.T) {
	// 2026-09-15 - вторник
	date := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	window := &domain.WorkingWindow{Weekday: time.Tuesday, StartTime: "09:00", EndTime: "18:00"}

	tests := []struct {
		name     string
		windows  []*domain.WorkingWindow
		start    types.TimeString
		duration int
		want     bool
	}{
		{name: "inside window", windows: []*domain.WorkingWindow{window}, start: "09:00", duration: 60, want: true},
		{name: "ends exactly at window end", windows: []*domain.WorkingWindow{window}, start: "17:30", duration: 30, want: true},
		{name: "starts before window", windows: []*domain.WorkingWindow{window}, start: "08:30", duration: 60, want: false},
		{name: "runs past window end", windows: []*domain.WorkingWindow{window}, start: "17:45", duration: 30, want: false},
		{name: "no windows at all", windows: nil, start: "10:00", duration: 30, want: false},
		{
			name: "fits second window of the day",
			windows: []*domain.WorkingWindow{
				{Weekday: time.Tuesday, StartTime: "09:00", EndTime: "12:00"},
				{Weekday: time.Tuesday, StartTime: "14:00", EndTime: "18:00"},
			},
			start:    "14:00",
			duration: 60,
			want:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checker := NewChecker(&stubAppointmentRepo{}, &stubCalendarRepo{windows: tt.windows})

			report, err := checker.Check(context.Background(), 7, date, tt.start, tt.duration, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, report.InsideWorkingWindow)
		})
	}
}

func TestChecker_Check_Holidays(t *testing.T) {
	date := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	checker := NewChecker(&stubAppointmentRepo{}, &stubCalendarRepo{
		holidays: []*domain.Holiday{
			{Name: "Новый год", Month: time.January, Day: 1, Recurring: true},
		},
	})

	report, err := checker.Check(context.Background(), 7, date, "10:00", 30, nil)
	require.NoError(t, err)
	assert.True(t, report.IsHoliday())
	assert.Equal(t, []string{"Новый год"}, report.HolidayNames)
}

func TestChecker_Check_InvalidInterval(t *testing.T) {
	checker := NewChecker(&stubAppointmentRepo{}, &stubCalendarRepo{})

	// Интервал, выходящий за пределы суток, не имеет фактов доступности
	_, err := checker.Check(context.Background(), 7,
		time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC), "23:30", 60, nil)
	require.Error(t, err)
}
