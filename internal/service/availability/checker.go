package availability

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Checker проверяет доступность слота-кандидата (оператор, начало,
// длительность) по трём фактам: пересечения с активными записями,
// попадание в рабочее окно, праздничная дата.
//
// Checker stateless: вся его память - репозитории записей и правил календаря.
type Checker struct {
	appointmentRepo AppointmentRepository
	calendarRepo    CalendarRepository
}

// NewChecker создает новый чекер доступности
func NewChecker(appointmentRepo AppointmentRepository, calendarRepo CalendarRepository) *Checker {
	return &Checker{
		appointmentRepo: appointmentRepo,
		calendarRepo:    calendarRepo,
	}
}

// Check проверяет кандидата [start, start+duration) для оператора на дату.
// excludeID позволяет ревалидации существующей записи не сравнивать её
// саму с собой. Интервалы полуоткрытые: запись, заканчивающаяся ровно в
// минуту начала другой, пересечением не считается.
func (c *Checker) Check(ctx context.Context, operatorID int64, date time.Time, start types.TimeString, durationMinutes int, excludeID *string) (*Report, error) {
	end, err := start.AddMinutes(durationMinutes)
	if err != nil {
		return nil, fmt.Errorf("availability: invalid candidate interval: %w", err)
	}

	report := &Report{}

	// 1. Пересечения с занимающими слот записями оператора на эту дату
	existing, err := c.appointmentRepo.GetByOperatorAndDate(ctx, operatorID, date, excludeID)
	if err != nil {
		return nil, fmt.Errorf("availability: failed to get operator appointments: %w", err)
	}

	for _, appt := range existing {
		apptEnd, err := appt.EndTime()
		if err != nil {
			// Некорректный интервал существующей записи не должен ронять
			// проверку кандидата
			continue
		}
		if appt.StartTime.IsBefore(end) && apptEnd.IsAfter(start) {
			report.ConflictIDs = append(report.ConflictIDs, appt.ID)
		}
	}

	// 2. Попадание целиком хотя бы в одно рабочее окно оператора
	windows, err := c.calendarRepo.ListWindowsForWeekday(ctx, operatorID, date.Weekday())
	if err != nil {
		return nil, fmt.Errorf("availability: failed to get working windows: %w", err)
	}

	for _, w := range windows {
		if w.Contains(start, end) {
			report.InsideWorkingWindow = true
			break
		}
	}

	// 3. Праздничный календарь: точная дата или повторяющийся месяц/день
	holidays, err := c.calendarRepo.HolidaysForDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("availability: failed to get holidays: %w", err)
	}

	for _, h := range holidays {
		report.HolidayNames = append(report.HolidayNames, h.Name)
	}

	return report, nil
}
