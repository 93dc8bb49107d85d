package calendar

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/psqlbuilder"
)

// Переиспользуем интерфейсы из dbmetrics для работы с БД
type DBExecutor = dbmetrics.DBExecutor

// Repository репозиторий правил календаря: рабочие окна операторов
// и праздничный календарь. Для движка это read-only справочник,
// мутации идут только через административные операции.
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория правил календаря
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// ListWindowsByOperator получает все рабочие окна оператора
func (r *Repository) ListWindowsByOperator(ctx context.Context, operatorID int64) ([]*domain.WorkingWindow, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "operator_id", "weekday", "start_time", "end_time").
		From("working_windows").
		Where(squirrel.Eq{"operator_id": operatorID}).
		OrderBy("weekday ASC, start_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListWindowsByOperator - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListWindowsByOperator - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanWindows(rows)
}

// ListWindowsForWeekday получает рабочие окна оператора на день недели
func (r *Repository) ListWindowsForWeekday(ctx context.Context, operatorID int64, weekday time.Weekday) ([]*domain.WorkingWindow, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "operator_id", "weekday", "start_time", "end_time").
		From("working_windows").
		Where(squirrel.Eq{"operator_id": operatorID}).
		Where(squirrel.Eq{"weekday": int(weekday)}).
		OrderBy("start_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListWindowsForWeekday - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListWindowsForWeekday - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanWindows(rows)
}

// ReplaceWindows заменяет все рабочие окна оператора на переданный набор.
// Административная операция: выполняется целиком в транзакции вызывающей стороны.
func (r *Repository) ReplaceWindows(ctx context.Context, operatorID int64, windows []*domain.WorkingWindow) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("working_windows").
		Where(squirrel.Eq{"operator_id": operatorID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: ReplaceWindows - build delete query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: ReplaceWindows - execute delete: %v", ErrExecQuery, err)
	}

	if len(windows) == 0 {
		return nil
	}

	insertBuilder := psqlbuilder.Insert("working_windows").
		Columns("operator_id", "weekday", "start_time", "end_time")
	for _, w := range windows {
		insertBuilder = insertBuilder.Values(operatorID, int(w.Weekday), w.StartTime, w.EndTime)
	}

	query, args, err = insertBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: ReplaceWindows - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: ReplaceWindows - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// ListHolidays получает весь праздничный календарь
func (r *Repository) ListHolidays(ctx context.Context) ([]*domain.Holiday, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "name", "holiday_date", "month", "day", "recurring").
		From("holidays").
		OrderBy("recurring ASC, holiday_date ASC, month ASC, day ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListHolidays - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListHolidays - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanHolidays(rows)
}

// HolidaysForDate получает праздники, приходящиеся на дату:
// точное совпадение даты либо повторяющийся праздник по месяцу и дню
func (r *Repository) HolidaysForDate(ctx context.Context, date time.Time) ([]*domain.Holiday, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)

	query, args, err := psqlbuilder.Select("id", "name", "holiday_date", "month", "day", "recurring").
		From("holidays").
		Where(squirrel.Or{
			squirrel.And{
				squirrel.Eq{"recurring": false},
				squirrel.Eq{"holiday_date": day},
			},
			squirrel.And{
				squirrel.Eq{"recurring": true},
				squirrel.Eq{"month": int(date.Month())},
				squirrel.Eq{"day": date.Day()},
			},
		}).
		OrderBy("id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: HolidaysForDate - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: HolidaysForDate - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanHolidays(rows)
}

// AddHoliday добавляет праздник в календарь
func (r *Repository) AddHoliday(ctx context.Context, holiday *domain.Holiday) (*domain.Holiday, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	var month, day interface{}
	if holiday.Recurring {
		month = int(holiday.Month)
		day = holiday.Day
	}

	query, args, err := psqlbuilder.Insert("holidays").
		Columns("name", "holiday_date", "month", "day", "recurring").
		Values(holiday.Name, holiday.Date, month, day, holiday.Recurring).
		Suffix("RETURNING id").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: AddHoliday - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&holiday.ID); err != nil {
		return nil, fmt.Errorf("%w: AddHoliday - execute insert: %v", ErrExecQuery, err)
	}

	return holiday, nil
}

// DeleteHoliday удаляет праздник из календаря
func (r *Repository) DeleteHoliday(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("holidays").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: DeleteHoliday - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: DeleteHoliday - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: DeleteHoliday - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrHolidayNotFound
	}

	return nil
}

// scanWindows сканирует результаты запроса в слайс рабочих окон
func scanWindows(rows *sql.Rows) ([]*domain.WorkingWindow, error) {
	windows := make([]*domain.WorkingWindow, 0)

	for rows.Next() {
		var w domain.WorkingWindow
		var weekday int

		if err := rows.Scan(&w.ID, &w.OperatorID, &weekday, &w.StartTime, &w.EndTime); err != nil {
			return nil, fmt.Errorf("%w: scanWindows - scan row: %v", ErrScanRow, err)
		}

		w.Weekday = time.Weekday(weekday)
		windows = append(windows, &w)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanWindows - rows error: %v", ErrScanRow, err)
	}

	return windows, nil
}

// scanHolidays сканирует результаты запроса в слайс праздников
func scanHolidays(rows *sql.Rows) ([]*domain.Holiday, error) {
	holidays := make([]*domain.Holiday, 0)

	for rows.Next() {
		var h domain.Holiday
		var date sql.NullTime
		var month, day sql.NullInt64

		if err := rows.Scan(&h.ID, &h.Name, &date, &month, &day, &h.Recurring); err != nil {
			return nil, fmt.Errorf("%w: scanHolidays - scan row: %v", ErrScanRow, err)
		}

		if date.Valid {
			h.Date = &date.Time
		}
		if month.Valid {
			h.Month = time.Month(month.Int64)
		}
		if day.Valid {
			h.Day = int(day.Int64)
		}

		holidays = append(holidays, &h)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanHolidays - rows error: %v", ErrScanRow, err)
	}

	return holidays, nil
}
