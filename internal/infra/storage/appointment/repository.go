package appointment

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/psqlbuilder"
)

// appointmentColumns полный список колонок таблицы appointments
var appointmentColumns = []string{
	"id",
	"client_id",
	"operator_id",
	"service_id",
	"appointment_date",
	"start_time",
	"duration_minutes",
	"status",
	"note",
	"last_validated_at",
	"last_blocked",
	"last_warning_kinds",
	"override_at",
	"override_operator_id",
	"override_justification",
	"override_ignored_kinds",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с записями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория записей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новую запись. ID генерируется вызывающей стороной (uuid).
func (r *Repository) Create(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("appointments").
		Columns(
			"id",
			"client_id",
			"operator_id",
			"service_id",
			"appointment_date",
			"start_time",
			"duration_minutes",
			"status",
			"note",
		).
		Values(
			appt.ID,
			appt.ClientID,
			appt.OperatorID,
			appt.ServiceID,
			appt.Date,
			appt.StartTime,
			appt.DurationMinutes,
			appt.Status,
			appt.Note,
		).
		Suffix("RETURNING created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	appt.CreatedAt = createdAt.Time
	appt.UpdatedAt = updatedAt.Time

	return appt, nil
}

// GetByID получает запись по ID.
// Внутри транзакции строка блокируется (FOR UPDATE), чтобы переход выполнялся
// как атомарная единица "прочитал - проверил - записал".
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(appointmentColumns...).
		From("appointments").
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	appt, err := scanAppointment(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan appointment: %v", ErrScanRow, err)
	}

	return appt, nil
}

// GetByOperatorAndDate получает записи оператора на дату, занимающие слот
// (статус не rejected и не cancelled). excludeID позволяет при ревалидации
// существующей записи не сравнивать её саму с собой.
//
// Внутри транзакции строки блокируются (FOR UPDATE): это сериализует
// конкурирующие переходы по одному оператору, не затрагивая остальных.
func (r *Repository) GetByOperatorAndDate(ctx context.Context, operatorID int64, date time.Time, excludeID *string) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(appointmentColumns...).
		From("appointments").
		Where(squirrel.Eq{"operator_id": operatorID}).
		Where(squirrel.Eq{"appointment_date": date}).
		Where(squirrel.NotEq{"status": releasedStatusStrings()}).
		OrderBy("start_time ASC")

	if excludeID != nil {
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"id": *excludeID})
	}

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByOperatorAndDate - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByOperatorAndDate - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanAppointments(rows)
}

// GetByClientAndDate получает записи клиента на дату, занимающие слот.
// Используется для подсказок о смежных записях того же клиента.
func (r *Repository) GetByClientAndDate(ctx context.Context, clientID int64, date time.Time, excludeID *string) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(appointmentColumns...).
		From("appointments").
		Where(squirrel.Eq{"client_id": clientID}).
		Where(squirrel.Eq{"appointment_date": date}).
		Where(squirrel.NotEq{"status": releasedStatusStrings()}).
		OrderBy("start_time ASC")

	if excludeID != nil {
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"id": *excludeID})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByClientAndDate - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByClientAndDate - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanAppointments(rows)
}

// ListByOperator получает записи оператора с гибкой фильтрацией
// по периоду, статусу и включению освобождённых слотов
func (r *Repository) ListByOperator(ctx context.Context, filter domain.OperatorAppointmentsFilter) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(appointmentColumns...).
		From("appointments").
		Where(squirrel.Eq{"operator_id": filter.OperatorID})

	if filter.StartDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"appointment_date": *filter.StartDate})
	}
	if filter.EndDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.LtOrEq{"appointment_date": *filter.EndDate})
	}

	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
	} else if !filter.IncludeReleased {
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"status": releasedStatusStrings()})
	}

	if filter.StartDate != nil && filter.EndDate != nil && filter.StartDate.Equal(*filter.EndDate) {
		selectBuilder = selectBuilder.OrderBy("start_time ASC")
	} else {
		selectBuilder = selectBuilder.OrderBy("appointment_date DESC, start_time DESC")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByOperator - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByOperator - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanAppointments(rows)
}

// ListDue получает подтверждённые записи, интервал которых полностью прошёл
// к моменту now. Используется фоновым завершением.
func (r *Repository) ListDue(ctx context.Context, now time.Time) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	nowTime := now.Format(domain.TimeFormat)

	query, args, err := psqlbuilder.Select(appointmentColumns...).
		From("appointments").
		Where(squirrel.Eq{"status": []string{
			string(domain.StatusConfirmed),
			string(domain.StatusConfirmedWithOverride),
		}}).
		Where(squirrel.Or{
			squirrel.Lt{"appointment_date": today},
			squirrel.And{
				squirrel.Eq{"appointment_date": today},
				squirrel.Expr("start_time + make_interval(mins => duration_minutes) <= ?::time", nowTime),
			},
		}).
		OrderBy("appointment_date ASC, start_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListDue - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListDue - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanAppointments(rows)
}

// UpdateStatus обновляет статус записи
func (r *Repository) UpdateStatus(ctx context.Context, id string, status domain.AppointmentStatus) error {
	return r.update(ctx, "UpdateStatus", psqlbuilder.Update("appointments").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}))
}

// UpdateValidation обновляет статус записи вместе со снимком последней
// валидации. Выполняется одним UPDATE, чтобы переход и снимок были
// наблюдаемы только вместе.
func (r *Repository) UpdateValidation(ctx context.Context, id string, status domain.AppointmentStatus, stamp *domain.ValidationStamp) error {
	return r.update(ctx, "UpdateValidation", psqlbuilder.Update("appointments").
		Set("status", status).
		Set("last_validated_at", stamp.At).
		Set("last_blocked", stamp.Blocked).
		Set("last_warning_kinds", pq.StringArray(stamp.WarningKinds)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}))
}

// ConfirmWithOverride переводит запись в confirmed_with_override и
// одновременно записывает OverrideInfo. Один UPDATE: запись не может
// оказаться в confirmed_with_override без override-полей и наоборот.
func (r *Repository) ConfirmWithOverride(ctx context.Context, id string, override *domain.OverrideInfo) error {
	return r.update(ctx, "ConfirmWithOverride", psqlbuilder.Update("appointments").
		Set("status", domain.StatusConfirmedWithOverride).
		Set("override_at", override.At).
		Set("override_operator_id", override.OperatorID).
		Set("override_justification", override.Justification).
		Set("override_ignored_kinds", pq.StringArray(override.IgnoredWarningKinds)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}))
}

// Reject переводит запись в rejected с опциональной причиной в note
func (r *Repository) Reject(ctx context.Context, id string, note *string) error {
	updateBuilder := psqlbuilder.Update("appointments").
		Set("status", domain.StatusRejected).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id})

	if note != nil {
		updateBuilder = updateBuilder.Set("note", *note)
	}

	return r.update(ctx, "Reject", updateBuilder)
}

// update выполняет UPDATE и проверяет, что строка существовала
func (r *Repository) update(ctx context.Context, method string, builder squirrel.UpdateBuilder) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: %s - build update query: %v", ErrBuildQuery, method, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute update: %v", ErrExecQuery, method, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, method, err)
	}

	if rowsAffected == 0 {
		return ErrAppointmentNotFound
	}

	return nil
}

// rowScanner общий интерфейс *sql.Row и *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanAppointment сканирует одну запись
func scanAppointment(row rowScanner) (*domain.Appointment, error) {
	var (
		appt                  domain.Appointment
		createdAt, updatedAt  sql.NullTime
		lastValidatedAt       sql.NullTime
		lastBlocked           sql.NullBool
		lastWarningKinds      pq.StringArray
		overrideAt            sql.NullTime
		overrideOperatorID    sql.NullInt64
		overrideJustification sql.NullString
		overrideIgnoredKinds  pq.StringArray
	)

	err := row.Scan(
		&appt.ID,
		&appt.ClientID,
		&appt.OperatorID,
		&appt.ServiceID,
		&appt.Date,
		&appt.StartTime,
		&appt.DurationMinutes,
		&appt.Status,
		&appt.Note,
		&lastValidatedAt,
		&lastBlocked,
		&lastWarningKinds,
		&overrideAt,
		&overrideOperatorID,
		&overrideJustification,
		&overrideIgnoredKinds,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	appt.CreatedAt = createdAt.Time
	appt.UpdatedAt = updatedAt.Time

	if lastValidatedAt.Valid {
		appt.LastValidation = &domain.ValidationStamp{
			At:           lastValidatedAt.Time,
			Blocked:      lastBlocked.Bool,
			WarningKinds: lastWarningKinds,
		}
	}

	if overrideAt.Valid {
		override := &domain.OverrideInfo{
			At:                  overrideAt.Time,
			OperatorID:          overrideOperatorID.Int64,
			IgnoredWarningKinds: overrideIgnoredKinds,
		}
		if overrideJustification.Valid {
			override.Justification = &overrideJustification.String
		}
		appt.Override = override
	}

	return &appt, nil
}

// scanAppointments сканирует результаты запроса в слайс записей
func scanAppointments(rows *sql.Rows) ([]*domain.Appointment, error) {
	appointments := make([]*domain.Appointment, 0)

	for rows.Next() {
		appt, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanAppointments - scan row: %v", ErrScanRow, err)
		}
		appointments = append(appointments, appt)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanAppointments - rows error: %v", ErrScanRow, err)
	}

	return appointments, nil
}

// releasedStatusStrings статусы, освобождающие слот, в строковом виде
func releasedStatusStrings() []string {
	statuses := make([]string, len(domain.ReleasedStatuses))
	for i, s := range domain.ReleasedStatuses {
		statuses[i] = string(s)
	}
	return statuses
}
