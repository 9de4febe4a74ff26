package schedule

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	"github.com/m04kA/SMC-ScheduleService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ScheduleService/pkg/psqlbuilder"
)

// Repository репозиторий сохраненных расписаний на день
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория расписаний
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Get получает сохраненное расписание сотрудника на дату
func (r *Repository) Get(ctx context.Context, employeeID string, date time.Time) (*domain.DaySchedule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(scheduleColumns...).
		From("day_schedules").
		Where(squirrel.Eq{
			"employee_id":   employeeID,
			"schedule_date": date.Format(domain.DateFormat),
		}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Get - build select query: %v", ErrBuildQuery, err)
	}

	var row scheduleRow
	err = sqlx.GetContext(ctx, executor, &row, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrScheduleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Get - scan schedule: %v", ErrScanRow, err)
	}

	schedule, err := row.toDomain()
	if err != nil {
		return nil, fmt.Errorf("%w: Get - decode slots: %v", ErrScanRow, err)
	}
	return schedule, nil
}

// ListRange получает сохраненные расписания сотрудника за период [from, to]
func (r *Repository) ListRange(ctx context.Context, employeeID string, from, to time.Time) ([]*domain.DaySchedule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(scheduleColumns...).
		From("day_schedules").
		Where(squirrel.Eq{"employee_id": employeeID}).
		Where(squirrel.GtOrEq{"schedule_date": from.Format(domain.DateFormat)}).
		Where(squirrel.LtOrEq{"schedule_date": to.Format(domain.DateFormat)}).
		OrderBy("schedule_date").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListRange - build select query: %v", ErrBuildQuery, err)
	}

	var rows []scheduleRow
	if err = sqlx.SelectContext(ctx, executor, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("%w: ListRange - select schedules: %v", ErrExecQuery, err)
	}

	schedules := make([]*domain.DaySchedule, 0, len(rows))
	for i := range rows {
		s, err := rows[i].toDomain()
		if err != nil {
			return nil, fmt.Errorf("%w: ListRange - decode slots: %v", ErrScanRow, err)
		}
		schedules = append(schedules, s)
	}
	return schedules, nil
}

// Create сохраняет расписание впервые (version = 1).
// Если строка уже есть, значит ее создал параллельный запрос.
func (r *Repository) Create(ctx context.Context, s *domain.DaySchedule) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	slots, err := encodeSlots(s.TimeSlots)
	if err != nil {
		return fmt.Errorf("%w: Create: %v", ErrEncode, err)
	}

	query, args, err := psqlbuilder.Insert("day_schedules").
		Columns(
			"employee_id",
			"schedule_date",
			"time_slots",
			"source_system",
			"is_day_off",
			"version",
		).
		Values(
			s.EmployeeID,
			s.Date.Format(domain.DateFormat),
			slots,
			string(s.SourceSystem),
			s.IsDayOff,
			1,
		).
		Suffix("ON CONFLICT (employee_id, schedule_date) DO NOTHING RETURNING version, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var updatedAt time.Time
	err = executor.QueryRowxContext(ctx, query, args...).Scan(&s.Version, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrVersionConflict
	}
	if err != nil {
		return fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	s.Persisted = true
	s.UpdatedAt = &updatedAt
	return nil
}

// Update сохраняет расписание, если его версия не изменилась с момента чтения (CAS по version)
func (r *Repository) Update(ctx context.Context, s *domain.DaySchedule) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	slots, err := encodeSlots(s.TimeSlots)
	if err != nil {
		return fmt.Errorf("%w: Update: %v", ErrEncode, err)
	}

	query, args, err := psqlbuilder.Update("day_schedules").
		Set("time_slots", slots).
		Set("source_system", string(s.SourceSystem)).
		Set("is_day_off", s.IsDayOff).
		Set("version", squirrel.Expr("version + 1")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{
			"employee_id":   s.EmployeeID,
			"schedule_date": s.Date.Format(domain.DateFormat),
			"version":       s.Version,
		}).
		Suffix("RETURNING version, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	var updatedAt time.Time
	err = executor.QueryRowxContext(ctx, query, args...).Scan(&s.Version, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrVersionConflict
	}
	if err != nil {
		return fmt.Errorf("%w: Update - execute update: %v", ErrExecQuery, err)
	}

	s.UpdatedAt = &updatedAt
	return nil
}

// Delete удаляет сохраненное расписание. Возвращает false, если удалять было нечего.
func (r *Repository) Delete(ctx context.Context, employeeID string, date time.Time) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("day_schedules").
		Where(squirrel.Eq{
			"employee_id":   employeeID,
			"schedule_date": date.Format(domain.DateFormat),
		}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("%w: Delete - execute delete: %v", ErrExecQuery, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%w: Delete - rows affected: %v", ErrExecQuery, err)
	}
	return affected > 0, nil
}
