package template

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

// Repository репозиторий недельных шаблонов рабочего времени
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория шаблонов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Get получает шаблон сотрудника на неделю, начинающуюся с weekStart
func (r *Repository) Get(ctx context.Context, employeeID string, weekStart time.Time) (*domain.WorkTemplate, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"employee_id",
		"week_start",
		"work_blocks",
		"breaks",
		"updated_by",
		"created_at",
		"updated_at",
	).
		From("work_templates").
		Where(squirrel.Eq{
			"employee_id": employeeID,
			"week_start":  weekStart.Format(domain.DateFormat),
		}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Get - build select query: %v", ErrBuildQuery, err)
	}

	var row templateRow
	err = sqlx.GetContext(ctx, executor, &row, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTemplateNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Get - scan template: %v", ErrScanRow, err)
	}

	template, err := row.toDomain()
	if err != nil {
		return nil, fmt.Errorf("%w: Get - decode intervals: %v", ErrScanRow, err)
	}

	return template, nil
}

// Upsert создает или полностью заменяет шаблон недели
func (r *Repository) Upsert(ctx context.Context, t *domain.WorkTemplate) (*domain.WorkTemplate, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	blocks, err := encodeIntervals(t.WorkBlocks)
	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - work blocks: %v", ErrEncode, err)
	}
	breaks, err := encodeIntervals(t.Breaks)
	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - breaks: %v", ErrEncode, err)
	}

	query, args, err := psqlbuilder.Insert("work_templates").
		Columns(
			"employee_id",
			"week_start",
			"work_blocks",
			"breaks",
			"updated_by",
		).
		Values(
			t.EmployeeID,
			t.WeekStart.Format(domain.DateFormat),
			blocks,
			breaks,
			t.UpdatedBy,
		).
		Suffix(`ON CONFLICT (employee_id, week_start) DO UPDATE SET
			work_blocks = EXCLUDED.work_blocks,
			breaks = EXCLUDED.breaks,
			updated_by = EXCLUDED.updated_by,
			updated_at = NOW()
		RETURNING created_at, updated_at`).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowxContext(ctx, query, args...).Scan(&t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - execute insert: %v", ErrExecQuery, err)
	}

	return t, nil
}
