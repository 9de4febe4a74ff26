package visit

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

// Repository репозиторий визитов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория визитов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByIDsForUpdate получает визиты по списку ID и блокирует строки до конца транзакции.
// Вне транзакции FOR UPDATE не имеет эффекта, поэтому вызывать нужно внутри txmanager.Do.
// Отсутствующие ID просто не попадают в результат.
func (r *Repository) GetByIDsForUpdate(ctx context.Context, ids []string) ([]*domain.Visit, error) {
	if len(ids) == 0 {
		return []*domain.Visit{}, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(visitColumns...).
		From("visits v").
		Join("orders o ON o.id = v.order_id").
		Where(squirrel.Eq{"v.id": ids}).
		OrderBy("v.id").
		Suffix("FOR UPDATE OF v").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByIDsForUpdate - build select query: %v", ErrBuildQuery, err)
	}

	var rows []visitRow
	if err = sqlx.SelectContext(ctx, executor, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("%w: GetByIDsForUpdate - select visits: %v", ErrExecQuery, err)
	}

	visits := make([]*domain.Visit, 0, len(rows))
	for i := range rows {
		v, err := rows[i].toDomain()
		if err != nil {
			return nil, fmt.Errorf("%w: GetByIDsForUpdate - decode visit %s: %v", ErrScanRow, rows[i].ID, err)
		}
		visits = append(visits, v)
	}

	return visits, nil
}

// ListByTechnician получает визиты техника за период [from, to]
func (r *Repository) ListByTechnician(ctx context.Context, technicianID string, from, to time.Time) ([]*domain.Visit, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(visitColumns...).
		From("visits v").
		Join("orders o ON o.id = v.order_id").
		Where(squirrel.Eq{"v.technician_id": technicianID}).
		Where(squirrel.GtOrEq{"v.scheduled_date": from.Format(domain.DateFormat)}).
		Where(squirrel.LtOrEq{"v.scheduled_date": to.Format(domain.DateFormat)}).
		Where(squirrel.NotEq{"v.status": string(domain.VisitStatusCancelled)}).
		OrderBy("v.scheduled_date", "v.scheduled_time").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByTechnician - build select query: %v", ErrBuildQuery, err)
	}

	var rows []visitRow
	if err = sqlx.SelectContext(ctx, executor, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("%w: ListByTechnician - select visits: %v", ErrExecQuery, err)
	}

	visits := make([]*domain.Visit, 0, len(rows))
	for i := range rows {
		v, err := rows[i].toDomain()
		if err != nil {
			return nil, fmt.Errorf("%w: ListByTechnician - decode visit %s: %v", ErrScanRow, rows[i].ID, err)
		}
		visits = append(visits, v)
	}

	return visits, nil
}

// Update сохраняет изменения визита с проверкой версии
func (r *Repository) Update(ctx context.Context, v *domain.Visit) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	notes, err := encodeAdminNotes(v.AdminNotes)
	if err != nil {
		return fmt.Errorf("%w: Update - admin notes: %v", ErrEncode, err)
	}
	prev, err := encodePreviousSchedule(v.PreviousSchedule)
	if err != nil {
		return fmt.Errorf("%w: Update - previous schedule: %v", ErrEncode, err)
	}

	query, args, err := psqlbuilder.Update("visits").
		Set("scheduled_date", v.ScheduledDate.Format(domain.DateFormat)).
		Set("scheduled_time", v.ScheduledTime).
		Set("status", string(v.Status)).
		Set("technician_id", stringToNull(v.TechnicianID)).
		Set("technician_name", stringToNull(v.TechnicianName)).
		Set("assigned_to", stringToNull(v.AssignedTo)).
		Set("admin_notes", notes).
		Set("previous_schedule", prev).
		Set("completed_at", timePtrToNull(v.CompletedAt)).
		Set("cancelled_at", timePtrToNull(v.CancelledAt)).
		Set("cancelled_by", stringToNull(v.CancelledBy)).
		Set("cancel_reason", stringToNull(v.CancelReason)).
		Set("status_changed_at", timePtrToNull(v.StatusChangedAt)).
		Set("status_changed_by", stringToNull(v.StatusChangedBy)).
		Set("updated_at", v.UpdatedAt).
		Set("last_modified_by", stringToNull(v.LastModifiedBy)).
		Set("version", squirrel.Expr("version + 1")).
		Where(squirrel.Eq{"id": v.ID, "version": v.Version}).
		Suffix("RETURNING version").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowxContext(ctx, query, args...).Scan(&v.Version)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrVersionConflict
	}
	if err != nil {
		return fmt.Errorf("%w: Update - execute update: %v", ErrExecQuery, err)
	}

	return nil
}
