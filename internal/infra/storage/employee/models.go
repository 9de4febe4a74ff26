package employee

import (
	"time"

	"github.com/lib/pq"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
)

type employeeRow struct {
	ID           string        `db:"id"`
	Name         string        `db:"name"`
	WorkingHours string        `db:"working_hours"`
	WorkingDays  pq.Int64Array `db:"working_days"`
	IsActive     bool          `db:"is_active"`
}

func (r *employeeRow) toDomain() *domain.Employee {
	days := make([]time.Weekday, 0, len(r.WorkingDays))
	for _, d := range r.WorkingDays {
		days = append(days, time.Weekday(d))
	}

	return &domain.Employee{
		ID:           r.ID,
		Name:         r.Name,
		WorkingHours: r.WorkingHours,
		WorkingDays:  days,
		IsActive:     r.IsActive,
	}
}

func weekdaysToArray(days []time.Weekday) pq.Int64Array {
	arr := make(pq.Int64Array, 0, len(days))
	for _, d := range days {
		arr = append(arr, int64(d))
	}
	return arr
}
