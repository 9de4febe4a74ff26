package export_schedule

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
)

// ScheduleResolver источник расписания на день (сохраненное или сгенерированное)
type ScheduleResolver interface {
	Resolve(ctx context.Context, employeeID string, date time.Time) (*domain.DaySchedule, error)
}

// VisitRepository интерфейс репозитория визитов
type VisitRepository interface {
	ListByTechnician(ctx context.Context, technicianID string, from, to time.Time) ([]*domain.Visit, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
