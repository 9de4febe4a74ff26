package templates

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
)

// EmployeeRepository интерфейс репозитория сотрудников
type EmployeeRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Employee, error)
}

// TemplateRepository интерфейс репозитория недельных шаблонов
type TemplateRepository interface {
	Get(ctx context.Context, employeeID string, weekStart time.Time) (*domain.WorkTemplate, error)
	Upsert(ctx context.Context, t *domain.WorkTemplate) (*domain.WorkTemplate, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
