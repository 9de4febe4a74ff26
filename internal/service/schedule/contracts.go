package schedule

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	"github.com/m04kA/SMC-ScheduleService/internal/infra/lock"
)

// EmployeeRepository интерфейс репозитория сотрудников
type EmployeeRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Employee, error)
}

// TemplateRepository интерфейс репозитория недельных шаблонов
type TemplateRepository interface {
	Get(ctx context.Context, employeeID string, weekStart time.Time) (*domain.WorkTemplate, error)
}

// ScheduleRepository интерфейс репозитория сохраненных расписаний
type ScheduleRepository interface {
	Get(ctx context.Context, employeeID string, date time.Time) (*domain.DaySchedule, error)
	Create(ctx context.Context, s *domain.DaySchedule) error
	Update(ctx context.Context, s *domain.DaySchedule) error
	Delete(ctx context.Context, employeeID string, date time.Time) (bool, error)
}

// Locker сериализует изменения расписания одного сотрудника на одну дату
type Locker interface {
	Lock(ctx context.Context, key string) (lock.Release, error)
}

// Metrics счетчики операций со слотами
type Metrics interface {
	IncSlotOperation(operation, result string)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now().UTC()
}
