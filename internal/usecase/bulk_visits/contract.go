package bulk_visits

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	"github.com/m04kA/SMC-ScheduleService/internal/infra/lock"
)

// VisitRepository интерфейс репозитория визитов
type VisitRepository interface {
	GetByIDsForUpdate(ctx context.Context, ids []string) ([]*domain.Visit, error)
	Update(ctx context.Context, v *domain.Visit) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Locker сериализует массовые операции над заказами
type Locker interface {
	Lock(ctx context.Context, key string) (lock.Release, error)
}

// Metrics счетчики обработанных визитов
type Metrics interface {
	AddBulkVisitItems(operation, result string, count int)
}

// IDGenerator генератор идентификаторов заметок
type IDGenerator interface {
	NewID() string
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
