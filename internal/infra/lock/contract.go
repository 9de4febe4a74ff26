package lock

import "context"

// Locker сериализует операции по ключу.
// Release должен быть вызван ровно один раз, повторный вызов безопасен.
type Locker interface {
	Lock(ctx context.Context, key string) (Release, error)
}

// Release освобождает захваченную блокировку
type Release func()

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
