package lock

import "errors"

var (
	// ErrLockTimeout возвращается, когда блокировку не удалось получить до отмены контекста
	ErrLockTimeout = errors.New("lock: acquire timeout")

	// ErrLockBackend возвращается при ошибке хранилища блокировок
	ErrLockBackend = errors.New("lock: backend failure")
)
