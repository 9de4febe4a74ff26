package lock

import (
	"context"
	"time"
)

// timeoutLocker ограничивает ожидание блокировки, не трогая время ее удержания
type timeoutLocker struct {
	next Locker
	wait time.Duration
}

// WithWaitTimeout оборачивает Locker: Lock возвращает ErrLockTimeout, если ключ не освободился за wait
func WithWaitTimeout(next Locker, wait time.Duration) Locker {
	if wait <= 0 {
		return next
	}
	return &timeoutLocker{next: next, wait: wait}
}

func (l *timeoutLocker) Lock(ctx context.Context, key string) (Release, error) {
	waitCtx, cancel := context.WithTimeout(ctx, l.wait)
	defer cancel()

	return l.next.Lock(waitCtx, key)
}
