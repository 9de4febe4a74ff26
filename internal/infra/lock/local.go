package lock

import (
	"context"
	"fmt"
	"sync"
)

// LocalLocker блокировка по ключу в пределах одного процесса
type LocalLocker struct {
	mu    sync.Mutex
	locks map[string]*localLock
}

type localLock struct {
	ch   chan struct{}
	refs int
}

// NewLocalLocker создает блокировку в памяти процесса
func NewLocalLocker() *LocalLocker {
	return &LocalLocker{locks: make(map[string]*localLock)}
}

func (l *LocalLocker) Lock(ctx context.Context, key string) (Release, error) {
	l.mu.Lock()
	ll, ok := l.locks[key]
	if !ok {
		ll = &localLock{ch: make(chan struct{}, 1)}
		l.locks[key] = ll
	}
	ll.refs++
	l.mu.Unlock()

	select {
	case ll.ch <- struct{}{}:
	case <-ctx.Done():
		l.unref(key, ll)
		return nil, fmt.Errorf("%w: %s: %v", ErrLockTimeout, key, ctx.Err())
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-ll.ch
			l.unref(key, ll)
		})
	}, nil
}

func (l *LocalLocker) unref(key string, ll *localLock) {
	l.mu.Lock()
	defer l.mu.Unlock()

	ll.refs--
	if ll.refs == 0 {
		delete(l.locks, key)
	}
}

// Size количество ключей, по которым есть владельцы или ожидающие
func (l *LocalLocker) Size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
