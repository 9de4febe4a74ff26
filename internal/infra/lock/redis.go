package lock

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix            = "lock:"
	defaultTTL           = 10 * time.Second
	defaultRetryInterval = 25 * time.Millisecond
	releaseTimeout       = 2 * time.Second
)

// releaseScript удаляет ключ, только если в нем наш токен
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLocker распределенная блокировка на SET NX PX с токеном владельца
type RedisLocker struct {
	client        *redis.Client
	ttl           time.Duration
	retryInterval time.Duration
	logger        Logger
}

// NewRedisLocker создает блокировку поверх клиента Redis.
// ttl ограничивает время удержания, если процесс упал, не освободив ключ.
func NewRedisLocker(client *redis.Client, ttl, retryInterval time.Duration, logger Logger) *RedisLocker {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	if retryInterval <= 0 {
		retryInterval = defaultRetryInterval
	}
	return &RedisLocker{
		client:        client,
		ttl:           ttl,
		retryInterval: retryInterval,
		logger:        logger,
	}
}

// Lock ждет освобождения ключа, пока не отменен контекст
func (l *RedisLocker) Lock(ctx context.Context, key string) (Release, error) {
	fullKey := keyPrefix + key
	token := uuid.NewString()

	ticker := time.NewTicker(l.retryInterval)
	defer ticker.Stop()

	for {
		ok, err := l.client.SetNX(ctx, fullKey, token, l.ttl).Result()
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("%w: %s: %v", ErrLockTimeout, key, ctx.Err())
			}
			return nil, fmt.Errorf("%w: Lock - setnx %s: %v", ErrLockBackend, key, err)
		}
		if ok {
			return l.release(fullKey, token), nil
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %s: %v", ErrLockTimeout, key, ctx.Err())
		case <-ticker.C:
		}
	}
}

func (l *RedisLocker) release(fullKey, token string) Release {
	var once sync.Once
	return func() {
		once.Do(func() {
			// контекст запроса к этому моменту может быть уже отменен
			ctx, cancel := context.WithTimeout(context.Background(), releaseTimeout)
			defer cancel()

			deleted, err := releaseScript.Run(ctx, l.client, []string{fullKey}, token).Int()
			if err != nil {
				l.logger.Error("Lock: failed to release %s: %v", fullKey, err)
				return
			}
			if deleted == 0 {
				l.logger.Warn("Lock: %s expired before release", fullKey)
			}
		})
	}
}
