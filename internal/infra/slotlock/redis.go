package slotlock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix    = "carwash:lock:"
	pollInterval = 25 * time.Millisecond
	releaseWait  = 2 * time.Second
)

// Снимаем блокировку, только если она всё ещё наша
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Logger интерфейс для логирования
type Logger interface {
	Warn(format string, v ...interface{})
}

// RedisLocker распределённая блокировка слота: SET NX PX с токеном владельца
type RedisLocker struct {
	client redis.UniversalClient
	ttl    time.Duration
	wait   time.Duration
	logger Logger
}

// NewRedisLocker создает блокировщик. ttl ограничивает время жизни блокировки,
// wait ограничивает ожидание занятого слота.
func NewRedisLocker(client redis.UniversalClient, ttl, wait time.Duration, logger Logger) *RedisLocker {
	return &RedisLocker{client: client, ttl: ttl, wait: wait, logger: logger}
}

// Lock ждёт освобождения слота не дольше wait
func (l *RedisLocker) Lock(ctx context.Context, key string) (func(), error) {
	token := uuid.NewString()
	redisKey := keyPrefix + key
	deadline := time.Now().Add(l.wait)

	for {
		ok, err := l.client.SetNX(ctx, redisKey, token, l.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("%w: Lock - set %s: %v", ErrLockBackend, redisKey, err)
		}
		if ok {
			return func() { l.release(redisKey, token) }, nil
		}

		if time.Now().After(deadline) {
			return nil, fmt.Errorf("%w: %s", ErrLockTimeout, key)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(pollInterval):
		}
	}
}

func (l *RedisLocker) release(redisKey, token string) {
	// Контекст запроса может быть уже отменён, снимаем блокировку независимо от него
	ctx, cancel := context.WithTimeout(context.Background(), releaseWait)
	defer cancel()

	err := releaseScript.Run(ctx, l.client, []string{redisKey}, token).Err()
	if err != nil && !errors.Is(err, redis.Nil) {
		l.logger.Warn("RedisLocker: failed to release %s: %v", redisKey, err)
	}
}
