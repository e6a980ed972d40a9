package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-CarWashService/internal/domain"
)

// Блокирующее чтение прерывается периодически, чтобы заметить отмену контекста
const popTimeout = time.Second

// RedisQueue очередь уведомлений на списках Redis: LPUSH/BRPOP и отдельный список повторов
type RedisQueue struct {
	client   redis.UniversalClient
	queueKey string
	retryKey string
}

// NewRedisQueue создает очередь
func NewRedisQueue(client redis.UniversalClient, queueKey, retryKey string) *RedisQueue {
	return &RedisQueue{client: client, queueKey: queueKey, retryKey: retryKey}
}

// Enqueue добавляет задачу в основную очередь
func (q *RedisQueue) Enqueue(ctx context.Context, job *domain.NotificationJob) error {
	return q.push(ctx, "Enqueue", q.queueKey, job)
}

// Retry откладывает задачу в список повторов
func (q *RedisQueue) Retry(ctx context.Context, job *domain.NotificationJob) error {
	return q.push(ctx, "Retry", q.retryKey, job)
}

// Dequeue ждёт следующую задачу до отмены контекста
func (q *RedisQueue) Dequeue(ctx context.Context) (*domain.NotificationJob, error) {
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		res, err := q.client.BRPop(ctx, popTimeout, q.queueKey).Result()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, fmt.Errorf("%w: Dequeue - brpop: %v", ErrBackend, err)
		}

		// BRPOP возвращает [key, value]
		if len(res) != 2 {
			continue
		}

		var job domain.NotificationJob
		if err := json.Unmarshal([]byte(res[1]), &job); err != nil {
			return nil, fmt.Errorf("%w: Dequeue: %v", ErrDecode, err)
		}
		return &job, nil
	}
}

// RequeueRetries переносит все отложенные задачи обратно в основную очередь
func (q *RedisQueue) RequeueRetries(ctx context.Context) (int, error) {
	moved := 0
	for {
		err := q.client.LMove(ctx, q.retryKey, q.queueKey, "RIGHT", "LEFT").Err()
		if errors.Is(err, redis.Nil) {
			return moved, nil
		}
		if err != nil {
			return moved, fmt.Errorf("%w: RequeueRetries - lmove: %v", ErrBackend, err)
		}
		moved++
	}
}

// Len возвращает длину основной очереди
func (q *RedisQueue) Len(ctx context.Context) (int, error) {
	n, err := q.client.LLen(ctx, q.queueKey).Result()
	if err != nil {
		return 0, fmt.Errorf("%w: Len - llen: %v", ErrBackend, err)
	}
	return int(n), nil
}

func (q *RedisQueue) push(ctx context.Context, op, key string, job *domain.NotificationJob) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrEncode, op, err)
	}
	if err := q.client.LPush(ctx, key, payload).Err(); err != nil {
		return fmt.Errorf("%w: %s - lpush %s: %v", ErrBackend, op, key, err)
	}
	return nil
}
