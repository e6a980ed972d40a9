package queue

import (
	"context"
	"sync"

	"github.com/m04kA/SMC-CarWashService/internal/domain"
)

// MemoryQueue очередь уведомлений в памяти процесса (когда Redis выключен)
type MemoryQueue struct {
	jobs chan *domain.NotificationJob

	mu      sync.Mutex
	retries []*domain.NotificationJob
}

// NewMemoryQueue создает очередь с буфером size
func NewMemoryQueue(size int) *MemoryQueue {
	if size <= 0 {
		size = 1
	}
	return &MemoryQueue{jobs: make(chan *domain.NotificationJob, size)}
}

// Enqueue не блокируется: при заполненном буфере возвращает ErrQueueFull
func (q *MemoryQueue) Enqueue(_ context.Context, job *domain.NotificationJob) error {
	select {
	case q.jobs <- job:
		return nil
	default:
		return ErrQueueFull
	}
}

// Dequeue ждёт следующую задачу до отмены контекста
func (q *MemoryQueue) Dequeue(ctx context.Context) (*domain.NotificationJob, error) {
	select {
	case job := <-q.jobs:
		return job, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Retry откладывает задачу до следующего RequeueRetries
func (q *MemoryQueue) Retry(_ context.Context, job *domain.NotificationJob) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.retries = append(q.retries, job)
	return nil
}

// RequeueRetries переносит отложенные задачи в основную очередь.
// То, что не поместилось в буфер, остаётся в списке повторов.
func (q *MemoryQueue) RequeueRetries(ctx context.Context) (int, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	moved := 0
	for moved < len(q.retries) {
		if err := q.Enqueue(ctx, q.retries[moved]); err != nil {
			break
		}
		moved++
	}
	q.retries = append([]*domain.NotificationJob(nil), q.retries[moved:]...)
	return moved, nil
}

// Len возвращает количество задач в основной очереди
func (q *MemoryQueue) Len(_ context.Context) (int, error) {
	return len(q.jobs), nil
}
