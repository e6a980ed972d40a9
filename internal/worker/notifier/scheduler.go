package notifier

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

const requeueTimeout = 10 * time.Second

// RetryScheduler по расписанию возвращает отложенные задачи в очередь
type RetryScheduler struct {
	cron   *cron.Cron
	queue  Requeuer
	logger Logger
}

// NewRetryScheduler создает планировщик. schedule в формате cron ("@every 1m", "*/5 * * * *").
func NewRetryScheduler(schedule string, queue Requeuer, logger Logger) (*RetryScheduler, error) {
	s := &RetryScheduler{
		cron:   cron.New(),
		queue:  queue,
		logger: logger,
	}
	if _, err := s.cron.AddFunc(schedule, s.RequeueOnce); err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidSchedule, schedule, err)
	}
	return s, nil
}

// Start запускает планировщик в фоне
func (s *RetryScheduler) Start() {
	s.cron.Start()
	s.logger.Info("RetryScheduler: started")
}

// Stop останавливает планировщик и ждёт текущий запуск
func (s *RetryScheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		s.logger.Warn("RetryScheduler: stop timed out")
	}
}

// RequeueOnce переносит отложенные задачи в основную очередь
func (s *RetryScheduler) RequeueOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), requeueTimeout)
	defer cancel()

	n, err := s.queue.RequeueRetries(ctx)
	if err != nil {
		s.logger.Error("RequeueOnce: failed after moving %d jobs: %v", n, err)
		return
	}
	if n > 0 {
		s.logger.Info("RequeueOnce: moved %d jobs back to the queue", n)
	}
}
