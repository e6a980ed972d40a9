package notifier

import (
	"context"

	"github.com/m04kA/SMC-CarWashService/internal/domain"
)

// Publisher ставит намерения уведомить в очередь.
// Ошибка постановки логируется и не возвращается вызывающему.
type Publisher struct {
	queue   Enqueuer
	metrics Metrics
	logger  Logger
}

// NewPublisher создает publisher. metrics может быть nil.
func NewPublisher(queue Enqueuer, metrics Metrics, logger Logger) *Publisher {
	return &Publisher{queue: queue, metrics: metrics, logger: logger}
}

// Publish ставит задачу в очередь
func (p *Publisher) Publish(ctx context.Context, job *domain.NotificationJob) {
	// запрос может завершиться раньше, чем задача попадёт в очередь
	ctx = context.WithoutCancel(ctx)

	if err := p.queue.Enqueue(ctx, job); err != nil {
		p.logger.Error("Publish: failed to enqueue %s for booking=%s: %v", job.Kind, job.BookingNumber, err)
		p.record(job, "enqueue_failed")
		return
	}
	p.logger.Info("Publish: queued %s for booking=%s, job=%s", job.Kind, job.BookingNumber, job.ID)
	p.record(job, "queued")
}

func (p *Publisher) record(job *domain.NotificationJob, outcome string) {
	if p.metrics != nil {
		p.metrics.RecordNotification(string(job.Kind), outcome)
	}
}
