package notifier

import (
	"context"
	"time"

	"github.com/m04kA/SMC-CarWashService/internal/domain"
	"github.com/m04kA/SMC-CarWashService/internal/integrations/push"
)

// Enqueuer постановка задачи в очередь
type Enqueuer interface {
	Enqueue(ctx context.Context, job *domain.NotificationJob) error
}

// Queue очередь уведомлений, из которой читают воркеры
type Queue interface {
	Enqueuer
	Dequeue(ctx context.Context) (*domain.NotificationJob, error)
	Retry(ctx context.Context, job *domain.NotificationJob) error
}

// Requeuer возврат отложенных задач в основную очередь
type Requeuer interface {
	RequeueRetries(ctx context.Context) (int, error)
}

// UserRepository контактные данные клиента
type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

// SMSSender отправка SMS
type SMSSender interface {
	Send(ctx context.Context, countryCode, phone, body string) error
}

// PushSender отправка push-уведомлений
type PushSender interface {
	Send(ctx context.Context, msg push.Message) error
}

// AdminFeed лента уведомлений администратора
type AdminFeed interface {
	Create(ctx context.Context, n *domain.AdminNotification) (*domain.AdminNotification, error)
}

// Metrics счётчики обработанных задач
type Metrics interface {
	RecordNotification(kind, outcome string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
