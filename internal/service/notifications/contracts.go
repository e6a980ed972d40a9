package notifications

import (
	"context"

	"github.com/m04kA/SMC-CarWashService/internal/domain"
)

// Repository интерфейс репозитория уведомлений администратора
type Repository interface {
	Create(ctx context.Context, n *domain.AdminNotification) (*domain.AdminNotification, error)
	List(ctx context.Context, filter domain.AdminNotificationsFilter) ([]*domain.AdminNotification, int, error)
	CountUnread(ctx context.Context) (int, error)
	MarkAsRead(ctx context.Context, id int64) error
	MarkAllAsRead(ctx context.Context) (int64, error)
}

// Broadcaster рассылает уведомление подключённым клиентам админки
type Broadcaster interface {
	Broadcast(n *domain.AdminNotification)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
