package bookings

import (
	"context"
	"time"

	"github.com/m04kA/SMC-CarWashService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	ListByUser(ctx context.Context, filter domain.UserBookingsFilter) ([]*domain.Booking, int, error)
	ListForAdmin(ctx context.Context, filter domain.AdminBookingsFilter) ([]*domain.Booking, int, error)
	Cancel(ctx context.Context, id int64, reason *string, at time.Time) error
	ApplyStatusChange(ctx context.Context, id int64, change domain.StatusChange) error
}

// Notifier очередь исходящих уведомлений. Ошибки доставки не возвращаются.
type Notifier interface {
	Publish(ctx context.Context, job *domain.NotificationJob)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
