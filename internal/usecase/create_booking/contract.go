package create_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-CarWashService/internal/domain"
	"github.com/m04kA/SMC-CarWashService/pkg/types"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
}

// VehicleRepository интерфейс репозитория автомобилей
type VehicleRepository interface {
	GetActiveByIDAndUser(ctx context.Context, id, userID int64) (*domain.Vehicle, error)
}

// ServiceRepository интерфейс каталога услуг
type ServiceRepository interface {
	GetActiveByID(ctx context.Context, id int64) (*domain.Service, error)
}

// ConfigProvider источник конфигурации персонала
type ConfigProvider interface {
	Get(ctx context.Context) (*domain.StaffConfig, error)
}

// Calendar текущее время и день в рабочем часовом поясе
type Calendar interface {
	Now() time.Time
	Today() time.Time
}

// AdmissionGate допуск записи в слот при наличии свободного персонала
type AdmissionGate interface {
	Admit(ctx context.Context, date time.Time, t types.TimeString, write func(ctx context.Context) error) error
}

// Notifier очередь исходящих уведомлений. Ошибки доставки не возвращаются.
type Notifier interface {
	Publish(ctx context.Context, job *domain.NotificationJob)
}

// Metrics счётчик решений о допуске
type Metrics interface {
	RecordAdmission(outcome string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
