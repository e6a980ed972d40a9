package update_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-CarWashService/internal/domain"
	"github.com/m04kA/SMC-CarWashService/pkg/types"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	Reschedule(ctx context.Context, id int64, date time.Time, slot domain.TimeSlot, notes *string) error
}

// ConfigProvider источник конфигурации персонала
type ConfigProvider interface {
	Get(ctx context.Context) (*domain.StaffConfig, error)
}

// Calendar текущий день в рабочем часовом поясе
type Calendar interface {
	Today() time.Time
}

// AdmissionGate допуск записи в слот при наличии свободного персонала
type AdmissionGate interface {
	Admit(ctx context.Context, date time.Time, t types.TimeString, write func(ctx context.Context) error) error
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
