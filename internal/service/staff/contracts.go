package staff

import (
	"context"
	"time"

	"github.com/m04kA/SMC-CarWashService/internal/domain"
)

// ConfigRepository интерфейс репозитория конфигурации персонала
type ConfigRepository interface {
	Get(ctx context.Context) (*domain.StaffConfig, error)
	CreateIfMissing(ctx context.Context, cfg *domain.StaffConfig) (*domain.StaffConfig, error)
	Update(ctx context.Context, cfg *domain.StaffConfig) (*domain.StaffConfig, error)
}

// ScheduleRepository бронирования дня для админского вида
type ScheduleRepository interface {
	GetScheduleByDate(ctx context.Context, date time.Time) ([]*domain.ScheduledBooking, error)
}

// UnavailabilityReader чтение записей о недоступности персонала
type UnavailabilityReader interface {
	GetByDate(ctx context.Context, date time.Time) ([]*domain.StaffUnavailability, error)
}

// SlotSource стратегия генерации слотов
type SlotSource interface {
	Slots(cfg *domain.StaffConfig) []domain.SlotMark
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
