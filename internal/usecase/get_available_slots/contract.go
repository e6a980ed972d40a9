package get_available_slots

import (
	"context"
	"time"

	"github.com/m04kA/SMC-CarWashService/internal/domain"
)

// ServiceRepository интерфейс каталога услуг
type ServiceRepository interface {
	GetActiveByID(ctx context.Context, id int64) (*domain.Service, error)
}

// ConfigProvider источник конфигурации персонала
type ConfigProvider interface {
	Get(ctx context.Context) (*domain.StaffConfig, error)
}

// SlotLister публичный список слотов на дату
type SlotLister interface {
	Today() time.Time
	ListForDate(ctx context.Context, date time.Time) (*domain.DayAvailability, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
