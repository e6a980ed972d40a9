package slots

import (
	"context"
	"time"

	"github.com/m04kA/SMC-CarWashService/internal/domain"
	"github.com/m04kA/SMC-CarWashService/pkg/types"
)

// ConfigProvider источник конфигурации персонала (синглтон)
type ConfigProvider interface {
	Get(ctx context.Context) (*domain.StaffConfig, error)
}

// BookingCounter подсчёт активных (не отменённых) бронирований
type BookingCounter interface {
	CountActiveBySlot(ctx context.Context, date time.Time, t types.TimeString) (int, error)
	CountActiveByDate(ctx context.Context, date time.Time) (map[types.TimeString]int, error)
}

// UnavailabilityReader чтение записей о недоступности персонала
type UnavailabilityReader interface {
	GetByDate(ctx context.Context, date time.Time) ([]*domain.StaffUnavailability, error)
}

// SlotSource стратегия генерации слотов
type SlotSource interface {
	Slots(cfg *domain.StaffConfig) []domain.SlotMark
}

// AvailabilityChecker точечная проверка слота
type AvailabilityChecker interface {
	IsSlotAvailable(ctx context.Context, date time.Time, t types.TimeString) (bool, error)
}

// SlotLocker короткоживущая блокировка слота (строгий режим)
type SlotLocker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
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
