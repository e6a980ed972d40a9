package unavailability

import (
	"context"
	"time"

	"github.com/m04kA/SMC-CarWashService/internal/domain"
)

// Repository интерфейс репозитория недоступности персонала
type Repository interface {
	Create(ctx context.Context, u *domain.StaffUnavailability) (*domain.StaffUnavailability, error)
	GetByID(ctx context.Context, id int64) (*domain.StaffUnavailability, error)
	GetByDate(ctx context.Context, date time.Time) ([]*domain.StaffUnavailability, error)
	List(ctx context.Context, start, end *time.Time) ([]*domain.StaffUnavailability, error)
	HasFullDay(ctx context.Context, date time.Time, excludeID *int64) (bool, error)
	DistinctDates(ctx context.Context, start, end time.Time) ([]time.Time, error)
	Update(ctx context.Context, u *domain.StaffUnavailability) (*domain.StaffUnavailability, error)
	Delete(ctx context.Context, id int64) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
