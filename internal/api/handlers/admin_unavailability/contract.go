package admin_unavailability

import (
	"context"

	"github.com/m04kA/SMC-CarWashService/internal/service/unavailability/models"
)

type UnavailabilityService interface {
	Create(ctx context.Context, req *models.CreateRequest) (*models.UnavailabilityResponse, error)
	List(ctx context.Context, startDate, endDate *string) ([]*models.UnavailabilityResponse, error)
	GetByDate(ctx context.Context, rawDate string) ([]*models.UnavailabilityResponse, error)
	GetByID(ctx context.Context, id int64) (*models.UnavailabilityResponse, error)
	Update(ctx context.Context, id int64, req *models.UpdateRequest) (*models.UnavailabilityResponse, error)
	Delete(ctx context.Context, id int64) error
	Dates(ctx context.Context, startDate, endDate string) ([]string, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
