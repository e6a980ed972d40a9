package get_staff_availability

import (
	"context"
	"time"

	"github.com/m04kA/SMC-CarWashService/internal/service/staff/models"
)

type StaffService interface {
	GetDailyAvailability(ctx context.Context, date time.Time) (*models.DailyAvailabilityResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
