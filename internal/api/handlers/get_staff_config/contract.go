package get_staff_config

import (
	"context"

	"github.com/m04kA/SMC-CarWashService/internal/service/staff/models"
)

type StaffService interface {
	GetConfig(ctx context.Context) (*models.ConfigResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
