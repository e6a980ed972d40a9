package update_staff_config

import (
	"context"

	"github.com/m04kA/SMC-CarWashService/internal/service/staff/models"
)

type StaffService interface {
	Update(ctx context.Context, req *models.UpdateConfigRequest) (*models.ConfigResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
