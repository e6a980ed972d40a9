package staff

import (
	"fmt"

	"github.com/m04kA/SMC-CarWashService/internal/domain"
	"github.com/m04kA/SMC-CarWashService/internal/service/staff/models"
	"github.com/m04kA/SMC-CarWashService/pkg/types"
)

// toPatch проверяет переданные поля и собирает patch
func toPatch(req *models.UpdateConfigRequest) (domain.StaffConfigPatch, error) {
	var patch domain.StaffConfigPatch

	if req.TotalStaff != nil {
		if *req.TotalStaff < domain.MinTotalStaff || *req.TotalStaff > domain.MaxTotalStaff {
			return patch, fmt.Errorf("%w: totalStaff must be between %d and %d",
				ErrInvalidInput, domain.MinTotalStaff, domain.MaxTotalStaff)
		}
		patch.TotalStaff = req.TotalStaff
	}

	if req.ServiceDurationMinutes != nil {
		if *req.ServiceDurationMinutes < domain.MinServiceDurationMinutes || *req.ServiceDurationMinutes > domain.MaxServiceDurationMinutes {
			return patch, fmt.Errorf("%w: serviceDurationMinutes must be between %d and %d",
				ErrInvalidInput, domain.MinServiceDurationMinutes, domain.MaxServiceDurationMinutes)
		}
		patch.ServiceDurationMinutes = req.ServiceDurationMinutes
	}

	if req.OperatingStartTime != nil {
		t, err := types.NewTimeStringFromString(*req.OperatingStartTime)
		if err != nil {
			return patch, fmt.Errorf("%w: operatingStartTime must be HH:mm", ErrInvalidInput)
		}
		patch.OperatingStartTime = &t
	}

	if req.OperatingEndTime != nil {
		t, err := types.NewTimeStringFromString(*req.OperatingEndTime)
		if err != nil {
			return patch, fmt.Errorf("%w: operatingEndTime must be HH:mm", ErrInvalidInput)
		}
		patch.OperatingEndTime = &t
	}

	if req.BookingWindowDays != nil {
		if *req.BookingWindowDays < domain.MinBookingWindowDays || *req.BookingWindowDays > domain.MaxBookingWindowDays {
			return patch, fmt.Errorf("%w: bookingWindowDays must be between %d and %d",
				ErrInvalidInput, domain.MinBookingWindowDays, domain.MaxBookingWindowDays)
		}
		patch.BookingWindowDays = req.BookingWindowDays
	}

	return patch, nil
}

// validateMerged проверяет итоговую конфигурацию после слияния
func validateMerged(cfg *domain.StaffConfig) error {
	if !cfg.OperatingStartTime.IsBefore(cfg.OperatingEndTime) {
		return fmt.Errorf("%w: operatingStartTime must be before operatingEndTime", ErrInvalidInput)
	}
	return nil
}
