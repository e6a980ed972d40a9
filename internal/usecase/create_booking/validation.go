package create_booking

import (
	"fmt"
	"strings"

	"github.com/m04kA/SMC-CarWashService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.UserID <= 0 {
		return fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}

	if req.VehicleID <= 0 {
		return fmt.Errorf("%w: vehicleId must be positive", ErrInvalidInput)
	}

	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceId must be positive", ErrInvalidInput)
	}

	if req.ScheduledDate.IsZero() {
		return fmt.Errorf("%w: scheduledDate is required", ErrInvalidInput)
	}

	if req.ScheduledTime.IsZero() {
		return fmt.Errorf("%w: scheduledTime is required", ErrInvalidInput)
	}

	if err := req.ScheduledTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid scheduledTime format: %v", ErrInvalidInput, err)
	}

	if err := validateLocation(req.Location); err != nil {
		return err
	}

	if req.Notes != nil && len([]rune(*req.Notes)) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes must be at most %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	return nil
}

// validateLocation проверяет адрес и координаты
func validateLocation(loc domain.Location) error {
	if strings.TrimSpace(loc.Address) == "" {
		return fmt.Errorf("%w: location.address is required", ErrInvalidInput)
	}

	if c := loc.Coordinates; c != nil {
		if c.Latitude < -90 || c.Latitude > 90 {
			return fmt.Errorf("%w: latitude must be within [-90, 90]", ErrInvalidInput)
		}
		if c.Longitude < -180 || c.Longitude > 180 {
			return fmt.Errorf("%w: longitude must be within [-180, 180]", ErrInvalidInput)
		}
	}

	return nil
}
