package update_booking

import (
	"fmt"

	"github.com/m04kA/SMC-CarWashService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.BookingID <= 0 {
		return fmt.Errorf("%w: booking id must be positive", ErrInvalidInput)
	}

	if req.UserID <= 0 {
		return fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}

	if req.ScheduledDate == nil && req.ScheduledTime == nil && req.Notes == nil {
		return fmt.Errorf("%w: at least one of scheduledDate, scheduledTime, notes is required", ErrInvalidInput)
	}

	if req.ScheduledTime != nil {
		if err := req.ScheduledTime.Validate(); err != nil {
			return fmt.Errorf("%w: invalid scheduledTime format: %v", ErrInvalidInput, err)
		}
	}

	if req.Notes != nil && len([]rune(*req.Notes)) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes must be at most %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	return nil
}
