package update_booking

import (
	"errors"

	"github.com/m04kA/SMC-CarWashService/internal/domain"
	updateBooking "github.com/m04kA/SMC-CarWashService/internal/usecase/update_booking"
	"github.com/m04kA/SMC-CarWashService/pkg/types"
)

var (
	errInvalidDate = errors.New("Invalid scheduledDate format, expected YYYY-MM-DD")
	errInvalidTime = errors.New("Invalid scheduledTime format, expected HH:MM")
)

// UpdateBookingRequest HTTP request model. Все поля опциональны.
type UpdateBookingRequest struct {
	ScheduledDate *string `json:"scheduledDate,omitempty"`
	ScheduledTime *string `json:"scheduledTime,omitempty"`
	Notes         *string `json:"notes,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *UpdateBookingRequest) ToUseCaseRequest(bookingID, userID int64) (*updateBooking.Request, error) {
	req := &updateBooking.Request{
		BookingID: bookingID,
		UserID:    userID,
		Notes:     r.Notes,
	}

	if r.ScheduledDate != nil {
		date, err := domain.ParseDate(*r.ScheduledDate)
		if err != nil {
			return nil, errInvalidDate
		}
		req.ScheduledDate = &date
	}

	if r.ScheduledTime != nil {
		start, err := types.NewTimeStringFromString(*r.ScheduledTime)
		if err != nil {
			return nil, errInvalidTime
		}
		req.ScheduledTime = &start
	}

	return req, nil
}
