package create_booking

import (
	"github.com/m04kA/SMC-CarWashService/internal/domain"
	createBooking "github.com/m04kA/SMC-CarWashService/internal/usecase/create_booking"
	"github.com/m04kA/SMC-CarWashService/pkg/types"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	VehicleID     int64           `json:"vehicleId"`
	ServiceID     int64           `json:"serviceId"`
	ScheduledDate string          `json:"scheduledDate"` // "2024-06-10"
	ScheduledTime string          `json:"scheduledTime"` // "09:30"
	Location      domain.Location `json:"location"`
	Notes         *string         `json:"notes,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest(userID int64) (*createBooking.Request, error) {
	date, err := domain.ParseDate(r.ScheduledDate)
	if err != nil {
		return nil, errInvalidDate
	}

	start, err := types.NewTimeStringFromString(r.ScheduledTime)
	if err != nil {
		return nil, errInvalidTime
	}

	return &createBooking.Request{
		UserID:        userID,
		VehicleID:     r.VehicleID,
		ServiceID:     r.ServiceID,
		ScheduledDate: date,
		ScheduledTime: start,
		Location:      r.Location,
		Notes:         r.Notes,
	}, nil
}
