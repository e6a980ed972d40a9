package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidStatus is returned for an unknown booking status value
	ErrInvalidStatus = errors.New("invalid booking status")

	// ErrDateInPast is returned when a requested date is before today
	ErrDateInPast = errors.New("date is in the past")

	// ErrDateTooFarInFuture is matched by BookingWindowError
	ErrDateTooFarInFuture = errors.New("date is beyond the booking window")

	// ErrInvalidUnavailability is returned when an unavailability entry breaks the type/timeSlots rule
	ErrInvalidUnavailability = errors.New("invalid unavailability entry")
)

// BookingWindowError reports the size of the window that was exceeded.
type BookingWindowError struct {
	Days int
}

func (e *BookingWindowError) Error() string {
	return fmt.Sprintf("Bookings are limited to %d days in advance", e.Days)
}

// Is makes errors.Is(err, ErrDateTooFarInFuture) match.
func (e *BookingWindowError) Is(target error) bool {
	return target == ErrDateTooFarInFuture
}
