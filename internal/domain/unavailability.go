package domain

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-CarWashService/pkg/types"
)

// UnavailabilityType distinguishes whole-day and per-slot capacity reductions
type UnavailabilityType string

const (
	UnavailabilityFullDay  UnavailabilityType = "full_day"
	UnavailabilityTimeSlot UnavailabilityType = "time_slot"
)

// IsValid reports whether the type is known
func (t UnavailabilityType) IsValid() bool {
	return t == UnavailabilityFullDay || t == UnavailabilityTimeSlot
}

// StaffUnavailability removes UnavailableCount staff from the pool on Date,
// either for the whole day or for the listed slots only.
type StaffUnavailability struct {
	ID               int64
	Date             time.Time // calendar day, midnight UTC
	Type             UnavailabilityType
	TimeSlots        []types.TimeString
	UnavailableCount int
	Reason           *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Covers reports whether the entry reduces capacity at slot t
func (u *StaffUnavailability) Covers(t types.TimeString) bool {
	if u.Type == UnavailabilityFullDay {
		return true
	}
	for _, s := range u.TimeSlots {
		if s.Equal(t) {
			return true
		}
	}
	return false
}

// Validate checks the type/timeSlots rule and field bounds
func (u *StaffUnavailability) Validate() error {
	if !u.Type.IsValid() {
		return fmt.Errorf("%w: type must be full_day or time_slot", ErrInvalidUnavailability)
	}
	if u.Type == UnavailabilityTimeSlot && len(u.TimeSlots) == 0 {
		return fmt.Errorf("%w: timeSlots are required for time_slot type", ErrInvalidUnavailability)
	}
	if u.Type == UnavailabilityFullDay && len(u.TimeSlots) > 0 {
		return fmt.Errorf("%w: timeSlots are only allowed for time_slot type", ErrInvalidUnavailability)
	}
	for _, s := range u.TimeSlots {
		if err := s.Validate(); err != nil {
			return fmt.Errorf("%w: invalid time slot %q", ErrInvalidUnavailability, s)
		}
	}
	if u.UnavailableCount < MinUnavailableCount {
		return fmt.Errorf("%w: unavailableCount must be at least %d", ErrInvalidUnavailability, MinUnavailableCount)
	}
	if u.Reason != nil && len([]rune(*u.Reason)) > MaxReasonLength {
		return fmt.Errorf("%w: reason must be at most %d characters", ErrInvalidUnavailability, MaxReasonLength)
	}
	return nil
}

// UnavailabilityPatch carries the fields of a partial update
type UnavailabilityPatch struct {
	Date             *time.Time
	Type             *UnavailabilityType
	TimeSlots        *[]types.TimeString
	UnavailableCount *int
	Reason           *string
}

// ApplyTo merges the supplied fields into u. Switching to full_day clears the slot list.
func (p UnavailabilityPatch) ApplyTo(u *StaffUnavailability) {
	if p.Date != nil {
		u.Date = DateOnly(*p.Date)
	}
	if p.Type != nil {
		u.Type = *p.Type
		if u.Type == UnavailabilityFullDay && p.TimeSlots == nil {
			u.TimeSlots = nil
		}
	}
	if p.TimeSlots != nil {
		u.TimeSlots = *p.TimeSlots
	}
	if p.UnavailableCount != nil {
		u.UnavailableCount = *p.UnavailableCount
	}
	if p.Reason != nil {
		u.Reason = p.Reason
	}
}
