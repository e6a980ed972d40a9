package domain

import (
	"time"

	"github.com/m04kA/SMC-CarWashService/pkg/types"
)

// StaffConfig is the singleton capacity configuration of the car wash
type StaffConfig struct {
	ID                     int64
	TotalStaff             int
	ServiceDurationMinutes int
	OperatingStartTime     types.TimeString
	OperatingEndTime       types.TimeString
	BookingWindowDays      int
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

// DefaultStaffConfig returns the configuration created on first read
func DefaultStaffConfig() *StaffConfig {
	return &StaffConfig{
		TotalStaff:             DefaultTotalStaff,
		ServiceDurationMinutes: DefaultServiceDurationMinutes,
		OperatingStartTime:     DefaultOperatingStartTime,
		OperatingEndTime:       DefaultOperatingEndTime,
		BookingWindowDays:      DefaultBookingWindowDays,
	}
}

// StaffConfigPatch carries the fields of a partial update; nil fields are left untouched
type StaffConfigPatch struct {
	TotalStaff             *int
	ServiceDurationMinutes *int
	OperatingStartTime     *types.TimeString
	OperatingEndTime       *types.TimeString
	BookingWindowDays      *int
}

// IsEmpty returns true when no field is set
func (p StaffConfigPatch) IsEmpty() bool {
	return p.TotalStaff == nil && p.ServiceDurationMinutes == nil &&
		p.OperatingStartTime == nil && p.OperatingEndTime == nil && p.BookingWindowDays == nil
}

// ApplyTo merges the supplied fields into cfg
func (p StaffConfigPatch) ApplyTo(cfg *StaffConfig) {
	if p.TotalStaff != nil {
		cfg.TotalStaff = *p.TotalStaff
	}
	if p.ServiceDurationMinutes != nil {
		cfg.ServiceDurationMinutes = *p.ServiceDurationMinutes
	}
	if p.OperatingStartTime != nil {
		cfg.OperatingStartTime = *p.OperatingStartTime
	}
	if p.OperatingEndTime != nil {
		cfg.OperatingEndTime = *p.OperatingEndTime
	}
	if p.BookingWindowDays != nil {
		cfg.BookingWindowDays = *p.BookingWindowDays
	}
}
