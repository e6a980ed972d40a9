package domain

// Staff configuration defaults
const (
	DefaultTotalStaff             = 3
	DefaultServiceDurationMinutes = 60
	DefaultOperatingStartTime     = "08:00"
	DefaultOperatingEndTime       = "22:00"
	DefaultBookingWindowDays      = 7
)

// Business validation constants
const (
	MinTotalStaff             = 1
	MaxTotalStaff             = 100
	MinServiceDurationMinutes = 15
	MaxServiceDurationMinutes = 480
	MinBookingWindowDays      = 1
	MaxBookingWindowDays      = 90

	MinUnavailableCount = 1
	MaxReasonLength     = 200

	MaxNotesLength              = 500
	MaxCancellationReasonLength = 500

	DefaultPageLimit = 10
	MaxPageLimit     = 100
)

// Pricing defaults
const (
	DefaultServiceFee = 3.00
	DefaultTaxRate    = 0.00
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// BookingNumberPrefix starts every booking number
const BookingNumberPrefix = "CW-"

// DefaultAdminCancelReason is stored when an admin cancels without a reason
const DefaultAdminCancelReason = "Cancelled by admin"

// UpcomingStatuses are the states shown under the customer "upcoming" tab
var UpcomingStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
	StatusInProgress,
}

// AdminUpcomingStatuses are the states shown under the admin "upcoming" filter
var AdminUpcomingStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
}
