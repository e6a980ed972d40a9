package domain

import (
	"time"

	"github.com/m04kA/SMC-CarWashService/pkg/types"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPending    BookingStatus = "pending"
	StatusConfirmed  BookingStatus = "confirmed"
	StatusInProgress BookingStatus = "in_progress"
	StatusCompleted  BookingStatus = "completed"
	StatusCancelled  BookingStatus = "cancelled"
)

// ParseBookingStatus validates a raw status value
func ParseBookingStatus(s string) (BookingStatus, error) {
	status := BookingStatus(s)
	if !status.IsValid() {
		return "", ErrInvalidStatus
	}
	return status, nil
}

// IsValid reports whether the status is one of the known states
func (s BookingStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// IsTerminal returns true for completed and cancelled
func (s BookingStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// TimeSlot is the [Start, End) span a booking occupies.
// End is derived from the service duration and wraps past midnight.
type TimeSlot struct {
	Start types.TimeString
	End   types.TimeString
}

// Coordinates of the service location
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Location is where the car is washed
type Location struct {
	Address     string       `json:"address"`
	City        *string      `json:"city,omitempty"`
	State       *string      `json:"state,omitempty"`
	ZipCode     *string      `json:"zipCode,omitempty"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
}

// Booking represents a car wash booking
type Booking struct {
	ID            int64
	BookingNumber string
	UserID        int64
	VehicleID     int64
	ServiceID     int64

	// Snapshot of the service at creation time
	ServiceName     string
	DurationMinutes int

	ScheduledDate time.Time // calendar day, midnight UTC
	ScheduledTime types.TimeString
	TimeSlot      TimeSlot
	Location      Location
	Status        BookingStatus

	Subtotal   float64
	ServiceFee float64
	Tax        float64
	Total      float64

	Notes              *string
	CancellationReason *string
	CancelledAt        *time.Time
	CompletedAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the booking still occupies capacity
func (b *Booking) IsActive() bool {
	return b.Status != StatusCancelled
}

// CanBeCancelled returns true if the customer may cancel the booking
func (b *Booking) CanBeCancelled() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// CanBeUpdated returns true if the booking may be rescheduled
func (b *Booking) CanBeUpdated() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// OccupiesSlot reports whether the booking starts at the given date and time
func (b *Booking) OccupiesSlot(date time.Time, t types.TimeString) bool {
	return SameDay(b.ScheduledDate, date) && b.ScheduledTime.Equal(t)
}

// ScheduledBooking is a booking joined with display names for the admin day view
type ScheduledBooking struct {
	Booking
	CustomerName string
	VehicleName  string
}

// StatusChange describes an admin-driven status transition
type StatusChange struct {
	Status BookingStatus
	Reason *string
	At     time.Time
}

// UserBookingsFilter filters a customer's booking history
type UserBookingsFilter struct {
	UserID   int64
	Statuses []BookingStatus // empty means all
	Page     Page
}

// AdminBookingsFilter filters the back-office booking list
type AdminBookingsFilter struct {
	Statuses []BookingStatus
	Date     *time.Time
	FromDate *time.Time // inclusive lower bound on scheduled date
	Search   *string    // matches booking number
	Page     Page
}

// Page is a 1-based pagination request
type Page struct {
	Number int
	Limit  int
}

// Offset returns the SQL offset of the page
func (p Page) Offset() int {
	if p.Number < 1 {
		return 0
	}
	return (p.Number - 1) * p.Limit
}

// NormalizePage applies defaults and bounds to raw page parameters
func NormalizePage(page, limit int) Page {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	return Page{Number: page, Limit: limit}
}

// Pagination is returned alongside list results
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

// NewPagination computes the page count for total items
func NewPagination(p Page, total int) Pagination {
	pages := 0
	if p.Limit > 0 {
		pages = (total + p.Limit - 1) / p.Limit
	}
	return Pagination{Page: p.Number, Limit: p.Limit, Total: total, Pages: pages}
}
