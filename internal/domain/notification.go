package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-CarWashService/pkg/types"
)

// AdminNotificationType classifies back-office notifications
type AdminNotificationType string

const (
	AdminNotificationNewUser          AdminNotificationType = "new_user"
	AdminNotificationNewBooking       AdminNotificationType = "new_booking"
	AdminNotificationBookingCancelled AdminNotificationType = "booking_cancelled"
	AdminNotificationBookingCompleted AdminNotificationType = "booking_completed"
	AdminNotificationAbandonedBooking AdminNotificationType = "abandoned_booking"
)

// IsValid reports whether the type is known
func (t AdminNotificationType) IsValid() bool {
	switch t {
	case AdminNotificationNewUser, AdminNotificationNewBooking, AdminNotificationBookingCancelled,
		AdminNotificationBookingCompleted, AdminNotificationAbandonedBooking:
		return true
	}
	return false
}

// AdminNotification is shown in the back-office feed
type AdminNotification struct {
	ID        int64                 `json:"id"`
	Type      AdminNotificationType `json:"type"`
	Title     string                `json:"title"`
	Message   string                `json:"message"`
	Data      json.RawMessage       `json:"data,omitempty"`
	IsRead    bool                  `json:"isRead"`
	CreatedAt time.Time             `json:"createdAt"`
}

// AdminNotificationsFilter filters the back-office feed
type AdminNotificationsFilter struct {
	Type *AdminNotificationType
	Page Page
}

// Delivery channels of customer-facing jobs
const (
	ChannelSMS  = "sms"
	ChannelPush = "push"
)

// NotificationKind is the intent carried by a queued notification job
type NotificationKind string

const (
	KindCustomerBookingReceived  NotificationKind = "customer_booking_received"
	KindCustomerBookingConfirmed NotificationKind = "customer_booking_confirmed"
	KindCustomerBookingCancelled NotificationKind = "customer_booking_cancelled"
	KindAdminNewBooking          NotificationKind = "admin_new_booking"
	KindAdminBookingCancelled    NotificationKind = "admin_booking_cancelled"
	KindAdminBookingCompleted    NotificationKind = "admin_booking_completed"
)

// IsCustomerFacing reports whether the job goes to the customer (SMS and push)
func (k NotificationKind) IsCustomerFacing() bool {
	switch k {
	case KindCustomerBookingReceived, KindCustomerBookingConfirmed, KindCustomerBookingCancelled:
		return true
	}
	return false
}

// NotificationJob is a queued notification intent. Jobs are self-contained so
// workers never re-read the booking.
type NotificationJob struct {
	ID            string           `json:"id"`
	Kind          NotificationKind `json:"kind"`
	BookingID     int64            `json:"bookingId"`
	BookingNumber string           `json:"bookingNumber"`
	UserID        int64            `json:"userId"`
	ServiceName   string           `json:"serviceName"`
	ScheduledDate time.Time        `json:"scheduledDate"`
	ScheduledTime types.TimeString `json:"scheduledTime"`
	Reason        string           `json:"reason,omitempty"`
	ByCustomer    bool             `json:"byCustomer,omitempty"`
	Channel       string           `json:"channel,omitempty"` // empty means every channel of the kind
	Attempts      int              `json:"attempts"`
	CreatedAt     time.Time        `json:"createdAt"`
}

// NewNotificationJob builds a job for booking b
func NewNotificationJob(kind NotificationKind, b *Booking, now time.Time) *NotificationJob {
	return &NotificationJob{
		ID:            uuid.NewString(),
		Kind:          kind,
		BookingID:     b.ID,
		BookingNumber: b.BookingNumber,
		UserID:        b.UserID,
		ServiceName:   b.ServiceName,
		ScheduledDate: b.ScheduledDate,
		ScheduledTime: b.ScheduledTime,
		CreatedAt:     now,
	}
}
