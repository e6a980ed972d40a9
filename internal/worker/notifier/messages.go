package notifier

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/m04kA/SMC-CarWashService/internal/domain"
	"github.com/m04kA/SMC-CarWashService/internal/integrations/push"
)

// displayDateFormat формат даты в текстах, например "Mon, Jun 10"
const displayDateFormat = "Mon, Jan 2"

const defaultCancelReason = "No reason provided"

// customerMessage содержимое клиентского уведомления.
// Пустой SMS означает, что для этого типа SMS не отправляется.
type customerMessage struct {
	SMS  string
	Push push.Message
}

func formatDate(job *domain.NotificationJob) string {
	return job.ScheduledDate.Format(displayDateFormat)
}

func buildCustomerMessage(job *domain.NotificationJob, brand string) (*customerMessage, error) {
	date, at := formatDate(job), job.ScheduledTime.Display()

	switch job.Kind {
	case domain.KindCustomerBookingReceived:
		return &customerMessage{
			SMS: fmt.Sprintf("%s Booking Received! Booking #%s for %s on %s at %s is pending confirmation. We'll notify you once confirmed!",
				brand, job.BookingNumber, job.ServiceName, date, at),
			Push: push.Message{
				UserID: job.UserID,
				Title:  "Booking Received!",
				Body: fmt.Sprintf("Your %s for %s at %s is pending confirmation. We'll notify you once confirmed! Booking #%s",
					job.ServiceName, date, at, job.BookingNumber),
				Data: map[string]string{"type": "booking_received", "bookingNumber": job.BookingNumber},
			},
		}, nil

	case domain.KindCustomerBookingConfirmed:
		return &customerMessage{
			SMS: fmt.Sprintf("%s Booking Confirmed! Booking #%s. %s on %s at %s. Thank you for choosing %s!",
				brand, job.BookingNumber, job.ServiceName, date, at, brand),
			Push: push.Message{
				UserID: job.UserID,
				Title:  "Booking Confirmed!",
				Body: fmt.Sprintf("Your %s is scheduled for %s at %s. Booking #%s",
					job.ServiceName, date, at, job.BookingNumber),
				Data: map[string]string{"type": "booking_confirmation", "bookingNumber": job.BookingNumber},
			},
		}, nil

	case domain.KindCustomerBookingCancelled:
		return &customerMessage{
			Push: push.Message{
				UserID: job.UserID,
				Title:  "Booking Update",
				Body:   fmt.Sprintf("Your booking has been cancelled. Booking #%s", job.BookingNumber),
				Data: map[string]string{
					"type":          "booking_status",
					"bookingNumber": job.BookingNumber,
					"status":        string(domain.StatusCancelled),
				},
			},
		}, nil
	}

	return nil, fmt.Errorf("%w: %s", ErrUnknownKind, job.Kind)
}

func buildAdminNotification(job *domain.NotificationJob) (*domain.AdminNotification, error) {
	data := map[string]string{
		"bookingId":     strconv.FormatInt(job.BookingID, 10),
		"bookingNumber": job.BookingNumber,
	}

	n := &domain.AdminNotification{}
	switch job.Kind {
	case domain.KindAdminNewBooking:
		n.Type = domain.AdminNotificationNewBooking
		n.Title = "New Booking Received"
		n.Message = fmt.Sprintf("New booking #%s for %s on %s at %s",
			job.BookingNumber, job.ServiceName, formatDate(job), job.ScheduledTime.Display())

	case domain.KindAdminBookingCancelled:
		n.Type = domain.AdminNotificationBookingCancelled
		if job.ByCustomer {
			n.Title = "Booking Cancelled by Customer"
			n.Message = fmt.Sprintf("Booking #%s was cancelled by the customer", job.BookingNumber)
		} else {
			n.Title = "Booking Cancelled"
			n.Message = fmt.Sprintf("Booking #%s has been cancelled", job.BookingNumber)
		}
		data["reason"] = job.Reason
		if data["reason"] == "" {
			data["reason"] = defaultCancelReason
		}

	case domain.KindAdminBookingCompleted:
		n.Type = domain.AdminNotificationBookingCompleted
		n.Title = "Booking Completed"
		n.Message = fmt.Sprintf("Booking #%s has been completed", job.BookingNumber)

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownKind, job.Kind)
	}

	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	n.Data = raw
	return n, nil
}
