package notifier

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CarWashService/internal/domain"
)

func TestBuildCustomerMessage(t *testing.T) {
	msg, err := buildCustomerMessage(testJob(domain.KindCustomerBookingReceived), "CarWash")
	require.NoError(t, err)
	assert.Equal(t,
		"CarWash Booking Received! Booking #CW-A1B2C3 for Premium Wash on Mon, Jun 10 at 9:30 AM is pending confirmation. We'll notify you once confirmed!",
		msg.SMS)
	assert.Equal(t, "Booking Received!", msg.Push.Title)
	assert.Equal(t, int64(7), msg.Push.UserID)
	assert.Equal(t, "booking_received", msg.Push.Data["type"])

	msg, err = buildCustomerMessage(testJob(domain.KindCustomerBookingConfirmed), "CarWash")
	require.NoError(t, err)
	assert.Equal(t,
		"CarWash Booking Confirmed! Booking #CW-A1B2C3. Premium Wash on Mon, Jun 10 at 9:30 AM. Thank you for choosing CarWash!",
		msg.SMS)
	assert.Equal(t, "Your Premium Wash is scheduled for Mon, Jun 10 at 9:30 AM. Booking #CW-A1B2C3", msg.Push.Body)

	msg, err = buildCustomerMessage(testJob(domain.KindCustomerBookingCancelled), "CarWash")
	require.NoError(t, err)
	assert.Empty(t, msg.SMS)
	assert.Equal(t, "Your booking has been cancelled. Booking #CW-A1B2C3", msg.Push.Body)

	_, err = buildCustomerMessage(testJob(domain.KindAdminNewBooking), "CarWash")
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestBuildAdminNotification(t *testing.T) {
	n, err := buildAdminNotification(testJob(domain.KindAdminNewBooking))
	require.NoError(t, err)
	assert.Equal(t, domain.AdminNotificationNewBooking, n.Type)
	assert.Equal(t, "New booking #CW-A1B2C3 for Premium Wash on Mon, Jun 10 at 9:30 AM", n.Message)

	job := testJob(domain.KindAdminBookingCancelled)
	job.ByCustomer = true
	n, err = buildAdminNotification(job)
	require.NoError(t, err)
	assert.Equal(t, "Booking Cancelled by Customer", n.Title)

	var data map[string]string
	require.NoError(t, json.Unmarshal(n.Data, &data))
	assert.Equal(t, "No reason provided", data["reason"])
	assert.Equal(t, "42", data["bookingId"])

	job = testJob(domain.KindAdminBookingCancelled)
	job.Reason = "Weather"
	n, err = buildAdminNotification(job)
	require.NoError(t, err)
	assert.Equal(t, "Booking #CW-A1B2C3 has been cancelled", n.Message)
	require.NoError(t, json.Unmarshal(n.Data, &data))
	assert.Equal(t, "Weather", data["reason"])

	n, err = buildAdminNotification(testJob(domain.KindAdminBookingCompleted))
	require.NoError(t, err)
	assert.Equal(t, domain.AdminNotificationBookingCompleted, n.Type)
}
