package notifier

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CarWashService/internal/domain"
	"github.com/m04kA/SMC-CarWashService/internal/infra/queue"
	"github.com/m04kA/SMC-CarWashService/internal/integrations/sms"
	"github.com/m04kA/SMC-CarWashService/pkg/ptr"
)

func newTestDispatcher(q Queue, users UserRepository, s SMSSender, p PushSender, f AdminFeed, m Metrics) *Dispatcher {
	return NewDispatcher(q, users, s, p, f, m, Config{
		Workers:            2,
		MaxAttempts:        3,
		BrandName:          "CarWash",
		DefaultCountryCode: "+91",
	}, nopLogger{})
}

func TestProcess_CustomerJobSendsSMSAndPush(t *testing.T) {
	smsSender, pushSender, metrics := &fakeSMS{}, &fakePush{}, &recMetrics{}
	d := newTestDispatcher(queue.NewMemoryQueue(4), testUsers(), smsSender, pushSender, &fakeFeed{}, metrics)

	d.Process(context.Background(), testJob(domain.KindCustomerBookingReceived))

	require.Len(t, smsSender.sent, 1)
	assert.Equal(t, "+91", smsSender.sent[0].CountryCode)
	assert.Equal(t, "9876543210", smsSender.sent[0].Phone)
	require.Len(t, pushSender.sent, 1)
	assert.Equal(t, 1, metrics.get("customer_booking_received/sent"))
}

func TestProcess_UserCountryCodeOverridesDefault(t *testing.T) {
	users := &fakeUsers{users: map[int64]*domain.User{
		7: {ID: 7, Phone: ptr.Ptr("5551234"), CountryCode: ptr.Ptr("+1")},
	}}
	smsSender := &fakeSMS{}
	d := newTestDispatcher(queue.NewMemoryQueue(4), users, smsSender, &fakePush{}, &fakeFeed{}, nil)

	d.Process(context.Background(), testJob(domain.KindCustomerBookingConfirmed))

	require.Len(t, smsSender.sent, 1)
	assert.Equal(t, "+1", smsSender.sent[0].CountryCode)
}

func TestProcess_CancelledSendsPushOnly(t *testing.T) {
	smsSender, pushSender := &fakeSMS{}, &fakePush{}
	d := newTestDispatcher(queue.NewMemoryQueue(4), testUsers(), smsSender, pushSender, &fakeFeed{}, nil)

	d.Process(context.Background(), testJob(domain.KindCustomerBookingCancelled))

	assert.Empty(t, smsSender.sent)
	assert.Len(t, pushSender.sent, 1)
}

func TestProcess_InvalidPhoneIsNotRetried(t *testing.T) {
	q := queue.NewMemoryQueue(4)
	smsSender := &fakeSMS{err: sms.ErrInvalidPhone}
	pushSender := &fakePush{}
	d := newTestDispatcher(q, testUsers(), smsSender, pushSender, &fakeFeed{}, nil)

	d.Process(context.Background(), testJob(domain.KindCustomerBookingReceived))

	assert.Len(t, pushSender.sent, 1)
	moved, err := q.RequeueRetries(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, moved)
}

func TestProcess_FailedChannelIsRetriedAlone(t *testing.T) {
	q := queue.NewMemoryQueue(4)
	smsSender := &fakeSMS{err: sms.ErrSendFailed}
	pushSender := &fakePush{}
	metrics := &recMetrics{}
	d := newTestDispatcher(q, testUsers(), smsSender, pushSender, &fakeFeed{}, metrics)

	d.Process(context.Background(), testJob(domain.KindCustomerBookingReceived))
	assert.Len(t, pushSender.sent, 1)
	assert.Equal(t, 1, metrics.get("customer_booking_received/retry"))

	moved, err := q.RequeueRetries(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, moved)

	retried, err := q.Dequeue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.ChannelSMS, retried.Channel)
	assert.Equal(t, 1, retried.Attempts)

	// повтор: SMS проходит, push повторно не отправляется
	smsSender.err = nil
	d.Process(context.Background(), retried)
	assert.Len(t, smsSender.sent, 1)
	assert.Len(t, pushSender.sent, 1)
}

func TestProcess_DropsAfterMaxAttempts(t *testing.T) {
	q := queue.NewMemoryQueue(4)
	feed := &fakeFeed{err: errors.New("db down")}
	metrics := &recMetrics{}
	d := newTestDispatcher(q, testUsers(), &fakeSMS{}, &fakePush{}, feed, metrics)

	job := testJob(domain.KindAdminNewBooking)
	job.Attempts = 2
	d.Process(context.Background(), job)

	assert.Equal(t, 1, metrics.get("admin_new_booking/dropped"))
	moved, err := q.RequeueRetries(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, moved)
}

func TestProcess_UnknownUserIsDropped(t *testing.T) {
	q := queue.NewMemoryQueue(4)
	metrics := &recMetrics{}
	d := newTestDispatcher(q, &fakeUsers{}, &fakeSMS{}, &fakePush{}, &fakeFeed{}, metrics)

	d.Process(context.Background(), testJob(domain.KindCustomerBookingReceived))

	assert.Equal(t, 1, metrics.get("customer_booking_received/dropped"))
	moved, err := q.RequeueRetries(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, moved)
}

func TestProcess_UserLookupErrorRetriesWholeJob(t *testing.T) {
	q := queue.NewMemoryQueue(4)
	d := newTestDispatcher(q, &fakeUsers{err: errors.New("timeout")}, &fakeSMS{}, &fakePush{}, &fakeFeed{}, nil)

	d.Process(context.Background(), testJob(domain.KindCustomerBookingConfirmed))

	moved, err := q.RequeueRetries(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, moved)
	job, err := q.Dequeue(context.Background())
	require.NoError(t, err)
	assert.Empty(t, job.Channel)
}

func TestDispatcher_WorkersDrainQueue(t *testing.T) {
	q := queue.NewMemoryQueue(16)
	feed := &fakeFeed{}
	d := newTestDispatcher(q, testUsers(), &fakeSMS{}, &fakePush{}, feed, nil)

	publisher := NewPublisher(q, nil, nopLogger{})
	for i := 0; i < 5; i++ {
		publisher.Publish(context.Background(), testJob(domain.KindAdminNewBooking))
	}

	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)

	assert.Eventually(t, func() bool { return feed.count() == 5 }, 2*time.Second, 10*time.Millisecond)

	cancel()
	d.Wait()
}
