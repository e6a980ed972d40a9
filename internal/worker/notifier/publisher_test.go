package notifier

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CarWashService/internal/domain"
	"github.com/m04kA/SMC-CarWashService/internal/infra/queue"
)

func TestPublish_Enqueues(t *testing.T) {
	q := queue.NewMemoryQueue(2)
	metrics := &recMetrics{}
	p := NewPublisher(q, metrics, nopLogger{})

	p.Publish(context.Background(), testJob(domain.KindAdminNewBooking))

	n, err := q.Len(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 1, metrics.get("admin_new_booking/queued"))
}

func TestPublish_SurvivesCancelledRequest(t *testing.T) {
	q := queue.NewMemoryQueue(2)
	p := NewPublisher(q, nil, nopLogger{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p.Publish(ctx, testJob(domain.KindAdminNewBooking))

	n, err := q.Len(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestPublish_EnqueueFailureIsSwallowed(t *testing.T) {
	metrics := &recMetrics{}
	p := NewPublisher(failingQueue{}, metrics, nopLogger{})

	assert.NotPanics(t, func() {
		p.Publish(context.Background(), testJob(domain.KindCustomerBookingReceived))
	})
	assert.Equal(t, 1, metrics.get("customer_booking_received/enqueue_failed"))
}
