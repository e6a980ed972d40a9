package notifier

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CarWashService/internal/domain"
	"github.com/m04kA/SMC-CarWashService/internal/infra/queue"
)

func TestNewRetryScheduler_InvalidSpec(t *testing.T) {
	_, err := NewRetryScheduler("every minute please", queue.NewMemoryQueue(1), nopLogger{})
	assert.ErrorIs(t, err, ErrInvalidSchedule)
}

func TestRequeueOnce_MovesParkedJobs(t *testing.T) {
	q := queue.NewMemoryQueue(4)
	require.NoError(t, q.Retry(context.Background(), testJob(domain.KindAdminNewBooking)))
	require.NoError(t, q.Retry(context.Background(), testJob(domain.KindAdminBookingCompleted)))

	s, err := NewRetryScheduler("@every 1h", q, nopLogger{})
	require.NoError(t, err)
	s.RequeueOnce()

	n, err := q.Len(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestRetryScheduler_StartStop(t *testing.T) {
	s, err := NewRetryScheduler("@every 1h", queue.NewMemoryQueue(1), nopLogger{})
	require.NoError(t, err)

	s.Start()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Stop(ctx)
}
