package notifications

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CarWashService/internal/domain"
	notificationRepo "github.com/m04kA/SMC-CarWashService/internal/infra/storage/notification"
	"github.com/m04kA/SMC-CarWashService/internal/service/notifications/models"
	"github.com/m04kA/SMC-CarWashService/pkg/ptr"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type memRepo struct {
	items []*domain.AdminNotification
	err   error
}

func (r *memRepo) Create(_ context.Context, n *domain.AdminNotification) (*domain.AdminNotification, error) {
	if r.err != nil {
		return nil, r.err
	}
	n.ID = int64(len(r.items) + 1)
	r.items = append(r.items, n)
	return n, nil
}

func (r *memRepo) List(_ context.Context, filter domain.AdminNotificationsFilter) ([]*domain.AdminNotification, int, error) {
	out := make([]*domain.AdminNotification, 0)
	for i := len(r.items) - 1; i >= 0; i-- {
		if filter.Type != nil && r.items[i].Type != *filter.Type {
			continue
		}
		out = append(out, r.items[i])
	}
	total := len(out)
	start := filter.Page.Offset()
	if start > total {
		start = total
	}
	end := start + filter.Page.Limit
	if end > total {
		end = total
	}
	return out[start:end], total, nil
}

func (r *memRepo) CountUnread(context.Context) (int, error) {
	n := 0
	for _, item := range r.items {
		if !item.IsRead {
			n++
		}
	}
	return n, nil
}

func (r *memRepo) MarkAsRead(_ context.Context, id int64) error {
	for _, item := range r.items {
		if item.ID == id {
			item.IsRead = true
			return nil
		}
	}
	return notificationRepo.ErrNotFound
}

func (r *memRepo) MarkAllAsRead(context.Context) (int64, error) {
	var n int64
	for _, item := range r.items {
		if !item.IsRead {
			item.IsRead = true
			n++
		}
	}
	return n, nil
}

type mockBroadcaster struct {
	mock.Mock
}

func (m *mockBroadcaster) Broadcast(n *domain.AdminNotification) {
	m.Called(n)
}

func TestCreate_PersistsAndBroadcasts(t *testing.T) {
	repo := &memRepo{}
	hub := &mockBroadcaster{}
	hub.On("Broadcast", mock.MatchedBy(func(n *domain.AdminNotification) bool {
		return n.ID == 1 && n.Type == domain.AdminNotificationNewBooking
	})).Once()

	s := NewService(repo, hub, nopLogger{})
	created, err := s.Create(context.Background(), &domain.AdminNotification{
		Type:    domain.AdminNotificationNewBooking,
		Title:   "New Booking Received",
		Message: "New booking #CW-ABC123",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)
	hub.AssertExpectations(t)
}

func TestCreate_RepositoryErrorSkipsBroadcast(t *testing.T) {
	hub := &mockBroadcaster{}
	s := NewService(&memRepo{err: errors.New("db down")}, hub, nopLogger{})

	_, err := s.Create(context.Background(), &domain.AdminNotification{Type: domain.AdminNotificationNewBooking})
	assert.ErrorIs(t, err, ErrInternal)
	hub.AssertNotCalled(t, "Broadcast", mock.Anything)
}

func TestCreate_UnknownType(t *testing.T) {
	s := NewService(&memRepo{}, nil, nopLogger{})
	_, err := s.Create(context.Background(), &domain.AdminNotification{Type: "unknown"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestListAndMarkRead(t *testing.T) {
	repo := &memRepo{}
	s := NewService(repo, nil, nopLogger{})
	for _, typ := range []domain.AdminNotificationType{
		domain.AdminNotificationNewBooking,
		domain.AdminNotificationBookingCancelled,
		domain.AdminNotificationNewBooking,
	} {
		_, err := s.Create(context.Background(), &domain.AdminNotification{Type: typ})
		require.NoError(t, err)
	}

	resp, err := s.List(context.Background(), &models.ListRequest{Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.Len(t, resp.Notifications, 2)
	assert.Equal(t, int64(3), resp.Notifications[0].ID)
	assert.Equal(t, 3, resp.UnreadCount)
	assert.Equal(t, 2, resp.Pagination.Pages)

	require.NoError(t, s.MarkAsRead(context.Background(), 1))
	assert.ErrorIs(t, s.MarkAsRead(context.Background(), 42), ErrNotFound)

	resp, err = s.List(context.Background(), &models.ListRequest{Type: ptr.Ptr("new_booking")})
	require.NoError(t, err)
	assert.Len(t, resp.Notifications, 2)
	assert.Equal(t, 2, resp.UnreadCount)

	marked, err := s.MarkAllAsRead(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), marked.Updated)

	_, err = s.List(context.Background(), &models.ListRequest{Type: ptr.Ptr("bogus")})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
