package bookings

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CarWashService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-CarWashService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-CarWashService/internal/service/bookings/models"
	"github.com/m04kA/SMC-CarWashService/pkg/ptr"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fixedTime struct{ t time.Time }

func (f fixedTime) Now() time.Time { return f.t }

type memRepo struct {
	mu          sync.Mutex
	bookings    map[int64]*domain.Booking
	adminFilter domain.AdminBookingsFilter
	userFilter  domain.UserBookingsFilter
}

func newMemRepo(bs ...*domain.Booking) *memRepo {
	r := &memRepo{bookings: make(map[int64]*domain.Booking)}
	for _, b := range bs {
		r.bookings[b.ID] = b
	}
	return r
}

func (r *memRepo) GetByID(_ context.Context, id int64) (*domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	cp := *b
	return &cp, nil
}

func (r *memRepo) ListByUser(_ context.Context, f domain.UserBookingsFilter) ([]*domain.Booking, int, error) {
	r.userFilter = f
	out := make([]*domain.Booking, 0)
	for _, b := range r.bookings {
		if b.UserID == f.UserID {
			out = append(out, b)
		}
	}
	return out, len(out), nil
}

func (r *memRepo) ListForAdmin(_ context.Context, f domain.AdminBookingsFilter) ([]*domain.Booking, int, error) {
	r.adminFilter = f
	return []*domain.Booking{}, 0, nil
}

func (r *memRepo) Cancel(_ context.Context, id int64, reason *string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return bookingRepo.ErrBookingNotFound
	}
	b.Status = domain.StatusCancelled
	b.CancellationReason = reason
	b.CancelledAt = &at
	return nil
}

func (r *memRepo) ApplyStatusChange(_ context.Context, id int64, change domain.StatusChange) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return bookingRepo.ErrBookingNotFound
	}
	b.Status = change.Status
	if change.Status == domain.StatusCancelled {
		b.CancellationReason = change.Reason
		b.CancelledAt = &change.At
	}
	if change.Status == domain.StatusCompleted {
		b.CompletedAt = &change.At
	}
	return nil
}

type recNotifier struct{ jobs []*domain.NotificationJob }

func (n *recNotifier) Publish(_ context.Context, job *domain.NotificationJob) {
	n.jobs = append(n.jobs, job)
}

func (n *recNotifier) kinds() []domain.NotificationKind {
	out := make([]domain.NotificationKind, 0, len(n.jobs))
	for _, j := range n.jobs {
		out = append(out, j.Kind)
	}
	return out
}

type mockNotifier struct{ mock.Mock }

func (m *mockNotifier) Publish(ctx context.Context, job *domain.NotificationJob) {
	m.Called(ctx, job)
}

var now = time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

func booking(id, userID int64, status domain.BookingStatus) *domain.Booking {
	return &domain.Booking{
		ID:            id,
		BookingNumber: "CW-A1B2C3",
		UserID:        userID,
		ServiceName:   "Premium Wash",
		ScheduledDate: time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC),
		ScheduledTime: "09:00",
		Status:        status,
	}
}

func newTestService(repo BookingRepository, n Notifier, opts Options) *Service {
	s := NewService(repo, n, opts, nopLogger{})
	s.timeProvider = fixedTime{now}
	return s
}

func TestGetByID_ForeignBookingIsNotFound(t *testing.T) {
	s := newTestService(newMemRepo(booking(1, 10, domain.StatusPending)), &recNotifier{}, Options{})

	_, err := s.GetByID(context.Background(), 1, 11)
	assert.ErrorIs(t, err, ErrBookingNotFound)

	resp, err := s.GetByID(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.Equal(t, "2024-06-03", resp.ScheduledDate)
}

func TestCancel_PendingFreesSlotAndNotifiesAdminOnly(t *testing.T) {
	repo := newMemRepo(booking(1, 10, domain.StatusPending))
	n := &recNotifier{}
	s := newTestService(repo, n, Options{})

	resp, err := s.Cancel(context.Background(), 1, &models.CancelBookingRequest{UserID: 10, Reason: ptr.Ptr("changed plans")})
	require.NoError(t, err)

	assert.Equal(t, "cancelled", resp.Status)
	require.NotNil(t, resp.CancelledAt)
	assert.Equal(t, now, *resp.CancelledAt)

	stored, _ := repo.GetByID(context.Background(), 1)
	assert.False(t, stored.IsActive())

	require.Len(t, n.jobs, 1)
	assert.Equal(t, domain.KindAdminBookingCancelled, n.jobs[0].Kind)
	assert.True(t, n.jobs[0].ByCustomer)
	assert.Equal(t, "changed plans", n.jobs[0].Reason)
}

func TestCancel_RejectsTerminalAndInProgress(t *testing.T) {
	for _, st := range []domain.BookingStatus{domain.StatusInProgress, domain.StatusCompleted, domain.StatusCancelled} {
		s := newTestService(newMemRepo(booking(1, 10, st)), &recNotifier{}, Options{})
		_, err := s.Cancel(context.Background(), 1, &models.CancelBookingRequest{UserID: 10})
		assert.ErrorIs(t, err, ErrCannotCancel, st)
	}
}

func TestUpdateStatus_LiberalByDefault(t *testing.T) {
	repo := newMemRepo(booking(1, 10, domain.StatusCompleted))
	n := &recNotifier{}
	s := newTestService(repo, n, Options{})

	resp, err := s.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{Status: "pending"})
	require.NoError(t, err)
	assert.Equal(t, "pending", resp.Status)
	assert.Empty(t, n.jobs)
}

func TestUpdateStatus_EnforcedTransitions(t *testing.T) {
	s := newTestService(newMemRepo(booking(1, 10, domain.StatusCompleted)), &recNotifier{}, Options{EnforceTransitions: true})

	_, err := s.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{Status: "pending"})
	assert.ErrorIs(t, err, ErrTransitionNotAllowed)
}

func TestUpdateStatus_InvalidStatus(t *testing.T) {
	s := newTestService(newMemRepo(booking(1, 10, domain.StatusPending)), &recNotifier{}, Options{})

	_, err := s.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{Status: "archived"})
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestUpdateStatus_SideEffects(t *testing.T) {
	tests := []struct {
		name  string
		from  domain.BookingStatus
		to    string
		kinds []domain.NotificationKind
	}{
		{"confirm pending", domain.StatusPending, "confirmed", []domain.NotificationKind{domain.KindCustomerBookingConfirmed}},
		{"confirm in_progress", domain.StatusInProgress, "confirmed", []domain.NotificationKind{}},
		{"complete", domain.StatusConfirmed, "completed", []domain.NotificationKind{domain.KindAdminBookingCompleted}},
		{"cancel", domain.StatusConfirmed, "cancelled", []domain.NotificationKind{domain.KindAdminBookingCancelled, domain.KindCustomerBookingCancelled}},
		{"start", domain.StatusConfirmed, "in_progress", []domain.NotificationKind{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := &recNotifier{}
			s := newTestService(newMemRepo(booking(1, 10, tt.from)), n, Options{})

			_, err := s.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{Status: tt.to})
			require.NoError(t, err)
			assert.Equal(t, tt.kinds, n.kinds())
		})
	}
}

func TestUpdateStatus_CancelDefaultReason(t *testing.T) {
	repo := newMemRepo(booking(1, 10, domain.StatusPending))
	n := new(mockNotifier)
	n.On("Publish", mock.Anything, mock.MatchedBy(func(j *domain.NotificationJob) bool {
		return j.Reason == domain.DefaultAdminCancelReason
	})).Twice()
	s := newTestService(repo, n, Options{})

	resp, err := s.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{Status: "cancelled"})
	require.NoError(t, err)

	require.NotNil(t, resp.CancellationReason)
	assert.Equal(t, domain.DefaultAdminCancelReason, *resp.CancellationReason)
	n.AssertExpectations(t)
}

func TestUpdateStatus_CompletedSetsCompletedAt(t *testing.T) {
	repo := newMemRepo(booking(1, 10, domain.StatusInProgress))
	s := newTestService(repo, &recNotifier{}, Options{})

	resp, err := s.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{Status: "completed"})
	require.NoError(t, err)
	require.NotNil(t, resp.CompletedAt)
	assert.Equal(t, now, *resp.CompletedAt)
}

func TestAdminList_Upcoming(t *testing.T) {
	repo := newMemRepo()
	s := newTestService(repo, &recNotifier{}, Options{})

	_, err := s.AdminList(context.Background(), &models.AdminListRequest{Status: ptr.Ptr("upcoming"), Page: 2, Limit: 500})
	require.NoError(t, err)

	assert.Equal(t, domain.AdminUpcomingStatuses, repo.adminFilter.Statuses)
	require.NotNil(t, repo.adminFilter.FromDate)
	assert.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), *repo.adminFilter.FromDate)
	assert.Equal(t, domain.Page{Number: 2, Limit: domain.MaxPageLimit}, repo.adminFilter.Page)
}

func TestAdminList_BadDate(t *testing.T) {
	s := newTestService(newMemRepo(), &recNotifier{}, Options{})

	_, err := s.AdminList(context.Background(), &models.AdminListRequest{Date: ptr.Ptr("06/10/2024")})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestGetUserBookings_StatusFilter(t *testing.T) {
	repo := newMemRepo(booking(1, 10, domain.StatusPending), booking(2, 11, domain.StatusPending))
	s := newTestService(repo, &recNotifier{}, Options{})

	resp, err := s.GetUserBookings(context.Background(), &models.GetUserBookingsRequest{UserID: 10, Status: ptr.Ptr("upcoming")})
	require.NoError(t, err)

	assert.Len(t, resp.Bookings, 1)
	assert.Equal(t, domain.UpcomingStatuses, repo.userFilter.Statuses)
	assert.Equal(t, domain.Pagination{Page: 1, Limit: domain.DefaultPageLimit, Total: 1, Pages: 1}, resp.Pagination)

	_, err = s.GetUserBookings(context.Background(), &models.GetUserBookingsRequest{UserID: 10, Status: ptr.Ptr("later")})
	assert.ErrorIs(t, err, ErrInvalidStatus)
}
