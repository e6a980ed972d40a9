package notifier

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/m04kA/SMC-CarWashService/internal/domain"
	userRepo "github.com/m04kA/SMC-CarWashService/internal/infra/storage/user"
	"github.com/m04kA/SMC-CarWashService/internal/integrations/push"
	"github.com/m04kA/SMC-CarWashService/pkg/ptr"
	"github.com/m04kA/SMC-CarWashService/pkg/types"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeUsers struct {
	users map[int64]*domain.User
	err   error
}

func (f *fakeUsers) GetByID(_ context.Context, id int64) (*domain.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.users[id]
	if !ok {
		return nil, userRepo.ErrUserNotFound
	}
	return u, nil
}

type sentSMS struct {
	CountryCode, Phone, Body string
}

type fakeSMS struct {
	mu   sync.Mutex
	sent []sentSMS
	err  error
}

func (f *fakeSMS) Send(_ context.Context, countryCode, phone, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentSMS{countryCode, phone, body})
	return nil
}

type fakePush struct {
	mu   sync.Mutex
	sent []push.Message
	err  error
}

func (f *fakePush) Send(_ context.Context, msg push.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

type fakeFeed struct {
	mu    sync.Mutex
	items []*domain.AdminNotification
	err   error
}

func (f *fakeFeed) Create(_ context.Context, n *domain.AdminNotification) (*domain.AdminNotification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	n.ID = int64(len(f.items) + 1)
	f.items = append(f.items, n)
	return n, nil
}

func (f *fakeFeed) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.items)
}

type recMetrics struct {
	mu       sync.Mutex
	outcomes map[string]int
}

func (m *recMetrics) RecordNotification(kind, outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.outcomes == nil {
		m.outcomes = map[string]int{}
	}
	m.outcomes[kind+"/"+outcome]++
}

func (m *recMetrics) get(key string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.outcomes[key]
}

type failingQueue struct{}

func (failingQueue) Enqueue(context.Context, *domain.NotificationJob) error {
	return errors.New("redis unavailable")
}

func testJob(kind domain.NotificationKind) *domain.NotificationJob {
	b := &domain.Booking{
		ID:            42,
		BookingNumber: "CW-A1B2C3",
		UserID:        7,
		ServiceName:   "Premium Wash",
		ScheduledDate: time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC),
		ScheduledTime: types.TimeString("09:30"),
	}
	return domain.NewNotificationJob(kind, b, time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC))
}

func testUsers() *fakeUsers {
	return &fakeUsers{users: map[int64]*domain.User{
		7: {ID: 7, Name: "Asha", Phone: ptr.Ptr("9876543210")},
	}}
}
