package slots

import (
	"context"
	"sync"
	"time"

	"github.com/m04kA/SMC-CarWashService/internal/domain"
	"github.com/m04kA/SMC-CarWashService/pkg/types"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fixedTime struct{ t time.Time }

func (f fixedTime) Now() time.Time { return f.t }

type staticConfig struct{ cfg *domain.StaffConfig }

func (s staticConfig) Get(context.Context) (*domain.StaffConfig, error) { return s.cfg, nil }

type slotKey struct {
	date string
	time types.TimeString
}

// memBookings хранит количество активных бронирований по слотам
type memBookings struct {
	mu     sync.Mutex
	counts map[slotKey]int
}

func newMemBookings() *memBookings {
	return &memBookings{counts: make(map[slotKey]int)}
}

func (m *memBookings) add(date time.Time, t types.TimeString, n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counts[slotKey{date.Format(domain.DateFormat), t}] += n
}

func (m *memBookings) CountActiveBySlot(_ context.Context, date time.Time, t types.TimeString) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counts[slotKey{date.Format(domain.DateFormat), t}], nil
}

func (m *memBookings) CountActiveByDate(_ context.Context, date time.Time) (map[types.TimeString]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[types.TimeString]int)
	for k, v := range m.counts {
		if k.date == date.Format(domain.DateFormat) {
			out[k.time] = v
		}
	}
	return out, nil
}

type memUnavailability struct {
	entries []*domain.StaffUnavailability
}

func (m *memUnavailability) GetByDate(_ context.Context, date time.Time) ([]*domain.StaffUnavailability, error) {
	out := make([]*domain.StaffUnavailability, 0)
	for _, e := range m.entries {
		if domain.SameDay(e.Date, date) {
			out = append(out, e)
		}
	}
	return out, nil
}

type passthroughTx struct{ calls int }

func (p *passthroughTx) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	p.calls++
	return fn(ctx)
}

func mustDate(s string) time.Time {
	d, err := domain.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func configWithStaff(n int) *domain.StaffConfig {
	cfg := domain.DefaultStaffConfig()
	cfg.TotalStaff = n
	return cfg
}
