package create_booking

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CarWashService/internal/domain"
	"github.com/m04kA/SMC-CarWashService/internal/infra/slotlock"
	bookingRepo "github.com/m04kA/SMC-CarWashService/internal/infra/storage/booking"
	serviceRepo "github.com/m04kA/SMC-CarWashService/internal/infra/storage/service"
	vehicleRepo "github.com/m04kA/SMC-CarWashService/internal/infra/storage/vehicle"
	"github.com/m04kA/SMC-CarWashService/internal/service/slots"
	"github.com/m04kA/SMC-CarWashService/pkg/ptr"
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

type passthroughTx struct{}

func (passthroughTx) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// memBookings хранилище бронирований, которое одновременно служит счётчиком для движка слотов
type memBookings struct {
	mu         sync.Mutex
	bookings   []*domain.Booking
	duplicates int
	nextID     int64
}

func (m *memBookings) Create(_ context.Context, b *domain.Booking) (*domain.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.duplicates > 0 {
		m.duplicates--
		return nil, bookingRepo.ErrDuplicateBookingNumber
	}
	m.nextID++
	created := *b
	created.ID = m.nextID
	m.bookings = append(m.bookings, &created)
	return &created, nil
}

func (m *memBookings) seed(date time.Time, at types.TimeString, n int) {
	for i := 0; i < n; i++ {
		m.bookings = append(m.bookings, &domain.Booking{ScheduledDate: date, ScheduledTime: at, Status: domain.StatusConfirmed})
	}
}

func (m *memBookings) CountActiveBySlot(_ context.Context, date time.Time, t types.TimeString) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, b := range m.bookings {
		if b.IsActive() && b.OccupiesSlot(date, t) {
			n++
		}
	}
	return n, nil
}

func (m *memBookings) CountActiveByDate(_ context.Context, date time.Time) (map[types.TimeString]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[types.TimeString]int)
	for _, b := range m.bookings {
		if b.IsActive() && domain.SameDay(b.ScheduledDate, date) {
			out[b.ScheduledTime]++
		}
	}
	return out, nil
}

type unavailability []*domain.StaffUnavailability

func (u unavailability) GetByDate(_ context.Context, date time.Time) ([]*domain.StaffUnavailability, error) {
	out := make([]*domain.StaffUnavailability, 0)
	for _, e := range u {
		if domain.SameDay(e.Date, date) {
			out = append(out, e)
		}
	}
	return out, nil
}

type vehicles map[int64]*domain.Vehicle

func (v vehicles) GetActiveByIDAndUser(_ context.Context, id, userID int64) (*domain.Vehicle, error) {
	veh, ok := v[id]
	if !ok || !veh.IsActive || veh.UserID != userID {
		return nil, vehicleRepo.ErrVehicleNotFound
	}
	return veh, nil
}

type services map[int64]*domain.Service

func (s services) GetActiveByID(_ context.Context, id int64) (*domain.Service, error) {
	svc, ok := s[id]
	if !ok || !svc.IsActive {
		return nil, serviceRepo.ErrServiceNotFound
	}
	return svc, nil
}

type recordingNotifier struct {
	mu   sync.Mutex
	jobs []*domain.NotificationJob
}

func (n *recordingNotifier) Publish(_ context.Context, job *domain.NotificationJob) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.jobs = append(n.jobs, job)
}

func (n *recordingNotifier) kinds() []domain.NotificationKind {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]domain.NotificationKind, len(n.jobs))
	for i, j := range n.jobs {
		out[i] = j.Kind
	}
	return out
}

type recordingMetrics struct {
	mu       sync.Mutex
	outcomes map[string]int
}

func (m *recordingMetrics) RecordAdmission(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.outcomes == nil {
		m.outcomes = make(map[string]int)
	}
	m.outcomes[outcome]++
}

func (m *recordingMetrics) count(outcome string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.outcomes[outcome]
}

type fixture struct {
	uc       *UseCase
	bookings *memBookings
	notifier *recordingNotifier
	metrics  *recordingMetrics
}

func mustDate(s string) time.Time {
	d, err := domain.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

var testNow = time.Date(2024, 6, 5, 8, 0, 0, 0, time.UTC)

func newFixture(t *testing.T, mode slots.AdmissionMode, entries unavailability) *fixture {
	t.Helper()

	cfg := staticConfig{cfg: domain.DefaultStaffConfig()}
	b := &memBookings{}
	engine := slots.NewEngine(cfg, b, entries, time.UTC, nopLogger{}).WithTimeProvider(fixedTime{t: testNow})

	var (
		gate *slots.Gate
		err  error
	)
	if mode == slots.AdmissionStrict {
		gate, err = slots.NewGate(engine, mode, slotlock.NewLocalLocker(0), passthroughTx{}, nopLogger{})
	} else {
		gate, err = slots.NewGate(engine, mode, nil, nil, nopLogger{})
	}
	require.NoError(t, err)

	notifier := &recordingNotifier{}
	metrics := &recordingMetrics{}
	uc := NewUseCase(
		b,
		vehicles{10: {ID: 10, UserID: 1, Name: "Civic", IsActive: true}, 11: {ID: 11, UserID: 2, IsActive: true}},
		services{
			1: {ID: 1, Name: "Premium Wash", Price: 25, DurationMinutes: 45, IsActive: true},
			2: {ID: 2, Name: "Retired", Price: 10, DurationMinutes: 30, IsActive: false},
			3: {ID: 3, Name: "Default Duration", Price: 10, IsActive: true},
		},
		cfg, engine, gate, notifier, metrics,
		Options{ServiceFee: 2.5, TaxRate: 0.1},
		nopLogger{},
	)
	return &fixture{uc: uc, bookings: b, notifier: notifier, metrics: metrics}
}

func validRequest() *Request {
	return &Request{
		UserID:        1,
		VehicleID:     10,
		ServiceID:     1,
		ScheduledDate: mustDate("2024-06-10"),
		ScheduledTime: "09:00",
		Location:      domain.Location{Address: "12 Main St"},
		Notes:         ptr.Ptr("gate code 42"),
	}
}

func TestExecute_Success(t *testing.T) {
	f := newFixture(t, slots.AdmissionRelaxed, nil)

	resp, err := f.uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	assert.NotZero(t, resp.ID)
	assert.Regexp(t, `^CW-[0-9A-F]{6}$`, resp.BookingNumber)
	assert.Equal(t, "pending", resp.Status)
	assert.Equal(t, "2024-06-10", resp.ScheduledDate)
	assert.Equal(t, "09:00", resp.TimeSlot.Start)
	assert.Equal(t, "09:45", resp.TimeSlot.End)
	assert.Equal(t, "Premium Wash", resp.ServiceName)
	assert.InDelta(t, 25.0, resp.Pricing.Subtotal, 0.001)
	assert.InDelta(t, 2.5, resp.Pricing.ServiceFee, 0.001)
	assert.InDelta(t, 2.5, resp.Pricing.Tax, 0.001)
	assert.InDelta(t, 30.0, resp.Pricing.Total, 0.001)

	assert.ElementsMatch(t,
		[]domain.NotificationKind{domain.KindCustomerBookingReceived, domain.KindAdminNewBooking},
		f.notifier.kinds())
	assert.Equal(t, 1, f.metrics.count(outcomeAdmitted))
}

func TestExecute_DurationFallsBackToConfig(t *testing.T) {
	f := newFixture(t, slots.AdmissionRelaxed, nil)
	req := validRequest()
	req.ServiceID = 3

	resp, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultServiceDurationMinutes, resp.DurationMinutes)
}

func TestExecute_CapacityExhausted(t *testing.T) {
	date := mustDate("2024-06-10")
	entries := unavailability{{Date: date, Type: domain.UnavailabilityFullDay, UnavailableCount: 1}}

	for _, mode := range []slots.AdmissionMode{slots.AdmissionRelaxed, slots.AdmissionStrict} {
		t.Run(string(mode), func(t *testing.T) {
			f := newFixture(t, mode, entries)
			// 3 сотрудника - 1 недоступен - 2 бронирования = 0
			f.bookings.seed(date, "09:00", 2)

			_, err := f.uc.Execute(context.Background(), validRequest())
			assert.ErrorIs(t, err, ErrSlotNotAvailable)
			assert.Empty(t, f.notifier.kinds())
			assert.Equal(t, 1, f.metrics.count(outcomeConflict))

			// соседний слот свободен: 3 - 1 - 0 = 2
			req := validRequest()
			req.ScheduledTime = "10:00"
			_, err = f.uc.Execute(context.Background(), req)
			require.NoError(t, err)
		})
	}
}

func TestExecute_CancelledBookingsFreeCapacity(t *testing.T) {
	f := newFixture(t, slots.AdmissionRelaxed, nil)
	date := mustDate("2024-06-10")
	f.bookings.seed(date, "09:00", 3)
	f.bookings.bookings[0].Status = domain.StatusCancelled

	_, err := f.uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	_, err = f.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrSlotNotAvailable)
}

func TestExecute_BookingNumberCollisionRetries(t *testing.T) {
	f := newFixture(t, slots.AdmissionStrict, nil)
	f.bookings.duplicates = 2

	seq := 0
	f.uc.generateNumber = func() (string, error) {
		seq++
		return fmt.Sprintf("BKTEST%d", seq), nil
	}

	resp, err := f.uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Equal(t, "BKTEST3", resp.BookingNumber)
}

func TestExecute_BookingNumberCollisionGivesUp(t *testing.T) {
	f := newFixture(t, slots.AdmissionRelaxed, nil)
	f.bookings.duplicates = maxBookingNumberAttempts

	_, err := f.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrInternal)
	assert.Empty(t, f.notifier.kinds())
}

func TestExecute_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(r *Request)
		wantErr error
	}{
		{"foreign vehicle", func(r *Request) { r.VehicleID = 11 }, ErrVehicleNotFound},
		{"unknown vehicle", func(r *Request) { r.VehicleID = 99 }, ErrVehicleNotFound},
		{"inactive service", func(r *Request) { r.ServiceID = 2 }, ErrServiceNotFound},
		{"date in past", func(r *Request) { r.ScheduledDate = mustDate("2024-06-04") }, domain.ErrDateInPast},
		{"beyond window", func(r *Request) { r.ScheduledDate = mustDate("2024-06-13") }, domain.ErrDateTooFarInFuture},
		{"missing address", func(r *Request) { r.Location.Address = "  " }, ErrInvalidInput},
		{"bad time", func(r *Request) { r.ScheduledTime = "25:00" }, ErrInvalidInput},
		{"bad latitude", func(r *Request) {
			r.Location.Coordinates = &domain.Coordinates{Latitude: 91}
		}, ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, slots.AdmissionRelaxed, nil)
			req := validRequest()
			tt.mutate(req)

			_, err := f.uc.Execute(context.Background(), req)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, f.bookings.bookings)
			assert.Equal(t, 1, f.metrics.count(outcomeRejected))
		})
	}
}

func TestExecute_WindowBoundaryIsInclusive(t *testing.T) {
	f := newFixture(t, slots.AdmissionRelaxed, nil)
	req := validRequest()
	req.ScheduledDate = mustDate("2024-06-12")

	_, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)
}

func TestExecute_EndTimeWrapsPastMidnight(t *testing.T) {
	f := newFixture(t, slots.AdmissionRelaxed, nil)
	// слот 23:30 отсутствует в каталоге, но допуск проверяет только ёмкость
	req := validRequest()
	req.ScheduledTime = "23:30"

	resp, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "00:15", resp.TimeSlot.End)
	assert.Equal(t, "2024-06-10", resp.ScheduledDate)
}
