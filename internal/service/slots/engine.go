package slots

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SMC-CarWashService/internal/domain"
	"github.com/m04kA/SMC-CarWashService/pkg/types"
)

// Engine расчёт ёмкости и доступности слотов
type Engine struct {
	config         ConfigProvider
	bookings       BookingCounter
	unavailability UnavailabilityReader
	catalog        SlotSource
	timeProvider   TimeProvider
	location       *time.Location
	logger         Logger
}

// NewEngine создает движок с фиксированным публичным каталогом
func NewEngine(
	config ConfigProvider,
	bookings BookingCounter,
	unavailability UnavailabilityReader,
	location *time.Location,
	logger Logger,
) *Engine {
	if location == nil {
		location = time.UTC
	}
	return &Engine{
		config:         config,
		bookings:       bookings,
		unavailability: unavailability,
		catalog:        FixedCatalog{},
		timeProvider:   &RealTimeProvider{},
		location:       location,
		logger:         logger,
	}
}

// WithTimeProvider подменяет источник времени
func (e *Engine) WithTimeProvider(tp TimeProvider) *Engine {
	e.timeProvider = tp
	return e
}

// Now текущее время в рабочем часовом поясе
func (e *Engine) Now() time.Time {
	return e.timeProvider.Now().In(e.location)
}

// Today текущий календарный день (полночь UTC)
func (e *Engine) Today() time.Time {
	return domain.DateOnly(e.Now())
}

// Location рабочий часовой пояс
func (e *Engine) Location() *time.Location {
	return e.location
}

// SlotCapacity считает ёмкость одного слота: один подсчёт бронирований + записи недоступности за дату
func (e *Engine) SlotCapacity(ctx context.Context, date time.Time, t types.TimeString) (domain.SlotCapacity, error) {
	date = domain.DateOnly(date)

	cfg, err := e.config.Get(ctx)
	if err != nil {
		return domain.SlotCapacity{}, fmt.Errorf("%w: SlotCapacity - get staff config: %v", ErrInternal, err)
	}

	booked, err := e.bookings.CountActiveBySlot(ctx, date, t)
	if err != nil {
		return domain.SlotCapacity{}, fmt.Errorf("%w: SlotCapacity - count bookings: %v", ErrInternal, err)
	}

	entries, err := e.unavailability.GetByDate(ctx, date)
	if err != nil {
		return domain.SlotCapacity{}, fmt.Errorf("%w: SlotCapacity - get unavailability: %v", ErrInternal, err)
	}

	return domain.ComputeSlotCapacity(cfg.TotalStaff, entries, t, booked), nil
}

// IsSlotAvailable точечная проверка при допуске/переносе: booked < effective.
// Правило "слот уже прошёл сегодня" здесь не применяется.
func (e *Engine) IsSlotAvailable(ctx context.Context, date time.Time, t types.TimeString) (bool, error) {
	capacity, err := e.SlotCapacity(ctx, date, t)
	if err != nil {
		return false, err
	}
	return capacity.HasRoom(), nil
}

// ListForDate строит публичный список слотов по частям дня.
// Даты и окно бронирования проверяет вызывающая сторона.
func (e *Engine) ListForDate(ctx context.Context, date time.Time) (*domain.DayAvailability, error) {
	date = domain.DateOnly(date)

	cfg, err := e.config.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: ListForDate - get staff config: %v", ErrInternal, err)
	}

	counts, err := e.bookings.CountActiveByDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("%w: ListForDate - count bookings: %v", ErrInternal, err)
	}

	entries, err := e.unavailability.GetByDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("%w: ListForDate - get unavailability: %v", ErrInternal, err)
	}

	now := e.Now()
	isToday := domain.SameDay(date, now)

	result := &domain.DayAvailability{Slots: make(map[domain.DayPart][]domain.SlotAvailability, len(domain.DayParts))}
	for _, part := range domain.DayParts {
		result.Slots[part] = make([]domain.SlotAvailability, 0)
	}

	for _, mark := range e.catalog.Slots(cfg) {
		capacity := domain.ComputeSlotCapacity(cfg.TotalStaff, entries, mark.Time, counts[mark.Time])

		slot := domain.SlotAvailability{
			Time:       mark.Time,
			Display:    mark.Time.Display(),
			Available:  capacity.AvailableStaff > 0,
			StaffCount: capacity.AvailableStaff,
		}

		// Сегодняшние прошедшие слоты недоступны независимо от ёмкости
		if isToday && mark.Time.On(date, e.location).Before(now) {
			slot.Available = false
			slot.StaffCount = 0
		}

		result.Slots[mark.DayPart] = append(result.Slots[mark.DayPart], slot)
	}

	return result, nil
}

// ValidateBookingWindow проверяет, что date не раньше today и не позже today + days
func ValidateBookingWindow(date, today time.Time, days int) error {
	date = domain.DateOnly(date)
	today = domain.DateOnly(today)

	if date.Before(today) {
		return domain.ErrDateInPast
	}
	if date.After(today.AddDate(0, 0, days)) {
		return &domain.BookingWindowError{Days: days}
	}
	return nil
}
