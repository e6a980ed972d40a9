package update_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-CarWashService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-CarWashService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-CarWashService/internal/service/bookings/models"
	"github.com/m04kA/SMC-CarWashService/internal/service/slots"
	"github.com/m04kA/SMC-CarWashService/pkg/types"
)

// UseCase use case для переноса бронирования
type UseCase struct {
	bookingRepo BookingRepository
	config      ConfigProvider
	calendar    Calendar
	gate        AdmissionGate
	metrics     Metrics
	logger      Logger
}

// NewUseCase создает новый экземпляр use case. metrics может быть nil.
func NewUseCase(
	bookingRepo BookingRepository,
	config ConfigProvider,
	calendar Calendar,
	gate AdmissionGate,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo: bookingRepo,
		config:      config,
		calendar:    calendar,
		gate:        gate,
		metrics:     metrics,
		logger:      logger,
	}
}

// Execute переносит бронирование на новые дату и время и/или меняет заметки.
// Перенос в собственный текущий слот не проверяет ёмкость: бронирование уже его занимает.
// Конец интервала считается по длительности, сохраненной в бронировании при создании,
// а не по текущей длительности услуги.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*models.BookingResponse, error) {
	uc.logger.Info("UpdateBooking: booking id=%d, user=%d", req.BookingID, req.UserID)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("UpdateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Бронирование существует и принадлежит пользователю
	booking, err := uc.bookingRepo.GetByID(ctx, req.BookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			uc.logger.Warn("UpdateBooking: booking id=%d not found", req.BookingID)
			return nil, ErrBookingNotFound
		}
		uc.logger.Error("UpdateBooking: failed to get booking id=%d: %v", req.BookingID, err)
		return nil, fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
	}
	if booking.UserID != req.UserID {
		uc.logger.Warn("UpdateBooking: booking id=%d does not belong to user=%d", req.BookingID, req.UserID)
		return nil, ErrBookingNotFound
	}

	// 3. Переносить можно только pending и confirmed
	if !booking.CanBeUpdated() {
		uc.logger.Warn("UpdateBooking: booking id=%d has status %s", booking.ID, booking.Status)
		return nil, ErrCannotUpdate
	}

	// 4. Целевой слот: отсутствующие поля берутся из текущего бронирования
	date := booking.ScheduledDate
	if req.ScheduledDate != nil {
		date = domain.DateOnly(*req.ScheduledDate)
	}
	start := booking.ScheduledTime
	if req.ScheduledTime != nil {
		start = *req.ScheduledTime
	}

	sameSlot := booking.OccupiesSlot(date, start)

	// 5. Дата и окно бронирования проверяются при любом переносе, даже в свой же слот.
	// Изменение только заметок их не проверяет.
	if req.ScheduledDate != nil || req.ScheduledTime != nil {
		cfg, err := uc.config.Get(ctx)
		if err != nil {
			uc.logger.Error("UpdateBooking: failed to get staff config: %v", err)
			return nil, fmt.Errorf("%w: failed to get staff config: %v", ErrInternal, err)
		}
		if err := slots.ValidateBookingWindow(date, uc.calendar.Today(), cfg.BookingWindowDays); err != nil {
			uc.logger.Warn("UpdateBooking: date %s rejected: %v", date.Format(domain.DateFormat), err)
			uc.record("rejected")
			return nil, fmt.Errorf("%w: %w", ErrInvalidDate, err)
		}
	}

	// 6. Интервал пересчитывается по длительности, зафиксированной при создании
	slot, err := timeSlot(start, booking.DurationMinutes)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to calculate time slot: %v", ErrInternal, err)
	}

	write := func(ctx context.Context) error {
		return uc.bookingRepo.Reschedule(ctx, booking.ID, date, slot, req.Notes)
	}

	// 7. Запись: свой слот без проверки, чужой через gate
	if sameSlot {
		err = write(ctx)
	} else {
		err = uc.gate.Admit(ctx, date, start, write)
	}
	if err != nil {
		switch {
		case errors.Is(err, slots.ErrSlotUnavailable):
			uc.logger.Warn("UpdateBooking: slot %s %s is not available", date.Format(domain.DateFormat), start)
			uc.record("conflict")
			return nil, ErrSlotNotAvailable
		case errors.Is(err, bookingRepo.ErrBookingNotFound):
			return nil, ErrBookingNotFound
		}
		uc.logger.Error("UpdateBooking: failed to reschedule booking id=%d: %v", booking.ID, err)
		return nil, fmt.Errorf("%w: failed to reschedule booking: %v", ErrInternal, err)
	}
	if !sameSlot {
		uc.record("admitted")
	}

	booking.ScheduledDate = date
	booking.ScheduledTime = start
	booking.TimeSlot = slot
	if req.Notes != nil {
		booking.Notes = req.Notes
	}

	uc.logger.Info("UpdateBooking: booking id=%d moved to %s %s", booking.ID, date.Format(domain.DateFormat), start)

	return models.FromDomainBooking(booking), nil
}

func timeSlot(start types.TimeString, durationMinutes int) (domain.TimeSlot, error) {
	end, err := start.AddMinutes(durationMinutes)
	if err != nil {
		return domain.TimeSlot{}, err
	}
	return domain.TimeSlot{Start: start, End: end}, nil
}

func (uc *UseCase) record(outcome string) {
	if uc.metrics != nil {
		uc.metrics.RecordAdmission(outcome)
	}
}
