package create_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-CarWashService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-CarWashService/internal/infra/storage/booking"
	serviceRepo "github.com/m04kA/SMC-CarWashService/internal/infra/storage/service"
	vehicleRepo "github.com/m04kA/SMC-CarWashService/internal/infra/storage/vehicle"
	"github.com/m04kA/SMC-CarWashService/internal/service/bookings/models"
	"github.com/m04kA/SMC-CarWashService/internal/service/slots"
)

// maxBookingNumberAttempts количество попыток при коллизии номера бронирования
const maxBookingNumberAttempts = 5

// Исходы допуска для метрик
const (
	outcomeAdmitted = "admitted"
	outcomeConflict = "conflict"
	outcomeRejected = "rejected"
)

// UseCase use case для создания бронирования
type UseCase struct {
	bookingRepo BookingRepository
	vehicleRepo VehicleRepository
	serviceRepo ServiceRepository
	config      ConfigProvider
	calendar    Calendar
	gate        AdmissionGate
	notifier    Notifier
	metrics     Metrics
	opts        Options
	logger      Logger

	generateNumber func() (string, error)
}

// NewUseCase создает новый экземпляр use case. metrics может быть nil.
func NewUseCase(
	bookingRepo BookingRepository,
	vehicleRepo VehicleRepository,
	serviceRepo ServiceRepository,
	config ConfigProvider,
	calendar Calendar,
	gate AdmissionGate,
	notifier Notifier,
	metrics Metrics,
	opts Options,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:    bookingRepo,
		vehicleRepo:    vehicleRepo,
		serviceRepo:    serviceRepo,
		config:         config,
		calendar:       calendar,
		gate:           gate,
		notifier:       notifier,
		metrics:        metrics,
		opts:           opts,
		logger:         logger,
		generateNumber: domain.GenerateBookingNumber,
	}
}

// Execute выполняет use case создания бронирования.
// Любая ошибка до записи прерывает создание без частичных изменений.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*models.BookingResponse, error) {
	date := domain.DateOnly(req.ScheduledDate)
	uc.logger.Info("CreateBooking: user=%d, vehicle=%d, service=%d, date=%s, time=%s",
		req.UserID, req.VehicleID, req.ServiceID, date.Format(domain.DateFormat), req.ScheduledTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		uc.record(outcomeRejected)
		return nil, err
	}

	// 2. Автомобиль существует, активен и принадлежит пользователю
	if _, err := uc.vehicleRepo.GetActiveByIDAndUser(ctx, req.VehicleID, req.UserID); err != nil {
		if errors.Is(err, vehicleRepo.ErrVehicleNotFound) {
			uc.logger.Warn("CreateBooking: vehicle id=%d not found for user=%d", req.VehicleID, req.UserID)
			uc.record(outcomeRejected)
			return nil, ErrVehicleNotFound
		}
		uc.logger.Error("CreateBooking: failed to get vehicle id=%d: %v", req.VehicleID, err)
		return nil, fmt.Errorf("%w: failed to get vehicle: %v", ErrInternal, err)
	}

	// 3. Услуга существует и активна
	service, err := uc.serviceRepo.GetActiveByID(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, serviceRepo.ErrServiceNotFound) {
			uc.logger.Warn("CreateBooking: service id=%d not found", req.ServiceID)
			uc.record(outcomeRejected)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CreateBooking: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	// 4. Конфигурация персонала
	cfg, err := uc.config.Get(ctx)
	if err != nil {
		uc.logger.Error("CreateBooking: failed to get staff config: %v", err)
		return nil, fmt.Errorf("%w: failed to get staff config: %v", ErrInternal, err)
	}

	// 5. Дата не в прошлом и в пределах окна бронирования
	if err := slots.ValidateBookingWindow(date, uc.calendar.Today(), cfg.BookingWindowDays); err != nil {
		uc.logger.Warn("CreateBooking: date %s rejected: %v", date.Format(domain.DateFormat), err)
		uc.record(outcomeRejected)
		return nil, fmt.Errorf("%w: %w", ErrInvalidDate, err)
	}

	// 6. Цена и интервал. Конец слота заворачивается через полночь без смены даты.
	duration := service.DurationMinutes
	if duration <= 0 {
		duration = cfg.ServiceDurationMinutes
	}
	endTime, err := req.ScheduledTime.AddMinutes(duration)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to calculate end time: %v", ErrInternal, err)
	}
	price := domain.CalculatePrice(service.Price, uc.opts.ServiceFee, uc.opts.TaxRate)

	booking := &domain.Booking{
		UserID:          req.UserID,
		VehicleID:       req.VehicleID,
		ServiceID:       service.ID,
		ServiceName:     service.Name,
		DurationMinutes: duration,
		ScheduledDate:   date,
		ScheduledTime:   req.ScheduledTime,
		TimeSlot:        domain.TimeSlot{Start: req.ScheduledTime, End: endTime},
		Location:        req.Location,
		Status:          domain.StatusPending,
		Subtotal:        price.Subtotal,
		ServiceFee:      price.ServiceFee,
		Tax:             price.Tax,
		Total:           price.Total,
		Notes:           req.Notes,
	}

	// 7. Повторная проверка слота и запись
	created, err := uc.admit(ctx, booking)
	if err != nil {
		if errors.Is(err, slots.ErrSlotUnavailable) {
			uc.logger.Warn("CreateBooking: slot %s %s is no longer available",
				date.Format(domain.DateFormat), req.ScheduledTime)
			uc.record(outcomeConflict)
			return nil, ErrSlotNotAvailable
		}
		uc.logger.Error("CreateBooking: failed to admit booking: %v", err)
		return nil, fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
	}
	uc.record(outcomeAdmitted)

	uc.logger.Info("CreateBooking: created booking id=%d, number=%s", created.ID, created.BookingNumber)

	// 8. Уведомления ставятся в очередь, их доставка не влияет на ответ
	now := uc.calendar.Now()
	uc.notifier.Publish(ctx, domain.NewNotificationJob(domain.KindCustomerBookingReceived, created, now))
	uc.notifier.Publish(ctx, domain.NewNotificationJob(domain.KindAdminNewBooking, created, now))

	return models.FromDomainBooking(created), nil
}

// admit записывает бронирование через gate, генерируя новый номер при коллизии.
// Каждая попытка заново проверяет слот: в строгом режиме неудачная вставка откатывает транзакцию.
func (uc *UseCase) admit(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	var lastErr error
	for attempt := 1; attempt <= maxBookingNumberAttempts; attempt++ {
		number, err := uc.generateNumber()
		if err != nil {
			return nil, err
		}
		booking.BookingNumber = number

		var created *domain.Booking
		err = uc.gate.Admit(ctx, booking.ScheduledDate, booking.ScheduledTime, func(txCtx context.Context) error {
			var createErr error
			created, createErr = uc.bookingRepo.Create(txCtx, booking)
			return createErr
		})
		if err == nil {
			return created, nil
		}
		if !errors.Is(err, bookingRepo.ErrDuplicateBookingNumber) {
			return nil, err
		}

		uc.logger.Warn("CreateBooking: booking number %s collided, attempt %d/%d",
			number, attempt, maxBookingNumberAttempts)
		lastErr = err
	}
	return nil, lastErr
}

func (uc *UseCase) record(outcome string) {
	if uc.metrics != nil {
		uc.metrics.RecordAdmission(outcome)
	}
}
