package get_available_slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-CarWashService/internal/domain"
	serviceRepo "github.com/m04kA/SMC-CarWashService/internal/infra/storage/service"
	"github.com/m04kA/SMC-CarWashService/internal/service/slots"
)

// UseCase use case для получения доступных слотов для бронирования
type UseCase struct {
	serviceRepo ServiceRepository
	config      ConfigProvider
	slots       SlotLister
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	serviceRepo ServiceRepository,
	config ConfigProvider,
	slots SlotLister,
	logger Logger,
) *UseCase {
	return &UseCase{
		serviceRepo: serviceRepo,
		config:      config,
		slots:       slots,
		logger:      logger,
	}
}

// Execute выполняет use case получения доступных слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	date := domain.DateOnly(req.Date)
	uc.logger.Info("GetAvailableSlots: user=%d, service=%d, date=%s",
		req.UserID, req.ServiceID, date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем услугу
	service, err := uc.serviceRepo.GetActiveByID(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, serviceRepo.ErrServiceNotFound) {
			uc.logger.Warn("GetAvailableSlots: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	// 3. Получаем конфигурацию персонала
	cfg, err := uc.config.Get(ctx)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get staff config: %v", err)
		return nil, fmt.Errorf("%w: failed to get staff config: %v", ErrInternal, err)
	}

	// 4. Дата не в прошлом и в пределах окна бронирования
	if err := slots.ValidateBookingWindow(date, uc.slots.Today(), cfg.BookingWindowDays); err != nil {
		uc.logger.Warn("GetAvailableSlots: date %s rejected: %v", date.Format(domain.DateFormat), err)
		return nil, fmt.Errorf("%w: %w", ErrInvalidDate, err)
	}

	// 5. Считаем доступность по фиксированному каталогу
	day, err := uc.slots.ListForDate(ctx, date)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to list slots: %v", err)
		return nil, fmt.Errorf("%w: failed to list slots: %v", ErrInternal, err)
	}

	duration := service.DurationMinutes
	if duration <= 0 {
		duration = cfg.ServiceDurationMinutes
	}

	return &Response{
		Date:              date,
		ServiceDuration:   duration,
		BookingWindowDays: cfg.BookingWindowDays,
		Slots:             day.Slots,
	}, nil
}
