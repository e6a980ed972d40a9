package staff

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-CarWashService/internal/domain"
	staffConfigRepo "github.com/m04kA/SMC-CarWashService/internal/infra/storage/staffconfig"
	"github.com/m04kA/SMC-CarWashService/internal/service/staff/models"
)

// Service сервис конфигурации персонала и админского вида дня
type Service struct {
	configRepo     ConfigRepository
	scheduleRepo   ScheduleRepository
	unavailability UnavailabilityReader
	slots          SlotSource
	location       *time.Location
	logger         Logger
}

// NewService создает новый экземпляр сервиса персонала
func NewService(
	configRepo ConfigRepository,
	scheduleRepo ScheduleRepository,
	unavailability UnavailabilityReader,
	slots SlotSource,
	location *time.Location,
	logger Logger,
) *Service {
	if location == nil {
		location = time.UTC
	}
	return &Service{
		configRepo:     configRepo,
		scheduleRepo:   scheduleRepo,
		unavailability: unavailability,
		slots:          slots,
		location:       location,
		logger:         logger,
	}
}

// Get возвращает конфигурацию, создавая её со значениями по умолчанию при первом чтении
func (s *Service) Get(ctx context.Context) (*domain.StaffConfig, error) {
	cfg, err := s.configRepo.Get(ctx)
	if err == nil {
		return cfg, nil
	}
	if !errors.Is(err, staffConfigRepo.ErrConfigNotFound) {
		s.logger.Error("Get: repository error: %v", err)
		return nil, fmt.Errorf("%w: Get - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Get: staff config not found, creating defaults")
	cfg, err = s.configRepo.CreateIfMissing(ctx, domain.DefaultStaffConfig())
	if err != nil {
		s.logger.Error("Get: failed to create default config: %v", err)
		return nil, fmt.Errorf("%w: Get - create defaults: %v", ErrInternal, err)
	}
	return cfg, nil
}

// GetConfig возвращает конфигурацию в виде ответа API
func (s *Service) GetConfig(ctx context.Context) (*models.ConfigResponse, error) {
	cfg, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}
	return models.FromDomainConfig(cfg), nil
}

// Update частичное обновление: непереданные поля не сбрасываются
func (s *Service) Update(ctx context.Context, req *models.UpdateConfigRequest) (*models.ConfigResponse, error) {
	s.logger.Info("Update: updating staff config")

	// 1. Валидируем переданные поля
	patch, err := toPatch(req)
	if err != nil {
		s.logger.Warn("Update: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущую конфигурацию
	cfg, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}
	if patch.IsEmpty() {
		return models.FromDomainConfig(cfg), nil
	}

	// 3. Сливаем и проверяем итог
	patch.ApplyTo(cfg)
	if err := validateMerged(cfg); err != nil {
		s.logger.Warn("Update: validation failed: %v", err)
		return nil, err
	}

	// 4. Сохраняем
	updated, err := s.configRepo.Update(ctx, cfg)
	if err != nil {
		s.logger.Error("Update: repository error: %v", err)
		return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Update: staff config updated: staff=%d, duration=%d, hours=%s-%s, window=%d",
		updated.TotalStaff, updated.ServiceDurationMinutes, updated.OperatingStartTime, updated.OperatingEndTime, updated.BookingWindowDays)
	return models.FromDomainConfig(updated), nil
}

// GetDailyAvailability админский вид дня: бронирования и свободный персонал по слотам из рабочих часов.
// В отличие от публичного списка, слот занят всеми бронированиями, чей интервал его покрывает.
func (s *Service) GetDailyAvailability(ctx context.Context, date time.Time) (*models.DailyAvailabilityResponse, error) {
	date = domain.DateOnly(date)
	s.logger.Info("GetDailyAvailability: date=%s", date.Format(domain.DateFormat))

	cfg, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}

	schedule, err := s.scheduleRepo.GetScheduleByDate(ctx, date)
	if err != nil {
		s.logger.Error("GetDailyAvailability: failed to get bookings: %v", err)
		return nil, fmt.Errorf("%w: GetDailyAvailability - bookings: %v", ErrInternal, err)
	}

	entries, err := s.unavailability.GetByDate(ctx, date)
	if err != nil {
		s.logger.Error("GetDailyAvailability: failed to get unavailability: %v", err)
		return nil, fmt.Errorf("%w: GetDailyAvailability - unavailability: %v", ErrInternal, err)
	}

	// Интервалы бронирований без переноса через полночь
	type span struct{ start, end time.Time }
	spans := make([]span, len(schedule))
	bookings := make([]models.StaffBooking, len(schedule))
	for i, b := range schedule {
		duration := b.DurationMinutes
		if duration <= 0 {
			duration = cfg.ServiceDurationMinutes
		}
		start := b.ScheduledTime.On(date, s.location)
		end := start.Add(time.Duration(duration) * time.Minute)
		spans[i] = span{start: start, end: end}

		bookings[i] = models.StaffBooking{
			ID:            b.ID,
			BookingNumber: b.BookingNumber,
			CustomerName:  orUnknown(b.CustomerName),
			VehicleName:   orUnknown(b.VehicleName),
			ServiceName:   orUnknown(b.ServiceName),
			Status:        string(b.Status),
			StartTime:     start.Format(time.RFC3339),
			EndTime:       end.Format(time.RFC3339),
			StaffAssigned: i + 1,
		}
	}

	marks := s.slots.Slots(cfg)
	available := make([]models.SlotStaff, len(marks))
	for i, mark := range marks {
		at := mark.Time.On(date, s.location)
		running := 0
		for _, sp := range spans {
			if !at.Before(sp.start) && at.Before(sp.end) {
				running++
			}
		}
		capacity := domain.ComputeSlotCapacity(cfg.TotalStaff, entries, mark.Time, running)
		available[i] = models.SlotStaff{Time: mark.Time, AvailableStaff: capacity.AvailableStaff}
	}

	return &models.DailyAvailabilityResponse{
		Date:           date.Format(domain.DateFormat),
		Bookings:       bookings,
		AvailableSlots: available,
	}, nil
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}
