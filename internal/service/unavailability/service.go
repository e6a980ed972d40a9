package unavailability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-CarWashService/internal/domain"
	unavailabilityRepo "github.com/m04kA/SMC-CarWashService/internal/infra/storage/unavailability"
	"github.com/m04kA/SMC-CarWashService/internal/service/unavailability/models"
	"github.com/m04kA/SMC-CarWashService/pkg/ptr"
	"github.com/m04kA/SMC-CarWashService/pkg/types"
)

// Service сервис записей о недоступности персонала
type Service struct {
	repo   Repository
	logger Logger
}

// NewService создает новый экземпляр сервиса
func NewService(repo Repository, logger Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Create создает запись. Вторая запись full_day на ту же дату запрещена.
func (s *Service) Create(ctx context.Context, req *models.CreateRequest) (*models.UnavailabilityResponse, error) {
	s.logger.Info("Create: date=%s, type=%s, slots=%v", req.Date, req.Type, req.TimeSlots)

	// 1. Разбор и валидация
	date, err := parseDate(req.Date)
	if err != nil {
		return nil, err
	}
	slots, err := parseSlots(req.TimeSlots)
	if err != nil {
		return nil, err
	}

	entry := &domain.StaffUnavailability{
		Date:             date,
		Type:             domain.UnavailabilityType(req.Type),
		TimeSlots:        slots,
		UnavailableCount: ptr.Deref(req.UnavailableCount, domain.MinUnavailableCount),
		Reason:           req.Reason,
	}
	if err := entry.Validate(); err != nil {
		s.logger.Warn("Create: validation failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	// 2. Проверка дубликата full_day
	if err := s.ensureNoFullDay(ctx, "Create", entry, nil); err != nil {
		return nil, err
	}

	// 3. Сохраняем
	created, err := s.repo.Create(ctx, entry)
	if err != nil {
		s.logger.Error("Create: repository error: %v", err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Create: created unavailability id=%d", created.ID)
	return models.FromDomain(created), nil
}

// List записи в диапазоне дат (обе границы опциональны и включительны)
func (s *Service) List(ctx context.Context, startDate, endDate *string) ([]*models.UnavailabilityResponse, error) {
	start, err := parseOptionalDate(startDate)
	if err != nil {
		return nil, err
	}
	end, err := parseOptionalDate(endDate)
	if err != nil {
		return nil, err
	}

	entries, err := s.repo.List(ctx, start, end)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}
	return models.FromDomainList(entries), nil
}

// GetByDate записи на конкретную дату
func (s *Service) GetByDate(ctx context.Context, rawDate string) ([]*models.UnavailabilityResponse, error) {
	date, err := parseDate(rawDate)
	if err != nil {
		return nil, err
	}

	entries, err := s.repo.GetByDate(ctx, date)
	if err != nil {
		s.logger.Error("GetByDate: repository error: %v", err)
		return nil, fmt.Errorf("%w: GetByDate - repository error: %v", ErrInternal, err)
	}
	return models.FromDomainList(entries), nil
}

// GetByID запись по ID
func (s *Service) GetByID(ctx context.Context, id int64) (*models.UnavailabilityResponse, error) {
	entry, err := s.get(ctx, "GetByID", id)
	if err != nil {
		return nil, err
	}
	return models.FromDomain(entry), nil
}

// Update сливает переданные поля и повторно проверяет правило type/timeSlots
func (s *Service) Update(ctx context.Context, id int64, req *models.UpdateRequest) (*models.UnavailabilityResponse, error) {
	s.logger.Info("Update: unavailability id=%d", id)

	patch, err := toPatch(req)
	if err != nil {
		return nil, err
	}

	entry, err := s.get(ctx, "Update", id)
	if err != nil {
		return nil, err
	}

	patch.ApplyTo(entry)
	if err := entry.Validate(); err != nil {
		s.logger.Warn("Update: validation failed for id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.ensureNoFullDay(ctx, "Update", entry, &entry.ID); err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, entry)
	if err != nil {
		if errors.Is(err, unavailabilityRepo.ErrNotFound) {
			return nil, ErrNotFound
		}
		s.logger.Error("Update: repository error for id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
	}
	return models.FromDomain(updated), nil
}

// Delete удаляет запись
func (s *Service) Delete(ctx context.Context, id int64) error {
	s.logger.Info("Delete: unavailability id=%d", id)

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, unavailabilityRepo.ErrNotFound) {
			s.logger.Warn("Delete: unavailability id=%d not found", id)
			return ErrNotFound
		}
		s.logger.Error("Delete: repository error for id=%d: %v", id, err)
		return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
	}
	return nil
}

// Dates список дат (YYYY-MM-DD), на которые есть хотя бы одна запись. Обе границы обязательны.
func (s *Service) Dates(ctx context.Context, startDate, endDate string) ([]string, error) {
	if startDate == "" || endDate == "" {
		return nil, fmt.Errorf("%w: startDate and endDate are required", ErrInvalidInput)
	}
	start, err := parseDate(startDate)
	if err != nil {
		return nil, err
	}
	end, err := parseDate(endDate)
	if err != nil {
		return nil, err
	}

	dates, err := s.repo.DistinctDates(ctx, start, end)
	if err != nil {
		s.logger.Error("Dates: repository error: %v", err)
		return nil, fmt.Errorf("%w: Dates - repository error: %v", ErrInternal, err)
	}

	result := make([]string, len(dates))
	for i, d := range dates {
		result[i] = d.Format(domain.DateFormat)
	}
	return result, nil
}

func (s *Service) get(ctx context.Context, op string, id int64) (*domain.StaffUnavailability, error) {
	entry, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, unavailabilityRepo.ErrNotFound) {
			s.logger.Warn("%s: unavailability id=%d not found", op, id)
			return nil, ErrNotFound
		}
		s.logger.Error("%s: repository error for id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return entry, nil
}

func (s *Service) ensureNoFullDay(ctx context.Context, op string, entry *domain.StaffUnavailability, excludeID *int64) error {
	if entry.Type != domain.UnavailabilityFullDay {
		return nil
	}
	exists, err := s.repo.HasFullDay(ctx, entry.Date, excludeID)
	if err != nil {
		s.logger.Error("%s: failed to check existing full_day: %v", op, err)
		return fmt.Errorf("%w: %s - check full_day: %v", ErrInternal, op, err)
	}
	if exists {
		s.logger.Warn("%s: full_day already exists for %s", op, entry.Date.Format(domain.DateFormat))
		return ErrFullDayExists
	}
	return nil
}

func toPatch(req *models.UpdateRequest) (domain.UnavailabilityPatch, error) {
	var patch domain.UnavailabilityPatch

	if req.Date != nil {
		date, err := parseDate(*req.Date)
		if err != nil {
			return patch, err
		}
		patch.Date = &date
	}
	if req.Type != nil {
		t := domain.UnavailabilityType(*req.Type)
		if !t.IsValid() {
			return patch, fmt.Errorf("%w: type must be full_day or time_slot", ErrInvalidInput)
		}
		patch.Type = &t
	}
	if req.TimeSlots != nil {
		slots, err := parseSlots(*req.TimeSlots)
		if err != nil {
			return patch, err
		}
		patch.TimeSlots = &slots
	}
	patch.UnavailableCount = req.UnavailableCount
	patch.Reason = req.Reason

	return patch, nil
}

func parseDate(raw string) (time.Time, error) {
	date, err := domain.ParseDate(raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidInput)
	}
	return date, nil
}

func parseOptionalDate(raw *string) (*time.Time, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	date, err := parseDate(*raw)
	if err != nil {
		return nil, err
	}
	return &date, nil
}

func parseSlots(raw []string) ([]types.TimeString, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	slots := make([]types.TimeString, len(raw))
	for i, r := range raw {
		t, err := types.NewTimeStringFromString(r)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid time slot %q", ErrInvalidInput, r)
		}
		slots[i] = t
	}
	return slots, nil
}
