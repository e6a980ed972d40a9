package bookings

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-CarWashService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-CarWashService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-CarWashService/internal/service/bookings/models"
	"github.com/m04kA/SMC-CarWashService/pkg/ptr"
)

const statusFilterUpcoming = "upcoming"

// Options настройки сервиса бронирований
type Options struct {
	// EnforceTransitions включает проверку domain.AllowedTransitions при смене статуса админом
	EnforceTransitions bool
	// Location рабочий часовой пояс для вычисления "сегодня"
	Location *time.Location
}

// Service сервис для работы с бронированиями (чтение, отмена клиентом, статусы в админке)
type Service struct {
	bookingRepo  BookingRepository
	notifier     Notifier
	opts         Options
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	notifier Notifier,
	opts Options,
	logger Logger,
) *Service {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	return &Service{
		bookingRepo:  bookingRepo,
		notifier:     notifier,
		opts:         opts,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// GetByID получает бронирование пользователя
// Чужое бронирование выглядит как несуществующее
func (s *Service) GetByID(ctx context.Context, id int64, userID int64) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d for user=%d", id, userID)

	booking, err := s.getOwned(ctx, "GetByID", id, userID)
	if err != nil {
		return nil, err
	}

	return models.FromDomainBooking(booking), nil
}

// GetUserBookings получает историю бронирований пользователя
// status: upcoming | completed | cancelled | любой статус | пусто (все)
func (s *Service) GetUserBookings(ctx context.Context, req *models.GetUserBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetUserBookings: fetching bookings for user=%d, status=%v", req.UserID, req.Status)

	statuses, err := userStatusFilter(req.Status)
	if err != nil {
		s.logger.Warn("GetUserBookings: invalid status=%s for user=%d", *req.Status, req.UserID)
		return nil, err
	}

	page := domain.NormalizePage(req.Page, req.Limit)
	bookings, total, err := s.bookingRepo.ListByUser(ctx, domain.UserBookingsFilter{
		UserID:   req.UserID,
		Statuses: statuses,
		Page:     page,
	})
	if err != nil {
		s.logger.Error("GetUserBookings: repository error for user=%d: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: GetUserBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetUserBookings: fetched %d of %d bookings for user=%d", len(bookings), total, req.UserID)
	return models.FromDomainBookingList(bookings, page, total), nil
}

// Cancel отменяет бронирование клиентом
// Разрешено только в статусах pending и confirmed. Клиенту уведомление не отправляется.
func (s *Service) Cancel(ctx context.Context, id int64, req *models.CancelBookingRequest) (*models.BookingResponse, error) {
	s.logger.Info("Cancel: user=%d cancels booking id=%d", req.UserID, id)

	// 1. Валидация причины
	if req.Reason != nil && len([]rune(*req.Reason)) > domain.MaxCancellationReasonLength {
		return nil, fmt.Errorf("%w: reason must be at most %d characters", ErrInvalidInput, domain.MaxCancellationReasonLength)
	}

	// 2. Бронирование должно принадлежать пользователю
	booking, err := s.getOwned(ctx, "Cancel", id, req.UserID)
	if err != nil {
		return nil, err
	}

	// 3. Проверяем статус
	if !booking.CanBeCancelled() {
		s.logger.Warn("Cancel: booking id=%d has status=%s", id, booking.Status)
		return nil, ErrCannotCancel
	}

	// 4. Отменяем
	now := s.timeProvider.Now()
	if err := s.bookingRepo.Cancel(ctx, id, req.Reason, now); err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			return nil, ErrBookingNotFound
		}
		s.logger.Error("Cancel: repository error for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	booking.Status = domain.StatusCancelled
	booking.CancellationReason = req.Reason
	booking.CancelledAt = &now

	// 5. Уведомление администратору
	job := domain.NewNotificationJob(domain.KindAdminBookingCancelled, booking, now)
	job.ByCustomer = true
	job.Reason = ptr.Deref(req.Reason, "")
	s.notifier.Publish(ctx, job)

	s.logger.Info("Cancel: booking id=%d cancelled by user=%d", id, req.UserID)
	return models.FromDomainBooking(booking), nil
}

// AdminList список бронирований для админки
// status=upcoming означает pending/confirmed начиная с сегодняшнего дня
func (s *Service) AdminList(ctx context.Context, req *models.AdminListRequest) (*models.BookingListResponse, error) {
	s.logger.Info("AdminList: status=%v, date=%v, search=%v", req.Status, req.Date, req.Search)

	page := domain.NormalizePage(req.Page, req.Limit)
	filter := domain.AdminBookingsFilter{Search: req.Search, Page: page}

	if req.Status != nil && *req.Status != "" && *req.Status != "all" {
		if *req.Status == statusFilterUpcoming {
			today := domain.DateOnly(s.timeProvider.Now().In(s.opts.Location))
			filter.Statuses = domain.AdminUpcomingStatuses
			filter.FromDate = &today
		} else {
			status, err := domain.ParseBookingStatus(*req.Status)
			if err != nil {
				return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, *req.Status)
			}
			filter.Statuses = []domain.BookingStatus{status}
		}
	}

	if req.Date != nil && *req.Date != "" {
		date, err := domain.ParseDate(*req.Date)
		if err != nil {
			return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidInput)
		}
		filter.Date = &date
	}

	bookings, total, err := s.bookingRepo.ListForAdmin(ctx, filter)
	if err != nil {
		s.logger.Error("AdminList: repository error: %v", err)
		return nil, fmt.Errorf("%w: AdminList - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainBookingList(bookings, page, total), nil
}

// AdminGetByID получает любое бронирование
func (s *Service) AdminGetByID(ctx context.Context, id int64) (*models.BookingResponse, error) {
	booking, err := s.get(ctx, "AdminGetByID", id)
	if err != nil {
		return nil, err
	}
	return models.FromDomainBooking(booking), nil
}

// UpdateStatus смена статуса администратором
// По умолчанию допускается любой переход. Побочные эффекты:
// cancelled -> уведомления админу и клиенту, completed -> админу, pending->confirmed -> клиенту
func (s *Service) UpdateStatus(ctx context.Context, id int64, req *models.UpdateStatusRequest) (*models.BookingResponse, error) {
	s.logger.Info("UpdateStatus: booking id=%d -> %s", id, req.Status)

	// 1. Валидация статуса
	status, err := domain.ParseBookingStatus(req.Status)
	if err != nil {
		s.logger.Warn("UpdateStatus: invalid status=%s", req.Status)
		return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, req.Status)
	}
	if req.Reason != nil && len([]rune(*req.Reason)) > domain.MaxCancellationReasonLength {
		return nil, fmt.Errorf("%w: reason must be at most %d characters", ErrInvalidInput, domain.MaxCancellationReasonLength)
	}

	// 2. Получаем бронирование
	booking, err := s.get(ctx, "UpdateStatus", id)
	if err != nil {
		return nil, err
	}
	oldStatus := booking.Status

	// 3. Таблица переходов (опционально)
	if s.opts.EnforceTransitions && !domain.CanTransition(oldStatus, status) {
		s.logger.Warn("UpdateStatus: transition %s -> %s rejected for booking id=%d", oldStatus, status, id)
		return nil, fmt.Errorf("%w: %s -> %s", ErrTransitionNotAllowed, oldStatus, status)
	}

	// 4. Сохраняем
	now := s.timeProvider.Now()
	change := domain.StatusChange{Status: status, At: now}
	if status == domain.StatusCancelled {
		reason := domain.DefaultAdminCancelReason
		if req.Reason != nil && strings.TrimSpace(*req.Reason) != "" {
			reason = *req.Reason
		}
		change.Reason = &reason
	}

	if err := s.bookingRepo.ApplyStatusChange(ctx, id, change); err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			return nil, ErrBookingNotFound
		}
		s.logger.Error("UpdateStatus: repository error for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
	}

	booking.Status = status
	switch status {
	case domain.StatusCancelled:
		booking.CancellationReason = change.Reason
		booking.CancelledAt = &now
	case domain.StatusCompleted:
		booking.CompletedAt = &now
	}

	// 5. Уведомления
	s.publishStatusSideEffects(ctx, booking, oldStatus, now)

	s.logger.Info("UpdateStatus: booking id=%d %s -> %s", id, oldStatus, status)
	return models.FromDomainBooking(booking), nil
}

func (s *Service) publishStatusSideEffects(ctx context.Context, b *domain.Booking, oldStatus domain.BookingStatus, now time.Time) {
	switch {
	case b.Status == domain.StatusCancelled:
		reason := ""
		if b.CancellationReason != nil {
			reason = *b.CancellationReason
		}
		for _, kind := range []domain.NotificationKind{domain.KindAdminBookingCancelled, domain.KindCustomerBookingCancelled} {
			job := domain.NewNotificationJob(kind, b, now)
			job.Reason = reason
			s.notifier.Publish(ctx, job)
		}
	case b.Status == domain.StatusCompleted:
		s.notifier.Publish(ctx, domain.NewNotificationJob(domain.KindAdminBookingCompleted, b, now))
	case b.Status == domain.StatusConfirmed && oldStatus == domain.StatusPending:
		s.notifier.Publish(ctx, domain.NewNotificationJob(domain.KindCustomerBookingConfirmed, b, now))
	}
}

func (s *Service) get(ctx context.Context, op string, id int64) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("%s: booking id=%d not found", op, id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("%s: repository error for booking id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return booking, nil
}

func (s *Service) getOwned(ctx context.Context, op string, id, userID int64) (*domain.Booking, error) {
	booking, err := s.get(ctx, op, id)
	if err != nil {
		return nil, err
	}
	if booking.UserID != userID {
		s.logger.Warn("%s: booking id=%d does not belong to user=%d", op, id, userID)
		return nil, ErrBookingNotFound
	}
	return booking, nil
}

func userStatusFilter(status *string) ([]domain.BookingStatus, error) {
	if status == nil || *status == "" || *status == "all" {
		return nil, nil
	}
	if *status == statusFilterUpcoming {
		return domain.UpcomingStatuses, nil
	}
	parsed, err := domain.ParseBookingStatus(*status)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, *status)
	}
	return []domain.BookingStatus{parsed}, nil
}
