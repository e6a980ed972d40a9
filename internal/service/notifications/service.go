package notifications

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-CarWashService/internal/domain"
	notificationRepo "github.com/m04kA/SMC-CarWashService/internal/infra/storage/notification"
	"github.com/m04kA/SMC-CarWashService/internal/service/notifications/models"
)

// Service сервис ленты уведомлений администратора
type Service struct {
	repo        Repository
	broadcaster Broadcaster
	logger      Logger
}

// NewService создает новый экземпляр сервиса. broadcaster может быть nil.
func NewService(repo Repository, broadcaster Broadcaster, logger Logger) *Service {
	return &Service{repo: repo, broadcaster: broadcaster, logger: logger}
}

// Create сохраняет уведомление и рассылает его подключённым клиентам
func (s *Service) Create(ctx context.Context, n *domain.AdminNotification) (*domain.AdminNotification, error) {
	if !n.Type.IsValid() {
		return nil, fmt.Errorf("%w: unknown notification type %q", ErrInvalidInput, n.Type)
	}

	created, err := s.repo.Create(ctx, n)
	if err != nil {
		s.logger.Error("Create: repository error for type=%s: %v", n.Type, err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	if s.broadcaster != nil {
		s.broadcaster.Broadcast(created)
	}
	return created, nil
}

// List страница уведомлений (новые сверху) с количеством непрочитанных
func (s *Service) List(ctx context.Context, req *models.ListRequest) (*models.ListResponse, error) {
	filter := domain.AdminNotificationsFilter{Page: domain.NormalizePage(req.Page, req.Limit)}
	if req.Type != nil && *req.Type != "" {
		t := domain.AdminNotificationType(*req.Type)
		if !t.IsValid() {
			return nil, fmt.Errorf("%w: unknown notification type %q", ErrInvalidInput, *req.Type)
		}
		filter.Type = &t
	}

	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	unread, err := s.repo.CountUnread(ctx)
	if err != nil {
		s.logger.Error("List: failed to count unread: %v", err)
		return nil, fmt.Errorf("%w: List - count unread: %v", ErrInternal, err)
	}

	return &models.ListResponse{
		Notifications: items,
		UnreadCount:   unread,
		Pagination:    domain.NewPagination(filter.Page, total),
	}, nil
}

// MarkAsRead помечает уведомление прочитанным
func (s *Service) MarkAsRead(ctx context.Context, id int64) error {
	if err := s.repo.MarkAsRead(ctx, id); err != nil {
		if errors.Is(err, notificationRepo.ErrNotFound) {
			return ErrNotFound
		}
		s.logger.Error("MarkAsRead: repository error for id=%d: %v", id, err)
		return fmt.Errorf("%w: MarkAsRead - repository error: %v", ErrInternal, err)
	}
	return nil
}

// MarkAllAsRead помечает все уведомления прочитанными
func (s *Service) MarkAllAsRead(ctx context.Context) (*models.MarkAllResponse, error) {
	n, err := s.repo.MarkAllAsRead(ctx)
	if err != nil {
		s.logger.Error("MarkAllAsRead: repository error: %v", err)
		return nil, fmt.Errorf("%w: MarkAllAsRead - repository error: %v", ErrInternal, err)
	}
	s.logger.Info("MarkAllAsRead: marked %d notifications", n)
	return &models.MarkAllResponse{Updated: n}, nil
}
