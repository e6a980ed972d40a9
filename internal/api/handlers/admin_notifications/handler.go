package admin_notifications

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-CarWashService/internal/api/handlers"
	"github.com/m04kA/SMC-CarWashService/internal/service/notifications"
	"github.com/m04kA/SMC-CarWashService/internal/service/notifications/models"
)

const (
	msgInvalidPagination = "page and limit must be integers"
	msgInvalidID         = "Invalid notification ID"
	msgNotFound          = "Notification not found"
	msgMarkedRead        = "Notification marked as read"
	msgMarkedAllRead     = "All notifications marked as read"
)

type Handler struct {
	service NotificationService
	logger  Logger
}

func NewHandler(service NotificationService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// List GET /api/v1/admin/notifications?page&limit&type
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page, errPage := handlers.QueryInt(r, "page")
	limit, errLimit := handlers.QueryInt(r, "limit")
	if errPage != nil || errLimit != nil {
		handlers.RespondBadRequest(w, msgInvalidPagination)
		return
	}

	result, err := h.service.List(r.Context(), &models.ListRequest{
		Type:  handlers.QueryString(r, "type"),
		Page:  page,
		Limit: limit,
	})
	if err != nil {
		if errors.Is(err, notifications.ErrInvalidInput) {
			handlers.RespondBadRequest(w, err.Error())
			return
		}
		h.logger.Error("GET /admin/notifications - Failed to list notifications: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// MarkAsRead PATCH /api/v1/admin/notifications/{id}/read
func (h *Handler) MarkAsRead(w http.ResponseWriter, r *http.Request) {
	id, err := handlers.PathInt64(r, "id")
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidID)
		return
	}

	if err := h.service.MarkAsRead(r.Context(), id); err != nil {
		if errors.Is(err, notifications.ErrNotFound) {
			handlers.RespondNotFound(w, msgNotFound)
			return
		}
		h.logger.Error("PATCH /admin/notifications/{id}/read - Failed: id=%d, error=%v", id, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondMessage(w, http.StatusOK, msgMarkedRead, nil)
}

// MarkAllAsRead PATCH /api/v1/admin/notifications/read-all
func (h *Handler) MarkAllAsRead(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.MarkAllAsRead(r.Context())
	if err != nil {
		h.logger.Error("PATCH /admin/notifications/read-all - Failed: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("PATCH /admin/notifications/read-all - updated=%d", result.Updated)
	handlers.RespondMessage(w, http.StatusOK, msgMarkedAllRead, result)
}
