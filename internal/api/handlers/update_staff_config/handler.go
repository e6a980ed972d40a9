package update_staff_config

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-CarWashService/internal/api/handlers"
	"github.com/m04kA/SMC-CarWashService/internal/service/staff"
	"github.com/m04kA/SMC-CarWashService/internal/service/staff/models"
)

const (
	msgInvalidRequestBody = "Invalid request body"
	msgUpdated            = "Staff configuration updated successfully"
)

type Handler struct {
	service StaffService
	logger  Logger
}

func NewHandler(service StaffService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/admin/staff/config
// Обновляются только переданные поля
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateConfigRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /admin/staff/config - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Update(r.Context(), &req)
	if err != nil {
		if errors.Is(err, staff.ErrInvalidInput) {
			h.logger.Warn("PATCH /admin/staff/config - Validation failed: %v", err)
			handlers.RespondBadRequest(w, err.Error())
			return
		}
		h.logger.Error("PATCH /admin/staff/config - Failed to update config: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("PATCH /admin/staff/config - Config updated: total_staff=%d, window=%d",
		result.TotalStaff, result.BookingWindowDays)
	handlers.RespondMessage(w, http.StatusOK, msgUpdated, result)
}
