package get_admin_bookings

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-CarWashService/internal/api/handlers"
	"github.com/m04kA/SMC-CarWashService/internal/service/bookings"
	"github.com/m04kA/SMC-CarWashService/internal/service/bookings/models"
)

const (
	msgInvalidPagination = "page and limit must be integers"
	msgInvalidStatus     = "Invalid status filter"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/admin/bookings
// Query params: status (статус или upcoming), date (YYYY-MM-DD), search, page, limit
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	page, errPage := handlers.QueryInt(r, "page")
	limit, errLimit := handlers.QueryInt(r, "limit")
	if errPage != nil || errLimit != nil {
		handlers.RespondBadRequest(w, msgInvalidPagination)
		return
	}

	serviceReq := &models.AdminListRequest{
		Status: handlers.QueryString(r, "status"),
		Date:   handlers.QueryString(r, "date"),
		Search: handlers.QueryString(r, "search"),
		Page:   page,
		Limit:  limit,
	}

	result, err := h.service.AdminList(r.Context(), serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrInvalidStatus):
			handlers.RespondBadRequest(w, msgInvalidStatus)

		case errors.Is(err, bookings.ErrInvalidInput):
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("GET /admin/bookings - Failed to list bookings: error=%v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /admin/bookings - Bookings retrieved: count=%d, total=%d",
		len(result.Bookings), result.Pagination.Total)
	handlers.RespondJSON(w, http.StatusOK, result)
}
