package get_staff_availability

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-CarWashService/internal/api/handlers"
	"github.com/m04kA/SMC-CarWashService/internal/domain"
)

const msgInvalidDate = "Invalid date format, expected YYYY-MM-DD"

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

// Handle GET /api/v1/admin/staff/availability/{date}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	rawDate := mux.Vars(r)["date"]
	date, err := domain.ParseDate(rawDate)
	if err != nil {
		h.logger.Warn("GET /admin/staff/availability/{date} - Invalid date: %q", rawDate)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.service.GetDailyAvailability(r.Context(), date)
	if err != nil {
		h.logger.Error("GET /admin/staff/availability/{date} - Failed to build day view: date=%s, error=%v", rawDate, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /admin/staff/availability/{date} - date=%s, bookings=%d", rawDate, len(result.Bookings))
	handlers.RespondJSON(w, http.StatusOK, result)
}
