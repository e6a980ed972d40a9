package admin_unavailability

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-CarWashService/internal/api/handlers"
	"github.com/m04kA/SMC-CarWashService/internal/service/unavailability"
	"github.com/m04kA/SMC-CarWashService/internal/service/unavailability/models"
)

const (
	msgInvalidRequestBody = "Invalid request body"
	msgInvalidID          = "Invalid unavailability ID"
	msgNotFound           = "Unavailability entry not found"
	msgFullDayExists      = "Full day unavailability already exists for this date"
	msgCreated            = "Staff unavailability created successfully"
	msgUpdated            = "Staff unavailability updated successfully"
	msgDeleted            = "Staff unavailability deleted successfully"
)

// Handler CRUD записей о недоступности персонала
type Handler struct {
	service UnavailabilityService
	logger  Logger
}

func NewHandler(service UnavailabilityService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Create POST /api/v1/admin/unavailability
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /admin/unavailability - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Create(r.Context(), &req)
	if err != nil {
		h.respondError(w, "POST /admin/unavailability", err)
		return
	}

	handlers.RespondMessage(w, http.StatusCreated, msgCreated, result)
}

// List GET /api/v1/admin/unavailability?startDate&endDate
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.List(r.Context(), handlers.QueryString(r, "startDate"), handlers.QueryString(r, "endDate"))
	if err != nil {
		h.respondError(w, "GET /admin/unavailability", err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Dates GET /api/v1/admin/unavailability/dates?startDate&endDate
func (h *Handler) Dates(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	result, err := h.service.Dates(r.Context(), query.Get("startDate"), query.Get("endDate"))
	if err != nil {
		h.respondError(w, "GET /admin/unavailability/dates", err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// GetByDate GET /api/v1/admin/unavailability/date/{date}
func (h *Handler) GetByDate(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.GetByDate(r.Context(), mux.Vars(r)["date"])
	if err != nil {
		h.respondError(w, "GET /admin/unavailability/date/{date}", err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// GetByID GET /api/v1/admin/unavailability/{id}
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := handlers.PathInt64(r, "id")
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidID)
		return
	}

	result, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		h.respondError(w, "GET /admin/unavailability/{id}", err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Update PATCH /api/v1/admin/unavailability/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := handlers.PathInt64(r, "id")
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidID)
		return
	}

	var req models.UpdateRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /admin/unavailability/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Update(r.Context(), id, &req)
	if err != nil {
		h.respondError(w, "PATCH /admin/unavailability/{id}", err)
		return
	}

	handlers.RespondMessage(w, http.StatusOK, msgUpdated, result)
}

// Delete DELETE /api/v1/admin/unavailability/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := handlers.PathInt64(r, "id")
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidID)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.respondError(w, "DELETE /admin/unavailability/{id}", err)
		return
	}

	handlers.RespondMessage(w, http.StatusOK, msgDeleted, nil)
}

func (h *Handler) respondError(w http.ResponseWriter, route string, err error) {
	switch {
	case errors.Is(err, unavailability.ErrNotFound):
		handlers.RespondNotFound(w, msgNotFound)

	case errors.Is(err, unavailability.ErrFullDayExists):
		h.logger.Warn("%s - %v", route, err)
		handlers.RespondConflict(w, msgFullDayExists)

	case errors.Is(err, unavailability.ErrInvalidInput):
		h.logger.Warn("%s - Validation failed: %v", route, err)
		handlers.RespondBadRequest(w, err.Error())

	default:
		h.logger.Error("%s - Internal error: %v", route, err)
		handlers.RespondInternalError(w)
	}
}
