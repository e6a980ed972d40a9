package health

import (
	"context"
	"net/http"
	"time"

	"github.com/m04kA/SMC-CarWashService/internal/api/handlers"
)

const pingTimeout = 2 * time.Second

// Pinger проверка доступности базы данных
type Pinger interface {
	PingContext(ctx context.Context) error
}

// QueueStats длина очереди уведомлений
type QueueStats interface {
	Len(ctx context.Context) (int, error)
}

type Logger interface {
	Warn(format string, v ...interface{})
}

// Response состояние сервиса
type Response struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Queue    *int   `json:"queueLength,omitempty"`
}

type Handler struct {
	db     Pinger
	queue  QueueStats
	logger Logger
}

// NewHandler queue может быть nil
func NewHandler(db Pinger, queue QueueStats, logger Logger) *Handler {
	return &Handler{db: db, queue: queue, logger: logger}
}

// Handle GET /health
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
	defer cancel()

	resp := Response{Status: "ok", Database: "ok"}
	status := http.StatusOK

	if err := h.db.PingContext(ctx); err != nil {
		h.logger.Warn("GET /health - Database ping failed: %v", err)
		resp.Status = "degraded"
		resp.Database = "unavailable"
		status = http.StatusServiceUnavailable
	}

	if h.queue != nil {
		if n, err := h.queue.Len(ctx); err == nil {
			resp.Queue = &n
		}
	}

	if status != http.StatusOK {
		handlers.RespondError(w, status, "Service is degraded: database is unavailable")
		return
	}
	handlers.RespondJSON(w, status, resp)
}
