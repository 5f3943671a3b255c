package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/Kimen6931/BlockLocker/internal/api/response"
)

// Pinger is implemented by storage backends with a remote connection
type Pinger interface {
	Ping(ctx context.Context) error
}

// MainLoop reports the main loop backlog
type MainLoop interface {
	Pending() int
}

// HealthHandler handles the health check endpoint
type HealthHandler struct {
	storage Pinger
	loop    MainLoop
	logger  *slog.Logger
}

// NewHealthHandler creates a new health handler. A nil storage is not pinged.
func NewHealthHandler(storage Pinger, loop MainLoop, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{storage: storage, loop: loop, logger: logger}
}

// Check handles GET /api/v1/health
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	resp := response.Health{Status: "ok"}
	if h.loop != nil {
		resp.MainPending = h.loop.Pending()
	}

	if h.storage != nil {
		if err := h.storage.Ping(r.Context()); err != nil {
			h.logger.Warn("storage ping failed", slog.String("error", err.Error()))
			resp.Status = "degraded"
			response.JSON(w, http.StatusServiceUnavailable, resp)
			return
		}
	}

	response.JSON(w, http.StatusOK, resp)
}
