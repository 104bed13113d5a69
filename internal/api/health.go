package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// healthCheckTimeout bounds each dependency probe.
const healthCheckTimeout = 5 * time.Second

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	db            Pinger
	llm           Pinger
	model         string
	fallbackModel string
}

// NewHealthHandler creates a health handler. llm may be nil to skip the model
// backend probe.
func NewHealthHandler(db, llm Pinger, model, fallbackModel string) *HealthHandler {
	return &HealthHandler{db: db, llm: llm, model: model, fallbackModel: fallbackModel}
}

// Health returns the status of the server and its dependencies. An
// unreachable model backend degrades the status without failing the check,
// since chat still answers from its fallbacks.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	checks := map[string]string{"api": "ok"}
	status := "ok"
	statusCode := http.StatusOK

	if err := h.db.Ping(ctx); err != nil {
		slog.Error("Health check failed", "dependency", "database", "error", err)
		checks["database"] = "unreachable"
		status = "degraded"
		statusCode = http.StatusServiceUnavailable
	} else {
		checks["database"] = "ok"
	}

	if h.llm != nil {
		if err := h.llm.Ping(ctx); err != nil {
			slog.Warn("Health check failed", "dependency", "llm", "error", err)
			checks["llm"] = "unreachable"
			status = "degraded"
		} else {
			checks["llm"] = "ok"
		}
	}

	var fallback *string
	if h.fallbackModel != "" {
		fallback = &h.fallbackModel
	}

	JSON(w, statusCode, map[string]interface{}{
		"status":        status,
		"model":         h.model,
		"fallbackModel": fallback,
		"checks":        checks,
	})
}

// RegisterHealth registers the health check route.
func (h *HealthHandler) RegisterHealth(r chi.Router) {
	r.Get("/health", h.Health)
}
