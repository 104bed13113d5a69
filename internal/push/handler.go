package push

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/Brian-C69/calm-campus/internal/api"
	"github.com/Brian-C69/calm-campus/internal/domain"
)

// defaultListLimit applies when the limit query parameter is absent.
const defaultListLimit = 20

// Handler serves the announcement relay routes.
type Handler struct {
	svc          *Service
	maxBodyBytes int64
}

// NewHandler creates a Handler.
func NewHandler(svc *Service, maxBodyBytes int64) *Handler {
	return &Handler{svc: svc, maxBodyBytes: maxBodyBytes}
}

// RegisterRoutes registers the relay routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/notify", func(r chi.Router) {
		r.Post("/announcement", h.HandleAnnounce)
		r.Get("/announcements", h.HandleList)
	})
}

type announceRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// HandleAnnounce handles POST /notify/announcement.
func (h *Handler) HandleAnnounce(w http.ResponseWriter, r *http.Request) {
	if !h.svc.Enabled() {
		api.Error(w, http.StatusServiceUnavailable, "push relay disabled")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodyBytes)
	var req announceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			api.Error(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	a, err := h.svc.Announce(r.Context(), req.Title, req.Body)
	switch {
	case err == nil:
		api.JSON(w, http.StatusOK, map[string]string{"status": a.Status, "id": a.ID})
	case errors.Is(err, ErrInvalidAnnouncement):
		api.Error(w, http.StatusBadRequest, strings.TrimPrefix(err.Error(), ErrInvalidAnnouncement.Error()+": "))
	case errors.Is(err, ErrDisabled):
		api.Error(w, http.StatusServiceUnavailable, "push relay disabled")
	default:
		resp := map[string]string{"error": "fcm_error", "detail": err.Error()}
		if a != nil {
			resp["id"] = a.ID
		}
		api.JSON(w, http.StatusBadGateway, resp)
	}
}

// HandleList handles GET /notify/announcements?limit=N.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	limit := defaultListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			api.Error(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	items, err := h.svc.Recent(r.Context(), limit)
	if err != nil {
		slog.Error("Failed to list announcements", "error", err)
		api.Error(w, http.StatusInternalServerError, "failed to list announcements")
		return
	}
	if items == nil {
		items = []*domain.Announcement{}
	}
	api.JSON(w, http.StatusOK, map[string]any{"announcements": items, "count": len(items)})
}
