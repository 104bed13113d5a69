package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/Brian-C69/calm-campus/internal/domain"
	"github.com/Brian-C69/calm-campus/internal/pipeline"
)

// Runner executes one buddy request. *pipeline.Pipeline implements it.
type Runner interface {
	Run(ctx context.Context, req *domain.ChatRequest) pipeline.Result
}

var (
	errBodyTooLarge    = errors.New("request body too large")
	errInvalidBody     = errors.New("invalid request body")
	errRateLimited     = errors.New("rate limit exceeded")
	errMessageRequired = errors.New("message is required")
)

// ChatHandler serves the buddy chat endpoints.
type ChatHandler struct {
	runner         Runner
	limiter        *RateLimiter
	maxBodyBytes   int64
	allowedOrigins []string
}

// NewChatHandler creates a ChatHandler.
func NewChatHandler(runner Runner, limiter *RateLimiter, maxBodyBytes int64, allowedOrigins []string) *ChatHandler {
	return &ChatHandler{
		runner:         runner,
		limiter:        limiter,
		maxBodyBytes:   maxBodyBytes,
		allowedOrigins: allowedOrigins,
	}
}

// RegisterRoutes registers the chat routes.
func (h *ChatHandler) RegisterRoutes(r chi.Router) {
	r.Post("/chat", h.HandleChat)
	r.Get("/ws/chat", h.HandleSocket)
}

// HandleChat handles POST /chat. Every well-formed request gets 200 with a
// complete buddy response; model failures surface inside the body.
func (h *ChatHandler) HandleChat(w http.ResponseWriter, r *http.Request) {
	if !h.limiter.Allow(clientKey(r)) {
		Error(w, http.StatusTooManyRequests, errRateLimited.Error())
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodyBytes)
	data, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			Error(w, http.StatusRequestEntityTooLarge, errBodyTooLarge.Error())
			return
		}
		Error(w, http.StatusBadRequest, errInvalidBody.Error())
		return
	}

	req, err := decodeChatRequest(data)
	if err != nil {
		Error(w, http.StatusBadRequest, err.Error())
		return
	}

	slog.Debug("Buddy chat request",
		"request_id", chiMiddleware.GetReqID(r.Context()),
		"message_length", len(req.Message),
		"history", len(req.History))

	res := h.runner.Run(r.Context(), req)
	JSON(w, http.StatusOK, res.Response)
}

// decodeChatRequest parses and validates a chat payload. Errors are safe to
// return to the client.
func decodeChatRequest(data []byte) (*domain.ChatRequest, error) {
	var req domain.ChatRequest
	if err := json.Unmarshal(data, &req); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field == "message" {
			return nil, errMessageRequired
		}
		return nil, errInvalidBody
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return &req, nil
}

// clientKey is the address chi's RealIP middleware resolved, without the port.
func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
