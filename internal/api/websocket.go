package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/coder/websocket"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// socketWriteTimeout bounds a single frame write.
const socketWriteTimeout = 10 * time.Second

// HandleSocket handles GET /ws/chat. Each text frame carries a chat request
// and is answered with one buddy response frame, or {"error": ...} when the
// frame is rejected. Frames on one connection are handled in order.
func (h *ChatHandler) HandleSocket(w http.ResponseWriter, r *http.Request) {
	key := clientKey(r)
	reqID := chiMiddleware.GetReqID(r.Context())

	if !h.checkOrigin(r) {
		http.Error(w, "origin not allowed", http.StatusForbidden)
		return
	}

	ws, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		slog.Error("Failed to accept WebSocket", "error", err, "request_id", reqID)
		return
	}
	defer func() {
		if closeErr := ws.Close(websocket.StatusNormalClosure, "session ended"); closeErr != nil {
			slog.Debug("Failed to close websocket", "error", closeErr, "request_id", reqID)
		}
	}()
	ws.SetReadLimit(h.maxBodyBytes)

	slog.Info("Chat socket connected", "client", key, "request_id", reqID)
	ctx := r.Context()

	for {
		typ, data, err := ws.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) != -1 {
				slog.Debug("Chat socket closed by client", "request_id", reqID)
			} else if ctx.Err() == nil {
				slog.Warn("Chat socket read error", "error", err, "request_id", reqID)
			}
			return
		}

		var reply any
		switch {
		case typ != websocket.MessageText:
			reply = map[string]string{"error": "text frames only"}
		case !h.limiter.Allow(key):
			reply = map[string]string{"error": errRateLimited.Error()}
		default:
			req, err := decodeChatRequest(data)
			if err != nil {
				reply = map[string]string{"error": err.Error()}
				break
			}
			reply = h.runner.Run(ctx, req).Response
		}

		if err := writeJSON(ctx, ws, reply); err != nil {
			slog.Debug("Failed to write chat frame", "error", err, "request_id", reqID)
			return
		}
	}
}

func (h *ChatHandler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, o := range h.allowedOrigins {
		if o == "*" || o == origin {
			return true
		}
	}
	slog.Warn("WebSocket origin rejected", "origin", origin, "allowed", h.allowedOrigins)
	return false
}

func writeJSON(ctx context.Context, ws *websocket.Conn, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, socketWriteTimeout)
	defer cancel()
	return ws.Write(ctx, websocket.MessageText, data)
}
