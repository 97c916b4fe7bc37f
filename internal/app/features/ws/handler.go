// internal/app/features/ws/handler.go
package ws

import (
	"net/http"

	"github.com/bitragunta-sivaiah/brainbeyond-sub000/internal/app/system/authz"
	"github.com/bitragunta-sivaiah/brainbeyond-sub000/internal/app/system/realtime"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Handler upgrades authenticated sessions to the push websocket.
type Handler struct {
	Hub      *realtime.Hub
	Upgrader websocket.Upgrader
	Log      *zap.Logger
}

// NewHandler constructs a ws Handler. allowedOrigin is the SPA origin;
// empty means same-origin only (the gorilla default check).
func NewHandler(hub *realtime.Hub, allowedOrigin string, logger *zap.Logger) *Handler {
	h := &Handler{
		Hub: hub,
		Upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		Log: logger,
	}
	if allowedOrigin != "" {
		h.Upgrader.CheckOrigin = func(r *http.Request) bool {
			return r.Header.Get("Origin") == allowedOrigin
		}
	}
	return h
}

// Serve handles GET /ws.
//
// The session cookie authenticates the upgrade; there is no token in the
// URL. Each user holds at most one live connection; the hub closes the
// previous one when a reconnect registers.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	_, _, userID, ok := authz.UserCtx(r)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := h.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the error response.
		h.Log.Warn("ws: upgrade failed", zap.String("user_id", userID.Hex()), zap.Error(err))
		return
	}

	client := realtime.NewWSClient(userID.Hex(), conn, h.Hub, h.Log)
	h.Hub.RegisterCh <- client
	client.Run()
}
