// internal/app/features/ws/routes.go
package ws

import "github.com/go-chi/chi/v5"

// MountRoutes mounts the websocket endpoint on the given router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.Serve)
}
