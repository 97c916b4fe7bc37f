// internal/app/features/authapi/routes.go
package authapi

import "github.com/go-chi/chi/v5"

// MountRoutes mounts the auth endpoints on the given router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/login", h.Login)
	r.Post("/logout", h.Logout)
	r.Get("/me", h.Me)
}
