// internal/app/features/chats/routes.go
package chats

import "github.com/go-chi/chi/v5"

// MountRoutes mounts all chat API routes on the given router.
// All routes require a signed-in session (enforced by the parent router).
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/mine", h.ListMine)
	r.Post("/", h.Create)

	r.Route("/{chatID}", func(r chi.Router) {
		r.Get("/", h.Show)
		r.Delete("/", h.Delete)

		r.Post("/messages", h.SendMessage)
		r.Delete("/messages", h.SoftDeleteMessages)
		r.Delete("/messages/permanent", h.PermanentDeleteMessages)
		r.Post("/messages/{messageID}/reactions", h.ToggleReaction)

		r.Get("/members", h.ListMembers)
		r.Post("/members", h.AddMembers)
		r.Delete("/members/{userID}", h.RemoveMember)
		r.Post("/members/{userID}/role", h.SetMemberRole)
		r.Post("/leave", h.Leave)
	})
}
