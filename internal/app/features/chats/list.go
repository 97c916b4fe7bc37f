// internal/app/features/chats/list.go
package chats

import (
	"context"
	"net/http"

	"github.com/bitragunta-sivaiah/brainbeyond-sub000/internal/app/system/authz"
	"github.com/bitragunta-sivaiah/brainbeyond-sub000/internal/app/system/timeouts"
	"github.com/bitragunta-sivaiah/brainbeyond-sub000/internal/domain/models"
	"go.uber.org/zap"
)

// ListMine handles GET /api/chats/mine.
//
// Returns every chat the signed-in user belongs to, ordered by recency
// (updated_at descending), each carrying its denormalized last-message
// preview. Clients hydrate their directory wholesale from this payload.
func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	_, _, userID, ok := authz.UserCtx(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	chatIDs, err := h.Members.ChatIDsForUser(ctx, userID)
	if err != nil {
		h.Log.Error("chats: list memberships failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load chats")
		return
	}

	chats, err := h.Chats.ListByIDs(ctx, chatIDs)
	if err != nil {
		h.Log.Error("chats: list failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load chats")
		return
	}
	if chats == nil {
		chats = []models.Chat{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"chats": chats})
}
