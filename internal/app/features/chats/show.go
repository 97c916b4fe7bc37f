// internal/app/features/chats/show.go
package chats

import (
	"context"
	"net/http"

	"github.com/bitragunta-sivaiah/brainbeyond-sub000/internal/app/system/timeouts"
	"github.com/bitragunta-sivaiah/brainbeyond-sub000/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Show handles GET /api/chats/{chatID}.
//
// Returns the chat, its full message log ordered by creation time, and
// the member roster. Clients call this when a chat is opened and replace
// their local log wholesale: the fetched log is authoritative over
// anything assembled from pushed events while the chat was closed.
func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	c, ok := h.resolveCaller(ctx, w, r)
	if !ok {
		return
	}
	if !c.Membership.CanView() {
		writeError(w, http.StatusForbidden, "not a member of this chat")
		return
	}

	chat, err := h.Chats.GetByID(ctx, c.ChatID)
	if err == mongo.ErrNoDocuments {
		writeError(w, http.StatusNotFound, "chat not found")
		return
	}
	if err != nil {
		h.Log.Error("chats: load failed", zap.String("chat_id", c.ChatID.Hex()), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load chat")
		return
	}

	messages, err := h.Messages.ListByChat(ctx, c.ChatID)
	if err != nil {
		h.Log.Error("chats: load messages failed", zap.String("chat_id", c.ChatID.Hex()), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load messages")
		return
	}
	if messages == nil {
		messages = []models.Message{}
	}

	roster, err := h.Members.Roster(ctx, c.ChatID)
	if err != nil {
		h.Log.Error("chats: load roster failed", zap.String("chat_id", c.ChatID.Hex()), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load roster")
		return
	}
	if roster == nil {
		roster = []models.RosterEntry{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"chat":     chat,
		"messages": messages,
		"members":  roster,
	})
}
