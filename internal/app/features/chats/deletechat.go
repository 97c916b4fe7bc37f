// internal/app/features/chats/deletechat.go
package chats

import (
	"context"
	"net/http"

	"github.com/bitragunta-sivaiah/brainbeyond-sub000/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// Delete handles DELETE /api/chats/{chatID}.
//
// Requires elevated permission. Messages and memberships cascade; the
// message log is deleted first so a crash mid-cascade leaves an empty
// but listable chat rather than orphaned messages.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	c, ok := h.resolveCaller(ctx, w, r)
	if !ok {
		return
	}
	if !c.Membership.CanDeleteChat() {
		writeError(w, http.StatusForbidden, "elevated permission required")
		return
	}

	if _, err := h.Messages.DeleteByChat(ctx, c.ChatID); err != nil {
		h.Log.Error("chats: message cascade failed", zap.String("chat_id", c.ChatID.Hex()), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to delete chat")
		return
	}
	if _, err := h.Members.DeleteByChat(ctx, c.ChatID); err != nil {
		h.Log.Error("chats: membership cascade failed", zap.String("chat_id", c.ChatID.Hex()), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to delete chat")
		return
	}

	n, err := h.Chats.Delete(ctx, c.ChatID)
	if err != nil {
		h.Log.Error("chats: delete failed", zap.String("chat_id", c.ChatID.Hex()), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to delete chat")
		return
	}
	if n == 0 {
		writeError(w, http.StatusNotFound, "chat not found")
		return
	}

	h.Log.Info("chat deleted",
		zap.String("chat_id", c.ChatID.Hex()),
		zap.String("deleted_by", c.UserID.Hex()))

	writeJSON(w, http.StatusOK, map[string]any{"deleted": true})
}
