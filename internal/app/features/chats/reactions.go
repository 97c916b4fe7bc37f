// internal/app/features/chats/reactions.go
package chats

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	messagestore "github.com/bitragunta-sivaiah/brainbeyond-sub000/internal/app/store/messages"
	"github.com/bitragunta-sivaiah/brainbeyond-sub000/internal/app/system/realtime"
	"github.com/bitragunta-sivaiah/brainbeyond-sub000/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type toggleReactionRequest struct {
	Emoji string `json:"emoji"`
}

// ToggleReaction handles POST /api/chats/{chatID}/messages/{messageID}/reactions.
//
// Toggle semantics: absent adds, present removes, keyed on the caller's
// user id plus the emoji. The response and the pushed updateMessage both
// carry the server-merged message; clients replace the message's
// reaction set wholesale rather than applying their own toggle locally,
// so concurrent reactions from other members are never lost.
func (h *Handler) ToggleReaction(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	c, ok := h.resolveCaller(ctx, w, r)
	if !ok {
		return
	}
	if !c.Membership.CanSend() {
		writeError(w, http.StatusForbidden, "not a member of this chat")
		return
	}

	msgID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "messageID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid message id")
		return
	}

	var req toggleReactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	emoji := strings.TrimSpace(req.Emoji)
	if emoji == "" {
		writeError(w, http.StatusBadRequest, "emoji is required")
		return
	}

	msg, err := h.Messages.ToggleReaction(ctx, c.ChatID, msgID, c.UserID, emoji)
	if errors.Is(err, messagestore.ErrNotFound) {
		writeError(w, http.StatusNotFound, "message not found")
		return
	}
	if errors.Is(err, messagestore.ErrDeleted) {
		writeError(w, http.StatusConflict, "message has been deleted")
		return
	}
	if err != nil {
		h.Log.Error("chats: reaction toggle failed",
			zap.String("chat_id", c.ChatID.Hex()),
			zap.String("message_id", msgID.Hex()),
			zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to update reaction")
		return
	}

	h.publishToMembers(ctx, c.ChatID, realtime.UpdateMessage(c.ChatID.Hex(), msg))

	writeJSON(w, http.StatusOK, map[string]any{"message": msg})
}
