// internal/app/features/chats/deletemessages.go
package chats

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/bitragunta-sivaiah/brainbeyond-sub000/internal/app/system/realtime"
	"github.com/bitragunta-sivaiah/brainbeyond-sub000/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type deleteMessagesRequest struct {
	MessageIDs []string `json:"messageIds"`
}

// SoftDeleteMessages handles DELETE /api/chats/{chatID}/messages.
//
// Targets become tombstones: content, attachments, and reactions are
// cleared but the documents keep their position in the log. Ids that no
// longer exist are skipped silently; another member may have permanently
// removed them first.
func (h *Handler) SoftDeleteMessages(w http.ResponseWriter, r *http.Request) {
	h.deleteMessages(w, r, false)
}

// PermanentDeleteMessages handles DELETE /api/chats/{chatID}/messages/permanent.
//
// Targets are removed from the log entirely. Irreversible.
func (h *Handler) PermanentDeleteMessages(w http.ResponseWriter, r *http.Request) {
	h.deleteMessages(w, r, true)
}

func (h *Handler) deleteMessages(w http.ResponseWriter, r *http.Request, permanent bool) {
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

	var req deleteMessagesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	ids := parseIDList(req.MessageIDs)
	if len(ids) == 0 {
		writeError(w, http.StatusBadRequest, "no message ids given")
		return
	}

	// Authorize against the actual senders. Members delete their own
	// messages; anyone else's (including orphaned sender_id=nil messages)
	// requires elevated permission.
	targets, err := h.Messages.ListByIDs(ctx, c.ChatID, ids)
	if err != nil {
		h.Log.Error("chats: delete target lookup failed",
			zap.String("chat_id", c.ChatID.Hex()), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to delete messages")
		return
	}
	for _, m := range targets {
		if !c.Membership.CanDeleteMessage(c.UserID, m.SenderID) {
			writeError(w, http.StatusForbidden, "cannot delete another member's message")
			return
		}
	}

	found := make([]primitive.ObjectID, 0, len(targets))
	foundHex := make([]string, 0, len(targets))
	for _, m := range targets {
		found = append(found, m.ID)
		foundHex = append(foundHex, m.ID.Hex())
	}

	var deleted int64
	if permanent {
		deleted, err = h.Messages.PermanentDelete(ctx, c.ChatID, found)
	} else {
		deleted, err = h.Messages.SoftDelete(ctx, c.ChatID, found)
	}
	if err != nil {
		h.Log.Error("chats: delete failed",
			zap.String("chat_id", c.ChatID.Hex()),
			zap.Bool("permanent", permanent),
			zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to delete messages")
		return
	}

	// Refresh the directory preview without touching updated_at: deleting
	// a message must not move the chat in the recency order.
	latest, err := h.Messages.LatestVisible(ctx, c.ChatID)
	if err != nil {
		h.Log.Error("chats: preview refresh failed",
			zap.String("chat_id", c.ChatID.Hex()), zap.Error(err))
	} else if err := h.Chats.SetPreview(ctx, c.ChatID, latest); err != nil {
		h.Log.Error("chats: preview update failed",
			zap.String("chat_id", c.ChatID.Hex()), zap.Error(err))
	}

	if len(foundHex) > 0 {
		h.publishToMembers(ctx, c.ChatID,
			realtime.DeleteMessage(c.ChatID.Hex(), foundHex, permanent))
	}

	writeJSON(w, http.StatusOK, map[string]any{"deleted": deleted})
}
