// internal/app/features/chats/messages.go
package chats

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	messagestore "github.com/bitragunta-sivaiah/brainbeyond-sub000/internal/app/store/messages"
	"github.com/bitragunta-sivaiah/brainbeyond-sub000/internal/app/system/htmlsanitize"
	"github.com/bitragunta-sivaiah/brainbeyond-sub000/internal/app/system/realtime"
	"github.com/bitragunta-sivaiah/brainbeyond-sub000/internal/app/system/timeouts"
	"github.com/bitragunta-sivaiah/brainbeyond-sub000/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type sendMessageRequest struct {
	Content        string              `json:"content"`
	Attachments    []models.Attachment `json:"attachments"`
	IsInternalNote bool                `json:"isInternalNote"`
}

// SendMessage handles POST /api/chats/{chatID}/messages.
//
// The server assigns message identity and the creation timestamp; the
// 201 body carries the committed message so the sender renders exactly
// what other members receive over push. There is no optimistic echo:
// a message appears for its sender only once the server has stored it.
func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
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

	var req sendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	chat, err := h.Chats.GetByID(ctx, c.ChatID)
	if err == mongo.ErrNoDocuments {
		writeError(w, http.StatusNotFound, "chat not found")
		return
	}
	if err != nil {
		h.Log.Error("chats: load failed", zap.String("chat_id", c.ChatID.Hex()), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to send message")
		return
	}

	senderID := c.UserID
	msg, err := h.Messages.Append(ctx, models.Message{
		ChatID:         c.ChatID,
		SenderID:       &senderID,
		SenderName:     c.Name,
		Content:        htmlsanitize.Sanitize(req.Content),
		Attachments:    req.Attachments,
		IsInternalNote: req.IsInternalNote,
	})
	if errors.Is(err, messagestore.ErrEmptyMessage) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		h.Log.Error("chats: append failed", zap.String("chat_id", c.ChatID.Hex()), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to send message")
		return
	}

	// Directory recency follows the message's server timestamp, never
	// local clocks, so every member's chat list converges on one order.
	if err := h.Chats.TouchPreview(ctx, c.ChatID, msg); err != nil {
		h.Log.Error("chats: preview update failed", zap.String("chat_id", c.ChatID.Hex()), zap.Error(err))
	}

	h.publishToMembers(ctx, c.ChatID, realtime.NewMessage(c.ChatID.Hex(), chat.Name, msg))

	writeJSON(w, http.StatusCreated, map[string]any{"message": msg})
}

// publishToMembers fans an event out to every current member of the chat.
// Fan-out failures are logged, not surfaced: the write already committed
// and clients reconcile from REST the next time the chat is opened.
func (h *Handler) publishToMembers(ctx context.Context, chatID primitive.ObjectID, ev realtime.Event) {
	userIDs, err := h.Members.UserIDs(ctx, chatID)
	if err != nil {
		h.Log.Error("chats: fan-out roster lookup failed",
			zap.String("chat_id", chatID.Hex()), zap.Error(err))
		return
	}
	h.Hub.Publish(ctx, userIDs, ev)
}
