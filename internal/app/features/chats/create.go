// internal/app/features/chats/create.go
package chats

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	chatstore "github.com/bitragunta-sivaiah/brainbeyond-sub000/internal/app/store/chats"
	"github.com/bitragunta-sivaiah/brainbeyond-sub000/internal/app/system/authz"
	"github.com/bitragunta-sivaiah/brainbeyond-sub000/internal/app/system/timeouts"
	"github.com/bitragunta-sivaiah/brainbeyond-sub000/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type createChatRequest struct {
	Name      string   `json:"name"`
	CourseID  string   `json:"courseId"`
	MemberIDs []string `json:"memberIds"`
}

// Create handles POST /api/chats.
//
// Platform admins and instructors may create chats. The creator becomes
// the chat's admin; any listed members join as students and can be
// promoted afterwards through the roster endpoints.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	role, _, userID, ok := authz.UserCtx(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	if role != "admin" && role != "instructor" {
		writeError(w, http.StatusForbidden, "only admins and instructors can create chats")
		return
	}

	var req createChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	courseID, err := primitive.ObjectIDFromHex(req.CourseID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid course id")
		return
	}

	chat, err := h.Chats.Create(ctx, models.Chat{
		Name:     strings.TrimSpace(req.Name),
		CourseID: courseID,
	})
	if errors.Is(err, chatstore.ErrEmptyName) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		h.Log.Error("chats: create failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to create chat")
		return
	}

	if err := h.Members.Add(ctx, chat.ID, userID, "admin"); err != nil {
		h.Log.Error("chats: creator membership failed",
			zap.String("chat_id", chat.ID.Hex()), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to create chat")
		return
	}

	memberIDs := parseIDList(req.MemberIDs)
	if _, err := h.Members.AddMany(ctx, chat.ID, memberIDs, "student"); err != nil {
		h.Log.Error("chats: initial roster failed",
			zap.String("chat_id", chat.ID.Hex()), zap.Error(err))
	}

	h.Log.Info("chat created",
		zap.String("chat_id", chat.ID.Hex()),
		zap.String("created_by", userID.Hex()))

	writeJSON(w, http.StatusCreated, map[string]any{"chat": chat})
}
