// internal/app/features/chats/members.go
package chats

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	chatmemberstore "github.com/bitragunta-sivaiah/brainbeyond-sub000/internal/app/store/chatmembers"
	"github.com/bitragunta-sivaiah/brainbeyond-sub000/internal/app/system/timeouts"
	"github.com/bitragunta-sivaiah/brainbeyond-sub000/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// ListMembers handles GET /api/chats/{chatID}/members.
// Any member may view the roster; mutation requires elevation.
func (h *Handler) ListMembers(w http.ResponseWriter, r *http.Request) {
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

	roster, err := h.Members.Roster(ctx, c.ChatID)
	if err != nil {
		h.Log.Error("chats: load roster failed", zap.String("chat_id", c.ChatID.Hex()), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load roster")
		return
	}
	if roster == nil {
		roster = []models.RosterEntry{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"members": roster})
}

type addMembersRequest struct {
	UserIDs []string `json:"userIds"`
	Role    string   `json:"role"`
}

// AddMembers handles POST /api/chats/{chatID}/members.
//
// Adds each listed user with the given role (default "student"). Users
// already on the roster count as duplicates, not failures. The response
// carries the full updated roster so clients can swap theirs wholesale.
func (h *Handler) AddMembers(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	c, ok := h.resolveCaller(ctx, w, r)
	if !ok {
		return
	}
	if !c.Membership.CanManageRoster() {
		writeError(w, http.StatusForbidden, "elevated permission required")
		return
	}

	var req addMembersRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	role := req.Role
	if role == "" {
		role = "student"
	}

	ids := parseIDList(req.UserIDs)
	if len(ids) == 0 {
		writeError(w, http.StatusBadRequest, "no user ids given")
		return
	}

	result, err := h.Members.AddMany(ctx, c.ChatID, ids, role)
	if err != nil {
		h.Log.Error("chats: add members failed", zap.String("chat_id", c.ChatID.Hex()), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to add members")
		return
	}

	roster, err := h.Members.Roster(ctx, c.ChatID)
	if err != nil {
		h.Log.Error("chats: load roster failed", zap.String("chat_id", c.ChatID.Hex()), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load roster")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"added":      result.Added,
		"duplicates": result.Duplicates,
		"members":    roster,
	})
}

// RemoveMember handles DELETE /api/chats/{chatID}/members/{userID}.
// Like AddMembers, the response carries the full updated roster so
// clients can swap theirs wholesale.
func (h *Handler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	c, ok := h.resolveCaller(ctx, w, r)
	if !ok {
		return
	}
	if !c.Membership.CanManageRoster() {
		writeError(w, http.StatusForbidden, "elevated permission required")
		return
	}

	targetID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "userID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	if err := h.Members.Remove(ctx, c.ChatID, targetID); err != nil {
		if errors.Is(err, chatmemberstore.ErrNotAMember) {
			writeError(w, http.StatusNotFound, "user is not a member of this chat")
			return
		}
		h.Log.Error("chats: remove member failed", zap.String("chat_id", c.ChatID.Hex()), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to remove member")
		return
	}

	h.Log.Info("chat member removed",
		zap.String("chat_id", c.ChatID.Hex()),
		zap.String("user_id", targetID.Hex()),
		zap.String("removed_by", c.UserID.Hex()))

	roster, err := h.Members.Roster(ctx, c.ChatID)
	if err != nil {
		h.Log.Error("chats: load roster failed", zap.String("chat_id", c.ChatID.Hex()), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load roster")
		return
	}
	if roster == nil {
		roster = []models.RosterEntry{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"members": roster})
}

type setRoleRequest struct {
	Role string `json:"role"`
}

// SetMemberRole handles POST /api/chats/{chatID}/members/{userID}/role.
func (h *Handler) SetMemberRole(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	c, ok := h.resolveCaller(ctx, w, r)
	if !ok {
		return
	}
	if !c.Membership.CanManageRoster() {
		writeError(w, http.StatusForbidden, "elevated permission required")
		return
	}

	targetID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "userID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	var req setRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.Members.SetRole(ctx, c.ChatID, targetID, req.Role); err != nil {
		if errors.Is(err, chatmemberstore.ErrNotAMember) {
			writeError(w, http.StatusNotFound, "user is not a member of this chat")
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"updated": true})
}

// Leave handles POST /api/chats/{chatID}/leave. Any member may leave;
// their past messages stay in the log under their recorded sender name.
func (h *Handler) Leave(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	c, ok := h.resolveCaller(ctx, w, r)
	if !ok {
		return
	}

	if err := h.Members.Remove(ctx, c.ChatID, c.UserID); err != nil {
		if errors.Is(err, chatmemberstore.ErrNotAMember) {
			writeError(w, http.StatusNotFound, "not a member of this chat")
			return
		}
		h.Log.Error("chats: leave failed", zap.String("chat_id", c.ChatID.Hex()), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to leave chat")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"left": true})
}
