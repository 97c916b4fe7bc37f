// internal/app/features/chats/respond.go
package chats

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/bitragunta-sivaiah/brainbeyond-sub000/internal/app/policy/chatpolicy"
	"github.com/bitragunta-sivaiah/brainbeyond-sub000/internal/app/system/authz"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// writeJSON encodes v as the response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError emits the API error envelope: { "error": "..." }.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// caller is the per-request identity plus the resolved chat membership.
type caller struct {
	UserID     primitive.ObjectID
	Name       string
	GlobalRole string
	ChatID     primitive.ObjectID
	Membership chatpolicy.Membership
}

// resolveCaller parses {chatID} and resolves the signed-in user's
// membership in it. Membership is looked up fresh on every request;
// elevated checks must never run on a cached role. On failure it writes
// the error response and returns ok=false.
func (h *Handler) resolveCaller(ctx context.Context, w http.ResponseWriter, r *http.Request) (caller, bool) {
	role, name, userID, ok := authz.UserCtx(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return caller{}, false
	}

	chatID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "chatID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid chat id")
		return caller{}, false
	}

	m, err := chatpolicy.Resolve(ctx, h.DB, chatID, userID, role)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to resolve membership")
		return caller{}, false
	}

	return caller{
		UserID:     userID,
		Name:       name,
		GlobalRole: role,
		ChatID:     chatID,
		Membership: m,
	}, true
}

// parseIDList converts hex ids to ObjectIDs, dropping malformed entries.
func parseIDList(hexIDs []string) []primitive.ObjectID {
	ids := make([]primitive.ObjectID, 0, len(hexIDs))
	for _, s := range hexIDs {
		id, err := primitive.ObjectIDFromHex(s)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}
