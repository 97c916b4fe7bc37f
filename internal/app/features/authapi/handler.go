// internal/app/features/authapi/handler.go
package authapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	userstore "github.com/bitragunta-sivaiah/brainbeyond-sub000/internal/app/store/users"
	"github.com/bitragunta-sivaiah/brainbeyond-sub000/internal/app/system/auth"
	"github.com/bitragunta-sivaiah/brainbeyond-sub000/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler owns the session authentication endpoints.
type Handler struct {
	Users    *userstore.Store
	Sessions *auth.SessionManager
	Log      *zap.Logger
}

// NewHandler constructs an authapi Handler.
func NewHandler(db *mongo.Database, sessions *auth.SessionManager, logger *zap.Logger) *Handler {
	return &Handler{
		Users:    userstore.New(db),
		Sessions: sessions,
		Log:      logger,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles POST /api/auth/login.
//
// Bad email and bad password return the same 401 body; the response
// never reveals which half failed.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	w.Header().Set("Content-Type", "application/json")

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "invalid request body"})
		return
	}

	user, err := h.Users.Authenticate(ctx, req.Email, req.Password)
	if errors.Is(err, userstore.ErrBadCredentials) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "invalid email or password"})
		return
	}
	if err != nil {
		h.Log.Error("authapi: authenticate failed", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "login failed"})
		return
	}

	if err := h.Sessions.SignIn(w, r, user.ID.Hex()); err != nil {
		h.Log.Error("authapi: session write failed", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "login failed"})
		return
	}

	h.Log.Info("user signed in", zap.String("user_id", user.ID.Hex()))

	_ = json.NewEncoder(w).Encode(map[string]any{
		"user": map[string]string{
			"id":       user.ID.Hex(),
			"fullName": user.FullName,
			"email":    user.Email,
			"role":     user.Role,
		},
	})
}

// Logout handles POST /api/auth/logout.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if err := h.Sessions.SignOut(w, r); err != nil {
		h.Log.Error("authapi: session clear failed", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "logout failed"})
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]bool{"ok": true})
}

// Me handles GET /api/auth/me: the signed-in user's identity, or 401.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	u, ok := auth.CurrentUser(r)
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "authentication required"})
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]any{
		"user": map[string]string{
			"id":       u.ID,
			"fullName": u.Name,
			"email":    u.Email,
			"role":     u.Role,
		},
	})
}
