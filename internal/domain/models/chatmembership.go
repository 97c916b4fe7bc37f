// internal/domain/models/chatmembership.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ChatMembership is the authoritative join between users and chats.
// Exactly one document per (chat_id, user_id); role is a scalar
// ("admin" | "instructor" | "student") and is independent of the
// user's platform-wide role.
type ChatMembership struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ChatID    primitive.ObjectID `bson:"chat_id" json:"chat_id"`
	UserID    primitive.ObjectID `bson:"user_id" json:"user_id"`
	Role      string             `bson:"role" json:"role"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}

// RosterEntry is the API shape for one roster row: the membership role
// joined with the member's display data.
type RosterEntry struct {
	UserID   primitive.ObjectID `json:"user_id"`
	FullName string             `json:"full_name"`
	// GlobalRole is the user's platform role (admin | instructor | student).
	GlobalRole string `json:"global_role"`
	// ChatRole is the user's role within this chat.
	ChatRole string `json:"chat_role"`
}
