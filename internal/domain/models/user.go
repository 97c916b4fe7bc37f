// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents admins, instructors, and students.
//
// NOTE:
//   - Chat membership is not embedded on User.
//     Use the chat_members collection to discover a user's chats.
//   - Role is the platform-wide role; a user's role *within* a chat
//     lives on ChatMembership and is independent of this field.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FullName     string             `bson:"full_name" json:"full_name"`
	Email        string             `bson:"email" json:"email"`
	Role         string             `bson:"role" json:"role"` // admin | instructor | student
	Status       string             `bson:"status,omitempty" json:"status,omitempty"`
	PasswordHash string             `bson:"password_hash,omitempty" json:"-"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
