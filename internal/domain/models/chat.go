// internal/domain/models/chat.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Chat represents a group chat attached to a course.
//
// NOTE:
//   - The member roster is not embedded on Chat.
//     All membership is stored in the chat_members collection.
//   - Preview is a denormalized copy of the latest message and exists
//     only so the chat list can render and sort without loading logs.
//     The chat_messages collection is authoritative for the full log.
type Chat struct {
	ID       primitive.ObjectID `bson:"_id" json:"id"`
	Name     string             `bson:"name" json:"name"`
	CourseID primitive.ObjectID `bson:"course_id" json:"course_id"`

	// Preview holds the last message sent to this chat, if any.
	Preview *Message `bson:"preview,omitempty" json:"preview,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	// UpdatedAt tracks recency for directory ordering. It is set from the
	// CreatedAt of the triggering message, not from local clocks, so both
	// senders and push recipients converge on the same order.
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
