// internal/domain/models/message.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Attachment is an opaque reference produced by the upload service.
// The chat service never inspects attachment content.
type Attachment struct {
	URL      string `bson:"url" json:"url"`
	MimeType string `bson:"mime_type" json:"mime_type"`
	Name     string `bson:"name" json:"name"`
}

// Reaction records a single emoji reaction by a single user.
// At most one document per (message, user, emoji): toggling the same
// emoji again removes it. Identity is the user's ObjectID, never a
// display name, which is not unique.
type Reaction struct {
	Emoji  string             `bson:"emoji" json:"emoji"`
	UserID primitive.ObjectID `bson:"user_id" json:"user_id"`
}

// Message is one entry in a chat's log.
//
// Deletion has two distinct semantics:
//   - soft delete sets IsDeleted and clears content, attachments, and
//     reactions; the document keeps its position in the log and renders
//     as a tombstone.
//   - permanent delete removes the document entirely and cannot be undone.
type Message struct {
	ID     primitive.ObjectID `bson:"_id" json:"id"`
	ChatID primitive.ObjectID `bson:"chat_id" json:"chat_id"`
	// SenderID is nil after the sender's account is removed.
	SenderID   *primitive.ObjectID `bson:"sender_id,omitempty" json:"sender_id,omitempty"`
	SenderName string              `bson:"sender_name,omitempty" json:"sender_name,omitempty"`

	Content     string       `bson:"content" json:"content"`
	Attachments []Attachment `bson:"attachments,omitempty" json:"attachments,omitempty"`
	Reactions   []Reaction   `bson:"reactions,omitempty" json:"reactions,omitempty"`

	IsDeleted bool `bson:"is_deleted" json:"is_deleted"`
	// IsInternalNote marks the support-ticket variant of a message.
	// The chat service stores the flag but gives it no workflow meaning.
	IsInternalNote bool `bson:"is_internal_note,omitempty" json:"is_internal_note,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// HasBody reports whether a non-deleted message satisfies the content
// invariant: non-empty text or at least one attachment.
func (m *Message) HasBody() bool {
	return m.Content != "" || len(m.Attachments) > 0
}
