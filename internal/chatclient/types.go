// Package chatclient implements the client side of the chat protocol:
// the local message log, the chat directory, event routing, and the
// reconciliation rules that keep them consistent with the server.
//
// The package holds pure state. Callers own the HTTP client used for
// hydration and the UI layer that renders the state; the only network
// code here is the websocket subscription in Conn.
package chatclient

import "time"

// Attachment mirrors the server's attachment shape.
type Attachment struct {
	URL      string `json:"url"`
	MimeType string `json:"mime_type"`
	Name     string `json:"name"`
}

// Reaction is one member's emoji on a message.
type Reaction struct {
	Emoji  string `json:"emoji"`
	UserID string `json:"user_id"`
}

// Message is the wire shape of one log entry. IDs travel as hex strings;
// the client never interprets them beyond equality.
type Message struct {
	ID         string `json:"id"`
	ChatID     string `json:"chat_id"`
	SenderID   string `json:"sender_id,omitempty"`
	SenderName string `json:"sender_name,omitempty"`

	Content     string       `json:"content"`
	Attachments []Attachment `json:"attachments,omitempty"`
	Reactions   []Reaction   `json:"reactions,omitempty"`

	IsDeleted      bool `json:"is_deleted"`
	IsInternalNote bool `json:"is_internal_note,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// Chat is one directory entry.
type Chat struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	CourseID string   `json:"course_id"`
	Preview  *Message `json:"preview,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RosterEntry is one member row.
type RosterEntry struct {
	UserID     string `json:"user_id"`
	FullName   string `json:"full_name"`
	GlobalRole string `json:"global_role"`
	ChatRole   string `json:"chat_role"`
}

// Push event types, matching the server's envelope.
const (
	EventNewMessage    = "newMessage"
	EventUpdateMessage = "updateMessage"
	EventDeleteMessage = "deleteMessage"
)

// Event is the push envelope received over the websocket.
type Event struct {
	Type        string   `json:"type"`
	ChatID      string   `json:"chatId"`
	ChatName    string   `json:"chatName,omitempty"`
	Message     *Message `json:"message,omitempty"`
	MessageIDs  []string `json:"messageIds,omitempty"`
	IsPermanent bool     `json:"isPermanent,omitempty"`
}
